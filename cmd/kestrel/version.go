package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
