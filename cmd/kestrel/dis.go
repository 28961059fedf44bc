package main

import (
	"fmt"

	"github.com/cloudcmds/kestrel"
	"github.com/cloudcmds/kestrel/dis"
	"github.com/spf13/cobra"
)

func newDisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble kestrel bytecode",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDis,
	}
	cmd.Flags().Bool("stats", false, "Print program statistics after the listing")
	return cmd
}

func runDis(cmd *cobra.Command, args []string) error {
	code, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	program, err := kestrel.Compile(code, kestrel.WithFilename(getFilename(args)))
	if err != nil {
		return friendlyError(err, code)
	}
	instructions, err := program.Disassemble()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantsJSON() {
		return printJSON(out, instructions)
	}
	dis.Print(instructions, out)

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		s := program.Stats()
		fmt.Fprintf(out, "instructions: %d (%d bytes)\n", s.InstructionCount, s.InstructionBytes)
		fmt.Fprintf(out, "constants: %d\n", s.ConstantCount)
		fmt.Fprintf(out, "globals: %d\n", s.GlobalCount)
	}
	return nil
}
