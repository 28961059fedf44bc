package main

import (
	"strings"

	"github.com/cloudcmds/kestrel"
	"github.com/spf13/cobra"
)

func newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [expr]",
		Short: "Evaluate source with the tree-walking evaluator",
		Long: `Evaluate source by walking its syntax tree instead of compiling it.
The evaluator supports function literals, calls, and return statements.`,
		Args: cobra.ArbitraryArgs,
		RunE: runEval,
	}
	cmd.Flags().BoolP("quiet", "q", false, "Suppress output")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	opts, err := getKestrelOptions(cfg, logger)
	if err != nil {
		return err
	}
	opts = append(opts, kestrel.WithEngine(kestrel.EngineEval))

	var code string
	if len(args) > 0 {
		code = strings.Join(args, " ")
	} else if code, err = getCode(cmd, nil); err != nil {
		return err
	}

	result, err := kestrel.Eval(cmd.Context(), code, opts...)
	if err != nil {
		return friendlyError(err, code)
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	return printResult(cmd, result)
}
