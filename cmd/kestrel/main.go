package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		exitWithError(err)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kestrel [file]",
		Short: "Compile and run kestrel programs",
		Long: `Kestrel compiles programs to bytecode and runs them on a stack
virtual machine. With no input on a terminal it starts an interactive REPL.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyColorFlag()
			return nil
		},
		RunE: runRoot,
	}

	pf := cmd.PersistentFlags()
	pf.StringP("code", "c", "", "Code to run")
	pf.Bool("stdin", false, "Read code from stdin")
	pf.String("config", "", "Path to a kestrel.toml file")
	pf.String("engine", "", `Execution engine: "vm" or "eval"`)
	pf.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.Int64("instruction-limit", 0, "Maximum instructions a program may execute")
	pf.Bool("trace", false, "Log every executed instruction to stderr")
	pf.Bool("no-color", false, "Disable colored output")
	pf.StringP("output", "o", "", "Output format: json or text")

	f := cmd.Flags()
	f.Bool("no-repl", false, "Disable the REPL")
	f.Bool("timing", false, "Show execution time")

	cmd.AddCommand(
		newDisCommand(),
		newASTCommand(),
		newEvalCommand(),
		newVersionCommand(),
	)

	viper.SetEnvPrefix("kestrel")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{
		"code", "stdin", "config", "engine", "log-level",
		"instruction-limit", "trace", "no-color", "output",
	} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
	_ = viper.BindPFlag("no-repl", f.Lookup("no-repl"))
	_ = viper.BindPFlag("timing", f.Lookup("timing"))

	cmd.SetIn(os.Stdin)
	return cmd
}
