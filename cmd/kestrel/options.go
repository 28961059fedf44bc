package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/cloudcmds/kestrel"
	"github.com/cloudcmds/kestrel/internal/config"
	"github.com/cloudcmds/kestrel/vm"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadConfig returns the project configuration with flag and environment
// values applied on top. An explicit --config file must exist; otherwise
// kestrel.toml is searched for from the working directory upward.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := viper.GetString("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = config.FindAndLoad(wd)
		}
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if engine := viper.GetString("engine"); engine != "" {
		cfg.REPL.Engine = strings.ToLower(engine)
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if limit := viper.GetInt64("instruction-limit"); limit > 0 {
		cfg.VM.InstructionLimit = limit
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a console logger on stderr at the configured level.
// Tracing lowers the level to debug so that instruction events are shown.
func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	if viper.GetBool("trace") && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, nil
}

// getKestrelOptions translates the configuration into session options.
func getKestrelOptions(cfg *config.Config, logger zerolog.Logger) ([]kestrel.Option, error) {
	engine, err := kestrel.ParseEngine(cfg.REPL.Engine)
	if err != nil {
		return nil, err
	}
	opts := []kestrel.Option{
		kestrel.WithLogger(logger),
		kestrel.WithEngine(engine),
		kestrel.WithVMOptions(cfg.VMOptions()...),
	}
	if viper.GetBool("trace") {
		opts = append(opts, kestrel.WithObserver(vm.NewLogObserver(logger)))
	}
	return opts, nil
}

func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	if viper.GetBool("no-repl") || viper.GetBool("stdin") {
		return false
	}
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		return false
	}
	if len(args) > 0 {
		return false
	}
	return stdioIsTerminal()
}

var errNoInput = errors.New("no input: pass a file, --code, or --stdin")

// getCode determines the source to run. There are three possibilities:
// --code <code>, --stdin, or a path as args[0]. Exactly one may be given.
func getCode(cmd *cobra.Command, args []string) (string, error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	stdinFlagSet, _ := cmd.Flags().GetBool("stdin")
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(data), nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	case codeFlagSet:
		return cmd.Flags().GetString("code")
	}
	return "", errNoInput
}

// getFilename returns the file being run, if any, for error messages.
func getFilename(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
