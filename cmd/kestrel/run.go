package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudcmds/kestrel"
	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/internal/config"
	"github.com/cloudcmds/kestrel/internal/repl"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/parser"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runRoot(cmd *cobra.Command, args []string) error {
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

	if shouldRunRepl(cmd, args) {
		return runRepl(cmd, cfg, opts)
	}

	code, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	if file := getFilename(args); file != "" {
		opts = append(opts, kestrel.WithFilename(file))
	}

	start := time.Now()
	result, err := kestrel.Eval(cmd.Context(), code, opts...)
	if err != nil {
		return friendlyError(err, code)
	}
	dt := time.Since(start)

	if err := printResult(cmd, result); err != nil {
		return err
	}
	if viper.GetBool("timing") {
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", dt)
	}
	return nil
}

func runRepl(cmd *cobra.Command, cfg *config.Config, opts []kestrel.Option) error {
	history, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	r := repl.New(kestrel.NewSession(opts...),
		repl.WithPrompt(cfg.REPL.Prompt),
		repl.WithHistoryPath(history),
		repl.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	return r.Run(cmd.Context())
}

func printResult(cmd *cobra.Command, result object.Object) error {
	output, err := formatResult(result, viper.GetString("output"))
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	}
	return nil
}

// formatResult renders a program result. With no format given, a null
// result prints nothing and anything else prints its inspected form.
func formatResult(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		if result == object.Null {
			return "", nil
		}
		return result.Inspect(), nil
	case "text":
		return result.Inspect(), nil
	case "json":
		data, err := marshalJSON(result)
		return string(data), err
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// wantsJSON reports whether --output json was requested.
func wantsJSON() bool {
	return strings.EqualFold(viper.GetString("output"), "json")
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// marshalJSON indents v, adding colors unless they are turned off.
func marshalJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

// friendlyError appends source snippets for syntax errors and any "did you
// mean" hint to the error text.
func friendlyError(err error, source string) error {
	extra := strings.TrimPrefix(parser.FriendlyErrorMessage(err, source), err.Error())
	var e *errz.Error
	if errors.As(err, &e) {
		if hint := errz.FormatSuggestions(e.Suggestions); hint != "" {
			extra += "\n" + hint
		}
	}
	if extra == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, extra)
}
