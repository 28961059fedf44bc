// Package repl implements the interactive kestrel prompt.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cloudcmds/kestrel"
	"github.com/cloudcmds/kestrel/dis"
	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/parser"
	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
)

const continuationPrompt = ".. "

const helpText = `Statements end with ";". Commands:
  :help            show this help
  :globals         list bound variables
  :dis <source>    show the bytecode for source
  :reset           discard all variables
  :quit            leave the REPL`

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// REPL evaluates lines of input against one kestrel Session.
type REPL struct {
	session     *kestrel.Session
	prompt      string
	historyPath string
	out         io.Writer
	errOut      io.Writer
}

// Option is a configuration function for a REPL.
type Option func(*REPL)

// WithPrompt sets the primary prompt.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithHistoryPath persists line history to path. History is not kept when
// the path is empty.
func WithHistoryPath(path string) Option {
	return func(r *REPL) {
		r.historyPath = path
	}
}

// WithOutput redirects results and errors.
func WithOutput(out, errOut io.Writer) Option {
	return func(r *REPL) {
		r.out = out
		r.errOut = errOut
	}
}

// New returns a REPL that evaluates input in session.
func New(session *kestrel.Session, opts ...Option) *REPL {
	r := &REPL{
		session: session,
		prompt:  ">> ",
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads and evaluates input until the user quits, input ends, or ctx is
// cancelled.
func (r *REPL) Run(ctx context.Context) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if r.historyPath != "" {
		if f, err := os.Open(r.historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer r.saveHistory(ln)
	}

	fmt.Fprintf(r.out, "kestrel (%s engine). Type :help for commands.\n", r.session.Engine())
	for ctx.Err() == nil {
		source, err := r.read(ln)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(source, "\n", " "))
		if quit := r.Process(ctx, source); quit {
			return nil
		}
	}
	return ctx.Err()
}

func (r *REPL) saveHistory(ln *liner.State) {
	f, err := os.Create(r.historyPath)
	if err != nil {
		log.Debug().Err(err).Str("path", r.historyPath).Msg("cannot write history")
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		log.Debug().Err(err).Str("path", r.historyPath).Msg("cannot write history")
	}
}

// read returns one complete input, prompting for more lines while the
// source parses as incomplete.
func (r *REPL) read(ln *liner.State) (string, error) {
	var b strings.Builder
	for {
		prompt := r.prompt
		if b.Len() > 0 {
			prompt = continuationPrompt
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !NeedsMore(b.String()) {
			return b.String(), nil
		}
	}
}

// NeedsMore reports whether source is a command-free input that ends before
// its last statement is complete.
func NeedsMore(source string) bool {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" || strings.HasPrefix(trimmed, ":") {
		return false
	}
	_, err := parser.Parse(context.Background(), source)
	return err != nil && parser.IsIncomplete(err)
}

// Process evaluates one input, which is either a command or source code,
// and prints the outcome. It reports whether the user asked to quit.
func (r *REPL) Process(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ":") {
		return r.command(trimmed)
	}
	result, err := r.session.Eval(ctx, input)
	if err != nil {
		r.printError(err, input)
		return false
	}
	fmt.Fprintln(r.out, result.Inspect())
	return false
}

func (r *REPL) command(input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	switch name {
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		fmt.Fprintln(r.out, helpText)
	case ":reset":
		r.session.Reset()
		fmt.Fprintln(r.out, "session reset")
	case ":globals":
		r.printGlobals()
	case ":dis":
		r.disassemble(arg)
	default:
		fmt.Fprintln(r.errOut, red(fmt.Sprintf("unknown command %s (type :help)", name)))
	}
	return false
}

func (r *REPL) printGlobals() {
	globals := r.session.Globals()
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.out, "%s = %s\n", cyan(name), globals[name].Inspect())
	}
}

func (r *REPL) disassemble(source string) {
	if strings.TrimSpace(source) == "" {
		fmt.Fprintln(r.errOut, red("usage: :dis <source>"))
		return
	}
	program, err := r.session.Compile(source)
	if err != nil {
		r.printError(err, source)
		return
	}
	instructions, err := program.Disassemble()
	if err != nil {
		r.printError(err, source)
		return
	}
	dis.Print(instructions, r.out)
}

func (r *REPL) printError(err error, source string) {
	fmt.Fprintln(r.errOut, red(parser.FriendlyErrorMessage(err, source)))
	var e *errz.Error
	if errors.As(err, &e) && len(e.Suggestions) > 0 {
		fmt.Fprintln(r.errOut, yellow(errz.FormatSuggestions(e.Suggestions)))
	}
}
