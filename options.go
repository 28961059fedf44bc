package kestrel

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/kestrel/evaluator"
	"github.com/cloudcmds/kestrel/vm"
	"github.com/rs/zerolog"
)

// Engine selects how a program is executed.
type Engine string

const (
	// EngineVM compiles to bytecode and runs it on the virtual machine.
	EngineVM Engine = "vm"

	// EngineEval walks the syntax tree directly. It supports function
	// literals and calls, which have no bytecode form.
	EngineEval Engine = "eval"
)

// ParseEngine converts an engine name to an Engine.
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(name)) {
	case EngineVM, "":
		return EngineVM, nil
	case EngineEval:
		return EngineEval, nil
	default:
		return "", fmt.Errorf("unknown engine: %q (expected %q or %q)", name, EngineVM, EngineEval)
	}
}

// Option describes a function used to configure a kestrel evaluation.
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	filename     string
	engine       Engine
	vmOpts       []vm.Option
	maxCallDepth int
}

func collectOptions(opts ...Option) *options {
	o := &options{
		logger:       zerolog.Nop(),
		engine:       EngineVM,
		maxCallDepth: evaluator.DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) evaluatorOpts() []evaluator.Option {
	return []evaluator.Option{evaluator.WithMaxCallDepth(o.maxCallDepth)}
}

// wrap prefixes err with the filename, if one was given.
func (o *options) wrap(err error) error {
	if err == nil || o.filename == "" {
		return err
	}
	return fmt.Errorf("%s: %w", o.filename, err)
}

// WithLogger sets the logger that sessions report compile and run outcomes
// to. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFilename sets the filename for the source code being evaluated. It
// prefixes error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithEngine selects the execution engine. The default is EngineVM.
func WithEngine(engine Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithVMOptions passes options through to each virtual machine that is
// created. This option is additive.
func WithVMOptions(vmOpts ...vm.Option) Option {
	return func(o *options) {
		o.vmOpts = append(o.vmOpts, vmOpts...)
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return WithVMOptions(vm.WithObserver(observer))
}

// WithMaxCallDepth limits function call nesting in the tree-walking
// evaluator.
func WithMaxCallDepth(depth int) Option {
	return func(o *options) {
		o.maxCallDepth = depth
	}
}
