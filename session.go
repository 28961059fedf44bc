package kestrel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cloudcmds/kestrel/compiler"
	"github.com/cloudcmds/kestrel/evaluator"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/parser"
	"github.com/cloudcmds/kestrel/vm"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// ErrSessionBusy is returned when a Session is used from a second goroutine
// while an evaluation is already in progress.
var ErrSessionBusy = errors.New("session is already in use")

// Session provides stateful execution for a REPL and incremental
// evaluation. Variables bound by one Eval call remain visible to the next.
//
// With EngineVM a session owns a symbol table and a global store shared by
// every program it compiles. With EngineEval it owns an environment. A
// session survives any failed evaluation. A program that fails to compile
// leaves no new names defined.
type Session struct {
	mu     sync.Mutex
	id     uuid.UUID
	opts   *options
	logger zerolog.Logger

	symbols *compiler.SymbolTable
	globals *vm.Globals
	env     *object.Environment
}

// NewSession creates a Session with empty state.
func NewSession(opts ...Option) *Session {
	o := collectOptions(opts...)
	id := uuid.Must(uuid.NewV4())
	s := &Session{
		id:     id,
		opts:   o,
		logger: o.logger.With().Str("session", id.String()).Logger(),
	}
	s.reset()
	return s
}

// ID uniquely identifies the session in log output.
func (s *Session) ID() string {
	return s.id.String()
}

// Engine returns the engine the session evaluates with.
func (s *Session) Engine() Engine {
	return s.opts.engine
}

// Eval evaluates source code within this session's context and returns the
// value of the last expression statement.
func (s *Session) Eval(ctx context.Context, source string) (object.Object, error) {
	if !s.mu.TryLock() {
		return nil, ErrSessionBusy
	}
	defer s.mu.Unlock()

	start := time.Now()
	var (
		value object.Object
		err   error
	)
	switch s.opts.engine {
	case EngineEval:
		value, err = s.evalTree(ctx, source)
	default:
		value, err = s.evalBytecode(ctx, source)
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("engine", string(s.opts.engine)).Msg("eval failed")
		return nil, s.opts.wrap(err)
	}
	s.logger.Debug().
		Str("engine", string(s.opts.engine)).
		Dur("elapsed", time.Since(start)).
		Str("result", value.Inspect()).
		Msg("eval")
	return value, nil
}

func (s *Session) evalBytecode(ctx context.Context, source string) (object.Object, error) {
	ast, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	snapshot := s.symbols.Clone()
	c := compiler.New(compiler.WithSymbolTable(s.symbols))
	if err := c.Compile(ast); err != nil {
		s.symbols = snapshot
		return nil, err
	}
	bytecode := c.Bytecode()
	s.logger.Debug().
		Int("instructions", len(bytecode.Instructions)).
		Int("constants", len(bytecode.Constants)).
		Msg("compiled")

	vmOpts := append([]vm.Option{}, s.opts.vmOpts...)
	vmOpts = append(vmOpts, vm.WithGlobals(s.globals))
	machine := vm.New(bytecode, vmOpts...)
	if err := machine.Run(ctx); err != nil {
		return nil, err
	}
	return result(machine), nil
}

func (s *Session) evalTree(ctx context.Context, source string) (object.Object, error) {
	ast, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return evaluator.Eval(ctx, ast, s.env, s.opts.evaluatorOpts()...)
}

// Compile compiles source against the names this session has defined,
// without running it and without changing the session.
func (s *Session) Compile(source string) (*Program, error) {
	s.mu.Lock()
	symbols := s.symbols.Clone()
	s.mu.Unlock()
	return compileWith(source, symbols, s.opts)
}

// Reset discards every binding, returning the session to its initial state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.logger.Debug().Msg("reset")
}

func (s *Session) reset() {
	s.symbols = compiler.NewSymbolTable()
	s.globals = vm.NewGlobals()
	s.env = object.NewEnvironment()
}

// Globals returns the current value of every bound variable. A name whose
// defining statement never ran has no entry.
func (s *Session) Globals() map[string]object.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := map[string]object.Object{}
	if s.opts.engine == EngineEval {
		for _, name := range s.env.Names() {
			values[name], _ = s.env.Get(name)
		}
		return values
	}
	for _, symbol := range s.symbols.Symbols() {
		if value, ok := s.globals.Get(symbol.Index); ok {
			values[symbol.Name] = value
		}
	}
	return values
}

// GlobalNames returns the names bound in this session, sorted.
func (s *Session) GlobalNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.engine == EngineEval {
		return s.env.Names()
	}
	return s.symbols.Names()
}
