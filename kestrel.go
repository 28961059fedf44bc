// Package kestrel compiles and runs programs written in the kestrel
// language.
//
// A program is a sequence of semicolon-terminated statements over 32-bit
// integers, strings, and booleans:
//
//	let one = 1;
//	if (one < 2) { 10; } else { 20; };
//
// Compile turns source into a Program of bytecode, Run executes a Program on
// a fresh virtual machine, and Eval does both. A Session keeps variables
// alive from one evaluation to the next, as a REPL does.
package kestrel

import (
	"context"

	"github.com/cloudcmds/kestrel/compiler"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/parser"
	"github.com/cloudcmds/kestrel/vm"
)

// Compile parses and compiles source code into executable bytecode.
func Compile(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	return compileWith(source, compiler.NewSymbolTable(), o)
}

func compileWith(source string, symbols *compiler.SymbolTable, o *options) (*Program, error) {
	ast, err := parser.Parse(context.Background(), source)
	if err != nil {
		return nil, o.wrap(err)
	}
	c := compiler.New(compiler.WithSymbolTable(symbols))
	if err := c.Compile(ast); err != nil {
		return nil, o.wrap(err)
	}
	return &Program{
		bytecode: c.Bytecode(),
		symbols:  symbols,
		source:   source,
		filename: o.filename,
	}, nil
}

// Run executes a compiled program on a new virtual machine and returns the
// value of its last expression statement.
func Run(ctx context.Context, program *Program, opts ...Option) (object.Object, error) {
	o := collectOptions(opts...)
	machine := vm.New(program.bytecode, o.vmOpts...)
	if err := machine.Run(ctx); err != nil {
		return nil, o.wrap(err)
	}
	return result(machine), nil
}

// Eval is a convenience function that evaluates source code in a new
// Session and returns the result.
func Eval(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	return NewSession(opts...).Eval(ctx, source)
}

// result returns the value of the final statement of a finished run, or
// null when that statement is a let or the program is empty. This matches
// the evaluator, where a let statement has the value null.
func result(machine *vm.VirtualMachine) object.Object {
	if obj := machine.Result(); obj != nil {
		return obj
	}
	return object.Null
}
