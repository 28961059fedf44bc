// Package compiler is used to compile a kestrel abstract syntax tree (AST)
// into the corresponding bytecode.
//
// Compilation is a single depth-first pass that appends to one instruction
// stream and one constant pool. Names are resolved against a SymbolTable of
// global slots. Function literals, calls, and return statements have no
// bytecode form and are rejected with an errz.UnsupportedConstruct error.
//
// # Conditionals
//
// An if expression is lowered with forward jumps whose targets are not known
// when the jump is emitted. The jump is written with a Placeholder operand
// and back-patched in place once the target offset is known:
//
//	<cond>
//	JumpIfNotTrue <else>
//	<consequence, trailing Pop removed>
//	Jump <end>              (only with an else branch)
//	<else>: <alternative, trailing Pop removed>
//	<end>:
//
// Removing the trailing Pop from each branch leaves the branch value on the
// stack as the value of the if expression.
package compiler

import (
	"math"

	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/object"
	"github.com/cloudcmds/kestrel/op"
)

// Placeholder is a temporary jump operand, always replaced before
// compilation is complete.
const Placeholder = uint16(math.MaxUint16)

// emittedInstruction records the opcode and offset of an emitted instruction.
type emittedInstruction struct {
	code     op.Code
	position int
}

// Compiler is used to compile kestrel AST into its corresponding bytecode.
type Compiler struct {
	instructions op.Instructions
	constants    []object.Object
	symbols      *SymbolTable

	lastInstruction     emittedInstruction
	previousInstruction emittedInstruction
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithSymbolTable compiles against an existing symbol table, so names defined
// by earlier compilations resolve to the same slots. The table is modified
// in place.
func WithSymbolTable(symbols *SymbolTable) Option {
	return func(c *Compiler) {
		c.symbols = symbols
	}
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range options {
		opt(c)
	}
	if c.symbols == nil {
		c.symbols = NewSymbolTable()
	}
	return c
}

// Compile compiles the given program and returns its bytecode.
func Compile(program *ast.Program, options ...Option) (*Bytecode, error) {
	c := New(options...)
	if err := c.Compile(program); err != nil {
		return nil, err
	}
	return c.Bytecode(), nil
}

// Compile compiles each statement of the program in order. If a statement
// fails to compile, everything emitted or defined for that statement is
// discarded, including names bound by nested let statements, and the error
// is returned; statements compiled before it are kept.
func (c *Compiler) Compile(program *ast.Program) error {
	for _, stmt := range program.Stmts {
		insLen, constLen := len(c.instructions), len(c.constants)
		symbols := c.symbols.Clone()
		if err := c.compile(stmt); err != nil {
			c.instructions = c.instructions[:insLen]
			c.constants = c.constants[:constLen]
			c.symbols.Restore(symbols)
			c.lastInstruction = emittedInstruction{}
			c.previousInstruction = emittedInstruction{}
			return err
		}
	}
	return nil
}

// Bytecode returns the compiled instructions and constants. Ownership passes
// to the caller.
func (c *Compiler) Bytecode() *Bytecode {
	return &Bytecode{Instructions: c.instructions, Constants: c.constants}
}

// SymbolTable returns the table names are resolved against.
func (c *Compiler) SymbolTable() *SymbolTable {
	return c.symbols
}

// compile the given AST node and all its children.
func (c *Compiler) compile(node ast.Node) error {
	switch node := node.(type) {
	case *ast.ExprStmt:
		if err := c.compile(node.X); err != nil {
			return err
		}
		c.emit(op.Pop)
	case *ast.Let:
		return c.compileLet(node)
	case *ast.Block:
		for _, stmt := range node.Stmts {
			if err := c.compile(stmt); err != nil {
				return err
			}
		}
	case *ast.Int:
		return c.emitConstant(object.NewInt(node.Value))
	case *ast.String:
		return c.emitConstant(object.NewString(node.Value))
	case *ast.Bool:
		if node.Value {
			c.emit(op.True)
		} else {
			c.emit(op.False)
		}
	case *ast.Ident:
		return c.compileIdent(node)
	case *ast.Prefix:
		return c.compilePrefix(node)
	case *ast.Infix:
		return c.compileInfix(node)
	case *ast.If:
		return c.compileIf(node)
	case *ast.Return:
		return unsupported("return statements")
	case *ast.Func:
		return unsupported("function literals")
	case *ast.Call:
		return unsupported("function calls")
	default:
		return errz.Errorf(errz.UnsupportedConstruct, "unknown ast node type: %T", node)
	}
	return nil
}

func unsupported(what string) error {
	return errz.Errorf(errz.UnsupportedConstruct, "%s cannot be compiled to bytecode", what)
}

func (c *Compiler) compileLet(node *ast.Let) error {
	if err := c.compile(node.Value); err != nil {
		return err
	}
	symbol, err := c.symbols.Define(node.Name.Name)
	if err != nil {
		return err
	}
	c.emit(op.SetGlobal, symbol.Index)
	return nil
}

func (c *Compiler) compileIdent(node *ast.Ident) error {
	symbol, ok := c.symbols.Resolve(node.Name)
	if !ok {
		err := errz.Errorf(errz.UndefinedVariable, "%q is not defined", node.Name)
		err.Suggestions = errz.SuggestSimilar(node.Name, c.symbols.Names())
		return err
	}
	c.emit(op.GetGlobal, symbol.Index)
	return nil
}

func (c *Compiler) compilePrefix(node *ast.Prefix) error {
	if err := c.compile(node.X); err != nil {
		return err
	}
	switch node.Op {
	case "!":
		c.emit(op.Bang)
	case "-":
		c.emit(op.Minus)
	default:
		return errz.Errorf(errz.UnsupportedConstruct, "unknown prefix operator: %s", node.Op)
	}
	return nil
}

func (c *Compiler) compileInfix(node *ast.Infix) error {
	// a < b is compiled as b > a so that one comparison opcode serves both.
	if node.Op == "<" {
		if err := c.compile(node.Y); err != nil {
			return err
		}
		if err := c.compile(node.X); err != nil {
			return err
		}
		c.emit(op.GreaterThan)
		return nil
	}
	if err := c.compile(node.X); err != nil {
		return err
	}
	if err := c.compile(node.Y); err != nil {
		return err
	}
	switch node.Op {
	case "+":
		c.emit(op.Add)
	case "-":
		c.emit(op.Sub)
	case "*":
		c.emit(op.Mul)
	case "/":
		c.emit(op.Div)
	case ">":
		c.emit(op.GreaterThan)
	case "==":
		c.emit(op.Equal)
	case "!=":
		c.emit(op.NotEqual)
	default:
		return errz.Errorf(errz.UnsupportedConstruct, "unknown infix operator: %s", node.Op)
	}
	return nil
}

func (c *Compiler) compileIf(node *ast.If) error {
	if err := c.compile(node.Cond); err != nil {
		return err
	}
	jumpIfNotTruePos := c.emit(op.JumpIfNotTrue, Placeholder)
	if err := c.compile(node.Consequence); err != nil {
		return err
	}
	c.removeLastPop()

	if node.Alternative == nil {
		target, err := c.jumpTarget(0)
		if err != nil {
			return err
		}
		c.changeOperand(jumpIfNotTruePos, target)
		return nil
	}

	// On false, resume just past the Jump that skips the alternative.
	target, err := c.jumpTarget(op.GetInfo(op.Jump).Width())
	if err != nil {
		return err
	}
	c.changeOperand(jumpIfNotTruePos, target)
	jumpPos := c.emit(op.Jump, Placeholder)
	if err := c.compile(node.Alternative); err != nil {
		return err
	}
	c.removeLastPop()
	target, err = c.jumpTarget(0)
	if err != nil {
		return err
	}
	c.changeOperand(jumpPos, target)
	return nil
}

// jumpTarget returns the current end of the instruction stream plus offset,
// as a jump operand.
func (c *Compiler) jumpTarget(offset int) (uint16, error) {
	target := len(c.instructions) + offset
	if target > op.MaxOperand {
		return 0, errz.Errorf(errz.LimitExceeded,
			"jump target %d exceeds the maximum offset %d", target, op.MaxOperand)
	}
	return uint16(target), nil
}

// changeOperand rewrites the operand of the instruction at position.
func (c *Compiler) changeOperand(position int, operand uint16) {
	c.replaceInstruction(position, op.Make(op.Code(c.instructions[position]), operand))
}

// replaceInstruction overwrites the instruction at position with one of the
// same encoded width. The stream never changes length, so no other offsets
// move.
func (c *Compiler) replaceInstruction(position int, instruction []byte) {
	existing := op.GetInfo(op.Code(c.instructions[position])).Width()
	if existing != len(instruction) || position+existing > len(c.instructions) {
		panic("compiler: replacement instruction width does not match")
	}
	copy(c.instructions[position:], instruction)
}

func (c *Compiler) removeLastPop() {
	if c.lastInstruction.code != op.Pop {
		return
	}
	c.instructions = c.instructions[:c.lastInstruction.position]
	c.lastInstruction = c.previousInstruction
}

func (c *Compiler) emitConstant(obj object.Object) error {
	if len(c.constants) > op.MaxOperand {
		return errz.Errorf(errz.LimitExceeded,
			"number of constants exceeds the limit of %d", op.MaxOperand+1)
	}
	c.constants = append(c.constants, obj)
	c.emit(op.Constant, uint16(len(c.constants)-1))
	return nil
}

func (c *Compiler) emit(opcode op.Code, operands ...uint16) int {
	position := len(c.instructions)
	c.instructions = append(c.instructions, op.Make(opcode, operands...)...)
	c.previousInstruction = c.lastInstruction
	c.lastInstruction = emittedInstruction{code: opcode, position: position}
	return position
}
