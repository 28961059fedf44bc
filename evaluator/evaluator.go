// Package evaluator executes a kestrel AST directly, without compiling it to
// bytecode.
//
// The evaluator covers the whole language, including function literals,
// calls, and return statements, which the compiler rejects. Operators follow
// the same typing rules as the virtual machine so that a program accepted by
// both engines produces the same value.
package evaluator

import (
	"context"

	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/object"
)

// DefaultMaxCallDepth is the default limit on nested function calls.
const DefaultMaxCallDepth = 1000

// Option is a configuration function for an Evaluator.
type Option func(*Evaluator)

// WithMaxCallDepth limits how deeply function calls may nest. A value of 0
// removes the limit.
func WithMaxCallDepth(depth int) Option {
	return func(e *Evaluator) {
		e.maxCallDepth = depth
	}
}

// Evaluator walks an AST and computes its value.
type Evaluator struct {
	maxCallDepth int
	callDepth    int
}

// New returns an Evaluator configured with the given options.
func New(options ...Option) *Evaluator {
	e := &Evaluator{maxCallDepth: DefaultMaxCallDepth}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Eval evaluates the program in env using a new Evaluator.
func Eval(ctx context.Context, program *ast.Program, env *object.Environment, options ...Option) (object.Object, error) {
	return New(options...).Eval(ctx, program, env)
}

// Eval evaluates each statement of the program in order and returns the
// value of the last one. A let statement has the value null. A top-level
// return statement ends the program with its value.
func (e *Evaluator) Eval(ctx context.Context, program *ast.Program, env *object.Environment) (object.Object, error) {
	var result object.Object = object.Null
	for _, stmt := range program.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		value, err := e.evalStmt(ctx, stmt, env)
		if err != nil {
			return nil, err
		}
		if rv, ok := value.(*returnValue); ok {
			return rv.value, nil
		}
		result = value
	}
	return result, nil
}

func cancelled(cause error) error {
	return errz.New(errz.ResourceExceeded, "evaluation cancelled").WithCause(cause)
}

func (e *Evaluator) evalStmt(ctx context.Context, stmt ast.Stmt, env *object.Environment) (object.Object, error) {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		return e.evalExpr(ctx, stmt.X, env)
	case *ast.Let:
		value, err := e.evalExpr(ctx, stmt.Value, env)
		if err != nil || isReturn(value) {
			return value, err
		}
		env.Set(stmt.Name.Name, value)
		return object.Null, nil
	case *ast.Return:
		value, err := e.evalExpr(ctx, stmt.Value, env)
		if err != nil || isReturn(value) {
			return value, err
		}
		return &returnValue{value: value}, nil
	default:
		return nil, errz.Errorf(errz.UnsupportedConstruct, "unknown statement type: %T", stmt)
	}
}

// evalBlock evaluates the statements of a block in env. Blocks do not open a
// new scope. A return inside the block stops it and propagates.
func (e *Evaluator) evalBlock(ctx context.Context, block *ast.Block, env *object.Environment) (object.Object, error) {
	var result object.Object = object.Null
	for _, stmt := range block.Stmts {
		value, err := e.evalStmt(ctx, stmt, env)
		if err != nil || isReturn(value) {
			return value, err
		}
		result = value
	}
	return result, nil
}

func (e *Evaluator) evalExpr(ctx context.Context, expr ast.Expr, env *object.Environment) (object.Object, error) {
	switch expr := expr.(type) {
	case *ast.Int:
		return object.NewInt(expr.Value), nil
	case *ast.String:
		return object.NewString(expr.Value), nil
	case *ast.Bool:
		return object.NewBool(expr.Value), nil
	case *ast.Ident:
		return evalIdent(expr, env)
	case *ast.Prefix:
		operand, err := e.evalExpr(ctx, expr.X, env)
		if err != nil || isReturn(operand) {
			return operand, err
		}
		return evalPrefix(expr.Op, operand)
	case *ast.Infix:
		left, err := e.evalExpr(ctx, expr.X, env)
		if err != nil || isReturn(left) {
			return left, err
		}
		right, err := e.evalExpr(ctx, expr.Y, env)
		if err != nil || isReturn(right) {
			return right, err
		}
		return evalInfix(expr.Op, left, right)
	case *ast.If:
		return e.evalIf(ctx, expr, env)
	case *ast.Func:
		return object.NewFunction(expr.Params, expr.Body, env), nil
	case *ast.Call:
		return e.evalCall(ctx, expr, env)
	default:
		return nil, errz.Errorf(errz.UnsupportedConstruct, "unknown expression type: %T", expr)
	}
}

func evalIdent(node *ast.Ident, env *object.Environment) (object.Object, error) {
	if value, ok := env.Get(node.Name); ok {
		return value, nil
	}
	err := errz.Errorf(errz.UndefinedVariable, "%q is not defined", node.Name)
	err.Suggestions = errz.SuggestSimilar(node.Name, env.Names())
	return nil, err
}

// evalIf evaluates the branch selected by the condition. The value of the
// if expression is the value of that branch, or null when the condition is
// false and there is no else branch.
func (e *Evaluator) evalIf(ctx context.Context, node *ast.If, env *object.Environment) (object.Object, error) {
	cond, err := e.evalExpr(ctx, node.Cond, env)
	if err != nil || isReturn(cond) {
		return cond, err
	}
	b, ok := cond.(*object.Bool)
	if !ok {
		return nil, errz.Errorf(errz.TypeMismatch, "condition must be a bool (got %s)", cond.Type())
	}
	switch {
	case b.Value():
		return e.evalBlock(ctx, node.Consequence, env)
	case node.Alternative != nil:
		return e.evalBlock(ctx, node.Alternative, env)
	default:
		return object.Null, nil
	}
}

func (e *Evaluator) evalCall(ctx context.Context, node *ast.Call, env *object.Environment) (object.Object, error) {
	callee, err := e.evalExpr(ctx, node.Fun, env)
	if err != nil || isReturn(callee) {
		return callee, err
	}
	fn, ok := callee.(*object.Function)
	if !ok {
		return nil, errz.Errorf(errz.TypeMismatch, "%s is not callable", callee.Type())
	}
	args := make([]object.Object, 0, len(node.Args))
	for _, arg := range node.Args {
		value, err := e.evalExpr(ctx, arg, env)
		if err != nil || isReturn(value) {
			return value, err
		}
		args = append(args, value)
	}
	return e.apply(ctx, fn, args)
}

// apply calls fn with args in a new environment enclosed by the one fn
// captured when it was defined.
func (e *Evaluator) apply(ctx context.Context, fn *object.Function, args []object.Object) (object.Object, error) {
	params := fn.Params()
	if len(args) != len(params) {
		return nil, errz.Errorf(errz.Runtime,
			"wrong number of arguments: expected %d, got %d", len(params), len(args))
	}
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	if e.maxCallDepth > 0 && e.callDepth >= e.maxCallDepth {
		return nil, errz.Errorf(errz.ResourceExceeded,
			"maximum call depth of %d exceeded", e.maxCallDepth)
	}
	e.callDepth++
	defer func() { e.callDepth-- }()

	callEnv := object.NewEnclosedEnvironment(fn.Env())
	for i, param := range params {
		callEnv.Set(param.Name, args[i])
	}
	result, err := e.evalBlock(ctx, fn.Body(), callEnv)
	if err != nil {
		return nil, err
	}
	return unwrapReturn(result), nil
}
