package evaluator

import (
	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/object"
)

func evalPrefix(op string, operand object.Object) (object.Object, error) {
	switch op {
	case "!":
		if b, ok := operand.(*object.Bool); ok {
			return object.NewBool(!b.Value()), nil
		}
	case "-":
		if i, ok := operand.(*object.Int); ok {
			return object.NewInt(-i.Value()), nil
		}
	default:
		return nil, errz.Errorf(errz.UnsupportedConstruct, "unknown prefix operator: %s", op)
	}
	return nil, errz.Errorf(errz.TypeMismatch, "unsupported operand type for %s: %s", op, operand.Type())
}

func evalInfix(op string, left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Int:
		if r, ok := right.(*object.Int); ok {
			return evalIntInfix(op, l.Value(), r.Value())
		}
	case *object.Bool, *object.String, *object.NullType:
		if left.Type() == right.Type() {
			switch op {
			case "==":
				return object.NewBool(left.Equals(right)), nil
			case "!=":
				return object.NewBool(!left.Equals(right)), nil
			}
		}
	}
	return nil, errz.Errorf(errz.TypeMismatch, "unsupported operand types for %s: %s and %s",
		op, left.Type(), right.Type())
}

// evalIntInfix applies an operator to two integers. Arithmetic wraps on
// overflow.
func evalIntInfix(op string, l, r int32) (object.Object, error) {
	switch op {
	case "+":
		return object.NewInt(l + r), nil
	case "-":
		return object.NewInt(l - r), nil
	case "*":
		return object.NewInt(l * r), nil
	case "/":
		if r == 0 {
			return nil, errz.Errorf(errz.DivideByZero, "cannot divide %d by zero", l)
		}
		return object.NewInt(l / r), nil
	case "<":
		return object.NewBool(l < r), nil
	case ">":
		return object.NewBool(l > r), nil
	case "==":
		return object.NewBool(l == r), nil
	case "!=":
		return object.NewBool(l != r), nil
	default:
		return nil, errz.Errorf(errz.UnsupportedConstruct, "unknown infix operator: %s", op)
	}
}
