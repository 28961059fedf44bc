package evaluator

import "github.com/cloudcmds/kestrel/object"

// returnValue carries the value of a return statement up through enclosing
// blocks and expressions until the function call or program that owns it.
// It never escapes the package.
type returnValue struct {
	value object.Object
}

func (rv *returnValue) Type() object.Type {
	return rv.value.Type()
}

func (rv *returnValue) Inspect() string {
	return rv.value.Inspect()
}

func (rv *returnValue) Interface() any {
	return rv.value.Interface()
}

func (rv *returnValue) Equals(other object.Object) bool {
	return rv.value.Equals(other)
}

func isReturn(obj object.Object) bool {
	_, ok := obj.(*returnValue)
	return ok
}

func unwrapReturn(obj object.Object) object.Object {
	if rv, ok := obj.(*returnValue); ok {
		return rv.value
	}
	return obj
}
