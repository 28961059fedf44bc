// Package object provides the runtime values of kestrel programs.
//
// The set of values is closed: integers, strings, booleans, null, and (for
// the tree-walking evaluator only) functions. Callers usually type switch on
// the concrete type:
//
//	switch obj := obj.(type) {
//	case *object.Int:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
package object

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL     Type = "bool"
	FUNCTION Type = "function"
	INT      Type = "int"
	NULL     Type = "null"
	STRING   Type = "string"
)

var (
	Null  = &NullType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all kestrel values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() any

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool
}

// NewBool returns the shared True or False instance.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}
