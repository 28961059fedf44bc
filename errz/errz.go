// Package errz defines the typed errors produced while parsing, compiling, and
// executing kestrel programs.
//
// Every failure is reported as an *Error carrying an ErrorKind. The kinds
// themselves implement the error interface, so callers can match on them
// with the standard library:
//
//	if errors.Is(err, errz.DivideByZero) {
//		// ...
//	}
package errz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// Syntax indicates a lexing or parsing error.
	Syntax ErrorKind = iota + 1

	// UndefinedVariable indicates a reference to a name that was never bound.
	UndefinedVariable
	// UnsupportedConstruct indicates an AST node the compiler cannot lower.
	UnsupportedConstruct
	// LimitExceeded indicates a compile-time limit was hit, such as the
	// number of constants or the distance of a jump.
	LimitExceeded

	// UnknownOpcode indicates a corrupted or version-mismatched stream.
	UnknownOpcode
	// TypeMismatch indicates an operand of the wrong kind for an operation.
	TypeMismatch
	// DivideByZero indicates an integer division with a zero divisor.
	DivideByZero
	// StackOverflow indicates a push onto a full operand stack.
	StackOverflow
	// StackUnderflow indicates a pop from an empty operand stack.
	StackUnderflow
	// UninitializedGlobal indicates a read of a global slot never written.
	UninitializedGlobal
	// ResourceExceeded indicates the instruction budget ran out or the
	// execution was cancelled.
	ResourceExceeded

	// Runtime indicates a general evaluation failure in the tree-walking
	// evaluator, such as calling a non-function.
	Runtime
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case UndefinedVariable:
		return "undefined variable"
	case UnsupportedConstruct:
		return "unsupported construct"
	case LimitExceeded:
		return "limit exceeded"
	case UnknownOpcode:
		return "unknown opcode"
	case TypeMismatch:
		return "type mismatch"
	case DivideByZero:
		return "divide by zero"
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case UninitializedGlobal:
		return "uninitialized global"
	case ResourceExceeded:
		return "resource exceeded"
	case Runtime:
		return "runtime error"
	default:
		return "error"
	}
}

// Error implements the error interface so that kinds can be used as targets
// for errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// IsCompileTime reports whether errors of this kind are raised before any
// bytecode runs.
func (k ErrorKind) IsCompileTime() bool {
	switch k {
	case Syntax, UndefinedVariable, UnsupportedConstruct, LimitExceeded:
		return true
	default:
		return false
	}
}

// Error is the error type returned by every kestrel phase.
type Error struct {
	Kind    ErrorKind
	Message string

	// IP is the byte offset of the failing instruction for VM errors, or -1.
	IP int

	// Suggestions holds "did you mean" candidates for undefined names.
	Suggestions []Suggestion

	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.IP >= 0 {
		fmt.Fprintf(&b, " (ip %04d)", e.IP)
	}
	return b.String()
}

// FriendlyErrorMessage returns the error message followed by any hint.
func (e *Error) FriendlyErrorMessage() string {
	msg := e.Error()
	if hint := FormatSuggestions(e.Suggestions); hint != "" {
		msg += "\n" + hint
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches an ErrorKind target against the kind of this error.
func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// WithCause wraps the error with a cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithIP records the instruction offset at which the error occurred.
func (e *Error) WithIP(ip int) *Error {
	e.IP = ip
	return e
}

// New creates an Error of the given kind.
func New(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, IP: -1}
}

// Errorf creates an Error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
