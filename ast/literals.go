package ast

import (
	"strconv"

	"github.com/cloudcmds/kestrel/internal/token"
)

// Int is an expression node that holds an integer literal.
type Int struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text
	Value    int32          // the parsed value
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }

func (x *Int) String() string { return x.Literal }

// String is an expression node that holds a string literal.
type String struct {
	ValuePos token.Position // position of the opening quote
	Value    string         // the unquoted value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	ValuePos token.Position // position of "true" or "false"
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }
