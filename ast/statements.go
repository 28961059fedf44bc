package ast

import (
	"bytes"

	"github.com/cloudcmds/kestrel/internal/token"
)

// Let is a statement that binds a name to the value of an expression.
type Let struct {
	Let   token.Position // position of "let" keyword
	Name  *Ident         // name being bound
	Value Expr           // bound value
}

func (s *Let) stmtNode() {}

func (s *Let) Pos() token.Position { return s.Let }

func (s *Let) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	out.WriteString(s.Name.String())
	out.WriteString(" = ")
	if s.Value != nil {
		out.WriteString(s.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// Return is a statement that exits the enclosing function with a value.
type Return struct {
	Return token.Position // position of "return" keyword
	Value  Expr           // returned value
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.Return }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// ExprStmt is a statement consisting of a single expression.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

func (s *ExprStmt) String() string { return s.X.String() + ";" }

// Block is a braced sequence of statements, used as the body of conditionals
// and functions.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt
	Rbrace token.Position // position of "}"
}

func (b *Block) Pos() token.Position { return b.Lbrace }

func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, stmt := range b.Stmts {
		out.WriteString(" ")
		out.WriteString(stmt.String())
	}
	out.WriteString(" }")
	return out.String()
}
