// Package ast defines the abstract syntax tree representation of kestrel code.
package ast

import (
	"strings"

	"github.com/cloudcmds/kestrel/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements are executed for their
// effect; expression statements additionally produce a value that is
// discarded unless an enclosing construct captures it.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node of a parsed source file.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.Position{}
}

// String renders each statement on its own line.
func (p *Program) String() string {
	lines := make([]string, 0, len(p.Stmts))
	for _, stmt := range p.Stmts {
		lines = append(lines, stmt.String())
	}
	return strings.Join(lines, "\n")
}
