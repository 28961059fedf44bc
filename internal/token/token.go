// Package token defines language keywords and tokens used when lexing source code.
package token

import "fmt"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char   int // byte offset within the input
	Line   int // 0-indexed line number
	Column int // 0-indexed column number
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// String returns the 1-indexed "line:column" form of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
}

// Token types
const (
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	BANG      Type = "!"
	COMMA     Type = ","
	ELSE      Type = "ELSE"
	EOF       Type = "EOF"
	EQ        Type = "=="
	FALSE     Type = "FALSE"
	FUNCTION  Type = "FUNCTION"
	GT        Type = ">"
	IDENT     Type = "IDENT"
	IF        Type = "IF"
	ILLEGAL   Type = "ILLEGAL"
	INT       Type = "INT"
	LBRACE    Type = "{"
	LET       Type = "LET"
	LPAREN    Type = "("
	LT        Type = "<"
	MINUS     Type = "-"
	NOT_EQ    Type = "!="
	PLUS      Type = "+"
	RBRACE    Type = "}"
	RETURN    Type = "RETURN"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
	STRING    Type = "STRING"
	TRUE      Type = "TRUE"
)

// Reserved keywords
var keywords = map[string]Type{
	"else":   ELSE,
	"false":  FALSE,
	"fn":     FUNCTION,
	"if":     IF,
	"let":    LET,
	"return": RETURN,
	"true":   TRUE,
}

// LookupIdentifier reports whether the identifier is a keyword, returning the
// keyword type if so and IDENT otherwise.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
