// Package lexer converts kestrel source text into a stream of tokens.
package lexer

import (
	"fmt"

	"github.com/cloudcmds/kestrel/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input    string
	position int  // current character position
	readPos  int  // next character position
	ch       byte // current character
	line     int
	column   int
}

// New creates a Lexer instance for the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, column: -1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = -1
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.position = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) pos() token.Position {
	return token.Position{Char: l.position, Line: l.line, Column: l.column}
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// Next returns the next token from the input. After the input is exhausted
// every call returns an EOF token. An error is returned only for malformed
// literals; unknown characters are reported as ILLEGAL tokens.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	start := l.pos()
	newToken := func(tokenType token.Type, literal string) token.Token {
		return token.Token{Type: tokenType, Literal: literal, StartPosition: start}
	}
	if l.atEnd() {
		return newToken(token.EOF, ""), nil
	}
	var tok token.Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.EQ, "==")
		} else {
			tok = newToken(token.ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.NOT_EQ, "!=")
		} else {
			tok = newToken(token.BANG, "!")
		}
	case '+':
		tok = newToken(token.PLUS, "+")
	case '-':
		tok = newToken(token.MINUS, "-")
	case '*':
		tok = newToken(token.ASTERISK, "*")
	case '/':
		tok = newToken(token.SLASH, "/")
	case '<':
		tok = newToken(token.LT, "<")
	case '>':
		tok = newToken(token.GT, ">")
	case ',':
		tok = newToken(token.COMMA, ",")
	case ';':
		tok = newToken(token.SEMICOLON, ";")
	case '(':
		tok = newToken(token.LPAREN, "(")
	case ')':
		tok = newToken(token.RPAREN, ")")
	case '{':
		tok = newToken(token.LBRACE, "{")
	case '}':
		tok = newToken(token.RBRACE, "}")
	case '"':
		str, err := l.readString()
		if err != nil {
			return newToken(token.ILLEGAL, str), err
		}
		tok = newToken(token.STRING, str)
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return newToken(token.LookupIdentifier(ident), ident), nil
		}
		if isDigit(l.ch) {
			return newToken(token.INT, l.readNumber()), nil
		}
		tok = newToken(token.ILLEGAL, string(l.ch))
	}
	l.readChar()
	return tok, nil
}

// Tokens lexes the whole input, ending with (and including) the EOF token.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString consumes a double quoted string and leaves the lexer on the
// closing quote. Strings have no escape sequences.
func (l *Lexer) readString() (string, error) {
	start := l.pos()
	l.readChar()
	from := l.position
	for l.ch != '"' {
		if l.atEnd() {
			return l.input[from:], fmt.Errorf("unterminated string literal starting at %s", start)
		}
		l.readChar()
	}
	return l.input[from:l.position], nil
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
