// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
//
// Every statement, including an if expression used as a statement, must be
// terminated by a semicolon.
package parser

import (
	"context"

	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/internal/lexer"
	"github.com/cloudcmds/kestrel/internal/token"
	"github.com/hashicorp/go-multierror"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as kestrel source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	return New(lexer.New(input), options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// l is our lexer
	l *lexer.Lexer

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []*ParserError

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	// Current recursion depth
	depth int

	// Number of blocks entered and not yet closed
	blockDepth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.FALSE, p.parseBool)
	p.registerPrefix(token.FUNCTION, p.parseFunc)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.IF, p.parseIf)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBool)

	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.SLASH, p.parseInfixExpr)
	return p
}

// nextToken moves to the next token from the lexer. Lexer failures are
// recorded as syntax errors.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	var err error
	p.peekToken, err = p.l.Next()
	if err != nil {
		p.addError(newParserError(p.peekToken.StartPosition, "%s", err))
	}
}

// Parse the program that is provided via the lexer. All syntax errors found
// are returned together as a *multierror.Error of *ParserError values.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	var statements []ast.Stmt
	for !p.curTokenIs(token.EOF) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(p.errors) >= MaxErrors {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	if len(p.errors) > 0 {
		var result *multierror.Error
		for _, err := range p.errors {
			result = multierror.Append(result, err)
		}
		result.ErrorFormat = formatErrors
		return nil, result.ErrorOrNil()
	}
	return &ast.Program{Stmts: statements}, nil
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) addError(err *ParserError) {
	p.errors = append(p.errors, err)
}

// synchronize skips tokens until the current token is a top-level semicolon
// or the end of input, so that parsing can resume with the next statement.
func (p *Parser) synchronize() {
	depth := p.blockDepth
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		case token.SEMICOLON:
			if depth <= 0 {
				p.blockDepth = 0
				return
			}
		}
		p.nextToken()
	}
	p.blockDepth = 0
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the expected type and otherwise
// records an error.
func (p *Parser) expectPeek(what string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(what, t, p.peekToken)
	return false
}

func (p *Parser) peekError(what string, expected token.Type, got token.Token) {
	p.addError(newParserError(got.StartPosition,
		"unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), what, tokenTypeDescription(expected)))
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.addError(newParserError(t.StartPosition,
		"invalid syntax (unexpected %s)", tokenDescription(t)))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}
