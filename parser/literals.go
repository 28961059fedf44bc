package parser

import (
	"strconv"

	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/internal/token"
)

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
}

// parseInt parses a decimal literal into a signed 32-bit value.
func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		p.addError(newParserError(tok.StartPosition,
			"integer literal %s out of range for a 32-bit integer", tok.Literal))
		return nil
	}
	return &ast.Int{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: int32(value)}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{ValuePos: p.curToken.StartPosition, Value: p.curToken.Literal}
}

func (p *Parser) parseBool() ast.Expr {
	return &ast.Bool{ValuePos: p.curToken.StartPosition, Value: p.curTokenIs(token.TRUE)}
}

// illegalToken reports an unexpected character. Lexer failures are already
// recorded when the token is read, so no second error is added for them.
func (p *Parser) illegalToken() ast.Expr {
	pos := p.curToken.StartPosition
	if n := len(p.errors); n > 0 && p.errors[n-1].Position == pos {
		return nil
	}
	p.addError(newParserError(pos, "illegal character %q", p.curToken.Literal))
	return nil
}
