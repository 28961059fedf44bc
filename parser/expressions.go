package parser

import (
	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/internal/token"
)

// parseExpr is the Pratt loop: it parses a prefix expression and then folds
// in infix operators for as long as they bind tighter than precedence.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.addError(newParserError(p.curToken.StartPosition,
			"maximum nesting depth of %d exceeded", p.maxDepth))
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opToken := p.curToken
	p.nextToken()
	right := p.parseExpr(PREFIX)
	if right == nil {
		return nil
	}
	return &ast.Prefix{OpPos: opToken.StartPosition, Op: opToken.Literal, X: right}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opToken := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: opToken.StartPosition, Op: opToken.Literal, Y: right}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	expr := p.parseExpr(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseIf() ast.Expr {
	ifPos := p.curToken.StartPosition
	if !p.expectPeek("if expression", token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek("if expression", token.RPAREN) {
		return nil
	}
	if !p.expectPeek("if expression", token.LBRACE) {
		return nil
	}
	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}
	expr := &ast.If{If: ifPos, Cond: cond, Consequence: consequence}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek("else block", token.LBRACE) {
			return nil
		}
		expr.Alternative = p.parseBlock()
		if expr.Alternative == nil {
			return nil
		}
	}
	return expr
}

func (p *Parser) parseFunc() ast.Expr {
	fnPos := p.curToken.StartPosition
	if !p.expectPeek("function", token.LPAREN) {
		return nil
	}
	var params []*ast.Ident
	p.nextToken()
	for !p.curTokenIs(token.RPAREN) {
		if !p.curTokenIs(token.IDENT) {
			p.addError(newParserError(p.curToken.StartPosition,
				"unexpected %s while parsing function parameters (expected identifier)",
				tokenDescription(p.curToken)))
			return nil
		}
		params = append(params, &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal})
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.curTokenIs(token.RPAREN) {
			p.addError(newParserError(p.curToken.StartPosition,
				"unexpected %s while parsing function parameters (expected \",\" or \")\")",
				tokenDescription(p.curToken)))
			return nil
		}
	}
	if !p.expectPeek("function", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Func{Func: fnPos, Params: params, Body: body}
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	call := &ast.Call{Fun: fn, Lparen: p.curToken.StartPosition}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	for {
		p.nextToken()
		arg := p.parseExpr(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("call arguments", token.RPAREN) {
		return nil
	}
	return call
}
