package parser

import (
	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/internal/token"
)

// parseStatement parses one statement including its terminating semicolon.
// On return the current token is that semicolon.
func (p *Parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.LET:
		stmt = p.parseLet()
	case token.RETURN:
		stmt = p.parseReturn()
	default:
		stmt = p.parseExprStmt()
	}
	if stmt == nil {
		return nil
	}
	if !p.expectPeek("statement", token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseLet() ast.Stmt {
	letPos := p.curToken.StartPosition
	if !p.expectPeek("let statement", token.IDENT) {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("let statement", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Let{Let: letPos, Name: name, Value: value}
}

func (p *Parser) parseReturn() ast.Stmt {
	returnPos := p.curToken.StartPosition
	p.nextToken()
	value := p.parseExpr(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Return{Return: returnPos, Value: value}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

// parseBlock parses a braced list of statements. It is called with the
// current token on "{" and returns with the current token on "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	p.blockDepth++
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(newParserError(block.Lbrace, "unterminated block (expected %q)", "}"))
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
	}
	p.blockDepth--
	block.Rbrace = p.curToken.StartPosition
	return block
}
