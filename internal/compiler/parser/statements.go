package parser

import (
	"fmt"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/token"
)

// parseBlockStatement parses { stmt NEWLINE ... }. curToken must be the
// opening brace; on return it is the closing one.
func (p *Parser) parseBlockStatement() *ast.BlockStmt {
	block := &ast.BlockStmt{Start: p.curToken.Pos}
	p.nextToken()

	for {
		p.skipNewlines()
		if p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
			break
		}
		p.boundary()

		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize()
			continue
		}
		block.Stmts = append(block.Stmts, stmt)

		if !p.expectLineEnd("statement") {
			p.synchronize()
		}
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, fmt.Sprintf("expected '}' to close block, got %s", p.curToken.Describe()))
		return nil
	}

	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.WAIT:
		return p.parseWaitStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.LET:
		return p.parseLetStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStmt{Start: p.curToken.Pos}

	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlockStatement()
	if stmt.Then == nil {
		return nil
	}

	// else must sit on the same line as the closing brace
	if !p.peekTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()

	if p.peekTokenIs(token.IF) {
		p.nextToken()
		elseIf := p.parseIfStatement()
		if elseIf == nil {
			return nil
		}
		stmt.Else = elseIf
		return stmt
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	elseBlock := p.parseBlockStatement()
	if elseBlock == nil {
		return nil
	}
	stmt.Else = elseBlock

	return stmt
}

func (p *Parser) parseWaitStatement() ast.Statement {
	stmt := &ast.WaitStmt{Start: p.curToken.Pos}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	stmt.Duration = p.parseExpression(LOWEST)
	if stmt.Duration == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStmt{Start: p.curToken.Pos}

	switch p.peekToken.Type {
	case token.NEWLINE, token.RBRACE, token.EOF:
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	return stmt
}

// parseLetStatement parses let name = value into a defining AssignStmt.
func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.AssignStmt{Start: p.curToken.Pos, Define: true}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Target = &ast.Ident{Start: p.curToken.Pos, Name: ownText(p.curToken)}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	return stmt
}

// parseExpressionStatement parses an expression, turning it into an
// assignment when it is followed by '='.
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.curToken.Pos

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.peekTokenIs(token.ASSIGN) {
		return &ast.ExprStmt{Start: start, Expr: expr}
	}

	switch expr.(type) {
	case *ast.Ident, *ast.MemberExpr:
	default:
		p.errorAt(p.peekToken, "invalid assignment target")
		return nil
	}

	p.nextToken()
	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}

	return &ast.AssignStmt{Start: start, Target: expr, Value: value}
}
