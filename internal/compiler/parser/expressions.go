package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/token"
)

// Precedence levels, lowest first. Every binary level is left associative.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
}

var unitsByToken = map[token.TokenType]ast.Unit{
	token.TYPE_PERCENT: ast.UnitPercent,
	token.TYPE_MS:      ast.UnitMs,
	token.TYPE_CM:      ast.UnitCm,
	token.TYPE_DEG:     ast.UnitDeg,
	token.TYPE_HZ:      ast.UnitHz,
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// ownText copies a lexeme out of the source buffer.
func ownText(tok token.Token) string {
	return strings.Clone(tok.Literal)
}

// parseExpression parses a binary expression whose operators all bind
// tighter than precedence. On return curToken is the last token of the
// expression.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		p.nextToken()
		op := p.curToken
		opPrec := p.curPrecedence()

		p.nextToken()
		right := p.parseExpression(opPrec)
		if right == nil {
			return nil
		}

		left = &ast.BinaryExpr{
			Start: left.Pos(),
			Left:  left,
			Op:    ownText(op),
			Right: right,
		}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.curTokenIs(token.MINUS) || p.curTokenIs(token.BANG) {
		expr := &ast.UnaryExpr{
			Start: p.curToken.Pos,
			Op:    ownText(p.curToken),
		}
		p.nextToken()
		expr.Operand = p.parseUnary()
		if expr.Operand == nil {
			return nil
		}
		return expr
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.peekToken.Type {
		case token.LPAREN:
			p.nextToken()
			expr = p.parseCallExpression(expr)
		case token.DOT:
			p.nextToken()
			expr = p.parseMemberExpression(expr)
		default:
			return expr
		}
		if expr == nil {
			return nil
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	switch tok := p.curToken; {
	case tok.Type == token.NUMBER:
		return p.parseNumber()
	case tok.Type == token.STRING:
		return &ast.StringLit{Start: tok.Pos, Value: unquote(tok)}
	case tok.Type == token.TRUE || tok.Type == token.FALSE:
		return &ast.BoolLit{Start: tok.Pos, Value: tok.Type == token.TRUE}
	case tok.Type == token.IDENT || token.IsSoftKeyword(tok.Type):
		return &ast.Ident{Start: tok.Pos, Name: ownText(tok)}
	case tok.Type == token.LPAREN:
		return p.parseGroupedExpression()
	}

	p.errorAt(p.curToken, fmt.Sprintf("expected expression, got %s", p.curToken.Describe()))
	return nil
}

// unquote strips the delimiting quotes of a STRING token and copies the rest.
func unquote(tok token.Token) string {
	lit := tok.Literal
	if len(lit) >= 2 {
		lit = lit[1 : len(lit)-1]
	}
	return strings.Clone(lit)
}

func (p *Parser) parseNumber() ast.Expression {
	tok := p.curToken
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorAt(tok, fmt.Sprintf("invalid number %s", tok.Literal))
		return nil
	}
	num := &ast.NumberLit{Start: tok.Pos, Value: value, Text: ownText(tok)}

	unit, ok := unitsByToken[p.peekToken.Type]
	if !ok {
		return num
	}
	if !p.unitSuffixes {
		p.errorAt(p.peekToken, fmt.Sprintf("unit suffix '%s' is not allowed: unit suffixes are disabled", p.peekToken.Literal))
		return nil
	}
	if !adjacent(tok, p.peekToken) {
		p.errorAt(p.peekToken, fmt.Sprintf("unit suffix '%s' must directly follow the number", p.peekToken.Literal))
		return nil
	}

	p.nextToken()
	if unit == ast.UnitDeg && p.perSecondFollows() {
		p.nextToken() // '/'
		p.nextToken() // 's'
		unit = ast.UnitDegPerSec
	}

	return &ast.UnitExpr{Start: tok.Pos, Value: num, Unit: unit}
}

// perSecondFollows reports whether curToken is directly followed by "/s"
// with no space in between, as in 90deg/s.
func (p *Parser) perSecondFollows() bool {
	slash := p.peekToken
	if slash.Type != token.SLASH || !adjacent(p.curToken, slash) {
		return false
	}
	s := p.peekAfter()
	return s.Type == token.IDENT && s.Literal == "s" && adjacent(slash, s)
}

// adjacent reports whether b starts right where a ends.
func adjacent(a, b token.Token) bool {
	return b.Pos.Offset == a.Pos.Offset+a.Len
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpr{
		Start:  callee.Pos(),
		Callee: callee,
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return expr
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	expr.Args = append(expr.Args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		expr.Args = append(expr.Args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return expr
}

// parseMemberExpression accepts any word after the dot, keywords included,
// so m1.power and imu.value parse.
func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	if !token.IsWord(p.peekToken.Type) {
		p.peekError("member name after '.'")
		return nil
	}
	p.nextToken()

	return &ast.MemberExpr{
		Start:  object.Pos(),
		Object: object,
		Member: ownText(p.curToken),
	}
}
