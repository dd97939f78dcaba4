package parser

import (
	stderrors "errors"
	"fmt"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/errors"
	"github.com/neurox-lang/neurox/internal/compiler/lexer"
	"github.com/neurox-lang/neurox/internal/compiler/token"
)

// ErrParseFailed is returned by Parse when the source has syntax errors.
var ErrParseFailed = stderrors.New("parse failed")

type State int

const (
	StateFresh State = iota
	StateParsing
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateParsing:
		return "parsing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Option func(*Parser)

// WithRecovery makes the parser resynchronize at every declaration and
// statement boundary, so that each malformed construct gets its own
// diagnostic. Without it only the first error is reported.
func WithRecovery() Option {
	return func(p *Parser) { p.recovery = true }
}

// WithUnitSuffixes controls whether a number directly followed by a unit
// keyword (100ms, 50Percent) is read as a unit value. When disabled the
// suffix is a syntax error. Enabled by default.
func WithUnitSuffixes(enabled bool) Option {
	return func(p *Parser) { p.unitSuffixes = enabled }
}

// WithSink forwards every diagnostic to s as it is raised, in addition to
// the parser's own list.
func WithSink(s errors.Sink) Option {
	return func(p *Parser) { p.sink = s }
}

type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	ahead     []token.Token // tokens read past peekToken

	diags *errors.List
	sink  errors.Sink

	state     State
	hadError  bool
	panicMode bool
	lastErr   token.Position

	recovery     bool
	unitSuffixes bool

	program *ast.Program
}

func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:            l,
		diags:        errors.NewList(),
		unitSuffixes: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse lexes and parses src in one go. On failure it returns a nil program,
// the diagnostics and an error wrapping ErrParseFailed.
func Parse(filename, src string, opts ...Option) (*ast.Program, []*errors.Diagnostic, error) {
	p := New(lexer.New(src, filename), opts...)
	prog := p.ParseProgram()
	if prog == nil {
		return nil, p.Errors(), fmt.Errorf("%s: %w", displayName(filename), ErrParseFailed)
	}
	return prog, p.Errors(), nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<unknown>"
	}
	return filename
}

func (p *Parser) Errors() []*errors.Diagnostic {
	return p.diags.Diagnostics
}

func (p *Parser) HadError() bool {
	return p.hadError
}

func (p *Parser) State() State {
	return p.state
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if len(p.ahead) > 0 {
		p.peekToken = p.ahead[0]
		p.ahead = p.ahead[1:]
		return
	}
	p.peekToken = p.l.NextToken()
}

// peekAfter returns the token following peekToken without consuming it.
func (p *Parser) peekAfter() token.Token {
	if len(p.ahead) == 0 {
		p.ahead = append(p.ahead, p.l.NextToken())
	}
	return p.ahead[0]
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(describeType(t))
	return false
}

func (p *Parser) peekError(expected string) {
	p.errorAt(p.peekToken, fmt.Sprintf("expected %s, got %s", expected, p.peekToken.Describe()))
}

// errorAt reports a diagnostic at tok unless the parser is already in panic
// mode. An ERROR token reports its own lexical message instead of msg.
func (p *Parser) errorAt(tok token.Token, msg string) {
	if p.panicMode {
		return
	}
	if p.hadError && tok.Pos == p.lastErr {
		return
	}
	p.panicMode = true
	p.hadError = true
	p.lastErr = tok.Pos

	phase := errors.PhaseParser
	if tok.Type == token.ERROR {
		msg = tok.Literal
		phase = errors.PhaseLexer
	}
	d := errors.Diagnostic{
		Pos: errors.Position{
			File:   p.l.Filename(),
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
		},
		Message:  msg,
		Severity: errors.SeverityError,
		Phase:    phase,
	}
	p.diags.Report(d)
	if p.sink != nil {
		p.sink.Report(d)
	}
}

// boundary marks the start of a declaration or statement. In recovery mode
// it leaves panic mode so the next error is reported.
func (p *Parser) boundary() {
	if p.recovery {
		p.panicMode = false
	}
}

// synchronize skips to the end of the current line or to the '}' closing the
// enclosing block, whichever comes first. Braces opened while skipping are
// skipped as a whole. It stops on, and does not consume, the NEWLINE or '}'.
func (p *Parser) synchronize() {
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case token.NEWLINE:
			if depth == 0 {
				return
			}
		}
		p.nextToken()
	}
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// expectLineEnd checks that what follows the construct just parsed ends the
// line: a newline, the closing brace of the block, or end of input. It
// advances onto that token.
func (p *Parser) expectLineEnd(what string) bool {
	switch p.peekToken.Type {
	case token.NEWLINE, token.RBRACE, token.EOF:
		p.nextToken()
		return true
	}
	p.errorAt(p.peekToken, fmt.Sprintf("expected newline after %s, got %s", what, p.peekToken.Describe()))
	p.nextToken()
	return false
}

// ParseProgram parses a complete robot unit. It returns nil when any
// diagnostic was raised. Calling it again returns the first result.
func (p *Parser) ParseProgram() *ast.Program {
	if p.state != StateFresh {
		return p.program
	}
	p.state = StateParsing

	prog := p.parseRobot()

	if p.hadError {
		p.state = StateFailed
		return nil
	}
	p.state = StateSucceeded
	p.program = prog
	return prog
}

func (p *Parser) parseRobot() *ast.Program {
	p.skipNewlines()

	if !p.curTokenIs(token.ROBOT) {
		p.errorAt(p.curToken, fmt.Sprintf("expected 'robot', got %s", p.curToken.Describe()))
		return nil
	}
	prog := &ast.Program{Start: p.curToken.Pos}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	prog.Name = ownText(p.curToken)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for {
		p.skipNewlines()
		if p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
			break
		}
		p.boundary()

		decl := p.parseDeclaration()
		if decl == nil {
			p.synchronize()
			continue
		}
		prog.Decls = append(prog.Decls, decl)

		if !p.expectLineEnd("declaration") {
			p.synchronize()
		}
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, fmt.Sprintf("expected '}' to close robot %s, got %s", prog.Name, p.curToken.Describe()))
		return nil
	}

	p.nextToken()
	p.skipNewlines()
	if !p.curTokenIs(token.EOF) {
		p.errorAt(p.curToken, fmt.Sprintf("expected end of input after robot block, got %s", p.curToken.Describe()))
		return nil
	}

	return prog
}

// describeType names a token type the way diagnostics refer to it.
func describeType(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.NUMBER:
		return "number"
	case token.STRING:
		return "string"
	case token.NEWLINE:
		return "newline"
	case token.EOF:
		return "end of input"
	}
	return "'" + token.Spelling(t) + "'"
}
