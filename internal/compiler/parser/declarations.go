package parser

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/token"
)

var pinModes = map[token.TokenType]ast.PinMode{
	token.INPUT:          ast.PinInput,
	token.OUTPUT:         ast.PinOutput,
	token.INPUT_PULLUP:   ast.PinInputPullup,
	token.INPUT_PULLDOWN: ast.PinInputPulldown,
}

var busKinds = map[token.TokenType]ast.BusKind{
	token.I2C:  ast.BusI2C,
	token.SPI:  ast.BusSPI,
	token.CAN:  ast.BusCAN,
	token.UART: ast.BusUART,
}

var priorities = map[token.TokenType]ast.Priority{
	token.HIGH:   ast.PriorityHigh,
	token.MEDIUM: ast.PriorityMedium,
	token.LOW:    ast.PriorityLow,
}

var tlsSchemes = map[string]bool{"mqtts": true, "ssl": true, "tls": true}

// parseDeclaration dispatches on the declaration keyword. On return
// curToken is the last token of the declaration.
func (p *Parser) parseDeclaration() ast.Declaration {
	switch p.curToken.Type {
	case token.MOTOR:
		return p.parseMotorDecl()
	case token.SERVO:
		return p.parseServoDecl()
	case token.SENSOR:
		return p.parseSensorDecl()
	case token.GPIO:
		return p.parseGPIODecl()
	case token.BUS:
		return p.parseBusDecl()
	case token.NET:
		return p.parseNetDecl()
	case token.TOPIC:
		return p.parseTopicDecl()
	case token.LIMITS:
		return p.parseLimitsDecl()
	case token.TASK:
		return p.parseTaskDecl()
	case token.SCHEDULE:
		return p.parseScheduleDecl()
	case token.WHEN:
		return p.parseEventDecl()
	}

	p.errorAt(p.curToken, fmt.Sprintf("expected declaration, got %s", p.curToken.Describe()))
	return nil
}

// parseNamedPin parses "<name> on <pin>" following a hardware keyword.
func (p *Parser) parseNamedPin() (name, pin string, ok bool) {
	if !p.expectPeek(token.IDENT) {
		return "", "", false
	}
	name = ownText(p.curToken)

	if !p.expectPeek(token.ON) {
		return "", "", false
	}

	pin, ok = p.parsePin()
	return name, pin, ok
}

// parsePin accepts an identifier (M1, A0) or an integer (13).
func (p *Parser) parsePin() (string, bool) {
	switch p.peekToken.Type {
	case token.IDENT:
		p.nextToken()
		return ownText(p.curToken), true
	case token.NUMBER:
		if strings.Contains(p.peekToken.Literal, ".") {
			p.errorAt(p.peekToken, fmt.Sprintf("pin number must be an integer, got %s", p.peekToken.Literal))
			return "", false
		}
		p.nextToken()
		return ownText(p.curToken), true
	}
	p.peekError("pin (identifier or integer)")
	return "", false
}

// parseInteger reads the NUMBER in peekToken as a non-negative integer.
func (p *Parser) parseInteger(what string) (int, bool) {
	if !p.peekTokenIs(token.NUMBER) {
		p.peekError(what)
		return 0, false
	}
	n, err := strconv.Atoi(p.peekToken.Literal)
	if stderrors.Is(err, strconv.ErrRange) {
		p.errorAt(p.peekToken, fmt.Sprintf("%s out of range, got %s", what, p.peekToken.Literal))
		return 0, false
	}
	if err != nil {
		p.errorAt(p.peekToken, fmt.Sprintf("%s must be an integer, got %s", what, p.peekToken.Literal))
		return 0, false
	}
	p.nextToken()
	return n, true
}

func (p *Parser) parseMotorDecl() ast.Declaration {
	decl := &ast.MotorDecl{Start: p.curToken.Pos}
	name, pin, ok := p.parseNamedPin()
	if !ok {
		return nil
	}
	decl.Name, decl.Pin = name, pin
	return decl
}

func (p *Parser) parseServoDecl() ast.Declaration {
	decl := &ast.ServoDecl{Start: p.curToken.Pos}
	name, pin, ok := p.parseNamedPin()
	if !ok {
		return nil
	}
	decl.Name, decl.Pin = name, pin
	return decl
}

// sensor <name> on <pin> [type <kind>]
func (p *Parser) parseSensorDecl() ast.Declaration {
	decl := &ast.SensorDecl{Start: p.curToken.Pos}
	name, pin, ok := p.parseNamedPin()
	if !ok {
		return nil
	}
	decl.Name, decl.Pin = name, pin

	if !p.peekTokenIs(token.TYPE) {
		return decl
	}
	p.nextToken()

	if !token.IsWord(p.peekToken.Type) {
		p.peekError("sensor type")
		return nil
	}
	p.nextToken()
	decl.Type = ownText(p.curToken)

	return decl
}

// gpio <name> on <pin> mode <Input|Output|InputPullup|InputPulldown>
func (p *Parser) parseGPIODecl() ast.Declaration {
	decl := &ast.GPIODecl{Start: p.curToken.Pos}
	name, pin, ok := p.parseNamedPin()
	if !ok {
		return nil
	}
	decl.Name, decl.Pin = name, pin

	if !p.expectPeek(token.MODE) {
		return nil
	}

	mode, ok := pinModes[p.peekToken.Type]
	if !ok {
		p.peekError("pin mode (Input, Output, InputPullup or InputPulldown)")
		return nil
	}
	p.nextToken()
	decl.Mode = mode

	return decl
}

// bus <name> on <I2C|SPI|CAN|UART> [@ <address>]
func (p *Parser) parseBusDecl() ast.Declaration {
	decl := &ast.BusDecl{Start: p.curToken.Pos}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = ownText(p.curToken)

	if !p.expectPeek(token.ON) {
		return nil
	}

	kind, ok := busKinds[p.peekToken.Type]
	if !ok {
		p.peekError("bus kind (I2C, SPI, CAN or UART)")
		return nil
	}
	p.nextToken()
	decl.Kind = kind

	if !p.peekTokenIs(token.AT) {
		return decl
	}
	p.nextToken()

	addr, ok := p.parseInteger("bus address")
	if !ok {
		return nil
	}
	decl.Address, decl.HasAddress = addr, true

	return decl
}

// net mqtt { broker "<url>" client_id "<id>" [qos <n>] }
//
// Fields may come in any order, on one line or several.
func (p *Parser) parseNetDecl() ast.Declaration {
	decl := &ast.NetDecl{Start: p.curToken.Pos}

	if !p.expectPeek(token.MQTT) {
		return nil
	}
	decl.Protocol = ownText(p.curToken)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	seen := map[token.TokenType]bool{}
	for {
		p.skipNewlines()
		if p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
			break
		}

		field := p.curToken
		if seen[field.Type] {
			p.errorAt(field, fmt.Sprintf("duplicate %s in net block", field.Literal))
			return nil
		}
		seen[field.Type] = true

		switch field.Type {
		case token.BROKER:
			if !p.expectPeek(token.STRING) {
				return nil
			}
			decl.Broker = unquote(p.curToken)
		case token.CLIENT_ID:
			if !p.expectPeek(token.STRING) {
				return nil
			}
			decl.ClientID = unquote(p.curToken)
		case token.QOS:
			qos, ok := p.parseInteger("qos level")
			if !ok {
				return nil
			}
			if qos > 2 {
				p.errorAt(p.curToken, fmt.Sprintf("qos must be 0, 1 or 2, got %d", qos))
				return nil
			}
			decl.QoS = qos
		default:
			p.errorAt(field, fmt.Sprintf("expected 'broker', 'client_id' or 'qos', got %s", field.Describe()))
			return nil
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, fmt.Sprintf("expected '}' to close net block, got %s", p.curToken.Describe()))
		return nil
	}
	if decl.Broker == "" {
		p.errorAt(p.curToken, "net mqtt block requires a broker")
		return nil
	}

	if scheme, _, found := strings.Cut(decl.Broker, "://"); found {
		decl.TLS = tlsSchemes[strings.ToLower(scheme)]
	}

	return decl
}

// topic <name> on "<path>"
func (p *Parser) parseTopicDecl() ast.Declaration {
	decl := &ast.TopicDecl{Start: p.curToken.Pos}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = ownText(p.curToken)

	if !p.expectPeek(token.ON) {
		return nil
	}
	if !p.expectPeek(token.STRING) {
		return nil
	}
	decl.Path = unquote(p.curToken)

	return decl
}

// limits { <name> max|min <expr> ... }
func (p *Parser) parseLimitsDecl() ast.Declaration {
	decl := &ast.LimitsDecl{Start: p.curToken.Pos}

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

		entry := p.parseLimitEntry()
		if entry == nil {
			p.synchronize()
			continue
		}
		decl.Entries = append(decl.Entries, entry)

		if !p.expectLineEnd("limit") {
			p.synchronize()
		}
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, fmt.Sprintf("expected '}' to close limits block, got %s", p.curToken.Describe()))
		return nil
	}

	return decl
}

func (p *Parser) parseLimitEntry() *ast.LimitEntry {
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(p.curToken, fmt.Sprintf("expected limit name, got %s", p.curToken.Describe()))
		return nil
	}
	entry := &ast.LimitEntry{Start: p.curToken.Pos, Name: ownText(p.curToken)}

	switch p.peekToken.Type {
	case token.MAX:
		entry.IsMax = true
	case token.MIN:
	default:
		p.peekError("'max' or 'min'")
		return nil
	}
	p.nextToken()
	p.nextToken()

	entry.Bound = p.parseExpression(LOWEST)
	if entry.Bound == nil {
		return nil
	}

	return entry
}

// task <name>(<param>[: <type>], ...) { ... }
func (p *Parser) parseTaskDecl() ast.Declaration {
	decl := &ast.TaskDecl{Start: p.curToken.Pos}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = ownText(p.curToken)

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	params, ok := p.parseTaskParams()
	if !ok {
		return nil
	}
	decl.Params = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()
	if decl.Body == nil {
		return nil
	}

	return decl
}

// parseTaskParams parses the parameter list after '('. On return curToken
// is ')'.
func (p *Parser) parseTaskParams() ([]*ast.Param, bool) {
	var params []*ast.Param

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		param := &ast.Param{Start: p.curToken.Pos, Name: ownText(p.curToken)}

		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !isTypeName(p.peekToken.Type) {
				p.peekError("parameter type")
				return nil, false
			}
			p.nextToken()
			param.Type = &ast.TypeRef{Start: p.curToken.Pos, Name: ownText(p.curToken)}
		}
		params = append(params, param)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}

	return params, true
}

func isTypeName(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.TYPE_PERCENT, token.TYPE_MS, token.TYPE_CM, token.TYPE_DEG,
		token.TYPE_HZ, token.TYPE_DISTANCE, token.TYPE_ANGLE, token.TYPE_SPEED:
		return true
	}
	return false
}

// schedule <name> @ <frequency> [priority HIGH|MEDIUM|LOW] { ... }
func (p *Parser) parseScheduleDecl() ast.Declaration {
	decl := &ast.ScheduleDecl{Start: p.curToken.Pos, Priority: ast.PriorityMedium}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = ownText(p.curToken)

	if !p.expectPeek(token.AT) {
		return nil
	}
	p.nextToken()

	decl.Frequency = p.parseExpression(LOWEST)
	if decl.Frequency == nil {
		return nil
	}

	if p.peekTokenIs(token.PRIORITY) {
		p.nextToken()
		prio, ok := priorities[p.peekToken.Type]
		if !ok {
			p.peekError("priority (HIGH, MEDIUM or LOW)")
			return nil
		}
		p.nextToken()
		decl.Priority = prio
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()
	if decl.Body == nil {
		return nil
	}

	return decl
}

// when message <topic> [as <var>] { ... }
// when gpio <pin> [as <var>] { ... }
func (p *Parser) parseEventDecl() ast.Declaration {
	decl := &ast.EventDecl{Start: p.curToken.Pos}

	switch p.peekToken.Type {
	case token.MESSAGE:
		decl.Trigger = ast.TriggerMessage
	case token.GPIO:
		decl.Trigger = ast.TriggerGPIO
	default:
		p.peekError("'message' or 'gpio'")
		return nil
	}
	p.nextToken()

	if decl.Trigger == ast.TriggerGPIO {
		pin, ok := p.parsePin()
		if !ok {
			return nil
		}
		decl.Source = pin
	} else {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decl.Source = ownText(p.curToken)
	}

	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decl.Var = ownText(p.curToken)
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	decl.Handler = p.parseBlockStatement()
	if decl.Handler == nil {
		return nil
	}

	return decl
}
