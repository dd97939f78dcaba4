package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/neurox-lang/neurox/internal/compiler/token"
)

const msgUnterminatedString = "unterminated string"

type Lexer struct {
	input        string
	filename     string
	position     int  // offset of ch in input (bytes)
	readPosition int  // next reading position (bytes)
	ch           rune // current character, 0 at end of input
	line         int  // line of ch (1-based)
	column       int  // column of ch in runes (1-based)
}

// New starts a scan session over input. The lexer borrows input; tokens it
// returns slice into it.
func New(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
	}
	l.load()
	return l
}

// Filename returns the display name diagnostics should use.
func (l *Lexer) Filename() string {
	return l.filename
}

// Source returns the buffer being scanned.
func (l *Lexer) Source() string {
	return l.input
}

func (l *Lexer) load() {
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += size
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) readChar() {
	if l.atEnd() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.load()
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

// NextToken scans and returns the next token. Once the input is exhausted it
// keeps returning EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	if l.atEnd() {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	switch l.ch {
	case '\n':
		return l.single(token.NEWLINE, pos)
	case '=':
		return l.either('=', token.EQ, token.ASSIGN, pos)
	case '!':
		return l.either('=', token.NOT_EQ, token.BANG, pos)
	case '<':
		return l.either('=', token.LT_EQ, token.LT, pos)
	case '>':
		return l.either('=', token.GT_EQ, token.GT, pos)
	case ':':
		return l.either(':', token.DOUBLE_COLON, token.COLON, pos)
	case '-':
		return l.either('>', token.ARROW, token.MINUS, pos)
	case '&':
		if l.peekChar() == '&' {
			return l.double(token.AND, pos)
		}
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.OR, pos)
		}
	case '+':
		return l.single(token.PLUS, pos)
	case '*':
		return l.single(token.ASTERISK, pos)
	case '/':
		return l.single(token.SLASH, pos)
	case '%':
		return l.single(token.PERCENT, pos)
	case ';':
		return l.single(token.SEMICOLON, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case '.':
		return l.single(token.DOT, pos)
	case '@':
		return l.single(token.AT, pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case '{':
		return l.single(token.LBRACE, pos)
	case '}':
		return l.single(token.RBRACE, pos)
	case '[':
		return l.single(token.LBRACKET, pos)
	case ']':
		return l.single(token.RBRACKET, pos)
	case '"':
		return l.readString(pos)
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(pos)
		}
		if isDigit(l.ch) {
			return l.readNumber(pos)
		}
	}

	ch := l.ch
	l.readChar()
	return l.errorToken(fmt.Sprintf("unexpected character %q", ch), pos)
}

func (l *Lexer) makeToken(typ token.TokenType, pos token.Position) token.Token {
	return token.Token{
		Type:    typ,
		Literal: l.input[pos.Offset:l.position],
		Pos:     pos,
		Len:     l.position - pos.Offset,
	}
}

func (l *Lexer) errorToken(msg string, pos token.Position) token.Token {
	return token.Token{
		Type:    token.ERROR,
		Literal: msg,
		Pos:     pos,
		Len:     l.position - pos.Offset,
	}
}

func (l *Lexer) single(typ token.TokenType, pos token.Position) token.Token {
	l.readChar()
	return l.makeToken(typ, pos)
}

func (l *Lexer) double(typ token.TokenType, pos token.Position) token.Token {
	l.readChar()
	l.readChar()
	return l.makeToken(typ, pos)
}

// either emits the two-character type when the next character is next and
// the one-character type otherwise.
func (l *Lexer) either(next rune, two, one token.TokenType, pos token.Position) token.Token {
	if l.peekChar() == next {
		return l.double(two, pos)
	}
	return l.single(one, pos)
}

// skipWhitespaceAndComments skips spaces, tabs, carriage returns and both
// comment forms. Newlines are tokens and stay put, except inside block
// comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}

		// Skip single-line comments
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && !l.atEnd() {
				l.readChar()
			}
			continue
		}

		// Skip multi-line comments
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // consume /
			l.readChar() // consume *
			for !l.atEnd() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			continue
		}

		break
	}
}

func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok := l.makeToken(token.IDENT, pos)
	tok.Type = token.LookupIdent(tok.Literal)
	return tok
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume .
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.makeToken(token.NUMBER, pos)
}

// readString scans a "-delimited string. There are no escape sequences; the
// literal keeps both quotes.
func (l *Lexer) readString(pos token.Position) token.Token {
	l.readChar() // consume opening "

	for l.ch != '"' && !l.atEnd() {
		l.readChar()
	}

	if l.atEnd() {
		return l.errorToken(msgUnterminatedString, pos)
	}

	l.readChar() // consume closing "
	return l.makeToken(token.STRING, pos)
}

// isLetter accepts ASCII letters only so that every identifier is also a
// valid C identifier.
func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
