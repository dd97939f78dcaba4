package token

type TokenType string

// Position is the 1-based line/column of a token's first character plus its
// 0-based byte offset in the source.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is a lexical unit. Literal is a substring of the source buffer and
// shares its memory, so anything that must outlive the source copies it out.
// For ERROR tokens Literal holds the diagnostic message instead and Len still
// spans the offending source text.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	Len     int
}

const (
	// Special
	ERROR   TokenType = "ERROR"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"

	// Identifiers + literals
	IDENT  TokenType = "IDENTIFIER"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"

	// Comparison
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	GT     TokenType = ">"
	LT_EQ  TokenType = "<="
	GT_EQ  TokenType = ">="

	// Logical
	AND TokenType = "&&"
	OR  TokenType = "||"

	// Delimiters
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	ARROW        TokenType = "->"
	SEMICOLON    TokenType = ";"
	COMMA        TokenType = ","
	DOT          TokenType = "."
	AT           TokenType = "@"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	ROBOT            TokenType = "ROBOT"
	MOTOR            TokenType = "MOTOR"
	SERVO            TokenType = "SERVO"
	SENSOR           TokenType = "SENSOR"
	GPIO             TokenType = "GPIO"
	BUS              TokenType = "BUS"
	NET              TokenType = "NET"
	MQTT             TokenType = "MQTT"
	TOPIC            TokenType = "TOPIC"
	PUBLISH          TokenType = "PUBLISH"
	ON               TokenType = "ON"
	TASK             TokenType = "TASK"
	SCHEDULE         TokenType = "SCHEDULE"
	LIMITS           TokenType = "LIMITS"
	WHEN             TokenType = "WHEN"
	IF               TokenType = "IF"
	ELSE             TokenType = "ELSE"
	LET              TokenType = "LET"
	WAIT             TokenType = "WAIT"
	RETURN           TokenType = "RETURN"
	TRUE             TokenType = "TRUE"
	FALSE            TokenType = "FALSE"
	STOP             TokenType = "STOP"
	TURN             TokenType = "TURN"
	ESTOP            TokenType = "ESTOP"
	MESSAGE          TokenType = "MESSAGE"
	AS               TokenType = "AS"
	TYPE             TokenType = "TYPE"
	MODE             TokenType = "MODE"
	BROKER           TokenType = "BROKER"
	CLIENT_ID        TokenType = "CLIENT_ID"
	QOS              TokenType = "QOS"
	PRIORITY         TokenType = "PRIORITY"
	MAX              TokenType = "MAX"
	MIN              TokenType = "MIN"
	JSON             TokenType = "JSON"
	NOW              TokenType = "NOW"
	VALUE            TokenType = "VALUE"
	POWER            TokenType = "POWER"
	READS            TokenType = "READS"
	CLOCKWISE        TokenType = "CLOCKWISE"
	COUNTERCLOCKWISE TokenType = "COUNTERCLOCKWISE"

	// Units and types
	TYPE_PERCENT  TokenType = "PERCENT_TYPE"
	TYPE_MS       TokenType = "MS"
	TYPE_CM       TokenType = "CM"
	TYPE_DEG      TokenType = "DEG"
	TYPE_HZ       TokenType = "HZ"
	TYPE_DISTANCE TokenType = "DISTANCE"
	TYPE_ANGLE    TokenType = "ANGLE"
	TYPE_SPEED    TokenType = "SPEED"

	// Priority levels
	HIGH   TokenType = "HIGH"
	MEDIUM TokenType = "MEDIUM"
	LOW    TokenType = "LOW"

	// Pin modes
	INPUT          TokenType = "INPUT"
	OUTPUT         TokenType = "OUTPUT"
	INPUT_PULLUP   TokenType = "INPUT_PULLUP"
	INPUT_PULLDOWN TokenType = "INPUT_PULLDOWN"

	// Bus kinds
	I2C  TokenType = "I2C"
	SPI  TokenType = "SPI"
	CAN  TokenType = "CAN"
	UART TokenType = "UART"
)

var keywords = map[string]TokenType{
	"robot":            ROBOT,
	"motor":            MOTOR,
	"servo":            SERVO,
	"sensor":           SENSOR,
	"gpio":             GPIO,
	"bus":              BUS,
	"net":              NET,
	"mqtt":             MQTT,
	"topic":            TOPIC,
	"publish":          PUBLISH,
	"on":               ON,
	"task":             TASK,
	"schedule":         SCHEDULE,
	"limits":           LIMITS,
	"when":             WHEN,
	"if":               IF,
	"else":             ELSE,
	"let":              LET,
	"wait":             WAIT,
	"return":           RETURN,
	"true":             TRUE,
	"false":            FALSE,
	"stop":             STOP,
	"turn":             TURN,
	"estop":            ESTOP,
	"message":          MESSAGE,
	"as":               AS,
	"type":             TYPE,
	"mode":             MODE,
	"broker":           BROKER,
	"client_id":        CLIENT_ID,
	"qos":              QOS,
	"priority":         PRIORITY,
	"max":              MAX,
	"min":              MIN,
	"json":             JSON,
	"now":              NOW,
	"value":            VALUE,
	"power":            POWER,
	"reads":            READS,
	"clockwise":        CLOCKWISE,
	"counterclockwise": COUNTERCLOCKWISE,

	"Percent":  TYPE_PERCENT,
	"ms":       TYPE_MS,
	"cm":       TYPE_CM,
	"deg":      TYPE_DEG,
	"Hz":       TYPE_HZ,
	"Distance": TYPE_DISTANCE,
	"Angle":    TYPE_ANGLE,
	"Speed":    TYPE_SPEED,

	"HIGH":   HIGH,
	"MEDIUM": MEDIUM,
	"LOW":    LOW,

	"Input":         INPUT,
	"Output":        OUTPUT,
	"InputPullup":   INPUT_PULLUP,
	"InputPulldown": INPUT_PULLDOWN,

	"I2C":  I2C,
	"SPI":  SPI,
	"CAN":  CAN,
	"UART": UART,
}

// softKeywords are keywords that name runtime builtins or enum values and may
// therefore appear where an expression expects a name (stop(), led = HIGH).
var softKeywords = map[TokenType]bool{
	PUBLISH: true, STOP: true, TURN: true, ESTOP: true,
	MAX: true, MIN: true, JSON: true, NOW: true, VALUE: true, POWER: true,
	READS: true, CLOCKWISE: true, COUNTERCLOCKWISE: true,
	HIGH: true, MEDIUM: true, LOW: true,
	INPUT: true, OUTPUT: true, INPUT_PULLUP: true, INPUT_PULLDOWN: true,
	I2C: true, SPI: true, CAN: true, UART: true,
}

// LookupIdent classifies a word by exact, case-sensitive spelling.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns a copy of the keyword table.
func Keywords() map[string]TokenType {
	out := make(map[string]TokenType, len(keywords))
	for k, v := range keywords {
		out[k] = v
	}
	return out
}

// IsKeyword reports whether t is one of the fixed keyword types.
func IsKeyword(t TokenType) bool {
	_, ok := spellings[t]
	return ok
}

// IsSoftKeyword reports whether t may stand in for an identifier inside an
// expression.
func IsSoftKeyword(t TokenType) bool {
	return softKeywords[t]
}

// IsWord reports whether t was scanned from a letter/digit/underscore run.
func IsWord(t TokenType) bool {
	return t == IDENT || IsKeyword(t)
}

// IsUnit reports whether t is a unit suffix keyword.
func IsUnit(t TokenType) bool {
	switch t {
	case TYPE_PERCENT, TYPE_MS, TYPE_CM, TYPE_DEG, TYPE_HZ:
		return true
	}
	return false
}

var spellings = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for k, v := range keywords {
		m[v] = k
	}
	return m
}()

// Spelling returns the source spelling of a keyword or symbol type, or ""
// for token types without a fixed spelling.
func Spelling(t TokenType) string {
	if s, ok := spellings[t]; ok {
		return s
	}
	switch t {
	case ERROR, EOF, NEWLINE, IDENT, NUMBER, STRING:
		return ""
	}
	return string(t)
}

// Describe renders a token for diagnostics: keywords and symbols by their
// spelling, everything else by kind.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	case IDENT:
		return "identifier '" + t.Literal + "'"
	case NUMBER:
		return "number " + t.Literal
	case STRING:
		return "string " + t.Literal
	case ERROR:
		return t.Literal
	}
	return "'" + Spelling(t.Type) + "'"
}
