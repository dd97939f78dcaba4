package lexer

import (
	"strings"
	"testing"

	"github.com/neurox-lang/neurox/internal/compiler/token"
)

func TestBasicTokens(t *testing.T) {
	input := `= + - ! * / % < > ( ) { } [ ] @ : , . ;`

	expected := []token.TokenType{
		token.ASSIGN, token.PLUS, token.MINUS, token.BANG, token.ASTERISK,
		token.SLASH, token.PERCENT, token.LT, token.GT, token.LPAREN, token.RPAREN,
		token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.AT, token.COLON, token.COMMA, token.DOT, token.SEMICOLON,
		token.EOF,
	}

	l := New(input, "ops.neuro")
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s (literal=%q)", i, exp, tok.Type, tok.Literal)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	input := `== != <= >= && || :: ->`

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.EQ, "=="}, {token.NOT_EQ, "!="}, {token.LT_EQ, "<="},
		{token.GT_EQ, ">="}, {token.AND, "&&"}, {token.OR, "||"},
		{token.DOUBLE_COLON, "::"}, {token.ARROW, "->"},
	}

	l := New(input, "")
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ || tok.Literal != exp.lit {
			t.Fatalf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lit, tok.Type, tok.Literal)
		}
		if tok.Len != 2 {
			t.Fatalf("test[%d] - expected Len 2, got %d", i, tok.Len)
		}
	}
}

func TestEveryKeyword(t *testing.T) {
	for spelling, typ := range token.Keywords() {
		l := New(spelling, "")
		tok := l.NextToken()
		if tok.Type != typ || tok.Literal != spelling {
			t.Errorf("%q lexed as %s(%q), want %s", spelling, tok.Type, tok.Literal, typ)
		}
		if next := l.NextToken(); next.Type != token.EOF {
			t.Errorf("%q lexed to more than one token: %s", spelling, next.Type)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	for _, word := range []string{"m1", "left_motor", "_tmp", "Robot", "Ms", "hz", "Percentage", "robots", "x_9"} {
		l := New(word, "")
		tok := l.NextToken()
		if tok.Type != token.IDENT || tok.Literal != word {
			t.Errorf("%q lexed as %s(%q), want one identifier", word, tok.Type, tok.Literal)
		}
		if next := l.NextToken(); next.Type != token.EOF {
			t.Errorf("%q lexed to more than one token", word)
		}
	}
}

func TestNonASCIIIdentifier(t *testing.T) {
	l := New("vitesse_é = 1", "")

	tok := l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "vitesse_" {
		t.Fatalf("expected IDENTIFIER(\"vitesse_\"), got %s(%q)", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.ERROR || tok.Literal != "unexpected character 'é'" {
		t.Fatalf("expected an error token for 'é', got %s(%q)", tok.Type, tok.Literal)
	}
	if tok.Pos.Column != 9 || tok.Len != len("é") {
		t.Errorf("error token at column %d with length %d", tok.Pos.Column, tok.Len)
	}
	if next := l.NextToken(); next.Type != token.ASSIGN {
		t.Errorf("expected lexing to resume after the bad character, got %s", next.Type)
	}
}

func TestNumbers(t *testing.T) {
	input := `42 3.14 0 100.5 7.`

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.NUMBER, "42"}, {token.NUMBER, "3.14"}, {token.NUMBER, "0"},
		{token.NUMBER, "100.5"}, {token.NUMBER, "7"}, {token.DOT, "."},
		{token.EOF, ""},
	}

	l := New(input, "")
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ || tok.Literal != exp.lit {
			t.Fatalf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lit, tok.Type, tok.Literal)
		}
	}
}

func TestUnitSuffixIsSeparateToken(t *testing.T) {
	tests := []struct {
		input string
		num   string
		unit  token.TokenType
	}{
		{"100ms", "100", token.TYPE_MS},
		{"50Percent", "50", token.TYPE_PERCENT},
		{"90deg", "90", token.TYPE_DEG},
		{"2.5cm", "2.5", token.TYPE_CM},
		{"10Hz", "10", token.TYPE_HZ},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input, "")
			tok := l.NextToken()
			if tok.Type != token.NUMBER || tok.Literal != tt.num {
				t.Fatalf("expected NUMBER(%q), got %s(%q)", tt.num, tok.Type, tok.Literal)
			}
			tok = l.NextToken()
			if tok.Type != tt.unit {
				t.Fatalf("expected %s, got %s(%q)", tt.unit, tok.Type, tok.Literal)
			}
			if tok = l.NextToken(); tok.Type != token.EOF {
				t.Fatalf("expected EOF, got %s", tok.Type)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	input := "\"mqtt://localhost:1883\" \"two\nlines\" x"

	l := New(input, "")

	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != `"mqtt://localhost:1883"` {
		t.Fatalf("test 1 - got %s(%q)", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "\"two\nlines\"" {
		t.Fatalf("test 2 - got %s(%q)", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.IDENT || tok.Pos.Line != 2 || tok.Pos.Column != 8 {
		t.Fatalf("test 3 - expected x at 2:8, got %s(%q) at %d:%d", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New("motor m1\n  \"never closed", "bad.neuro")

	l.NextToken() // motor
	l.NextToken() // m1
	l.NextToken() // newline

	tok := l.NextToken()
	if tok.Type != token.ERROR {
		t.Fatalf("expected ERROR, got %s(%q)", tok.Type, tok.Literal)
	}
	if tok.Literal != "unterminated string" {
		t.Errorf("message = %q", tok.Literal)
	}
	if tok.Pos.Line != 2 || tok.Pos.Column != 3 {
		t.Errorf("position = %d:%d, want 2:3 (the opening quote)", tok.Pos.Line, tok.Pos.Column)
	}
	if tok = l.NextToken(); tok.Type != token.EOF {
		t.Errorf("expected EOF after error, got %s", tok.Type)
	}
}

func TestUnexpectedCharacters(t *testing.T) {
	l := New("a & b | c $", "")

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.IDENT, "a"},
		{token.ERROR, "unexpected character '&'"},
		{token.IDENT, "b"},
		{token.ERROR, "unexpected character '|'"},
		{token.IDENT, "c"},
		{token.ERROR, "unexpected character '$'"},
		{token.EOF, ""},
	}

	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ || tok.Literal != exp.lit {
			t.Fatalf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lit, tok.Type, tok.Literal)
		}
	}
}

func TestLineComments(t *testing.T) {
	input := "let x // this is a comment\nlet y"

	expected := []token.TokenType{
		token.LET, token.IDENT, token.NEWLINE, token.LET, token.IDENT, token.EOF,
	}

	l := New(input, "")
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp {
			t.Fatalf("test[%d] - expected %s, got %s(%q)", i, exp, tok.Type, tok.Literal)
		}
	}
}

func TestBlockComments(t *testing.T) {
	input := "let /* this\nis\na comment */ x"

	l := New(input, "")

	tok := l.NextToken()
	if tok.Type != token.LET {
		t.Fatalf("expected LET, got %s", tok.Type)
	}

	tok = l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "x" {
		t.Fatalf("expected x, got %s(%q)", tok.Type, tok.Literal)
	}
	if tok.Pos.Line != 3 || tok.Pos.Column != 14 {
		t.Fatalf("expected x at 3:14, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
}

func TestUnclosedBlockCommentReachesEOF(t *testing.T) {
	l := New("x /* never closed", "")
	l.NextToken()
	if tok := l.NextToken(); tok.Type != token.EOF {
		t.Fatalf("expected EOF, got %s", tok.Type)
	}
}

func TestPositions(t *testing.T) {
	input := "robot Bot {\n  motor m1 on M1\r\n}"

	expected := []struct {
		typ    token.TokenType
		line   int
		column int
		offset int
	}{
		{token.ROBOT, 1, 1, 0},
		{token.IDENT, 1, 7, 6},
		{token.LBRACE, 1, 11, 10},
		{token.NEWLINE, 1, 12, 11},
		{token.MOTOR, 2, 3, 14},
		{token.IDENT, 2, 9, 20},
		{token.ON, 2, 12, 23},
		{token.IDENT, 2, 15, 26},
		{token.NEWLINE, 2, 18, 29},
		{token.RBRACE, 3, 1, 30},
		{token.EOF, 3, 2, 31},
	}

	l := New(input, "")
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Fatalf("test[%d] - expected %s, got %s(%q)", i, exp.typ, tok.Type, tok.Literal)
		}
		if tok.Pos.Line != exp.line || tok.Pos.Column != exp.column || tok.Pos.Offset != exp.offset {
			t.Fatalf("test[%d] %s - expected %d:%d@%d, got %d:%d@%d", i, exp.typ,
				exp.line, exp.column, exp.offset, tok.Pos.Line, tok.Pos.Column, tok.Pos.Offset)
		}
	}
}

func TestColumnsCountRunes(t *testing.T) {
	l := New(`"héllo" x`, "")
	l.NextToken()
	tok := l.NextToken()
	if tok.Pos.Column != 9 {
		t.Fatalf("expected column 9, got %d", tok.Pos.Column)
	}
	if tok.Pos.Offset != 9 {
		t.Fatalf("expected byte offset 9, got %d", tok.Pos.Offset)
	}
}

func TestLiteralBorrowsSource(t *testing.T) {
	src := "motor left_motor on M1"
	l := New(src, "")
	l.NextToken()
	tok := l.NextToken()
	if src[tok.Pos.Offset:tok.Pos.Offset+tok.Len] != tok.Literal {
		t.Fatalf("literal %q does not match source span", tok.Literal)
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	l := New("x", "")
	l.NextToken()
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.EOF {
			t.Fatalf("call %d - expected EOF, got %s", i, tok.Type)
		}
	}
}

func TestFilename(t *testing.T) {
	l := New("", "robot.neuro")
	if l.Filename() != "robot.neuro" {
		t.Fatalf("Filename() = %q", l.Filename())
	}
	if l.Source() != "" {
		t.Fatalf("Source() = %q", l.Source())
	}
}

func TestCompleteProgram(t *testing.T) {
	input := `robot TestBot {
  schedule main @ 10Hz priority HIGH {
    if m1.power >= 50Percent && !stop {
      wait(100ms)
    }
  }
}`

	expected := []token.TokenType{
		token.ROBOT, token.IDENT, token.LBRACE, token.NEWLINE,
		token.SCHEDULE, token.IDENT, token.AT, token.NUMBER, token.TYPE_HZ,
		token.PRIORITY, token.HIGH, token.LBRACE, token.NEWLINE,
		token.IF, token.IDENT, token.DOT, token.POWER, token.GT_EQ, token.NUMBER,
		token.TYPE_PERCENT, token.AND, token.BANG, token.STOP, token.LBRACE, token.NEWLINE,
		token.WAIT, token.LPAREN, token.NUMBER, token.TYPE_MS, token.RPAREN, token.NEWLINE,
		token.RBRACE, token.NEWLINE,
		token.RBRACE, token.NEWLINE,
		token.RBRACE, token.EOF,
	}

	l := New(input, "bot.neuro")
	var got []string
	for i, exp := range expected {
		tok := l.NextToken()
		got = append(got, string(tok.Type))
		if tok.Type != exp {
			t.Fatalf("test[%d] - expected %s, got %s (so far: %s)", i, exp, tok.Type, strings.Join(got, " "))
		}
	}
}
