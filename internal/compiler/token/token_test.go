package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		// Keywords
		{"robot", ROBOT},
		{"motor", MOTOR},
		{"task", TASK},
		{"schedule", SCHEDULE},
		{"client_id", CLIENT_ID},
		{"counterclockwise", COUNTERCLOCKWISE},
		{"Percent", TYPE_PERCENT},
		{"ms", TYPE_MS},
		{"Hz", TYPE_HZ},
		{"HIGH", HIGH},
		{"InputPullup", INPUT_PULLUP},
		{"I2C", I2C},
		{"return", RETURN},
		{"true", TRUE},
		// Non-keywords: matching is exact and case sensitive
		{"Robot", IDENT},
		{"percent", IDENT},
		{"hz", IDENT},
		{"high", IDENT},
		{"i2c", IDENT},
		{"motor1", IDENT},
		{"left_motor", IDENT},
		{"", IDENT},
	}

	for _, tt := range tests {
		result := LookupIdent(tt.input)
		if result != tt.expected {
			t.Errorf("LookupIdent(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestKeywordTableIsBijective(t *testing.T) {
	seen := map[TokenType]string{}
	for spelling, typ := range Keywords() {
		if prev, ok := seen[typ]; ok {
			t.Errorf("%s is spelled both %q and %q", typ, prev, spelling)
		}
		seen[typ] = spelling
		if Spelling(typ) != spelling {
			t.Errorf("Spelling(%s) = %q, want %q", typ, Spelling(typ), spelling)
		}
		if !IsKeyword(typ) || !IsWord(typ) {
			t.Errorf("%s should be a keyword word", typ)
		}
	}
}

func TestKeywordsReturnsCopy(t *testing.T) {
	kw := Keywords()
	kw["robot"] = IDENT
	if LookupIdent("robot") != ROBOT {
		t.Fatal("mutating Keywords() result changed the table")
	}
}

func TestSpelling(t *testing.T) {
	tests := []struct {
		typ      TokenType
		expected string
	}{
		{EQ, "=="},
		{ARROW, "->"},
		{LBRACE, "{"},
		{MOTOR, "motor"},
		{TYPE_PERCENT, "Percent"},
		{IDENT, ""},
		{EOF, ""},
	}
	for _, tt := range tests {
		if got := Spelling(tt.typ); got != tt.expected {
			t.Errorf("Spelling(%s) = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !IsSoftKeyword(STOP) || !IsSoftKeyword(HIGH) {
		t.Error("stop and HIGH should be usable as names")
	}
	if IsSoftKeyword(MOTOR) || IsSoftKeyword(IF) {
		t.Error("structural keywords must not be usable as names")
	}
	if !IsUnit(TYPE_MS) || IsUnit(TYPE_SPEED) {
		t.Error("IsUnit misclassifies unit keywords")
	}
	if IsWord(NUMBER) || !IsWord(IDENT) {
		t.Error("IsWord misclassifies")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tok      Token
		expected string
	}{
		{Token{Type: EOF}, "end of input"},
		{Token{Type: NEWLINE, Literal: "\n"}, "newline"},
		{Token{Type: IDENT, Literal: "m1"}, "identifier 'm1'"},
		{Token{Type: NUMBER, Literal: "42"}, "number 42"},
		{Token{Type: RBRACE, Literal: "}"}, "'}'"},
		{Token{Type: SERVO, Literal: "servo"}, "'servo'"},
	}
	for _, tt := range tests {
		if got := tt.tok.Describe(); got != tt.expected {
			t.Errorf("Describe() = %q, want %q", got, tt.expected)
		}
	}
}
