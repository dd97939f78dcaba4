package utils

import "testing"

func TestToUpperSnake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "led", "LED"},
		{"snake", "turn_rate", "TURN_RATE"},
		{"camel", "turnRate", "TURN_RATE"},
		{"acronym", "I2C", "I2C"},
		{"pin name", "M1", "M1"},
		{"mixed", "frontLeft_motor", "FRONT_LEFT_MOTOR"},
		{"leading underscore", "_hidden", "HIDDEN"},
		{"trailing underscore", "field_", "FIELD"},
		{"double underscore", "a__b", "A_B"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToUpperSnake(tt.input); got != tt.expected {
				t.Errorf("ToUpperSnake(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"speed", "speed"},
		{"int", "int_"},
		{"return", "return_"},
		{"main", "main_"},
		{"Int", "Int"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CIdent(tt.input); got != tt.expected {
				t.Errorf("CIdent(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"rover/cmd", `"rover/cmd"`},
		{`a\b`, `"a\\b"`},
		{"two\nlines", `"two\nlines"`},
		{`say "hi"`, `"say \"hi\""`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CString(tt.input); got != tt.expected {
				t.Errorf("CString(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}
