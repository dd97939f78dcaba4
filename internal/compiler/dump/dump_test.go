package dump

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/neurox-lang/neurox/internal/compiler/parser"
)

const source = `robot Arm {
  servo wrist on 9
  bus imu on I2C @ 104
  net mqtt { broker "mqtts://h:8883" client_id "arm" }
  limits {
    turn_rate max 90deg/s
  }
  task wave(angle: deg) {
    wrist.angle = -angle
    wait(250ms)
  }
  when message cmd as m {
    if m == "go" { wave(45deg) } else { return }
  }
}`

func encode(t *testing.T) string {
	t.Helper()
	prog, diags, err := parser.Parse("arm.neuro", source)
	if err != nil {
		t.Fatalf("parse: %v %v", err, diags)
	}
	var buf bytes.Buffer
	if err := YAML(&buf, prog); err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	return buf.String()
}

func TestYAMLHeader(t *testing.T) {
	out := encode(t)
	lines := strings.Split(out, "\n")
	expected := []string{"kind: robot", "pos: ", "name: Arm", "decls:"}
	for i, want := range expected {
		if i >= len(lines) || !strings.HasPrefix(lines[i], want) {
			t.Fatalf("line %d: expected %q\n%s", i, want, out)
		}
	}
}

func TestYAMLDecodes(t *testing.T) {
	var doc struct {
		Kind  string `yaml:"kind"`
		Name  string `yaml:"name"`
		Decls []map[string]any
	}
	if err := yaml.Unmarshal([]byte(encode(t)), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if doc.Kind != "robot" || doc.Name != "Arm" || len(doc.Decls) != 6 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	tests := []struct {
		decl  int
		key   string
		value any
	}{
		{0, "kind", "servo"},
		{0, "pin", "9"},
		{1, "address", 104},
		{1, "kind", "bus"},
		{1, "bus", "I2C"},
		{1, "name", "imu"},
		{2, "tls", true},
		{2, "qos", 0},
		{2, "client_id", "arm"},
		{4, "name", "wave"},
		{5, "trigger", "message"},
		{5, "var", "m"},
	}
	for _, tt := range tests {
		if got := doc.Decls[tt.decl][tt.key]; got != tt.value {
			t.Errorf("decls[%d].%s = %#v, want %#v", tt.decl, tt.key, got, tt.value)
		}
	}
}

func TestYAMLExpressions(t *testing.T) {
	out := encode(t)
	for _, want := range []string{
		"kind: unit",
		"unit: deg/s",
		"value: 250",
		"kind: unary",
		"kind: member",
		"member: angle",
		"kind: if",
		"else:",
		"kind: return",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestYAMLDeterministic(t *testing.T) {
	if encode(t) != encode(t) {
		t.Error("two dumps of the same source differ")
	}
}
