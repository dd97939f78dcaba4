package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/dump"
	"github.com/neurox-lang/neurox/internal/compiler/format"
	"github.com/neurox-lang/neurox/internal/compiler/generator"
	"github.com/neurox-lang/neurox/internal/compiler/lexer"
	"github.com/neurox-lang/neurox/internal/compiler/parser"
)

const pipelineSource = `// line follower with remote stop
robot Follower {
  motor left on M1
  motor right on M2
  sensor line on A0 type reflectance
  gpio led on 13 mode Output

  net mqtt { broker "mqtt://10.0.0.2:1883" client_id "follower" qos 0 }
  topic halt on "follower/halt"

  limits {
    speed max 60Percent
  }

  task steer(bias: Percent) {
    left = 40 + bias
    right = 40 - bias
  }

  schedule follow @ 20Hz priority HIGH {
    let v = line.value
    if v > 2.5 { steer(10) } else { steer(-10) }
    led = v > 2.5
  }

  when message halt {
    stop()
    estop()
  }
}
`

// TestFullPipeline tests the complete path from source text to C
func TestFullPipeline(t *testing.T) {
	// 1. Lexing + 2. Parsing
	p := parser.New(lexer.New(pipelineSource, "follower.neuro"))
	prog := p.ParseProgram()
	if prog == nil || p.HadError() {
		t.Fatalf("Parse errors: %v", p.Errors())
	}
	if len(prog.Decls) != 10 {
		t.Errorf("Expected 10 declarations, got %d", len(prog.Decls))
	}

	// 3. Generate
	code, err := generator.New().Generate(prog, "follower.neuro")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	expectedElements := []string{
		"// Robot: Follower",
		`#include "runtime/net/mqtt.h"`,
		"static nrx_motor_t motor_left;",
		"static void task_steer(float bias) {",
		"    nrx_motor_set_power(&motor_left, 40 + bias);",
		"    float v = nrx_sensor_read(&sensor_line);",
		"        task_steer(-10);",
		"    nrx_gpio_write(GPIO_LED, (v > 2.5) ? NRX_GPIO_HIGH : NRX_GPIO_LOW);",
		"static void when_message_halt(void) {",
		"        when_message_halt();",
		".use_tls = false,",
		"nrx_safety_set_limit(NRX_LIMIT_SPEED, -FLT_MAX, 60);",
		"nrx_task_schedule_periodic(schedule_follow_task, 20);",
		"nrx_scheduler_start();",
	}
	for _, expected := range expectedElements {
		if !strings.Contains(code, expected) {
			t.Errorf("Generated code missing expected element: %q", expected)
		}
	}

	// 4. Dump
	var buf bytes.Buffer
	if err := dump.YAML(&buf, prog); err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	if !strings.Contains(buf.String(), "name: Follower") {
		t.Errorf("YAML dump missing the robot name:\n%s", buf.String())
	}
}

// TestFormattedSourceGeneratesSameCode checks that formatting never changes
// what a program means.
func TestFormattedSourceGeneratesSameCode(t *testing.T) {
	prog, _, err := parser.Parse("follower.neuro", pipelineSource)
	if err != nil {
		t.Fatal(err)
	}
	formatted := format.Source(prog)

	again, diags, err := parser.Parse("follower.neuro", formatted)
	if err != nil {
		t.Fatalf("formatted source does not parse: %v\n%s", diags, formatted)
	}
	if ast.String(prog) != ast.String(again) {
		t.Errorf("tree changed after formatting:\n%s", formatted)
	}
	if format.Source(again) != formatted {
		t.Error("formatting is not idempotent")
	}

	before, err := generator.New().Generate(prog, "x.neuro")
	if err != nil {
		t.Fatal(err)
	}
	after, err := generator.New().Generate(again, "x.neuro")
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("generated C differs after formatting")
	}
}

// TestMinimalFile tests generating code from an empty robot
func TestMinimalFile(t *testing.T) {
	prog, _, err := parser.Parse("empty.neuro", "robot Empty {}")
	if err != nil {
		t.Fatal(err)
	}

	code, err := generator.New().Generate(prog, "empty.neuro")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Should have a working main function even without declarations
	if !strings.Contains(code, "int main(void) {") {
		t.Error("Missing main function")
	}
	if strings.Contains(code, "// ========== Hardware") || strings.Contains(code, "mqtt") {
		t.Errorf("unexpected sections for an empty robot:\n%s", code)
	}
}

// TestFailedParseStopsPipeline checks that a broken file yields exactly one
// diagnostic and nothing for later stages.
func TestFailedParseStopsPipeline(t *testing.T) {
	prog, diags, err := parser.Parse("broken.neuro", "robot Broken {\n  motor left M1\n}")
	if err == nil || prog != nil {
		t.Fatal("expected the parse to fail")
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if got := diags[0].Error(); !strings.HasPrefix(got, "error: broken.neuro:2:") {
		t.Errorf("unexpected diagnostic %q", got)
	}
}
