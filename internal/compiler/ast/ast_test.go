package ast

import (
	"strings"
	"testing"

	"github.com/neurox-lang/neurox/internal/compiler/token"
)

func TestTokenLiterals(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"Program", &Program{Name: "Bot"}, "robot"},
		{"MotorDecl", &MotorDecl{Name: "m1"}, "motor"},
		{"ServoDecl", &ServoDecl{Name: "arm"}, "servo"},
		{"SensorDecl", &SensorDecl{Name: "front"}, "sensor"},
		{"GPIODecl", &GPIODecl{Name: "led"}, "gpio"},
		{"BusDecl", &BusDecl{Name: "imu"}, "bus"},
		{"NetDecl", &NetDecl{Protocol: "mqtt"}, "net"},
		{"TopicDecl", &TopicDecl{Name: "cmd"}, "topic"},
		{"LimitsDecl", &LimitsDecl{}, "limits"},
		{"LimitEntry max", &LimitEntry{IsMax: true}, "max"},
		{"LimitEntry min", &LimitEntry{}, "min"},
		{"TaskDecl", &TaskDecl{Name: "move"}, "task"},
		{"Param", &Param{Name: "speed"}, "speed"},
		{"TypeRef", &TypeRef{Name: "Percent"}, "Percent"},
		{"ScheduleDecl", &ScheduleDecl{Name: "main"}, "schedule"},
		{"EventDecl", &EventDecl{}, "when"},
		{"ExprStmt", &ExprStmt{Expr: &Ident{Name: "x"}}, "x"},
		{"AssignStmt", &AssignStmt{}, "="},
		{"AssignStmt define", &AssignStmt{Define: true}, "let"},
		{"IfStmt", &IfStmt{}, "if"},
		{"BlockStmt", &BlockStmt{}, "{"},
		{"WaitStmt", &WaitStmt{}, "wait"},
		{"ReturnStmt", &ReturnStmt{}, "return"},
		{"NumberLit", &NumberLit{Text: "3.14"}, "3.14"},
		{"StringLit", &StringLit{Value: "hello"}, "hello"},
		{"BoolLit true", &BoolLit{Value: true}, "true"},
		{"BoolLit false", &BoolLit{Value: false}, "false"},
		{"Ident", &Ident{Name: "m1"}, "m1"},
		{"UnaryExpr", &UnaryExpr{Op: "!"}, "!"},
		{"BinaryExpr", &BinaryExpr{Op: "+"}, "+"},
		{"CallExpr", &CallExpr{}, "call"},
		{"MemberExpr", &MemberExpr{Member: "power"}, "."},
		{"UnitExpr", &UnitExpr{Value: &NumberLit{Text: "100"}, Unit: UnitMs}, "100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.node.TokenLiteral()
			if result != tt.expected {
				t.Errorf("TokenLiteral() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestPosReturnsStart(t *testing.T) {
	pos := token.Position{Line: 4, Column: 7, Offset: 42}
	nodes := []Node{
		&Program{Start: pos}, &MotorDecl{Start: pos}, &TaskDecl{Start: pos},
		&WaitStmt{Start: pos}, &BinaryExpr{Start: pos}, &UnitExpr{Start: pos},
	}
	for _, n := range nodes {
		if n.Pos() != pos {
			t.Errorf("%T.Pos() = %+v, want %+v", n, n.Pos(), pos)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got      string
		expected string
	}{
		{UnitPercent.String(), "Percent"},
		{UnitMs.String(), "ms"},
		{UnitDegPerSec.String(), "deg/s"},
		{Unit(99).String(), "Unit(99)"},
		{PriorityHigh.String(), "HIGH"},
		{PriorityMedium.String(), "MEDIUM"},
		{Priority(0).String(), "Priority(0)"},
		{PinInputPullup.String(), "InputPullup"},
		{BusUART.String(), "UART"},
		{TriggerGPIO.String(), "gpio"},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("got %q, want %q", tt.got, tt.expected)
		}
	}
}

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expression
		expected string
	}{
		{"ident", &Ident{Name: "x"}, "x"},
		{"member", &MemberExpr{Object: &Ident{Name: "m1"}, Member: "power"}, "m1.power"},
		{"chain", &MemberExpr{Object: &MemberExpr{Object: &Ident{Name: "robot"}, Member: "arm"}, Member: "angle"}, "robot.arm.angle"},
		{"call", &CallExpr{Callee: &Ident{Name: "f"}}, ""},
		{"member of call", &MemberExpr{Object: &CallExpr{Callee: &Ident{Name: "f"}}, Member: "x"}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetPath(tt.expr); got != tt.expected {
				t.Errorf("TargetPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func sampleProgram() *Program {
	return &Program{
		Name: "TestBot",
		Decls: []Declaration{
			&MotorDecl{Name: "m1", Pin: "M1"},
			&BusDecl{Name: "imu", Kind: BusI2C, Address: 104, HasAddress: true},
			&LimitsDecl{Entries: []*LimitEntry{
				{Name: "speed", IsMax: true, Bound: &UnitExpr{Value: &NumberLit{Value: 80, Text: "80"}, Unit: UnitPercent}},
			}},
			&TaskDecl{
				Name:   "move",
				Params: []*Param{{Name: "speed", Type: &TypeRef{Name: "Percent"}}},
				Body: &BlockStmt{Stmts: []Statement{
					&AssignStmt{
						Target: &MemberExpr{Object: &Ident{Name: "m1"}, Member: "power"},
						Value:  &Ident{Name: "speed"},
					},
					&WaitStmt{Duration: &NumberLit{Value: 100, Text: "100"}},
				}},
			},
			&ScheduleDecl{
				Name:      "main",
				Frequency: &NumberLit{Value: 10, Text: "10"},
				Priority:  PriorityHigh,
				Body: &BlockStmt{Stmts: []Statement{
					&IfStmt{
						Cond: &BinaryExpr{Left: &Ident{Name: "a"}, Op: "&&", Right: &UnaryExpr{Op: "!", Operand: &BoolLit{Value: false}}},
						Then: &BlockStmt{Stmts: []Statement{&ExprStmt{Expr: &CallExpr{Callee: &Ident{Name: "stop"}}}}},
						Else: &BlockStmt{Stmts: []Statement{&ReturnStmt{}}},
					},
				}},
			},
			&EventDecl{Trigger: TriggerMessage, Source: "cmd", Var: "msg", Handler: &BlockStmt{}},
		},
	}
}

func TestFprint(t *testing.T) {
	expected := `Robot: TestBot
  Motor: m1 on M1
  Bus: imu on I2C @ 104
  Limits:
    Limit: speed max
      Unit: 80 Percent
  Task: move
    Param: speed: Percent
    Block:
      Assign: m1.power =
        Identifier: speed
      Wait:
        Literal: 100
  Schedule: main priority HIGH
    Literal: 10
    Block:
      If:
        Binary: &&
          Identifier: a
          Unary: !
            Literal: false
        Block:
          ExprStmt:
            Call:
              Identifier: stop
        Else:
          Block:
            Return:
  When: message cmd as msg
    Block:
`

	got := String(sampleProgram())
	if got != expected {
		t.Errorf("Fprint mismatch.\ngot:\n%s\nwant:\n%s", got, expected)
	}
}

func TestFprintDeclarationLabels(t *testing.T) {
	tests := []struct {
		node     Node
		expected string
	}{
		{&ServoDecl{Name: "arm", Pin: "S1"}, "Servo: arm on S1"},
		{&SensorDecl{Name: "front", Pin: "A0"}, "Sensor: front on A0"},
		{&SensorDecl{Name: "front", Pin: "A0", Type: "ultrasonic"}, "Sensor: front on A0 type ultrasonic"},
		{&GPIODecl{Name: "led", Pin: "13", Mode: PinOutput}, "GPIO: led on 13 mode Output"},
		{&BusDecl{Name: "can0", Kind: BusCAN}, "Bus: can0 on CAN"},
		{&NetDecl{Protocol: "mqtt", Broker: "mqtts://h", ClientID: "r1", QoS: 1, TLS: true}, `Net: mqtt broker "mqtts://h" client_id "r1" qos 1 tls`},
		{&TopicDecl{Name: "cmd", Path: "robot/cmd"}, `Topic: cmd on "robot/cmd"`},
		{&EventDecl{Trigger: TriggerGPIO, Source: "button", Handler: &BlockStmt{}}, "When: gpio button"},
		{&StringLit{Value: "hi"}, `Literal: "hi"`},
		{&NumberLit{Value: 2.5, Text: "2.50"}, "Literal: 2.5"},
	}
	for _, tt := range tests {
		got := strings.SplitN(String(tt.node), "\n", 2)[0]
		if got != tt.expected {
			t.Errorf("%T: got %q, want %q", tt.node, got, tt.expected)
		}
	}
}

type bogusExpr struct{}

func (bogusExpr) TokenLiteral() string { return "?" }
func (bogusExpr) Pos() token.Position  { return token.Position{} }
func (bogusExpr) expressionNode()      {}

func TestUnknownVariantPanics(t *testing.T) {
	t.Run("Inspect", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Inspect(&ExprStmt{Expr: bogusExpr{}}, func(Node) bool { return true })
	})
	t.Run("Fprint", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		String(&ExprStmt{Expr: bogusExpr{}})
	})
}

func TestInspectVisitsEveryNodeOnce(t *testing.T) {
	prog := sampleProgram()

	seen := map[Node]int{}
	Inspect(prog, func(n Node) bool {
		seen[n]++
		return true
	})

	for n, count := range seen {
		if count != 1 {
			t.Errorf("%T visited %d times", n, count)
		}
	}
	if len(seen) != 33 {
		t.Errorf("visited only %d nodes", len(seen))
	}
}

func TestInspectPrune(t *testing.T) {
	prog := sampleProgram()
	var kinds []string
	Inspect(prog, func(n Node) bool {
		kinds = append(kinds, n.TokenLiteral())
		_, isDecl := n.(Declaration)
		return !isDecl
	})
	// program + six declarations, nothing below them
	if len(kinds) != 7 {
		t.Errorf("expected 7 visits, got %d: %v", len(kinds), kinds)
	}
}
