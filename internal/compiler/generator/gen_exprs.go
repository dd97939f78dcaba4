package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

// ctype is the C type an expression lowers to. Every numeric quantity,
// unit values included, is a float in the runtime API.
type ctype int

const (
	cFloat ctype = iota
	cBool
	cString
)

func (t ctype) decl() string {
	switch t {
	case cBool:
		return "bool"
	case cString:
		return "const char *"
	}
	return "float"
}

func (t ctype) String() string {
	switch t {
	case cBool:
		return "bool"
	case cString:
		return "string"
	}
	return "number"
}

// expr lowers an expression. On failure it records the error and returns a
// placeholder so that lowering can carry on.
func (g *Generator) expr(e ast.Expression) (string, ctype) {
	switch e := e.(type) {
	case *ast.NumberLit:
		return e.Text, cFloat
	case *ast.UnitExpr:
		// values keep the unit they were written in; the runtime API takes
		// ms, percent, degrees and Hz directly
		return e.Value.Text, cFloat
	case *ast.StringLit:
		return utils.CString(e.Value), cString
	case *ast.BoolLit:
		return strconv.FormatBool(e.Value), cBool
	case *ast.Ident:
		return g.ident(e)
	case *ast.UnaryExpr:
		code, t := g.operand(e.Operand)
		if _, nested := e.Operand.(*ast.UnaryExpr); nested {
			code = "(" + code + ")"
		}
		if e.Op == "!" {
			return "!" + code, cBool
		}
		if t != cFloat {
			g.fail(e.Pos(), "cannot negate a %s", t)
		}
		return "-" + code, cFloat
	case *ast.BinaryExpr:
		return g.binary(e)
	case *ast.MemberExpr:
		return g.member(e)
	case *ast.CallExpr:
		return g.callExpr(e)
	}
	panic(fmt.Sprintf("generator: unexpected expression %T", e))
}

// operand lowers e for use inside a larger expression, parenthesizing
// binary expressions.
func (g *Generator) operand(e ast.Expression) (string, ctype) {
	code, t := g.expr(e)
	if _, ok := e.(*ast.BinaryExpr); ok {
		code = "(" + code + ")"
	}
	return code, t
}

func (g *Generator) ident(id *ast.Ident) (string, ctype) {
	if t, ok := g.locals[id.Name]; ok {
		return utils.CIdent(id.Name), t
	}

	switch id.Name {
	case "HIGH":
		return "NRX_GPIO_HIGH", cFloat
	case "LOW":
		return "NRX_GPIO_LOW", cFloat
	}

	switch g.syms.kinds[id.Name] {
	case symGPIO:
		return fmt.Sprintf("nrx_gpio_read(%s)", gpioMacro(id.Name)), cFloat
	case symSensor:
		return fmt.Sprintf("nrx_sensor_read(&sensor_%s)", id.Name), cFloat
	case symMotor:
		return fmt.Sprintf("motor_%s.power", id.Name), cFloat
	case symServo:
		return fmt.Sprintf("servo_%s.angle", id.Name), cFloat
	case symTopic:
		return topicMacro(id.Name), cString
	}

	g.fail(id.Pos(), "unknown identifier %q", id.Name)
	return "0", cFloat
}

func (g *Generator) member(m *ast.MemberExpr) (string, ctype) {
	obj, ok := m.Object.(*ast.Ident)
	if !ok {
		g.fail(m.Pos(), "member access is only supported on declared hardware")
		return "0", cFloat
	}

	switch kind := g.syms.kinds[obj.Name]; {
	case kind == symSensor && (m.Member == "value" || m.Member == "reads"):
		return fmt.Sprintf("nrx_sensor_read(&sensor_%s)", obj.Name), cFloat
	case kind == symMotor && m.Member == "power":
		return fmt.Sprintf("motor_%s.power", obj.Name), cFloat
	case kind == symServo && m.Member == "angle":
		return fmt.Sprintf("servo_%s.angle", obj.Name), cFloat
	}

	g.fail(m.Pos(), "%s has no readable member %q", obj.Name, m.Member)
	return "0", cFloat
}

func (g *Generator) binary(e *ast.BinaryExpr) (string, ctype) {
	left, lt := g.operand(e.Left)
	right, rt := g.operand(e.Right)

	switch e.Op {
	case "&&", "||":
		return left + " " + e.Op + " " + right, cBool

	case "==", "!=":
		if lt == cString || rt == cString {
			if lt != rt {
				g.fail(e.Pos(), "cannot compare a %s with a %s", lt, rt)
			}
			return fmt.Sprintf("strcmp(%s, %s) %s 0", left, right, e.Op), cBool
		}
		return left + " " + e.Op + " " + right, cBool

	case "<", ">", "<=", ">=":
		if lt == cString || rt == cString {
			g.fail(e.Pos(), "cannot order strings with %s", e.Op)
		}
		return left + " " + e.Op + " " + right, cBool

	case "%":
		if lt == cString || rt == cString {
			g.fail(e.Pos(), "operator %% needs numbers")
		}
		return fmt.Sprintf("fmodf(%s, %s)", left, right), cFloat
	}

	if lt == cString || rt == cString {
		g.fail(e.Pos(), "operator %s needs numbers", e.Op)
	}
	return left + " " + e.Op + " " + right, cFloat
}

// callExpr lowers a call used for its value.
func (g *Generator) callExpr(call *ast.CallExpr) (string, ctype) {
	name, ok := g.callee(call)
	if !ok {
		return "0", cFloat
	}

	switch name {
	case "now":
		g.arity(call, 0)
		return "(float)(nrx_time_now_us() / 1000)", cFloat
	case "json":
		if !g.arity(call, 1) {
			return `""`, cString
		}
		arg, t := g.expr(call.Args[0])
		if t == cString {
			g.fail(call.Args[0].Pos(), "json() takes a number")
		}
		return fmt.Sprintf("json_number(%s)", arg), cString
	case "max", "min":
		if !g.arity(call, 2) {
			return "0", cFloat
		}
		a, _ := g.expr(call.Args[0])
		c, _ := g.expr(call.Args[1])
		return fmt.Sprintf("f%sf(%s, %s)", name, a, c), cFloat
	}

	if _, ok := g.syms.tasks[name]; ok {
		g.fail(call.Pos(), "task %s does not return a value", name)
		return "0", cFloat
	}

	g.fail(call.Pos(), "unknown function %s()", name)
	return "0", cFloat
}

// callee resolves the function name of a call; only plain names can be
// called.
func (g *Generator) callee(call *ast.CallExpr) (string, bool) {
	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		g.fail(call.Pos(), "only named functions can be called")
		return "", false
	}
	return id.Name, true
}

func (g *Generator) arity(call *ast.CallExpr, n int) bool {
	if len(call.Args) != n {
		g.fail(call.Pos(), "%s() takes %d argument(s), got %d", ast.TargetPath(call.Callee), n, len(call.Args))
		return false
	}
	return true
}

// args lowers call arguments into a comma separated list.
func (g *Generator) args(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, a := range exprs {
		parts[i], _ = g.expr(a)
	}
	return strings.Join(parts, ", ")
}
