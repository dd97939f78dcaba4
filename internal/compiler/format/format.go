// Package format prints a parsed program back as canonical NeuroX source.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
)

const indentUnit = "  "

// Binding strength of binary operators, mirroring the parser.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

// unary and postfix forms bind tighter than any binary operator
const (
	precUnary   = 7
	precPostfix = 8
)

// Source returns the canonical text of prog: two-space indentation, one
// declaration or statement per line, a blank line around block declarations
// and only the parentheses that precedence requires.
func Source(prog *ast.Program) string {
	f := &formatter{}
	f.program(prog)
	return f.b.String()
}

// Expr returns the canonical text of a single expression.
func Expr(e ast.Expression) string {
	f := &formatter{}
	f.expr(e, 0)
	return f.b.String()
}

type formatter struct {
	b     strings.Builder
	depth int
}

func (f *formatter) line(format string, args ...any) {
	f.b.WriteString(strings.Repeat(indentUnit, f.depth))
	fmt.Fprintf(&f.b, format, args...)
	f.b.WriteByte('\n')
}

func (f *formatter) program(prog *ast.Program) {
	f.line("robot %s {", prog.Name)
	f.depth++
	for i, d := range prog.Decls {
		if i > 0 && (isBlockDecl(d) || isBlockDecl(prog.Decls[i-1])) {
			f.b.WriteByte('\n')
		}
		f.decl(d)
	}
	f.depth--
	f.line("}")
}

func isBlockDecl(d ast.Declaration) bool {
	switch d.(type) {
	case *ast.NetDecl, *ast.LimitsDecl, *ast.TaskDecl, *ast.ScheduleDecl, *ast.EventDecl:
		return true
	}
	return false
}

func (f *formatter) decl(d ast.Declaration) {
	switch d := d.(type) {
	case *ast.MotorDecl:
		f.line("motor %s on %s", d.Name, d.Pin)
	case *ast.ServoDecl:
		f.line("servo %s on %s", d.Name, d.Pin)
	case *ast.SensorDecl:
		if d.Type != "" {
			f.line("sensor %s on %s type %s", d.Name, d.Pin, d.Type)
		} else {
			f.line("sensor %s on %s", d.Name, d.Pin)
		}
	case *ast.GPIODecl:
		f.line("gpio %s on %s mode %s", d.Name, d.Pin, d.Mode)
	case *ast.BusDecl:
		if d.HasAddress {
			f.line("bus %s on %s @ %d", d.Name, d.Kind, d.Address)
		} else {
			f.line("bus %s on %s", d.Name, d.Kind)
		}
	case *ast.NetDecl:
		f.line("net %s {", d.Protocol)
		f.depth++
		f.line("broker %s", quote(d.Broker))
		if d.ClientID != "" {
			f.line("client_id %s", quote(d.ClientID))
		}
		f.line("qos %d", d.QoS)
		f.depth--
		f.line("}")
	case *ast.TopicDecl:
		f.line("topic %s on %s", d.Name, quote(d.Path))
	case *ast.LimitsDecl:
		f.line("limits {")
		f.depth++
		for _, e := range d.Entries {
			f.line("%s %s %s", e.Name, e.TokenLiteral(), Expr(e.Bound))
		}
		f.depth--
		f.line("}")
	case *ast.TaskDecl:
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = p.Name
			if p.Type != nil {
				params[i] += ": " + p.Type.Name
			}
		}
		f.line("task %s(%s) {", d.Name, strings.Join(params, ", "))
		f.body(d.Body)
	case *ast.ScheduleDecl:
		f.line("schedule %s @ %s priority %s {", d.Name, Expr(d.Frequency), d.Priority)
		f.body(d.Body)
	case *ast.EventDecl:
		if d.Var != "" {
			f.line("when %s %s as %s {", d.Trigger, d.Source, d.Var)
		} else {
			f.line("when %s %s {", d.Trigger, d.Source)
		}
		f.body(d.Handler)
	default:
		panic(fmt.Sprintf("format: unexpected declaration %T", d))
	}
}

// body writes the statements of a block and its closing brace.
func (f *formatter) body(b *ast.BlockStmt) {
	f.depth++
	for _, s := range b.Stmts {
		f.stmt(s)
	}
	f.depth--
	f.line("}")
}

func (f *formatter) stmt(s ast.Statement) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		f.line("%s", Expr(s.Expr))
	case *ast.AssignStmt:
		if s.Define {
			f.line("let %s = %s", Expr(s.Target), Expr(s.Value))
		} else {
			f.line("%s = %s", Expr(s.Target), Expr(s.Value))
		}
	case *ast.WaitStmt:
		f.line("wait(%s)", Expr(s.Duration))
	case *ast.ReturnStmt:
		if s.Value != nil {
			f.line("return %s", Expr(s.Value))
		} else {
			f.line("return")
		}
	case *ast.BlockStmt:
		// a bare block only occurs as an else branch, handled by ifChain
		panic("format: block statement outside of if")
	case *ast.IfStmt:
		f.ifChain(s)
	default:
		panic(fmt.Sprintf("format: unexpected statement %T", s))
	}
}

// ifChain writes if / else if / else with each else on the closing brace
// line, the only layout the parser accepts.
func (f *formatter) ifChain(s *ast.IfStmt) {
	f.line("if %s {", Expr(s.Cond))
	for {
		f.depth++
		for _, st := range s.Then.Stmts {
			f.stmt(st)
		}
		f.depth--

		switch e := s.Else.(type) {
		case nil:
			f.line("}")
			return
		case *ast.IfStmt:
			f.line("} else if %s {", Expr(e.Cond))
			s = e
		case *ast.BlockStmt:
			f.line("} else {")
			f.depth++
			for _, st := range e.Stmts {
				f.stmt(st)
			}
			f.depth--
			f.line("}")
			return
		default:
			panic(fmt.Sprintf("format: unexpected else branch %T", e))
		}
	}
}

func quote(s string) string {
	return `"` + s + `"`
}

// expr writes e, parenthesized when it binds looser than the context
// requires.
func (f *formatter) expr(e ast.Expression, outer int) {
	prec := exprPrecedence(e)
	if prec < outer {
		f.b.WriteByte('(')
		defer f.b.WriteByte(')')
	}

	switch e := e.(type) {
	case *ast.NumberLit:
		f.b.WriteString(e.Text)
	case *ast.UnitExpr:
		f.b.WriteString(e.Value.Text)
		f.b.WriteString(e.Unit.String())
	case *ast.StringLit:
		f.b.WriteString(quote(e.Value))
	case *ast.BoolLit:
		f.b.WriteString(strconv.FormatBool(e.Value))
	case *ast.Ident:
		f.b.WriteString(e.Name)
	case *ast.UnaryExpr:
		f.b.WriteString(e.Op)
		f.expr(e.Operand, precUnary)
	case *ast.BinaryExpr:
		// left associative: an equal-precedence right operand keeps its parens
		f.expr(e.Left, prec)
		f.b.WriteString(" " + e.Op + " ")
		f.expr(e.Right, prec+1)
	case *ast.CallExpr:
		f.expr(e.Callee, precPostfix)
		f.b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				f.b.WriteString(", ")
			}
			f.expr(a, 0)
		}
		f.b.WriteByte(')')
	case *ast.MemberExpr:
		f.expr(e.Object, precPostfix)
		f.b.WriteByte('.')
		f.b.WriteString(e.Member)
	default:
		panic(fmt.Sprintf("format: unexpected expression %T", e))
	}
}

func exprPrecedence(e ast.Expression) int {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		return precedence[e.Op]
	case *ast.UnaryExpr:
		return precUnary
	}
	return precPostfix
}
