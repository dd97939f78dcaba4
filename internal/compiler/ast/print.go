package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented debug dump of node to w, two spaces per level.
// Positions are not printed, so two trees that differ only in layout print
// the same.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.node(node)
	return p.err
}

// String returns the Fprint dump of node.
func String(node Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, node)
	return sb.String()
}

type printer struct {
	w     io.Writer
	depth int
	err   error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), fmt.Sprintf(format, args...))
}

func (p *printer) nested(fn func()) {
	p.depth++
	fn()
	p.depth--
}

// FormatNumber renders a number the way %g does, without exponent padding.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case nil:
		p.line("<nil>")

	case *Program:
		p.line("Robot: %s", n.Name)
		p.nested(func() {
			for _, d := range n.Decls {
				p.node(d)
			}
		})

	// Declarations
	case *MotorDecl:
		p.line("Motor: %s on %s", n.Name, n.Pin)
	case *ServoDecl:
		p.line("Servo: %s on %s", n.Name, n.Pin)
	case *SensorDecl:
		if n.Type != "" {
			p.line("Sensor: %s on %s type %s", n.Name, n.Pin, n.Type)
		} else {
			p.line("Sensor: %s on %s", n.Name, n.Pin)
		}
	case *GPIODecl:
		p.line("GPIO: %s on %s mode %s", n.Name, n.Pin, n.Mode)
	case *BusDecl:
		if n.HasAddress {
			p.line("Bus: %s on %s @ %d", n.Name, n.Kind, n.Address)
		} else {
			p.line("Bus: %s on %s", n.Name, n.Kind)
		}
	case *NetDecl:
		tls := ""
		if n.TLS {
			tls = " tls"
		}
		p.line("Net: %s broker %q client_id %q qos %d%s", n.Protocol, n.Broker, n.ClientID, n.QoS, tls)
	case *TopicDecl:
		p.line("Topic: %s on %q", n.Name, n.Path)
	case *LimitsDecl:
		p.line("Limits:")
		p.nested(func() {
			for _, e := range n.Entries {
				p.node(e)
			}
		})
	case *LimitEntry:
		p.line("Limit: %s %s", n.Name, n.TokenLiteral())
		p.nested(func() { p.node(n.Bound) })
	case *TaskDecl:
		p.line("Task: %s", n.Name)
		p.nested(func() {
			for _, param := range n.Params {
				p.node(param)
			}
			p.node(n.Body)
		})
	case *Param:
		if n.Type != nil {
			p.line("Param: %s: %s", n.Name, n.Type.Name)
		} else {
			p.line("Param: %s", n.Name)
		}
	case *TypeRef:
		p.line("Type: %s", n.Name)
	case *ScheduleDecl:
		p.line("Schedule: %s priority %s", n.Name, n.Priority)
		p.nested(func() {
			p.node(n.Frequency)
			p.node(n.Body)
		})
	case *EventDecl:
		if n.Var != "" {
			p.line("When: %s %s as %s", n.Trigger, n.Source, n.Var)
		} else {
			p.line("When: %s %s", n.Trigger, n.Source)
		}
		p.nested(func() { p.node(n.Handler) })

	// Statements
	case *ExprStmt:
		p.line("ExprStmt:")
		p.nested(func() { p.node(n.Expr) })
	case *AssignStmt:
		if n.Define {
			p.line("Let: %s =", TargetPath(n.Target))
		} else {
			p.line("Assign: %s =", TargetPath(n.Target))
		}
		p.nested(func() { p.node(n.Value) })
	case *IfStmt:
		p.line("If:")
		p.nested(func() {
			p.node(n.Cond)
			p.node(n.Then)
			if n.Else != nil {
				p.line("Else:")
				p.nested(func() { p.node(n.Else) })
			}
		})
	case *BlockStmt:
		p.line("Block:")
		p.nested(func() {
			for _, s := range n.Stmts {
				p.node(s)
			}
		})
	case *WaitStmt:
		p.line("Wait:")
		p.nested(func() { p.node(n.Duration) })
	case *ReturnStmt:
		p.line("Return:")
		if n.Value != nil {
			p.nested(func() { p.node(n.Value) })
		}

	// Expressions
	case *NumberLit:
		p.line("Literal: %s", FormatNumber(n.Value))
	case *StringLit:
		p.line("Literal: %q", n.Value)
	case *BoolLit:
		p.line("Literal: %t", n.Value)
	case *Ident:
		p.line("Identifier: %s", n.Name)
	case *BinaryExpr:
		p.line("Binary: %s", n.Op)
		p.nested(func() {
			p.node(n.Left)
			p.node(n.Right)
		})
	case *UnaryExpr:
		p.line("Unary: %s", n.Op)
		p.nested(func() { p.node(n.Operand) })
	case *CallExpr:
		p.line("Call:")
		p.nested(func() {
			p.node(n.Callee)
			for _, a := range n.Args {
				p.node(a)
			}
		})
	case *MemberExpr:
		p.line("Member: .%s", n.Member)
		p.nested(func() { p.node(n.Object) })
	case *UnitExpr:
		p.line("Unit: %s %s", FormatNumber(n.Value.Value), n.Unit)

	default:
		panic(fmt.Sprintf("ast.Fprint: unexpected node type %T", n))
	}
}
