package generator

import (
	"fmt"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

// block lowers the statements of a body at the writer's current depth.
func (g *Generator) block(w *cwriter, b *ast.BlockStmt) {
	for _, s := range b.Stmts {
		g.stmt(w, s)
	}
}

func (g *Generator) stmt(w *cwriter, s ast.Statement) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		g.exprStmt(w, s)
	case *ast.AssignStmt:
		g.assign(w, s)
	case *ast.IfStmt:
		g.ifStmt(w, s)
	case *ast.BlockStmt:
		w.line("{")
		w.depth++
		g.block(w, s)
		w.depth--
		w.line("}")
	case *ast.WaitStmt:
		g.wait(w, s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			g.fail(s.Pos(), "tasks and handlers cannot return a value")
		}
		w.line("return;")
	default:
		panic(fmt.Sprintf("generator: unexpected statement %T", s))
	}
}

func (g *Generator) ifStmt(w *cwriter, s *ast.IfStmt) {
	cond, _ := g.expr(s.Cond)
	w.line("if (%s) {", cond)
	for {
		w.depth++
		g.block(w, s.Then)
		w.depth--

		switch e := s.Else.(type) {
		case nil:
			w.line("}")
			return
		case *ast.IfStmt:
			cond, _ := g.expr(e.Cond)
			w.line("} else if (%s) {", cond)
			s = e
		case *ast.BlockStmt:
			w.line("} else {")
			w.depth++
			g.block(w, e)
			w.depth--
			w.line("}")
			return
		default:
			panic(fmt.Sprintf("generator: unexpected else branch %T", e))
		}
	}
}

func (g *Generator) wait(w *cwriter, s *ast.WaitStmt) {
	switch d := s.Duration.(type) {
	case *ast.UnitExpr:
		if d.Unit != ast.UnitMs {
			g.fail(d.Pos(), "wait duration must be in ms, got %s", d.Unit)
		}
		w.line("nrx_delay_ms(%s);", d.Value.Text)
	case *ast.NumberLit:
		w.line("nrx_delay_ms(%s);", d.Text)
	default:
		code, t := g.expr(d)
		if t != cFloat {
			g.fail(d.Pos(), "wait duration must be a number, got a %s", t)
		}
		w.line("nrx_delay_ms((uint32_t)(%s));", code)
	}
}

func (g *Generator) assign(w *cwriter, s *ast.AssignStmt) {
	value, vt := g.expr(s.Value)

	if s.Define {
		name := s.Target.(*ast.Ident).Name
		if _, ok := g.syms.kinds[name]; ok {
			g.fail(s.Pos(), "let %s shadows a declaration", name)
		}
		g.locals[name] = vt
		decl := vt.decl()
		if vt != cString {
			decl += " "
		}
		w.line("%s%s = %s;", decl, utils.CIdent(name), value)
		return
	}

	switch t := s.Target.(type) {
	case *ast.Ident:
		if lt, ok := g.locals[t.Name]; ok {
			if lt != vt {
				g.fail(s.Pos(), "cannot assign a %s to %s (%s)", vt, t.Name, lt)
			}
			w.line("%s = %s;", utils.CIdent(t.Name), value)
			return
		}
		switch g.syms.kinds[t.Name] {
		case symGPIO:
			w.line("nrx_gpio_write(%s, %s);", gpioMacro(t.Name), gpioLevel(value))
			return
		case symMotor:
			w.line("nrx_motor_set_power(&motor_%s, %s);", t.Name, value)
			return
		case symServo:
			w.line("nrx_servo_set_angle(&servo_%s, %s);", t.Name, value)
			return
		}
	case *ast.MemberExpr:
		if obj, ok := t.Object.(*ast.Ident); ok {
			switch kind := g.syms.kinds[obj.Name]; {
			case kind == symMotor && t.Member == "power":
				w.line("nrx_motor_set_power(&motor_%s, %s);", obj.Name, value)
				return
			case kind == symServo && t.Member == "angle":
				w.line("nrx_servo_set_angle(&servo_%s, %s);", obj.Name, value)
				return
			}
		}
	}

	g.fail(s.Pos(), "cannot assign to %s", ast.TargetPath(s.Target))
}

// gpioLevel turns a lowered value into a GPIO state.
func gpioLevel(value string) string {
	switch value {
	case "NRX_GPIO_HIGH", "true":
		return "NRX_GPIO_HIGH"
	case "NRX_GPIO_LOW", "false":
		return "NRX_GPIO_LOW"
	}
	return fmt.Sprintf("(%s) ? NRX_GPIO_HIGH : NRX_GPIO_LOW", value)
}

// exprStmt lowers a call made for its effect: runtime builtins and task
// invocations.
func (g *Generator) exprStmt(w *cwriter, s *ast.ExprStmt) {
	call, ok := s.Expr.(*ast.CallExpr)
	if !ok {
		g.fail(s.Pos(), "expression result is unused")
		return
	}
	name, ok := g.callee(call)
	if !ok {
		return
	}

	switch name {
	case "stop":
		g.stop(w, call)
		return
	case "estop":
		if g.arity(call, 0) {
			w.line("nrx_safety_estop();")
		}
		return
	case "publish":
		g.publish(w, call)
		return
	case "turn":
		g.fail(call.Pos(), "turn() has no runtime lowering")
		return
	}

	if task, ok := g.syms.tasks[name]; ok {
		if len(call.Args) != len(task.Params) {
			g.fail(call.Pos(), "task %s takes %d argument(s), got %d", name, len(task.Params), len(call.Args))
			return
		}
		w.line("task_%s(%s);", name, g.args(call.Args))
		return
	}

	// value-producing builtins are still valid statements
	code, _ := g.callExpr(call)
	w.line("(void)%s;", code)
}

// stop halts one motor, or every motor when called without arguments.
func (g *Generator) stop(w *cwriter, call *ast.CallExpr) {
	switch len(call.Args) {
	case 0:
		for _, m := range g.syms.motors {
			w.line("nrx_motor_stop(&motor_%s);", m.Name)
		}
	case 1:
		id, ok := call.Args[0].(*ast.Ident)
		if !ok || g.syms.kinds[id.Name] != symMotor {
			g.fail(call.Args[0].Pos(), "stop() takes a motor")
			return
		}
		w.line("nrx_motor_stop(&motor_%s);", id.Name)
	default:
		g.arity(call, 1)
	}
}

func (g *Generator) publish(w *cwriter, call *ast.CallExpr) {
	if !g.arity(call, 2) {
		return
	}
	if g.syms.net == nil {
		g.fail(call.Pos(), "publish() requires a net mqtt block")
		return
	}
	topic, ok := call.Args[0].(*ast.Ident)
	if !ok || g.syms.kinds[topic.Name] != symTopic {
		g.fail(call.Args[0].Pos(), "publish() takes a declared topic")
		return
	}
	payload, t := g.expr(call.Args[1])
	if t != cString {
		g.fail(call.Args[1].Pos(), "publish() payload must be a string, got a %s", t)
		return
	}

	w.line("{")
	w.depth++
	w.line("const char *payload = %s;", payload)
	w.line("nrx_mqtt_publish(mqtt_client, %s, (const uint8_t *)payload, strlen(payload), NRX_MQTT_QOS_%d);",
		topicMacro(topic.Name), g.syms.net.QoS)
	w.depth--
	w.line("}")
}
