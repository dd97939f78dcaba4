package generator

import (
	"strconv"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

type symbolKind int

const (
	symMotor symbolKind = iota + 1
	symServo
	symSensor
	symGPIO
	symBus
	symTopic
	symTask
)

func (k symbolKind) String() string {
	switch k {
	case symMotor:
		return "motor"
	case symServo:
		return "servo"
	case symSensor:
		return "sensor"
	case symGPIO:
		return "gpio"
	case symBus:
		return "bus"
	case symTopic:
		return "topic"
	case symTask:
		return "task"
	}
	return "symbol"
}

// symbols is the program-wide name table plus the declarations grouped by
// the section of the output they feed.
type symbols struct {
	kinds map[string]symbolKind

	motors    []*ast.MotorDecl
	servos    []*ast.ServoDecl
	sensors   []*ast.SensorDecl
	gpios     map[string]*ast.GPIODecl
	gpioOrder []*ast.GPIODecl
	buses     []*ast.BusDecl
	topics    []*ast.TopicDecl
	limits    []*ast.LimitEntry
	tasks     map[string]*ast.TaskDecl
	taskOrder []*ast.TaskDecl
	schedules []*ast.ScheduleDecl
	events    []*ast.EventDecl
	net       *ast.NetDecl

	// C function name of each event handler
	handlerNames map[*ast.EventDecl]string

	needsJSON   bool
	needsMath   bool
	needsString bool
}

// analyze builds the symbol table, reporting duplicate names.
func (g *Generator) analyze(prog *ast.Program) *symbols {
	s := &symbols{
		kinds:        make(map[string]symbolKind),
		gpios:        make(map[string]*ast.GPIODecl),
		tasks:        make(map[string]*ast.TaskDecl),
		handlerNames: make(map[*ast.EventDecl]string),
	}

	declare := func(d ast.Declaration, name string, kind symbolKind) {
		if prev, ok := s.kinds[name]; ok {
			g.fail(d.Pos(), "%s %q is already declared as a %s", kind, name, prev)
			return
		}
		s.kinds[name] = kind
	}

	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.MotorDecl:
			declare(d, d.Name, symMotor)
			s.motors = append(s.motors, d)
		case *ast.ServoDecl:
			declare(d, d.Name, symServo)
			s.servos = append(s.servos, d)
		case *ast.SensorDecl:
			declare(d, d.Name, symSensor)
			s.sensors = append(s.sensors, d)
		case *ast.GPIODecl:
			declare(d, d.Name, symGPIO)
			s.gpios[d.Name] = d
			s.gpioOrder = append(s.gpioOrder, d)
		case *ast.BusDecl:
			declare(d, d.Name, symBus)
			s.buses = append(s.buses, d)
		case *ast.TopicDecl:
			declare(d, d.Name, symTopic)
			s.topics = append(s.topics, d)
		case *ast.TaskDecl:
			declare(d, d.Name, symTask)
			s.tasks[d.Name] = d
			s.taskOrder = append(s.taskOrder, d)
		case *ast.NetDecl:
			if s.net != nil {
				g.fail(d.Pos(), "only one net block is supported")
				continue
			}
			s.net = d
		case *ast.LimitsDecl:
			s.limits = append(s.limits, d.Entries...)
		case *ast.ScheduleDecl:
			s.schedules = append(s.schedules, d)
		case *ast.EventDecl:
			s.events = append(s.events, d)
		default:
			panic("generator: unexpected declaration")
		}
	}

	seen := make(map[string]int)
	for _, ev := range s.events {
		base := "when_" + ev.Trigger.String() + "_" + ev.Source
		seen[base]++
		if seen[base] > 1 {
			base += "_" + strconv.Itoa(seen[base])
		}
		s.handlerNames[ev] = base
	}

	s.needsJSON = g.usesCall(prog, "json")
	s.needsMath = g.usesOperator(prog, "%") || g.usesCall(prog, "max") || g.usesCall(prog, "min")
	s.needsString = s.net != nil || g.usesStrings(prog)

	return s
}

// usesCall reports whether any call in the program targets name.
func (g *Generator) usesCall(prog *ast.Program, name string) bool {
	found := false
	ast.Inspect(prog, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			if id, ok := call.Callee.(*ast.Ident); ok && id.Name == name {
				found = true
			}
		}
		return !found
	})
	return found
}

// usesOperator reports whether any binary expression uses op.
func (g *Generator) usesOperator(prog *ast.Program, op string) bool {
	found := false
	ast.Inspect(prog, func(n ast.Node) bool {
		if bin, ok := n.(*ast.BinaryExpr); ok && bin.Op == op {
			found = true
		}
		return !found
	})
	return found
}

// usesStrings reports whether the program contains a string literal inside
// a body, where it may end up in a comparison.
func (g *Generator) usesStrings(prog *ast.Program) bool {
	found := false
	ast.Inspect(prog, func(n ast.Node) bool {
		if _, ok := n.(*ast.StringLit); ok {
			found = true
		}
		return !found
	})
	return found
}

// hasMessageHandlers reports whether any when block listens on a topic.
func (s *symbols) hasMessageHandlers() bool {
	for _, ev := range s.events {
		if ev.Trigger == ast.TriggerMessage {
			return true
		}
	}
	return false
}

// namedPins returns the symbolic pin names in declaration order, without
// duplicates.
func (s *symbols) namedPins() []string {
	var pins []string
	seen := make(map[string]bool)
	add := func(pin string) {
		if isPinNumber(pin) || seen[pin] {
			return
		}
		seen[pin] = true
		pins = append(pins, pin)
	}
	for _, m := range s.motors {
		add(m.Pin)
	}
	for _, sv := range s.servos {
		add(sv.Pin)
	}
	for _, sn := range s.sensors {
		add(sn.Pin)
	}
	for _, gp := range s.gpioOrder {
		add(gp.Pin)
	}
	return pins
}

func isPinNumber(pin string) bool {
	_, err := strconv.Atoi(pin)
	return err == nil
}

// pinExpr is the C expression for a pin: numbers stay literal, names map to
// the board's NRX_PIN_ macros.
func pinExpr(pin string) string {
	if isPinNumber(pin) {
		return pin
	}
	return pinMacro(pin)
}

func pinMacro(pin string) string {
	return "NRX_PIN_" + utils.ToUpperSnake(pin)
}

// gpioSource finds the gpio a when gpio block watches, by declaration name
// first and then by pin.
func (s *symbols) gpioSource(source string) (*ast.GPIODecl, bool) {
	if d, ok := s.gpios[source]; ok {
		return d, true
	}
	for _, d := range s.gpioOrder {
		if d.Pin == source {
			return d, true
		}
	}
	return nil, false
}

func gpioMacro(name string) string {
	return "GPIO_" + utils.ToUpperSnake(name)
}

func topicMacro(name string) string {
	return "TOPIC_" + utils.ToUpperSnake(name)
}
