package generator

import (
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

// gpioPollHz is the sampling rate of the edge detectors behind when gpio.
const gpioPollHz = 100

// limitTypes maps limit names to the runtime's limit enum.
var limitTypes = map[string]string{
	"speed":        "NRX_LIMIT_SPEED",
	"turn_rate":    "NRX_LIMIT_TURN_RATE",
	"acceleration": "NRX_LIMIT_ACCELERATION",
	"power":        "NRX_LIMIT_POWER",
}

// genMain generates main: runtime init, safety limits, hardware, network,
// schedule registration and the scheduler loop.
func (g *Generator) genMain() string {
	w := &cwriter{}
	w.line("int main(void) {")
	w.depth++

	w.line("nrx_scheduler_config_t sched_config = {0};")
	w.line("nrx_scheduler_init(&sched_config);")
	w.blank()
	w.line("nrx_safety_config_t safety_config = {0};")
	w.line("nrx_safety_init(&safety_config);")
	g.genSafetyLimits(w)
	w.blank()

	if len(g.syms.motors)+len(g.syms.servos)+len(g.syms.sensors)+len(g.syms.gpioOrder)+len(g.syms.buses) > 0 {
		g.genHardwareInit(w)
		w.blank()
	}

	if g.syms.net != nil {
		g.genMQTTInit(w)
		w.blank()
	}

	for _, ev := range g.syms.events {
		if ev.Trigger == ast.TriggerGPIO {
			w.line("nrx_task_schedule_periodic(nrx_task_create(%s, %s, NULL, NRX_PRIORITY_HIGH), %d);",
				utils.CString(g.syms.handlerNames[ev]), g.syms.handlerNames[ev], gpioPollHz)
		}
	}
	g.genScheduleRegistration(w)
	w.blank()

	w.line("nrx_scheduler_start();")
	w.line("return 0;")
	w.depth--
	w.line("}")
	return w.String()
}

type limitRange struct {
	name     string
	min, max string
}

// genSafetyLimits folds the limits entries into one nrx_safety_set_limit
// call per limit type, in order of first mention.
func (g *Generator) genSafetyLimits(w *cwriter) {
	var ranges []*limitRange
	byName := make(map[string]*limitRange)

	for _, e := range g.syms.limits {
		if _, ok := limitTypes[e.Name]; !ok {
			g.fail(e.Pos(), "no runtime limit named %q", e.Name)
			continue
		}
		value, ok := constantValue(e.Bound)
		if !ok {
			g.fail(e.Bound.Pos(), "limit %s needs a constant bound", e.Name)
			continue
		}
		r, ok := byName[e.Name]
		if !ok {
			r = &limitRange{name: e.Name, min: "-FLT_MAX", max: "FLT_MAX"}
			byName[e.Name] = r
			ranges = append(ranges, r)
		}
		if e.IsMax {
			r.max = value
		} else {
			r.min = value
		}
	}

	for _, r := range ranges {
		w.line("nrx_safety_set_limit(%s, %s, %s);", limitTypes[r.name], r.min, r.max)
	}
}

// constantValue accepts a number, a unit value or a negated one.
func constantValue(e ast.Expression) (string, bool) {
	switch v := e.(type) {
	case *ast.NumberLit:
		return ast.FormatNumber(v.Value), true
	case *ast.UnitExpr:
		return ast.FormatNumber(v.Value.Value), true
	case *ast.UnaryExpr:
		if v.Op != "-" {
			return "", false
		}
		inner, ok := constantValue(v.Operand)
		if !ok {
			return "", false
		}
		if strings.HasPrefix(inner, "-") {
			return inner[1:], true
		}
		return "-" + inner, true
	}
	return "", false
}
