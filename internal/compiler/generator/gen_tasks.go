package generator

import (
	"fmt"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

var schedulerPriorities = map[ast.Priority]string{
	ast.PriorityHigh:   "NRX_PRIORITY_HIGH",
	ast.PriorityMedium: "NRX_PRIORITY_MEDIUM",
	ast.PriorityLow:    "NRX_PRIORITY_LOW",
}

// genPrototypes declares every task up front so tasks may call each other
// in any order.
func (g *Generator) genPrototypes() string {
	var b strings.Builder
	for _, task := range g.syms.taskOrder {
		fmt.Fprintf(&b, "static void %s;\n", taskSignature(task))
	}
	return b.String()
}

func taskSignature(task *ast.TaskDecl) string {
	if len(task.Params) == 0 {
		return fmt.Sprintf("task_%s(void)", task.Name)
	}
	params := make([]string, len(task.Params))
	for i, p := range task.Params {
		params[i] = "float " + utils.CIdent(p.Name)
	}
	return fmt.Sprintf("task_%s(%s)", task.Name, strings.Join(params, ", "))
}

// genTasks generates one C function per task; every parameter is a float
// whatever unit its annotation names.
func (g *Generator) genTasks() string {
	w := &cwriter{}
	for _, task := range g.syms.taskOrder {
		g.locals = make(map[string]ctype)
		for _, p := range task.Params {
			g.locals[p.Name] = cFloat
		}

		w.line("static void %s {", taskSignature(task))
		w.depth++
		g.block(w, task.Body)
		w.depth--
		w.line("}")
		w.blank()
	}
	return w.String()
}

// genSchedules generates the periodic task bodies; main registers them
// with the scheduler.
func (g *Generator) genSchedules() string {
	w := &cwriter{}
	for _, s := range g.syms.schedules {
		g.locals = make(map[string]ctype)

		w.line("static void schedule_%s(void *context) {", s.Name)
		w.depth++
		w.line("(void)context;")
		g.block(w, s.Body)
		w.depth--
		w.line("}")
		w.blank()
	}
	return w.String()
}

// genScheduleRegistration emits the nrx_task_create and
// nrx_task_schedule_periodic calls for each schedule.
func (g *Generator) genScheduleRegistration(w *cwriter) {
	for _, s := range g.syms.schedules {
		hz, ok := frequencyHz(s.Frequency)
		if !ok {
			g.fail(s.Frequency.Pos(), "schedule %s needs a constant positive integer frequency in Hz", s.Name)
			continue
		}
		w.line("nrx_task_t *schedule_%s_task = nrx_task_create(%s, schedule_%s, NULL, %s);",
			s.Name, utils.CString(s.Name), s.Name, schedulerPriorities[s.Priority])
		w.line("nrx_task_schedule_periodic(schedule_%s_task, %d);", s.Name, hz)
	}
}

// frequencyHz accepts 10 and 10Hz.
func frequencyHz(e ast.Expression) (int, bool) {
	var num *ast.NumberLit
	switch f := e.(type) {
	case *ast.NumberLit:
		num = f
	case *ast.UnitExpr:
		if f.Unit != ast.UnitHz {
			return 0, false
		}
		num = f.Value
	default:
		return 0, false
	}
	hz := int(num.Value)
	if float64(hz) != num.Value || hz <= 0 {
		return 0, false
	}
	return hz, true
}
