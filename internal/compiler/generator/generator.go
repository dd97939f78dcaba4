package generator

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	cerrors "github.com/neurox-lang/neurox/internal/compiler/errors"
	"github.com/neurox-lang/neurox/internal/compiler/token"
)

// ErrUnsupported marks constructs that have no lowering to the runtime API.
var ErrUnsupported = stderrors.New("unsupported construct")

// Generator lowers a parsed robot program to a C translation unit written
// against the NeuroX runtime (scheduler, safety, hal and mqtt headers).
type Generator struct {
	syms   *symbols
	locals map[string]ctype
	source string
	diags  *cerrors.List
}

func New() *Generator {
	return &Generator{}
}

// Generate takes a Program AST and produces a complete C translation unit.
// Any construct that cannot be lowered makes it fail; no partial output is
// returned alongside an error.
func (g *Generator) Generate(prog *ast.Program, sourceName string) (string, error) {
	g.diags = cerrors.NewList()
	g.source = sourceName
	g.locals = nil
	g.syms = g.analyze(prog)

	var b strings.Builder

	b.WriteString(g.genHeader(prog, sourceName))
	b.WriteString(g.genIncludes())
	b.WriteString("\n")

	if defines := g.genDefines(); defines != "" {
		b.WriteString("// ========== Pins and topics ==========\n\n")
		b.WriteString(defines)
		b.WriteString("\n")
	}

	if handles := g.genHandles(); handles != "" {
		b.WriteString("// ========== Hardware ==========\n\n")
		b.WriteString(handles)
		b.WriteString("\n")
	}

	if helpers := g.genHelpers(); helpers != "" {
		b.WriteString(helpers)
	}

	if protos := g.genPrototypes(); protos != "" {
		b.WriteString("// ========== Prototypes ==========\n\n")
		b.WriteString(protos)
		b.WriteString("\n")
	}

	if len(g.syms.tasks) > 0 {
		b.WriteString("// ========== Tasks ==========\n\n")
		b.WriteString(g.genTasks())
	}

	if len(g.syms.schedules) > 0 {
		b.WriteString("// ========== Schedules ==========\n\n")
		b.WriteString(g.genSchedules())
	}

	if len(g.syms.events) > 0 || g.syms.net != nil {
		b.WriteString("// ========== Events ==========\n\n")
		b.WriteString(g.genHandlers())
	}

	b.WriteString("// ========== Main ==========\n\n")
	b.WriteString(g.genMain())

	if g.diags.HasErrors() {
		errs := make([]error, 0, g.diags.Len())
		for _, d := range g.diags.Diagnostics {
			errs = append(errs, fmt.Errorf("%d:%d: %w: %s", d.Pos.Line, d.Pos.Column, ErrUnsupported, d.Message))
		}
		return "", fmt.Errorf("generate %s: %w", sourceName, stderrors.Join(errs...))
	}
	return b.String(), nil
}

// Diagnostics returns the lowering errors of the last Generate call, tagged
// with the generator phase.
func (g *Generator) Diagnostics() []*cerrors.Diagnostic {
	if g.diags == nil {
		return nil
	}
	return g.diags.Diagnostics
}

// fail records a lowering error at pos and lets generation continue so that
// every problem in the program is reported at once.
func (g *Generator) fail(pos token.Position, format string, args ...any) {
	p := cerrors.Position{File: g.source, Line: pos.Line, Column: pos.Column}
	g.diags.Add(p, cerrors.PhaseGenerator, fmt.Sprintf(format, args...))
}

func (g *Generator) genHeader(prog *ast.Program, sourceName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by neuroxc from %s. DO NOT EDIT.\n", sourceName)
	fmt.Fprintf(&b, "// Robot: %s\n\n", prog.Name)
	return b.String()
}

// cwriter accumulates indented C lines.
type cwriter struct {
	b     strings.Builder
	depth int
}

func (w *cwriter) line(format string, args ...any) {
	w.b.WriteString(strings.Repeat("    ", w.depth))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *cwriter) blank() {
	w.b.WriteByte('\n')
}

func (w *cwriter) String() string {
	return w.b.String()
}
