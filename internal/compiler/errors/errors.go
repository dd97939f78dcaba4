package errors

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Position represents a location in source code
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	file := p.File
	if file == "" {
		file = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Column)
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

const (
	PhaseLexer     = "lexer"
	PhaseParser    = "parser"
	PhaseGenerator = "generator"
)

// Diagnostic is one problem found in a source file.
type Diagnostic struct {
	Pos      Position
	Message  string
	Severity Severity
	Phase    string // "lexer", "parser", "generator"
}

// Error renders the diagnostic as "<severity>: <file>:<line>:<col>: <message>".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Pos, d.Message)
}

// Sink receives diagnostics as they are raised.
type Sink interface {
	Report(d Diagnostic)
}

// List collects diagnostics in report order.
type List struct {
	Diagnostics []*Diagnostic
}

func NewList() *List {
	return &List{}
}

func (l *List) Report(d Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, &d)
}

func (l *List) Add(pos Position, phase, message string) {
	l.Report(Diagnostic{Pos: pos, Message: message, Phase: phase})
}

func (l *List) Len() int {
	return len(l.Diagnostics)
}

// HasErrors reports whether any diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns the first error diagnostic, or nil.
func (l *List) Err() error {
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			return d
		}
	}
	return nil
}

func (l *List) String() string {
	var sb strings.Builder
	for _, d := range l.Diagnostics {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriterSink renders diagnostics to a writer, one per line. It is safe for
// concurrent use.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	color  bool
	errSt  lipgloss.Style
	warnSt lipgloss.Style
	posSt  lipgloss.Style
}

// NewWriterSink creates a sink on w. Colors are used only when color is set
// and the renderer detects a terminal behind w.
func NewWriterSink(w io.Writer, color bool) *WriterSink {
	r := lipgloss.NewRenderer(w)
	return &WriterSink{
		w:      w,
		color:  color,
		errSt:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warnSt: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		posSt:  r.NewStyle().Bold(true),
	}
}

func (s *WriterSink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := d.Severity.String() + ":"
	pos := d.Pos.String() + ":"
	if s.color {
		if d.Severity == SeverityError {
			label = s.errSt.Render(label)
		} else {
			label = s.warnSt.Render(label)
		}
		pos = s.posSt.Render(pos)
	}
	fmt.Fprintf(s.w, "%s %s %s\n", label, pos, d.Message)
}

// Tee returns a sink forwarding every diagnostic to each of sinks in order.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Report(d Diagnostic) {
	for _, s := range t {
		s.Report(d)
	}
}
