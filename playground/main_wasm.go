//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	cerrors "github.com/neurox-lang/neurox/internal/compiler/errors"
	"github.com/neurox-lang/neurox/internal/compiler/format"
	"github.com/neurox-lang/neurox/internal/compiler/generator"
	"github.com/neurox-lang/neurox/internal/compiler/parser"
)

func main() {
	js.Global().Set("parseNeuroX", js.FuncOf(parseNeuroXWrapper))

	// Keep the program alive
	select {}
}

// parseNeuroXWrapper takes the source text and an optional options object
// {recover: bool} and returns {tree, formatted, c, errors}.
func parseNeuroXWrapper(this js.Value, args []js.Value) (result any) {
	defer func() {
		if r := recover(); r != nil {
			result = js.ValueOf(map[string]any{
				"tree":   "",
				"errors": []any{fmt.Sprintf("panic: %v", r)},
			})
		}
	}()

	if len(args) < 1 {
		return js.ValueOf(map[string]any{
			"tree":   "",
			"errors": []any{"expected 1 argument (source code)"},
		})
	}

	var opts []parser.Option
	if len(args) > 1 && args[1].Type() == js.TypeObject && args[1].Get("recover").Truthy() {
		opts = append(opts, parser.WithRecovery())
	}

	return js.ValueOf(parseNeuroX(args[0].String(), opts...))
}

// parseNeuroX parses a source string. The C output is only attempted for
// programs that parse cleanly; lowering errors are reported as warnings.
func parseNeuroX(source string, opts ...parser.Option) map[string]any {
	out := map[string]any{"tree": "", "formatted": "", "c": ""}

	prog, diags, err := parser.Parse("playground.neuro", source, opts...)
	errs := make([]any, 0, len(diags)+1)
	for _, d := range diags {
		errs = append(errs, d.Error())
	}
	if err != nil {
		out["errors"] = errs
		return out
	}

	out["tree"] = ast.String(prog)
	out["formatted"] = format.Source(prog)

	gen := generator.New()
	code, err := gen.Generate(prog, "playground.neuro")
	if err != nil {
		for _, d := range gen.Diagnostics() {
			w := *d
			w.Severity = cerrors.SeverityWarning
			errs = append(errs, w.Error())
		}
	} else {
		out["c"] = code
	}
	out["errors"] = errs
	return out
}
