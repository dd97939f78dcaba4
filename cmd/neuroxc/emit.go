package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/compiler/generator"
)

func newEmitCCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "emit-c [-o out.c] <file>",
		Short: "Lower a program to C against the NeuroX runtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.compile(args[0])
			if err != nil {
				return err
			}

			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), code)
				return err
			}
			if output == "." {
				output = defaultOutput(a, args[0])
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := os.WriteFile(output, []byte(code), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			a.logger.Info("generated", "file", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file; "." writes <build.output>/<name>.c (default: stdout)`)
	return cmd
}

// compile reads and parses a file and returns the generated C source.
func (a *app) compile(path string) (string, error) {
	src, err := readSource(path)
	if err != nil {
		return "", err
	}

	res := a.proj.Check(path, src)
	if a.report(res.Diagnostics) || res.Program == nil {
		return "", errFailed
	}

	gen := generator.New()
	code, err := gen.Generate(res.Program, filepath.Base(path))
	if err != nil {
		if a.report(gen.Diagnostics()) {
			return "", errFailed
		}
		return "", fmt.Errorf("generation: %w", err)
	}
	return code, nil
}

// defaultOutput places name.c in the manifest's output directory.
func defaultOutput(a *app, input string) string {
	base := filepath.Base(input)
	name := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(a.proj.Path(a.proj.Manifest.Build.Output), name+".c")
}
