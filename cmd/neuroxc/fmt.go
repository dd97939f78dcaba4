package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/compiler/format"
)

func newFmtCmd(a *app) *cobra.Command {
	var write, diff bool

	cmd := &cobra.Command{
		Use:   "fmt [-w] [-d] <files...>",
		Short: "Print files in canonical layout",
		Long: `fmt prints each file in canonical layout. With -w the file is rewritten in
place, with -d a line diff is shown instead. Files that do not parse are
reported and left untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, file := range args {
				ok, err := a.fmtFile(cmd.OutOrStdout(), file, write, diff)
				if err != nil {
					return fmt.Errorf("format %s: %w", file, err)
				}
				failed = failed || !ok
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false, "display a diff instead of the formatted text")
	return cmd
}

// fmtFile formats one file. It returns false when the file does not parse.
func (a *app) fmtFile(out io.Writer, path string, write, showDiff bool) (bool, error) {
	original, err := readSource(path)
	if err != nil {
		return false, err
	}

	res := a.proj.Check(path, original)
	if a.report(res.Diagnostics) || res.Program == nil {
		return false, nil
	}
	result := format.Source(res.Program)

	if showDiff {
		if result != original {
			fmt.Fprintf(out, "--- %s\n+++ %s (formatted)\n", path, path)
			printSimpleDiff(out, original, result)
		}
		return true, nil
	}

	if !write {
		_, err := io.WriteString(out, result)
		return true, err
	}
	if result == original {
		return true, nil
	}
	a.logger.Info("formatted", "file", path)
	return true, os.WriteFile(path, []byte(result), 0o644)
}

// printSimpleDiff prints changed lines pairwise, without alignment.
func printSimpleDiff(out io.Writer, a, b string) {
	aLines := strings.Split(a, "\n")
	bLines := strings.Split(b, "\n")

	for i, n := 0, max(len(aLines), len(bLines)); i < n; i++ {
		aLine, bLine := "", ""
		if i < len(aLines) {
			aLine = aLines[i]
		}
		if i < len(bLines) {
			bLine = bLines[i]
		}
		if aLine == bLine {
			continue
		}
		if i < len(aLines) {
			fmt.Fprintf(out, "-%s\n", aLine)
		}
		if i < len(bLines) {
			fmt.Fprintf(out, "+%s\n", bLine)
		}
	}
}
