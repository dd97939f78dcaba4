package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-check sources whenever they change",
		Long: `watch checks every project source once, then re-checks each file that is
written, created or renamed in a source directory until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(a.logger)
			if err != nil {
				return err
			}
			if err := w.Add(a.proj.SourceDirs()...); err != nil {
				w.Close()
				return err
			}

			files, err := a.proj.Sources()
			if err != nil {
				w.Close()
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range files {
				a.recheck(out, f)
			}

			a.logger.Info("watching for changes", "dirs", len(a.proj.SourceDirs()))
			return w.Run(ctx, func(path string) {
				a.recheck(out, path)
			})
		},
	}
}

// recheck checks one file and prints a status line; a vanished file is
// dropped from the project cache.
func (a *app) recheck(out io.Writer, path string) {
	res, err := a.proj.CheckFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		a.proj.Forget(path)
		fmt.Fprintf(out, "removed %s\n", path)
		return
	}
	if err != nil {
		a.logger.Error("check failed", "file", path, "err", err)
		return
	}

	a.report(res.Diagnostics)
	status := "ok"
	if !res.OK() {
		status = "FAIL"
	}
	fmt.Fprintf(out, "%s %s\n", status, path)
}
