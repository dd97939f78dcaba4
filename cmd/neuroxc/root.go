package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/compiler/errors"
	"github.com/neurox-lang/neurox/internal/project"
)

// errFailed means diagnostics were already printed; main only sets the exit
// status.
var errFailed = stderrors.New("check failed")

// app holds the persistent flags and what PersistentPreRunE builds from
// them.
type app struct {
	configPath string
	verbose    bool
	logLevel   string
	noColor    bool

	logger *slog.Logger
	proj   *project.Project
	sink   *errors.WriterSink
	errOut io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "neuroxc",
		Short: "NeuroX robot language front end",
		Long: `neuroxc lexes, parses and checks NeuroX robot programs.

It reads neurox.toml from the current directory (or --config) for the
source directories, parser options and cache location.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to neurox.toml or its directory (default: .)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default from manifest)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")

	root.AddCommand(
		newLexCmd(a),
		newParseCmd(a),
		newCheckCmd(a),
		newFmtCmd(a),
		newEmitCCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the project and builds the logger and diagnostic sink.
func (a *app) setup(cmd *cobra.Command) error {
	dir := a.configPath
	if dir == "" {
		dir = "."
	} else if filepath.Base(dir) == project.ManifestName {
		dir = filepath.Dir(dir)
	}

	// manifest problems are logged at the flag level before the manifest's
	// own level is known
	boot := a.newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
	proj, err := project.Load(dir, boot)
	if err != nil {
		return err
	}
	a.proj = proj

	level, err := a.level()
	if err != nil {
		return err
	}
	a.logger = a.newLogger(cmd.ErrOrStderr(), level)
	proj.SetLogger(a.logger)
	a.errOut = cmd.ErrOrStderr()
	a.sink = errors.NewWriterSink(a.errOut, !a.noColor)
	return nil
}

func (a *app) level() (slog.Level, error) {
	if a.verbose {
		return slog.LevelDebug, nil
	}
	if a.logLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
			return 0, fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		return level, nil
	}
	if a.proj != nil {
		return a.proj.Manifest.Build.Level()
	}
	return slog.LevelInfo, nil
}

func (a *app) newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// report sends diagnostics to the sink and tells whether any was an error.
func (a *app) report(diags []*errors.Diagnostic) bool {
	seen := errors.NewList()
	out := errors.Tee(a.sink, seen)
	for _, d := range diags {
		out.Report(*d)
	}
	return seen.HasErrors()
}

// readSource reads a source file given on the command line.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// render joins diagnostics the way the sink prints them without color.
func render(diags []*errors.Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}
