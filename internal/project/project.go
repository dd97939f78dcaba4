package project

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/errors"
	"github.com/neurox-lang/neurox/internal/compiler/lexer"
	"github.com/neurox-lang/neurox/internal/compiler/parser"
)

// SourceExt is the extension of robot source files.
const SourceExt = ".neuro"

// Project is a loaded manifest plus the parse results of the current run.
type Project struct {
	Dir      string
	Manifest Manifest
	// HasManifest is false when Dir has no neurox.toml and defaults apply.
	HasManifest bool

	logger *slog.Logger
	parsed map[string]*Result // cache: absolute path → last result
}

// Result is the outcome of checking one file.
type Result struct {
	Path        string
	Program     *ast.Program // nil when the parse failed
	Diagnostics []*errors.Diagnostic

	src string
}

// OK reports whether the file parsed without error diagnostics.
func (r *Result) OK() bool {
	return r.Program != nil && r.Err() == nil
}

// Err returns the first error diagnostic of the file, or nil.
func (r *Result) Err() error {
	l := &errors.List{Diagnostics: r.Diagnostics}
	return l.Err()
}

// Load reads dir/neurox.toml, falling back to defaults when the file does
// not exist, and validates it against CompilerVersion.
func Load(dir string, logger *slog.Logger) (*Project, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", dir, err)
	}

	path := filepath.Join(abs, ManifestName)
	m, found, err := readManifest(path, logger)
	if err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if found {
		logger.Debug("loaded manifest", "file", path, "package", m.Package.Name)
	} else {
		logger.Debug("no manifest, using defaults", "dir", abs)
	}

	return &Project{
		Dir:         abs,
		Manifest:    m,
		HasManifest: found,
		logger:      logger,
		parsed:      make(map[string]*Result),
	}, nil
}

// SetLogger replaces the logger given to Load, once the manifest's
// log_level is known.
func (p *Project) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

// Path resolves a manifest-relative path against the project directory.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Dir, rel)
}

// SourceDirs returns the absolute source directories.
func (p *Project) SourceDirs() []string {
	dirs := make([]string, len(p.Manifest.Build.Sources))
	for i, s := range p.Manifest.Build.Sources {
		dirs[i] = p.Path(s)
	}
	return dirs
}

// Sources walks the source directories and returns every robot file, sorted
// and without duplicates. Hidden directories are skipped.
func (p *Project) Sources() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, dir := range p.SourceDirs() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != SourceExt || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan sources in %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	p.logger.Debug("discovered sources", "count", len(files))
	return files, nil
}

// ParserOptions turns the build settings into parser options.
func (p *Project) ParserOptions() []parser.Option {
	opts := []parser.Option{parser.WithUnitSuffixes(p.Manifest.Build.UnitSuffixes)}
	if p.Manifest.Build.Recovery {
		opts = append(opts, parser.WithRecovery())
	}
	return opts
}

// Check lexes and parses src as the file at path. Results are cached per
// absolute path for the lifetime of the Project and reused while the source
// text is unchanged.
func (p *Project) Check(path, src string) *Result {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	if cached, ok := p.parsed[key]; ok && cached.src == src {
		return cached
	}

	pr := parser.New(lexer.New(src, p.displayName(key)), p.ParserOptions()...)
	res := &Result{
		Path:    key,
		Program: pr.ParseProgram(),
		src:     src,
	}
	res.Diagnostics = pr.Errors()

	p.parsed[key] = res
	p.logger.Debug("checked", "file", key, "ok", res.OK(), "diagnostics", len(res.Diagnostics))
	return res
}

// CheckFile reads path and checks it.
func (p *Project) CheckFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Check(path, string(data)), nil
}

// Forget drops the cached result of path, e.g. after it was deleted.
func (p *Project) Forget(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	delete(p.parsed, path)
}

// displayName shortens paths inside the project for diagnostics.
func (p *Project) displayName(abs string) string {
	if rel, err := filepath.Rel(p.Dir, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return abs
}
