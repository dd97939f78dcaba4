// Package project loads a neurox.toml manifest and checks the robot sources
// it names.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// CompilerVersion is the language version this front end implements.
const CompilerVersion = "0.1.0"

// ManifestName is the file Load looks for in a project directory.
const ManifestName = "neurox.toml"

var (
	// ErrIncompatibleCompiler is returned when the manifest's neurox
	// constraint excludes CompilerVersion.
	ErrIncompatibleCompiler = errors.New("incompatible compiler version")
	// ErrInvalidManifest is returned for manifests that decode but hold
	// unusable values.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Manifest mirrors neurox.toml.
type Manifest struct {
	Package Package `toml:"package"`
	Build   Build   `toml:"build"`
}

type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Neurox is a semver constraint on the compiler, e.g. ">= 0.1.0".
	Neurox string `toml:"neurox"`
}

type Build struct {
	Sources      []string `toml:"sources"`
	Output       string   `toml:"output"`
	Cache        string   `toml:"cache"`
	LogLevel     string   `toml:"log_level"`
	Recovery     bool     `toml:"recovery"`
	UnitSuffixes bool     `toml:"unit_suffixes"`
}

// DefaultManifest is what Load returns for a directory without neurox.toml.
// Fields missing from a manifest keep these values.
func DefaultManifest() Manifest {
	return Manifest{
		Build: Build{
			Sources:      []string{"."},
			Output:       "build",
			Cache:        filepath.Join(".neurox", "cache.db"),
			LogLevel:     "info",
			UnitSuffixes: true,
		},
	}
}

// Level parses LogLevel. An empty level means info.
func (b Build) Level() (slog.Level, error) {
	var level slog.Level
	if b.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(b.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidManifest, b.LogLevel)
	}
	return level, nil
}

// readManifest decodes path on top of the defaults. A missing file is not an
// error.
func readManifest(path string, logger *slog.Logger) (Manifest, bool, error) {
	m := DefaultManifest()

	md, err := toml.DecodeFile(path, &m)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultManifest(), false, nil
	}
	if err != nil {
		return Manifest{}, false, fmt.Errorf("read %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		logger.Warn("unknown manifest key", "file", path, "key", key.String())
	}
	return m, true, nil
}

// validate checks the version fields and the compiler constraint.
func (m Manifest) validate() error {
	if m.Package.Version != "" {
		if _, err := semver.NewVersion(m.Package.Version); err != nil {
			return fmt.Errorf("%w: package version %q: %v", ErrInvalidManifest, m.Package.Version, err)
		}
	}
	if len(m.Build.Sources) == 0 {
		return fmt.Errorf("%w: build.sources is empty", ErrInvalidManifest)
	}
	if _, err := m.Build.Level(); err != nil {
		return err
	}
	return checkCompiler(m.Package.Neurox, CompilerVersion)
}

// checkCompiler reports whether version satisfies the constraint. An empty
// constraint accepts every version.
func checkCompiler(constraint, version string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("%w: neurox constraint %q: %v", ErrInvalidManifest, constraint, err)
	}
	v := semver.MustParse(version)
	if ok, errs := c.Validate(v); !ok {
		reasons := make([]string, len(errs))
		for i, e := range errs {
			reasons[i] = e.Error()
		}
		return fmt.Errorf("%w: compiler %s does not satisfy %q: %s",
			ErrIncompatibleCompiler, version, constraint, strings.Join(reasons, "; "))
	}
	return nil
}
