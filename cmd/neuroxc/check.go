package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/cache"
	"github.com/neurox-lang/neurox/internal/project"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		recovery bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse files and report diagnostics",
		Long: `check parses each file and prints its diagnostics. Without arguments it
checks every source of the project. Files unchanged since the last run are
answered from the cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if recovery {
				a.proj.Manifest.Build.Recovery = true
			}

			files := args
			all := len(files) == 0
			if all {
				var err error
				if files, err = a.proj.Sources(); err != nil {
					return err
				}
			}

			var c *cache.Cache
			if !noCache {
				var err error
				c, err = cache.Open(a.proj.Path(a.proj.Manifest.Build.Cache), a.logger)
				if err != nil {
					return err
				}
				defer c.Close()
			}

			sum := summary{}
			for _, f := range files {
				ok, hit, err := a.checkOne(c, f)
				if err != nil {
					return err
				}
				sum.add(ok, hit)
			}

			if c != nil && all {
				live := make([]string, len(files))
				for i, f := range files {
					live[i], _ = filepath.Abs(f)
				}
				if _, err := c.Prune(live); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), sum)
			if sum.failed > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recovery, "recover", false, "keep parsing after an error and report every one")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore and do not update the check cache")
	return cmd
}

// checkOne checks path, consulting c when it is not nil. It reports whether
// the file is clean and whether the answer came from the cache.
func (a *app) checkOne(c *cache.Cache, path string) (ok, hit bool, err error) {
	src, err := readSource(path)
	if err != nil {
		return false, false, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, false, err
	}
	// parser options change the result, so they are part of the key
	b := a.proj.Manifest.Build
	hash := cache.Hash(fmt.Sprintf("recovery=%t units=%t\n%s", b.Recovery, b.UnitSuffixes, src))

	if c != nil {
		entry, found, err := c.Lookup(abs, hash)
		if err != nil {
			return false, false, err
		}
		if found {
			for _, msg := range entry.Messages() {
				fmt.Fprintln(a.errOut, msg)
			}
			return entry.OK, true, nil
		}
	}

	res := a.proj.Check(abs, src)
	a.report(res.Diagnostics)

	if c != nil {
		if err := c.Store(newEntry(abs, hash, res)); err != nil {
			return false, false, err
		}
	}
	return res.OK(), false, nil
}

func newEntry(path, hash string, res *project.Result) *cache.Entry {
	e := &cache.Entry{
		Path:        path,
		Hash:        hash,
		Diagnostics: render(res.Diagnostics),
		OK:          res.OK(),
	}
	if res.Program != nil {
		e.Robot = res.Program.Name
		e.Decls = len(res.Program.Decls)
	}
	return e
}

type summary struct {
	checked, failed, cached int
}

func (s *summary) add(ok, hit bool) {
	s.checked++
	if !ok {
		s.failed++
	}
	if hit {
		s.cached++
	}
}

func (s summary) String() string {
	return fmt.Sprintf("checked %d file(s), %d failed, %d cached", s.checked, s.failed, s.cached)
}
