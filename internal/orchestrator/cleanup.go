package orchestrator

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/sthevan027/organizador/internal/logger"
)

// removeEmptyDirs walks the source tree bottom-up and removes every
// directory that ended up empty after the run. The source root itself
// and the destination tree are never touched, and non-empty directories
// are never removed. Failures are collected, not fatal.
func (o *Orchestrator) removeEmptyDirs() []error {
	excluded := make(map[string]bool)
	for _, e := range o.exclusions() {
		excluded[filepath.Clean(e)] = true
	}

	var dirs []string
	walkErr := afero.Walk(o.fs, o.opts.Source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		clean := filepath.Clean(path)
		if excluded[clean] {
			return filepath.SkipDir
		}
		if clean != o.opts.Source {
			dirs = append(dirs, clean)
		}
		return nil
	})

	var errs []error
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	// Deepest first, so emptied parents become removable in one pass.
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})

	for _, dir := range dirs {
		entries, err := afero.ReadDir(o.fs, dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := o.fs.Remove(dir); err != nil {
			logger.Get().Warn().Err(err).Str("dir", dir).Msg("failed to remove empty directory")
			errs = append(errs, err)
			continue
		}
		logger.Get().Debug().Str("dir", dir).Msg("removed empty directory")
	}

	return errs
}
