package orchestrator

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/afero"

	"github.com/sthevan027/organizador/internal/classifier"
	"github.com/sthevan027/organizador/internal/config"
)

func defaultCategoryMap() *classifier.CategoryMap {
	return classifier.New(config.DefaultCategories(), config.DefaultUnknownName)
}

// snapshot captures every path in the filesystem, files and directories
// alike, as a sorted list.
func snapshot(fs afero.Fs, root string) []string {
	var out []string
	afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		out = append(out, filepath.Clean(path))
		return nil
	})
	sort.Strings(out)
	return out
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dry-run must observe the tree without changing it, and the counters
// must always partition the processed total.
func TestDryRunProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	genExt := gen.OneConstOf(".jpg", ".pdf", ".mp3", ".zip", ".weird", "")
	genFile := gopter.CombineGens(gen.RegexMatch(`[a-z]{1,6}`), genExt).
		Map(func(vals []interface{}) string {
			return vals[0].(string) + vals[1].(string)
		})
	genFiles := gen.SliceOfN(8, genFile)

	properties.Property("dry-run leaves the filesystem untouched", prop.ForAll(
		func(names []string) bool {
			fs := afero.NewMemMapFs()
			for i, name := range names {
				dir := "/src"
				if i%3 == 0 {
					dir = "/src/sub"
				}
				afero.WriteFile(fs, filepath.Join(dir, name), []byte(name), 0644)
			}

			before := snapshot(fs, "/")

			opts := config.Options{
				Source:      "/src",
				Dest:        "/dst",
				Mode:        config.ModeMove,
				DryRun:      true,
				DeleteEmpty: true,
			}
			opts.Normalize()
			orch := New(fs, opts, defaultCategoryMap())
			if _, err := orch.Run(); err != nil {
				return false
			}

			return equalPaths(before, snapshot(fs, "/"))
		},
		genFiles,
	))

	properties.Property("processed equals transferred+skipped+errored", prop.ForAll(
		func(names []string, dryRun bool) bool {
			fs := afero.NewMemMapFs()
			for _, name := range names {
				afero.WriteFile(fs, filepath.Join("/src", name), []byte(name), 0644)
			}

			opts := config.Options{
				Source: "/src",
				Dest:   "/dst",
				Mode:   config.ModeCopy,
				DryRun: dryRun,
			}
			opts.Normalize()
			orch := New(fs, opts, defaultCategoryMap())
			result, err := orch.Run()
			if err != nil {
				return false
			}

			s := result.Stats
			return s.Processed == s.Transferred+s.Skipped+s.Errored &&
				len(result.Records) == s.Processed
		},
		genFiles, gen.Bool(),
	))

	properties.TestingRun(t)
}
