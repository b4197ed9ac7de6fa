package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ResolveDestination produces a guaranteed-available destination path.
// If candidate does not exist it is returned unchanged. Otherwise a
// counter is appended in parentheses before the extension ("name (1).ext",
// "name (2).ext", ...) until a free path is found. A candidate occupied
// by the source file itself is returned as-is; the executor turns that
// into a skip.
//
// Existence-check failures terminate the search and surface as a
// COLLISION_EXHAUSTED transfer error.
func (o *Organizer) ResolveDestination(candidate, source string) (string, error) {
	exists, err := afero.Exists(o.fs, candidate)
	if err != nil {
		return "", &TransferError{Type: CollisionExhausted, Path: candidate, Err: err}
	}
	if !exists || samePath(candidate, source) {
		return candidate, nil
	}

	dir := filepath.Dir(candidate)
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(filepath.Base(candidate), ext)

	for counter := 1; ; counter++ {
		next := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		exists, err := afero.Exists(o.fs, next)
		if err != nil {
			return "", &TransferError{Type: CollisionExhausted, Path: next, Err: err}
		}
		if !exists {
			return next, nil
		}
	}
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
