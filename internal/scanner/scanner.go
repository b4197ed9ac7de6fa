// Package scanner handles source-directory enumeration for organizador.
package scanner

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the directory does not exist or is not a directory.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// FileEntry represents a regular file found during scanning.
type FileEntry struct {
	Name     string // filename only
	FullPath string // path rooted at the scanned directory
}

// Options configures scanning behavior.
type Options struct {
	// Exclude lists directory subtrees that are never descended into.
	// The orchestrator uses this to keep files already relocated into
	// the destination tree from being reprocessed within the same run.
	Exclude []string
}

// Scan recursively enumerates regular files under dir. Subdirectories
// are traversed, symlinks and other irregular entries are skipped, and
// excluded subtrees are pruned. The result is a snapshot taken before
// any transfer happens.
func Scan(fs afero.Fs, dir string, opts Options) ([]FileEntry, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: dir, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: dir, Err: err}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &ScanError{Type: DirectoryNotFound, Path: dir, Err: errors.New("path is not a directory")}
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, e := range opts.Exclude {
		excluded[filepath.Clean(e)] = true
	}

	return scanDirectory(fs, filepath.Clean(dir), excluded)
}

func scanDirectory(fs afero.Fs, dir string, excluded map[string]bool) ([]FileEntry, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: dir, Err: err}
		}
		return nil, err
	}

	var files []FileEntry
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if excluded[fullPath] {
				continue
			}
			sub, err := scanDirectory(fs, fullPath, excluded)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}

		// Only regular files are transferred; symlinks, sockets and
		// devices are left alone.
		if entry.Mode()&os.ModeType != 0 {
			continue
		}

		files = append(files, FileEntry{
			Name:     entry.Name(),
			FullPath: fullPath,
		})
	}

	return files, nil
}
