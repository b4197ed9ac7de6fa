// Package config handles run options and category-map loading for organizador.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
	InvalidSource   ConfigErrorType = "INVALID_SOURCE"
)

// ConfigError represents a fatal configuration error. It aborts a run
// before any transfer begins.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in category map: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("validation error: %s", e.Message)
	case InvalidSource:
		return fmt.Sprintf("invalid source directory %s: %s", e.Path, e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Mode selects between relocating and duplicating files.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// Verb returns the action verb used in operation log lines.
func (m Mode) Verb() string {
	if m == ModeCopy {
		return "COPIAR"
	}
	return "MOVER"
}

// DefaultUnknownName is the fallback bucket for unmapped extensions.
const DefaultUnknownName = "Outros"

// Options holds all settings for one organizing run.
type Options struct {
	Source      string // directory to organize (required)
	Dest        string // destination root (default: Source)
	Mode        Mode   // move or copy (default: move)
	DryRun      bool   // simulate without touching the filesystem
	DeleteEmpty bool   // remove emptied subdirectories after the run
	UnknownName string // category for unmapped extensions
	MapPath     string // optional category-map JSON file
	LogPath     string // optional operation log path
	Workers     int    // parallel workers (1 = sequential)
	Sniff       bool   // classify extensionless files by content
	Strict      bool   // non-zero exit when per-file errors occurred
	Verbose     bool
}

// Normalize fills defaults and cleans paths.
func (o *Options) Normalize() {
	o.Source = filepath.Clean(o.Source)
	if o.Dest == "" {
		o.Dest = o.Source
	}
	o.Dest = filepath.Clean(o.Dest)
	if o.Mode == "" {
		o.Mode = ModeMove
	}
	if o.UnknownName == "" {
		o.UnknownName = DefaultUnknownName
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
}

// Validate checks that the options describe a startable run.
// Violations are fatal: the run must not begin.
func (o *Options) Validate(fs afero.Fs) error {
	if strings.TrimSpace(o.Source) == "" {
		return &ConfigError{Type: ValidationError, Message: "source directory is required"}
	}

	info, err := fs.Stat(o.Source)
	if err != nil {
		return &ConfigError{Type: InvalidSource, Path: o.Source, Message: err.Error()}
	}
	if !info.IsDir() {
		return &ConfigError{Type: InvalidSource, Path: o.Source, Message: "not a directory"}
	}

	if o.Mode != ModeMove && o.Mode != ModeCopy {
		return &ConfigError{Type: ValidationError, Message: fmt.Sprintf("mode must be %q or %q", ModeMove, ModeCopy)}
	}

	return nil
}
