package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// DefaultCategories returns the built-in extension table.
// Keys are category folder names, values are extensions with leading dots.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"Imagens":     {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp", ".svg", ".heic"},
		"Documentos":  {".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".csv", ".xls", ".xlsx", ".ppt", ".pptx", ".md"},
		"Compactados": {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"},
		"Vídeos":      {".mp4", ".mkv", ".mov", ".avi", ".wmv", ".flv", ".webm"},
		"Áudio":       {".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"},
		"Programas":   {".exe", ".msi", ".dmg", ".pkg", ".apk"},
		"Código":      {".py", ".js", ".ts", ".java", ".c", ".cpp", ".cs", ".php", ".go", ".rb", ".rs", ".sh", ".ps1"},
		"Design":      {".psd", ".ai", ".xd", ".fig", ".sketch", ".eps"},
		"Fontes":      {".ttf", ".otf", ".woff", ".woff2"},
	}
}

// LoadCategories reads a category-map file: a JSON object whose keys are
// category names and whose values are lists of extensions with leading
// dots. A user-supplied map REPLACES the built-in table entirely; there
// is no merge. Extensions are normalized to lowercase.
func LoadCategories(fs afero.Fs, path string) (map[string][]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: path}
		}
		return nil, &ConfigError{Type: FileNotFound, Path: path, Message: err.Error()}
	}

	var categories map[string][]string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, &ConfigError{Type: InvalidJSON, Path: path, Message: err.Error()}
	}

	if err := ValidateCategories(categories); err != nil {
		return nil, err
	}

	normalizeCategories(categories)
	return categories, nil
}

// ValidateCategories rejects shapes that json.Unmarshal accepts but the
// classifier must not trust: empty category names, empty extension
// lists, extensions without a leading dot, and extensions mapped to more
// than one category.
func ValidateCategories(categories map[string][]string) error {
	if len(categories) == 0 {
		return &ConfigError{Type: ValidationError, Message: "category map must contain at least one category"}
	}

	seen := make(map[string]string)
	for name, exts := range categories {
		if strings.TrimSpace(name) == "" {
			return &ConfigError{Type: ValidationError, Message: "category name cannot be empty"}
		}
		if len(exts) == 0 {
			return &ConfigError{Type: ValidationError, Message: fmt.Sprintf("category %q has no extensions", name)}
		}
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return &ConfigError{Type: ValidationError, Message: fmt.Sprintf("extension %q in category %q must start with a dot", ext, name)}
			}
			lower := strings.ToLower(ext)
			if other, dup := seen[lower]; dup && other != name {
				return &ConfigError{Type: ValidationError, Message: fmt.Sprintf("extension %q mapped to both %q and %q", lower, other, name)}
			}
			seen[lower] = name
		}
	}
	return nil
}

func normalizeCategories(categories map[string][]string) {
	for name, exts := range categories {
		for i, ext := range exts {
			exts[i] = strings.ToLower(ext)
		}
		categories[name] = exts
	}
}
