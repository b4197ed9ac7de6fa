// Package classifier resolves file extensions to category names for organizador.
package classifier

import (
	"path/filepath"
	"sort"
	"strings"
)

// CategoryMap is an immutable extension-to-category lookup. It is built
// once at startup and passed explicitly to callers; no ambient state.
type CategoryMap struct {
	byExt   map[string]string
	names   []string
	unknown string
}

// New builds a CategoryMap from a category table (category name ->
// extensions with leading dots). Lookup is case-insensitive; unmapped
// and empty extensions resolve to unknownName.
func New(categories map[string][]string, unknownName string) *CategoryMap {
	byExt := make(map[string]string)
	names := make([]string, 0, len(categories)+1)
	for name, exts := range categories {
		names = append(names, name)
		for _, ext := range exts {
			byExt[strings.ToLower(ext)] = name
		}
	}
	sort.Strings(names)
	names = append(names, unknownName)
	return &CategoryMap{
		byExt:   byExt,
		names:   names,
		unknown: unknownName,
	}
}

// Names returns every category name, the unknown bucket included.
func (m *CategoryMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Resolve maps an extension to its category name. It is a total
// function: any string, including the empty one, yields a category.
func (m *CategoryMap) Resolve(ext string) string {
	if ext == "" {
		return m.unknown
	}
	if name, ok := m.byExt[strings.ToLower(ext)]; ok {
		return name
	}
	return m.unknown
}

// Unknown returns the fallback category name.
func (m *CategoryMap) Unknown() string {
	return m.unknown
}

// Classify resolves the category for a file path.
func (m *CategoryMap) Classify(path string) string {
	return m.Resolve(Ext(path))
}

// Ext extracts the extension of the final path segment, lowercased and
// including the leading dot. A name with no dot has no extension, and a
// hidden file whose only dot is the leading one (".bashrc") is treated
// as extensionless.
func Ext(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(base[idx:])
}

// Hidden reports whether the final path segment is a dotfile.
func Hidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
