package classifier

import (
	"io"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"
)

// headerSize is how many bytes filetype needs to match magic numbers.
const headerSize = 262

// Sniffer classifies extensionless files by magic bytes. The detected
// type's canonical extension is resolved through the same category map,
// so user-supplied maps keep working.
type Sniffer struct {
	fs afero.Fs
}

// NewSniffer creates a Sniffer reading through the given filesystem.
func NewSniffer(fs afero.Fs) *Sniffer {
	return &Sniffer{fs: fs}
}

// Sniff detects the category of a file by content. It returns false
// when the file cannot be read or its type is unknown to the matcher,
// in which case the caller should fall back to the unknown bucket.
func (s *Sniffer) Sniff(path string, m *CategoryMap) (string, bool) {
	head, err := s.readHeader(path)
	if err != nil {
		return "", false
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", false
	}

	category := m.Resolve("." + kind.Extension)
	if category == m.Unknown() {
		return "", false
	}
	return category, true
}

func (s *Sniffer) readHeader(path string) ([]byte, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}
