// Package oplog writes the per-run operation log for organizador.
//
// Each run gets its own plain-text file next to the configured log
// path, suffixed with a timestamp. One line is written per processed
// file in the form "[STATUS] ACTION: source -> destination", followed
// by a trailing summary line. The log is append-only and never read
// back by the program.
package oplog

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Statuses for operation records.
const (
	StatusOK     = "OK"
	StatusDryRun = "DRY-RUN"
	StatusError  = "ERROR"
	StatusSkip   = "SKIP"
)

// Writer appends operation records to a per-run log file.
type Writer struct {
	mu    sync.Mutex
	fs    afero.Fs
	file  afero.File
	w     *bufio.Writer
	path  string
	runID uuid.UUID
}

// New opens a log file for one run. The file is created as
// "<stem>_<YYYY-MM-DD_HH-MM-SS><ext>" in the directory of path, which
// is created if absent. A header line records the run ID and start time.
func New(fs afero.Fs, path string) (*Writer, error) {
	return newAt(fs, path, time.Now())
}

func newAt(fs afero.Fs, path string, now time.Time) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	stamped := filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, now.Format("2006-01-02_15-04-05"), ext))

	file, err := fs.Create(stamped)
	if err != nil {
		return nil, fmt.Errorf("failed to open operation log: %w", err)
	}

	w := &Writer{
		fs:    fs,
		file:  file,
		w:     bufio.NewWriter(file),
		path:  stamped,
		runID: uuid.New(),
	}

	if err := w.writeLine(fmt.Sprintf("# organizador run %s em %s", w.runID, now.Format(time.RFC3339))); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// Record writes one operation line. detail, when non-empty, is appended
// in parentheses (error reasons, mostly).
func (w *Writer) Record(status, action, source, dest, detail string) error {
	line := fmt.Sprintf("[%s] %s: %s -> %s", status, action, source, dest)
	if detail != "" {
		line += fmt.Sprintf(" (%s)", detail)
	}
	return w.writeLocked(line)
}

// Summary writes the trailing totals line, preceded by a blank line.
func (w *Writer) Summary(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeLine(""); err != nil {
		return err
	}
	return w.writeLine(line)
}

// RunID returns the identifier of this run.
func (w *Writer) RunID() uuid.UUID {
	return w.runID
}

// Path returns the path of the timestamped log file.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes buffered records and closes the log file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush operation log: %w", err)
	}
	return w.file.Close()
}

func (w *Writer) writeLocked(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLine(line)
}

// writeLine appends and flushes one line while the caller holds the lock.
func (w *Writer) writeLine(line string) error {
	if _, err := w.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}
	return w.w.Flush()
}
