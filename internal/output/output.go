// Package output handles CLI output formatting for organizador,
// including verbose mode and the in-place progress line.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool
	Writer    io.Writer // default os.Stdout
	ErrWriter io.Writer // default os.Stderr
	IsTTY     bool
}

// DefaultConfig returns a Config with TTY detection on stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Output writes user-facing messages. The progress line is only drawn
// on a TTY and is suppressed in verbose mode, where per-file lines
// replace it.
type Output struct {
	config Config

	mu       sync.Mutex
	progress bool
}

// New creates an Output with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// Info prints a message, always.
func (o *Output) Info(format string, args ...interface{}) {
	o.print(o.config.Writer, format, args...)
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.print(o.config.Writer, format, args...)
}

// Error prints a message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.print(o.config.ErrWriter, format, args...)
}

// Progress redraws the in-place progress line.
func (o *Output) Progress(done, total int) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = true
	fmt.Fprintf(o.config.Writer, "\rOrganizando arquivo %d/%d...", done, total)
}

// EndProgress clears the progress line, if one was drawn.
func (o *Output) EndProgress() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progress {
		return
	}
	o.progress = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
}

// IsVerbose reports whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

func (o *Output) print(w io.Writer, format string, args ...interface{}) {
	o.EndProgress()
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}
