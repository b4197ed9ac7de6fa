// Package watcher provides filesystem monitoring for organizing files
// as they arrive.
package watcher

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sthevan027/organizador/internal/logger"
)

// Config contains watch-mode settings.
type Config struct {
	Debounce        time.Duration // delay before a new file is processed
	StableThreshold time.Duration // how long the size must hold still
	IgnorePatterns  []string      // glob patterns for temp files
}

// DefaultConfig returns sensible watch defaults.
func DefaultConfig() *Config {
	return &Config{
		Debounce:        2 * time.Second,
		StableThreshold: time.Second,
		IgnorePatterns:  DefaultIgnorePatterns(),
	}
}

// Result is what the handler reports for one file.
type Result int

const (
	Organized Result = iota
	SkippedFile
	Errored
)

// Handler processes one newly arrived file.
type Handler func(path string) Result

// Summary contains stats from one watch session.
type Summary struct {
	Organized int
	Skipped   int
	Errors    int
	Duration  time.Duration
}

// Watcher monitors a directory and feeds settled new files to the
// handler. Rapid events are debounced and files still being written are
// held back until their size stabilizes.
type Watcher struct {
	config    *Config
	handler   Handler
	fsw       *fsnotify.Watcher
	filter    *Filter
	debouncer *Debouncer
	stability *StabilityChecker
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu        sync.Mutex
	organized int
	skipped   int
	errors    int
}

// New creates a Watcher. A nil config selects the defaults.
func New(config *Config, handler Handler) *Watcher {
	if config == nil {
		config = DefaultConfig()
	}
	w := &Watcher{
		config:    config,
		handler:   handler,
		filter:    NewFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(config.StableThreshold),
	}
	w.debouncer = NewDebouncer(config.Debounce, w.processFile)
	return w
}

// Start begins watching dir. The watcher runs until Stop is called.
func (w *Watcher) Start(dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return err
	}

	w.fsw = fsw
	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop shuts the watcher down and returns the session summary.
func (w *Watcher) Stop() *Summary {
	close(w.done)
	w.wg.Wait()
	w.debouncer.CancelAll()
	if w.fsw != nil {
		w.fsw.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &Summary{
		Organized: w.organized,
		Skipped:   w.skipped,
		Errors:    w.errors,
		Duration:  time.Since(w.startTime),
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.handleEvent(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Get().Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(path string) {
	if w.filter.ShouldIgnore(path) {
		w.count(SkippedFile)
		return
	}
	w.debouncer.Add(path)
}

// processFile fires after the debounce delay. The file must still exist,
// be a regular file, and have a stable size before the handler runs.
func (w *Watcher) processFile(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if err := w.stability.WaitForStable(path); err != nil {
		logger.Get().Debug().Err(err).Str("file", path).Msg("file never settled")
		w.count(Errored)
		return
	}

	if w.handler == nil {
		return
	}
	w.count(w.handler(path))
}

func (w *Watcher) count(r Result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch r {
	case Organized:
		w.organized++
	case SkippedFile:
		w.skipped++
	case Errored:
		w.errors++
	}
}
