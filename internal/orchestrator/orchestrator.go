// Package orchestrator coordinates the organizing workflow for organizador.
package orchestrator

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/sthevan027/organizador/internal/classifier"
	"github.com/sthevan027/organizador/internal/config"
	"github.com/sthevan027/organizador/internal/logger"
	"github.com/sthevan027/organizador/internal/oplog"
	"github.com/sthevan027/organizador/internal/organizer"
	"github.com/sthevan027/organizador/internal/scanner"
)

// Record describes the outcome of one processed file, in the shape the
// operation log consumes.
type Record struct {
	Status      string
	Action      string
	Source      string
	Destination string
	Detail      string
}

// RunResult is the terminal state of one run. There is no resumable or
// partial state beyond it.
type RunResult struct {
	Stats         RunStats
	Records       []Record
	CleanupErrors []error
	Duration      time.Duration
}

// Orchestrator walks the source tree and drives classification and
// transfer for each file.
type Orchestrator struct {
	fs         afero.Fs
	opts       config.Options
	categories *classifier.CategoryMap
	sniffer    *classifier.Sniffer
	org        *organizer.Organizer
	log        *oplog.Writer
	progress   func(done, total int)
	onRecord   func(Record)

	mu       sync.Mutex // guards stats/records under parallel execution
	dirLocks sync.Map   // category dir -> *sync.Mutex
}

// New creates an Orchestrator. opts must already be normalized.
func New(fs afero.Fs, opts config.Options, categories *classifier.CategoryMap) *Orchestrator {
	o := &Orchestrator{
		fs:         fs,
		opts:       opts,
		categories: categories,
		org:        organizer.New(fs),
	}
	if opts.Sniff {
		o.sniffer = classifier.NewSniffer(fs)
	}
	return o
}

// SetLog attaches an operation log writer. Without one, records are
// still aggregated in the RunResult.
func (o *Orchestrator) SetLog(w *oplog.Writer) {
	o.log = w
}

// OnProgress registers a callback invoked after each processed file.
func (o *Orchestrator) OnProgress(fn func(done, total int)) {
	o.progress = fn
}

// OnRecord registers a callback invoked with each record as it is
// produced, for live per-file output.
func (o *Orchestrator) OnRecord(fn func(Record)) {
	o.onRecord = fn
}

// Run executes the full workflow: enumerate, classify, resolve,
// transfer, aggregate, and optionally prune emptied directories.
// Only startup problems return an error; per-file failures are counted
// in the stats and the run continues.
func (o *Orchestrator) Run() (*RunResult, error) {
	start := time.Now()

	if err := o.opts.Validate(o.fs); err != nil {
		return nil, err
	}

	if !o.opts.DryRun {
		if err := o.fs.MkdirAll(o.opts.Dest, 0755); err != nil {
			return nil, &config.ConfigError{Type: config.InvalidSource, Path: o.opts.Dest, Message: err.Error()}
		}
	}

	files, err := scanner.Scan(o.fs, o.opts.Source, scanner.Options{Exclude: o.exclusions()})
	if err != nil {
		return nil, err
	}

	result := &RunResult{Records: make([]Record, 0, len(files))}

	if o.opts.Workers > 1 {
		o.runParallel(files, result)
	} else {
		o.runSequential(files, result)
	}

	if o.opts.DeleteEmpty && !o.opts.DryRun {
		result.CleanupErrors = o.removeEmptyDirs()
	}

	result.Duration = time.Since(start)

	if o.log != nil {
		if err := o.log.Summary(result.Stats.Summary()); err != nil {
			logger.Get().Warn().Err(err).Msg("failed to write log summary")
		}
	}

	return result, nil
}

// exclusions lists the subtrees the scanner must not descend into, so
// files already relocated into the destination are never reprocessed
// within the same run.
func (o *Orchestrator) exclusions() []string {
	if o.opts.Dest == o.opts.Source {
		// Destination is the source itself: the destination tree is the
		// set of category folders directly under it.
		var out []string
		for _, name := range o.categories.Names() {
			out = append(out, filepath.Join(o.opts.Dest, name))
		}
		return out
	}
	if isSubPath(o.opts.Source, o.opts.Dest) {
		return []string{o.opts.Dest}
	}
	return nil
}

func (o *Orchestrator) runSequential(files []scanner.FileEntry, result *RunResult) {
	for i, file := range files {
		rec, bucket := o.processEntry(file)
		result.Stats.add(bucket)
		result.Records = append(result.Records, rec)
		o.emit(rec)
		if o.progress != nil {
			o.progress(i+1, len(files))
		}
	}
}

// runParallel pushes files through a goroutine pool. Collision
// check-then-create is serialized per category directory and shared
// state behind the orchestrator mutex; everything else runs
// concurrently.
func (o *Orchestrator) runParallel(files []scanner.FileEntry, result *RunResult) {
	pool, err := ants.NewPool(o.opts.Workers)
	if err != nil {
		// Pool creation failing means bad sizing; fall back to the
		// reference single-pass behavior.
		logger.Get().Warn().Err(err).Msg("worker pool unavailable, running sequentially")
		o.runSequential(files, result)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, file := range files {
		file := file
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			rec, bucket := o.processEntry(file)

			o.mu.Lock()
			result.Stats.add(bucket)
			result.Records = append(result.Records, rec)
			done := result.Stats.Processed
			o.mu.Unlock()

			o.emit(rec)
			if o.progress != nil {
				o.progress(done, len(files))
			}
		})
		if submitErr != nil {
			wg.Done()
			rec, bucket := o.processEntry(file)
			o.mu.Lock()
			result.Stats.add(bucket)
			result.Records = append(result.Records, rec)
			o.mu.Unlock()
			o.emit(rec)
		}
	}
	wg.Wait()
}

// ProcessOne classifies and transfers a single file. The watch mode
// handler uses this entry point.
func (o *Orchestrator) ProcessOne(fullPath string) (Record, OutcomeBucket) {
	entry := scanner.FileEntry{Name: filepath.Base(fullPath), FullPath: fullPath}
	rec, bucket := o.processEntry(entry)
	o.emit(rec)
	return rec, bucket
}

// processEntry runs one file start-to-finish: classify, resolve the
// destination, execute the transfer, and shape the log record.
func (o *Orchestrator) processEntry(file scanner.FileEntry) (Record, OutcomeBucket) {
	verb := o.opts.Mode.Verb()

	// Hidden files without an extension are left alone, as the original
	// tool did.
	if classifier.Hidden(file.Name) && classifier.Ext(file.Name) == "" {
		return Record{
			Status:      oplog.StatusSkip,
			Action:      verb,
			Source:      file.FullPath,
			Destination: file.FullPath,
			Detail:      "arquivo oculto sem extensão",
		}, BucketSkipped
	}

	category := o.classify(file)
	candidate := filepath.Join(o.opts.Dest, category, file.Name)

	unlock := o.lockCategory(filepath.Dir(candidate))
	defer unlock()

	destination, err := o.org.ResolveDestination(candidate, file.FullPath)
	if err != nil {
		logger.Get().Error().Err(err).Str("file", file.FullPath).Msg("destination resolution failed")
		return Record{
			Status:      oplog.StatusError,
			Action:      verb,
			Source:      file.FullPath,
			Destination: candidate,
			Detail:      err.Error(),
		}, BucketErrored
	}

	outcome := o.org.Execute(organizer.Plan{
		Source:      file.FullPath,
		Category:    category,
		Destination: destination,
		Mode:        o.opts.Mode,
		DryRun:      o.opts.DryRun,
	})

	rec := Record{
		Action:      verb,
		Source:      file.FullPath,
		Destination: destination,
	}

	switch outcome.Kind {
	case organizer.Transferred:
		if outcome.Simulated {
			rec.Status = oplog.StatusDryRun
		} else {
			rec.Status = oplog.StatusOK
		}
		logger.Get().Debug().Str("source", file.FullPath).Str("destination", destination).
			Str("category", category).Bool("simulated", outcome.Simulated).Msg("file transferred")
		return rec, BucketTransferred
	case organizer.Skipped:
		rec.Status = oplog.StatusSkip
		rec.Detail = "já está no destino"
		return rec, BucketSkipped
	default:
		rec.Status = oplog.StatusError
		if outcome.Err != nil {
			rec.Detail = outcome.Err.Error()
		}
		logger.Get().Error().Err(outcome.Err).Str("file", file.FullPath).Msg("transfer failed")
		return rec, BucketErrored
	}
}

// classify resolves the category, trying content sniffing for
// extensionless files when enabled.
func (o *Orchestrator) classify(file scanner.FileEntry) string {
	ext := classifier.Ext(file.Name)
	if ext == "" && o.sniffer != nil {
		if category, ok := o.sniffer.Sniff(file.FullPath, o.categories); ok {
			return category
		}
	}
	return o.categories.Resolve(ext)
}

// lockCategory serializes work per category directory so two files
// cannot race onto the same resolved name. With a single worker the
// lock is uncontended.
func (o *Orchestrator) lockCategory(dir string) func() {
	v, _ := o.dirLocks.LoadOrStore(dir, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// emit hands a record to the operation log and the live-output
// callback. Log-writing failures are diagnostics, not run failures.
func (o *Orchestrator) emit(rec Record) {
	o.notify(rec)
	if o.log == nil {
		return
	}
	if err := o.log.Record(rec.Status, rec.Action, rec.Source, rec.Destination, rec.Detail); err != nil {
		logger.Get().Warn().Err(err).Msg("failed to write log record")
	}
}

// notify forwards a record to the live-output callback.
func (o *Orchestrator) notify(rec Record) {
	if o.onRecord != nil {
		o.onRecord(rec)
	}
}

// isSubPath reports whether child is inside parent.
func isSubPath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
