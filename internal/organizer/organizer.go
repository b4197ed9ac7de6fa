// Package organizer performs and simulates single-file transfers for organizador.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/sthevan027/organizador/internal/config"
)

// TransferErrorType represents the type of transfer error.
type TransferErrorType string

const (
	// SourceNotFound indicates the source file vanished before the transfer.
	SourceNotFound TransferErrorType = "SOURCE_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied TransferErrorType = "PERMISSION_DENIED"
	// DestinationUnavailable indicates the category directory could not be
	// created or written.
	DestinationUnavailable TransferErrorType = "DESTINATION_UNAVAILABLE"
	// VerifyFailed indicates the copied bytes did not match the source.
	VerifyFailed TransferErrorType = "VERIFY_FAILED"
	// CollisionExhausted indicates the free-name search could not complete.
	CollisionExhausted TransferErrorType = "COLLISION_EXHAUSTED"
)

// TransferError represents a per-file error. It is counted and logged
// by the orchestrator; it never aborts the run.
type TransferError struct {
	Type TransferErrorType
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// OutcomeKind classifies the result of one transfer attempt.
type OutcomeKind string

const (
	Transferred OutcomeKind = "TRANSFERRED"
	Skipped     OutcomeKind = "SKIPPED"
	Failed      OutcomeKind = "FAILED"
)

// Outcome is the structured result of executing one Plan.
type Outcome struct {
	Kind      OutcomeKind
	Simulated bool  // true under dry-run
	Err       error // set when Kind == Failed
}

// Plan describes one pending operation. It is created per file,
// consumed immediately, and never persisted.
type Plan struct {
	Source      string
	Category    string
	Destination string // collision-resolved destination path
	Mode        config.Mode
	DryRun      bool
}

// Organizer executes transfer plans against a filesystem.
type Organizer struct {
	fs afero.Fs
}

// New creates an Organizer operating on the given filesystem.
func New(fs afero.Fs) *Organizer {
	return &Organizer{fs: fs}
}

// Execute performs (or simulates) the move/copy of one file. Exactly
// one filesystem mutation happens per call, or none under dry-run. A
// failed transfer never leaves a partial destination artifact and never
// removes the source.
func (o *Organizer) Execute(plan Plan) Outcome {
	if samePath(plan.Source, plan.Destination) {
		return Outcome{Kind: Skipped, Simulated: plan.DryRun}
	}

	if plan.DryRun {
		return o.simulate(plan)
	}

	if err := o.fs.MkdirAll(filepath.Dir(plan.Destination), 0755); err != nil {
		return failed(&TransferError{Type: DestinationUnavailable, Path: filepath.Dir(plan.Destination), Err: err})
	}

	var err error
	switch plan.Mode {
	case config.ModeCopy:
		err = o.copyVerified(plan.Source, plan.Destination)
	default:
		err = o.move(plan.Source, plan.Destination)
	}
	if err != nil {
		return failed(err)
	}
	return Outcome{Kind: Transferred}
}

// simulate checks that the operation would have succeeded without
// touching the filesystem: the source must exist and be readable.
func (o *Organizer) simulate(plan Plan) Outcome {
	f, err := o.fs.Open(plan.Source)
	if err != nil {
		return Outcome{Kind: Failed, Simulated: true, Err: classify(plan.Source, err)}
	}
	f.Close()
	return Outcome{Kind: Transferred, Simulated: true}
}

// move relocates src to dst. Rename is tried first; when it fails
// (cross-device moves, typically) the file is copied with verification
// and the source is deleted only after the copy is complete.
func (o *Organizer) move(src, dst string) error {
	if err := o.fs.Rename(src, dst); err == nil {
		return nil
	} else if os.IsPermission(err) {
		return &TransferError{Type: PermissionDenied, Path: src, Err: err}
	} else if os.IsNotExist(err) {
		return &TransferError{Type: SourceNotFound, Path: src, Err: err}
	}

	if err := o.copyVerified(src, dst); err != nil {
		return err
	}

	if err := o.fs.Remove(src); err != nil {
		// Source could not be deleted: withdraw the copy so the file
		// keeps existing at exactly one location.
		o.fs.Remove(dst)
		return classify(src, err)
	}
	return nil
}

// copyVerified copies src to dst through a temporary name in the
// destination directory. The temp file is renamed into place only after
// its digest matches the source; any failure removes the partial file.
func (o *Organizer) copyVerified(src, dst string) error {
	in, err := o.fs.Open(src)
	if err != nil {
		return classify(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return classify(src, err)
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".part")
	out, err := o.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &TransferError{Type: DestinationUnavailable, Path: tmp, Err: err}
	}

	digest := xxhash.New()
	_, copyErr := io.Copy(out, io.TeeReader(in, digest))
	if copyErr == nil {
		copyErr = out.Sync()
	}
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		o.fs.Remove(tmp)
		if copyErr == nil {
			copyErr = closeErr
		}
		return &TransferError{Type: DestinationUnavailable, Path: dst, Err: copyErr}
	}

	written, err := o.hashFile(tmp)
	if err != nil {
		o.fs.Remove(tmp)
		return &TransferError{Type: VerifyFailed, Path: dst, Err: err}
	}
	if written != digest.Sum64() {
		o.fs.Remove(tmp)
		return &TransferError{Type: VerifyFailed, Path: dst, Err: fmt.Errorf("digest mismatch after copy")}
	}

	if err := o.fs.Rename(tmp, dst); err != nil {
		o.fs.Remove(tmp)
		return &TransferError{Type: DestinationUnavailable, Path: dst, Err: err}
	}
	return nil
}

// hashFile streams a file through xxhash and returns its digest.
func (o *Organizer) hashFile(path string) (uint64, error) {
	f, err := o.fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return &TransferError{Type: SourceNotFound, Path: path, Err: err}
	case os.IsPermission(err):
		return &TransferError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &TransferError{Type: DestinationUnavailable, Path: path, Err: err}
	}
}

func failed(err error) Outcome {
	return Outcome{Kind: Failed, Err: err}
}
