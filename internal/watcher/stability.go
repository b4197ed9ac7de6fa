package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrFileVanished is returned when the file disappears while waiting.
var ErrFileVanished = errors.New("file vanished")

// ErrFileUnstable is returned when the file keeps growing past the timeout.
var ErrFileUnstable = errors.New("file did not stabilize within timeout")

// StabilityChecker waits for a file's size to hold still, so files
// still being downloaded or written are not transferred mid-write.
type StabilityChecker struct {
	threshold time.Duration
	timeout   time.Duration
	interval  time.Duration
}

// NewStabilityChecker creates a checker with a 30s ceiling and a poll
// interval derived from the threshold.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &StabilityChecker{
		threshold: threshold,
		timeout:   30 * time.Second,
		interval:  interval,
	}
}

// WaitForStable blocks until the file size is unchanged for the
// threshold duration, or fails when the file vanishes or the timeout
// elapses.
func (s *StabilityChecker) WaitForStable(path string) error {
	return s.waitForStable(context.Background(), path)
}

func (s *StabilityChecker) waitForStable(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	lastSize, err := fileSize(path)
	if err != nil {
		return err
	}
	lastChange := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrFileUnstable
			}
			return ctx.Err()
		case <-ticker.C:
			size, err := fileSize(path)
			if err != nil {
				return err
			}
			if size != lastSize {
				lastSize = size
				lastChange = time.Now()
			} else if time.Since(lastChange) >= s.threshold {
				return nil
			}
		}
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrFileVanished
		}
		return 0, err
	}
	return info.Size(), nil
}
