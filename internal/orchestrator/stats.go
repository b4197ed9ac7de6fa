package orchestrator

import (
	"fmt"
	"strings"
)

// RunStats holds the counters for one invocation. They are owned
// exclusively by the orchestrator for the duration of the run and reset
// per run. Processed always equals Transferred + Skipped + Errored.
type RunStats struct {
	Processed   int
	Transferred int
	Skipped     int
	Errored     int
}

// add folds one per-file result into the counters.
func (s *RunStats) add(bucket OutcomeBucket) {
	s.Processed++
	switch bucket {
	case BucketTransferred:
		s.Transferred++
	case BucketSkipped:
		s.Skipped++
	case BucketErrored:
		s.Errored++
	}
}

// OutcomeBucket names the counter a processed file lands in.
type OutcomeBucket int

const (
	BucketTransferred OutcomeBucket = iota
	BucketSkipped
	BucketErrored
)

// Summary formats the trailing totals line.
func (s RunStats) Summary() string {
	return fmt.Sprintf("Arquivos processados: %s | organizados: %s | pulados: %s | erros: %s",
		human(s.Processed), human(s.Transferred), human(s.Skipped), human(s.Errored))
}

// human formats n with dots as thousands separators (pt-BR style).
func human(n int) string {
	digits := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
