package importer

import (
	"context"
	"slices"
	"sync"
	"time"
)

// maxRuns is how many runs any RunLog keeps.
const maxRuns = 100

// Run is the outcome of one import attempt.
type Run struct {
	ID         string    `json:"id"`
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	Skipped    int       `json:"skipped"`
	Affected   int64     `json:"affected"`
	Error      string    `json:"error,omitempty"`
}

// Succeeded reports whether the run completed without error.
func (r Run) Succeeded() bool {
	return r.Error == ""
}

// RunLog stores import runs. Recent returns newest first.
type RunLog interface {
	Append(ctx context.Context, run Run) error
	Recent(ctx context.Context, n int) ([]Run, error)
}

type InMemoryRunLog struct {
	mu   sync.Mutex
	runs []Run
}

func NewInMemoryRunLog() *InMemoryRunLog {
	return &InMemoryRunLog{}
}

func (l *InMemoryRunLog) Append(_ context.Context, run Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runs = append(l.runs, run)
	if len(l.runs) > maxRuns {
		l.runs = slices.Clone(l.runs[len(l.runs)-maxRuns:])
	}
	return nil
}

func (l *InMemoryRunLog) Recent(_ context.Context, n int) ([]Run, error) {
	if n <= 0 {
		return []Run{}, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	start := max(len(l.runs)-n, 0)
	out := slices.Clone(l.runs[start:])
	slices.Reverse(out)
	return out, nil
}
