package importer

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how many rules of an import have been written.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	written        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr); nil discards it
// total: total number of rules to write
// reportInterval: report progress every N rules
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.written = 0
	p.lastReported = 0
}

// Add records that n more rules were written.
func (p *ProgressTracker) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.written = min(p.written+n, p.total)
	if p.written-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.written
	}
}

// Finish marks the import as complete and prints final progress.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.written = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Written returns the number of rules recorded so far.
func (p *ProgressTracker) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.written) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rImported %d/%d rules (%.1f%%)", p.written, p.total, percentage)
}
