package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress of batch operations.
type ProgressReporter interface {
	Start(total int)
	Done(ok bool)
	Finish()
}

// SimpleProgress renders a one-line progress bar with success and failure
// counts.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int
	ok      int
	failed  int
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// Start resets the counters for total items.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.ok, p.failed = 0, 0
	p.started = time.Now()
	p.render()
}

// Done records one finished item.
func (p *SimpleProgress) Done(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ok {
		p.ok++
	} else {
		p.failed++
	}
	p.render()
}

// Finish ends the progress line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.render()
	fmt.Fprintf(p.writer, "\n%d succeeded, %d failed in %s\n",
		p.ok, p.failed, time.Since(p.started).Round(time.Millisecond))
}

// Counts returns the succeeded and failed item counts.
func (p *SimpleProgress) Counts() (ok, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ok, p.failed
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	done := p.ok + p.failed
	percent := float64(done) / float64(p.total) * 100
	barWidth := 30
	filled := min(barWidth, int(float64(barWidth)*percent/100))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d, %d failed)", bar, percent, done, p.total, p.failed)
}
