package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// Progress tracks and displays scan progress on stderr.
type Progress struct {
	total     int
	completed atomic.Int64
	flagged   atomic.Int64
	errors    atomic.Int64
	start     time.Time
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	enabled   bool
	w         io.Writer
	mu        sync.Mutex // serializes terminal writes
}

// NewProgress creates a progress tracker. The display only runs when quiet
// is false and stderr is a terminal; counters work either way.
func NewProgress(total int, quiet bool) *Progress {
	return &Progress{
		total:   total,
		start:   time.Now(),
		done:    make(chan struct{}),
		enabled: !quiet && term.IsTerminal(int(os.Stderr.Fd())),
		w:       os.Stderr,
	}
}

// Start begins periodically printing progress to stderr.
func (p *Progress) Start() {
	if !p.enabled {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.redraw()
			case <-p.done:
				p.redraw()
				p.mu.Lock()
				fmt.Fprint(p.w, "\n")
				p.mu.Unlock()
				return
			}
		}
	}()
}

// Increment records a processed URL.
func (p *Progress) Increment() {
	p.completed.Add(1)
}

// IncrementFlagged records a URL that produced a finding.
func (p *Progress) IncrementFlagged() {
	p.flagged.Add(1)
}

// IncrementErrors records a failed fetch.
func (p *Progress) IncrementErrors() {
	p.errors.Add(1)
}

// Stop ends the progress display and returns once the final line has been
// written. It is safe to call more than once.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

func (p *Progress) redraw() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, p.line())
}

func (p *Progress) line() string {
	completed := p.completed.Load()
	elapsed := time.Since(p.start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(completed) / elapsed
	}

	pct := float64(0)
	if p.total > 0 {
		pct = float64(completed) / float64(p.total) * 100
	}

	eta := ""
	if rate > 0 && completed < int64(p.total) {
		remaining := float64(int64(p.total)-completed) / rate
		eta = fmt.Sprintf("ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}

	return fmt.Sprintf("\r\033[K[%3.0f%%] %d/%d | %.1f URLs/s | Weak: %d | Errors: %d | %s",
		pct, completed, p.total, rate,
		p.flagged.Load(), p.errors.Load(), eta)
}
