package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maxvaer/weakscan/internal/fetch"
	"github.com/maxvaer/weakscan/internal/heuristic"
	"go.uber.org/zap"
)

// Fetcher retrieves a single target.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Evaluator turns a fetch outcome into flags.
type Evaluator interface {
	Evaluate(rawURL string, resp *fetch.Response, fetchErr error) []heuristic.Flag
}

// Config holds options for the worker pool.
type Config struct {
	Threads int
	// OnProcessed is called from the worker goroutine after each target
	// reaches a terminal state. It must be safe for concurrent use.
	OnProcessed func(Outcome)
}

// Coordinator drives a static pool of workers over a pre-populated queue.
type Coordinator struct {
	fetcher   Fetcher
	evaluator Evaluator
	cfg       Config
	logger    *zap.Logger
}

// New creates a Coordinator. A nil logger disables logging.
func New(fetcher Fetcher, evaluator Evaluator, cfg Config, logger *zap.Logger) *Coordinator {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		fetcher:   fetcher,
		evaluator: evaluator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Scan processes every target exactly once and returns when all workers
// have exited. There is no cancellation: ctx only bounds individual fetches,
// and a cancelled fetch is recorded as a failure like any other.
func (c *Coordinator) Scan(ctx context.Context, targets []string) *Result {
	start := time.Now()

	// The queue is filled and closed before any worker starts, so a worker
	// stops as soon as it finds it empty.
	queue := make(chan string, len(targets))
	for _, t := range targets {
		queue <- t
	}
	close(queue)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		findings  []Finding
		processed atomic.Int64
		failed    atomic.Int64
	)

	c.logger.Debug("starting workers",
		zap.Int("threads", c.cfg.Threads),
		zap.Int("targets", len(targets)),
	)

	for i := 0; i < c.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range queue {
				out := c.process(ctx, target)
				processed.Add(1)
				if out.FetchErr != nil {
					failed.Add(1)
				}
				if out.Finding != nil {
					mu.Lock()
					findings = append(findings, *out.Finding)
					mu.Unlock()
				}
				if c.cfg.OnProcessed != nil {
					c.cfg.OnProcessed(out)
				}
			}
		}()
	}

	wg.Wait()

	return &Result{
		Findings: findings,
		Total:    int(processed.Load()),
		Failed:   int(failed.Load()),
		Duration: time.Since(start),
	}
}

func (c *Coordinator) process(ctx context.Context, target string) Outcome {
	out := Outcome{Target: target, State: StateFetching}

	resp, err := c.fetcher.Fetch(ctx, target)
	if err != nil {
		out.FetchErr = err
		c.logger.Debug("fetch failed", zap.String("url", target), zap.Error(err))
	}

	flags := c.evaluator.Evaluate(target, resp, err)
	out.State = StateEvaluated

	if len(flags) == 0 {
		out.State = StateDiscarded
		return out
	}
	out.State = StateRecorded
	out.Finding = &Finding{URL: target, Flags: flags}
	return out
}
