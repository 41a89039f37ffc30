package jwtcrack

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Candidates is a lazy, ordered source of candidate secrets.
// *Enumerator implements it.
//
// A source that can fail (a file, a network stream) may also implement
// interface{ Err() error }. Err is consulted once Next returns false; a
// non-nil result aborts the search with a *SearchError for the "produce"
// stage instead of reporting the keyspace as exhausted.
type Candidates interface {
	Next() ([]byte, bool)
}

// Status is the terminal state of a search.
type Status int

const (
	// StatusExhausted means every candidate was verified without a match.
	StatusExhausted Status = iota
	// StatusFound means a candidate reproduced the signature.
	StatusFound
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of a completed search.
type Outcome struct {
	Status  Status
	Secret  string // set when Status is StatusFound
	Tested  int64  // candidates verified, including discarded in-flight ones
	Elapsed time.Duration
}

// SearchConfig configures a Coordinator.
type SearchConfig struct {
	// Workers is the number of concurrent verifiers (0 = runtime.NumCPU()).
	Workers int

	// QueueCapacity bounds the queue between the producer and the workers
	// (0 = 4 per worker).
	QueueCapacity int

	// ProgressInterval enables periodic progress logs when positive.
	ProgressInterval time.Duration
}

// DefaultSearchConfig returns a configuration sized for the current machine.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Workers:          runtime.NumCPU(),
		QueueCapacity:    0,
		ProgressInterval: 5 * time.Second,
	}
}

func (c SearchConfig) normalized() SearchConfig {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 4 * c.Workers
	}
	return c
}

// Coordinator runs one producer and a pool of verifiers connected by a bounded
// queue, and stops all of them as soon as the outcome is known.
type Coordinator struct {
	config SearchConfig
	logger *zap.Logger
}

// NewCoordinator creates a Coordinator. A nil logger disables logging.
func NewCoordinator(config SearchConfig, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{config: config.normalized(), logger: logger}
}

// Config returns the effective configuration after defaults were applied.
func (c *Coordinator) Config() SearchConfig {
	return c.config
}

// Search verifies candidates until one matches or the source is exhausted.
//
// The producer blocks when the queue is full, so it never runs more than
// QueueCapacity candidates ahead of verification. The first worker to find a
// match wins; results verified after that are discarded. Exhaustion is
// reported only after the producer has closed the queue and every worker has
// drained it; a cancellation arriving after that point does not turn the
// result into an interruption.
//
// Returns:
//   - an Outcome with StatusFound or StatusExhausted, or
//   - a *SearchError wrapping ErrInternal if the source or verifier failed, or
//   - the context error if ctx was cancelled first.
//
// No goroutine started by Search outlives the call.
func (c *Coordinator) Search(ctx context.Context, candidates Candidates, verifier Verifier) (*Outcome, error) {
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	queue := make(chan []byte, c.config.QueueCapacity)
	found := make(chan []byte, 1)
	var tested, length, drained atomic.Int64
	var sourceDone atomic.Bool

	lengther, _ := candidates.(interface{ Length() int })
	failer, _ := candidates.(interface{ Err() error })

	g.Go(func() error {
		defer close(queue)
		for {
			candidate, ok := candidates.Next()
			if !ok {
				if failer != nil {
					if err := failer.Err(); err != nil {
						c.logger.Error("candidate source failed", zap.Error(err))
						return &SearchError{Stage: "produce", Err: err}
					}
				}
				c.logger.Debug("candidate source exhausted")
				sourceDone.Store(true)
				return nil
			}
			if lengther != nil {
				length.Store(int64(lengther.Length()))
			}
			select {
			case queue <- candidate:
			case <-gctx.Done():
				return nil
			}
		}
	})

	for i := 0; i < c.config.Workers; i++ {
		workerID := i
		g.Go(func() error {
			return c.worker(gctx, workerID, queue, found, cancel, verifier, &tested, &drained)
		})
	}

	stopProgress := c.reportProgress(&tested, &length, start)
	err := g.Wait()
	stopProgress()

	outcome := &Outcome{Tested: tested.Load(), Elapsed: time.Since(start)}

	// A match wins over anything that surfaced while the group was shutting down.
	select {
	case secret := <-found:
		outcome.Status = StatusFound
		outcome.Secret = string(secret)
		c.logger.Info("secret found",
			zap.Int64("tested", outcome.Tested),
			zap.Duration("elapsed", outcome.Elapsed))
		return outcome, nil
	default:
	}

	if err != nil {
		return nil, err
	}
	// Every candidate was verified; a late cancellation changes nothing.
	exhausted := sourceDone.Load() && drained.Load() == int64(c.config.Workers)
	if ctxErr := ctx.Err(); ctxErr != nil && !exhausted {
		return nil, fmt.Errorf("search interrupted after %d candidates: %w", outcome.Tested, ctxErr)
	}

	outcome.Status = StatusExhausted
	c.logger.Info("keyspace exhausted",
		zap.Int64("tested", outcome.Tested),
		zap.Duration("elapsed", outcome.Elapsed))
	return outcome, nil
}

// worker drains the queue until it closes, the run is cancelled, or a match
// is found. drained is incremented when the worker saw the queue closed and
// empty.
func (c *Coordinator) worker(
	ctx context.Context,
	workerID int,
	queue <-chan []byte,
	found chan<- []byte,
	stop context.CancelFunc,
	verifier Verifier,
	tested, drained *atomic.Int64,
) error {
	for {
		select {
		case <-ctx.Done():
			select {
			case _, ok := <-queue:
				if !ok {
					drained.Add(1)
				}
			default:
			}
			return nil
		case candidate, ok := <-queue:
			if !ok {
				drained.Add(1)
				return nil
			}

			match, err := verifier.Verify(candidate)
			tested.Add(1)
			if err != nil {
				c.logger.Error("verifier failed",
					zap.Int("worker", workerID),
					zap.Error(err))
				return &SearchError{Stage: "verify", Err: err}
			}
			if !match {
				continue
			}

			select {
			case found <- candidate:
				c.logger.Debug("match published", zap.Int("worker", workerID))
			default:
				// Another worker already won.
			}
			stop()
			return nil
		}
	}
}

// reportProgress logs throughput every ProgressInterval until the returned
// function is called.
func (c *Coordinator) reportProgress(tested, length *atomic.Int64, start time.Time) func() {
	if c.config.ProgressInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(c.config.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n := tested.Load()
				rate := float64(n) / time.Since(start).Seconds()
				c.logger.Info("search progress",
					zap.String("tested", humanize.Comma(n)),
					zap.String("rate", humanize.CommafWithDigits(rate, 0)+"/s"),
					zap.Int64("length", length.Load()))
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
