package chromaview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromaview/chromaview/internal/order"
)

// Pipeline coordinates the generation-to-ordered-display flow: it fans jobs
// out across render workers, collects completions through a bounded channel,
// and delivers results to the consumer in strictly ascending index order.
//
// A Pipeline is single-use: create with New, start once with Run, stop with
// Cancel, and reap with Wait.
//
// Thread safety: all methods are safe for concurrent use after New.
type Pipeline struct {
	cfg config

	// done broadcasts cancellation. Closed exactly once by Cancel; every
	// blocking point in the pipeline selects on it.
	done      chan struct{}
	cancelled atomic.Bool

	started atomic.Bool

	// wg tracks render workers; workersDone closes once they have all
	// acknowledged termination.
	wg          sync.WaitGroup
	workersDone chan struct{}

	total       int
	delivered   atomic.Int64
	peakPending atomic.Int64

	mu  sync.Mutex
	err error // first terminal error (fatal worker, protocol violation)
}

// Stats reports pipeline progress counters.
type Stats struct {
	// Total is the number of jobs the run was started with.
	Total int
	// Delivered is the number of results handed to the consumer so far.
	Delivered int
	// PeakPending is the high-water mark of the reorder buffer.
	PeakPending int
	// Cancelled reports whether the cancellation signal has been raised.
	Cancelled bool
}

// New creates a pipeline. Options configure worker count, queue capacity,
// render function, and the shutdown grace period.
func New(opts ...Option) *Pipeline {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.queueCap <= 0 {
		// Buffer size: 2x workers helps hide latency, minimum 8.
		cfg.queueCap = cfg.workers * 2
		if cfg.queueCap < 8 {
			cfg.queueCap = 8
		}
	}

	return &Pipeline{
		cfg:         cfg,
		done:        make(chan struct{}),
		workersDone: make(chan struct{}),
	}
}

// Run starts the pipeline for count images of the given dimensions and
// returns the ordered result stream. Results arrive strictly ascending by
// index with no gaps and no repeats; a failed render occupies its index with
// Result.Err set. The channel closes when all results have been delivered,
// on cancellation, or on a terminal error (check Wait or Err afterwards).
//
// The context is an additional cancellation source: when it ends, the
// pipeline cancels exactly as if Cancel had been called.
//
// Run may be called at most once; further calls return ErrAlreadyRunning.
func (p *Pipeline) Run(ctx context.Context, count, width, height int) (<-chan Result, error) {
	if count < 1 {
		return nil, fmt.Errorf("chromaview: count must be >= 1, got %d", count)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("chromaview: dimensions must be >= 1, got %dx%d", width, height)
	}
	if !p.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}

	p.total = count

	jobs := make(chan Job)
	completions := make(chan Result, p.cfg.queueCap)
	ordered := make(chan Result)

	// Job-issue window: at most queueCap+workers jobs may be outstanding
	// (issued but not yet delivered). This is what makes the reorder
	// buffer's memory independent of count: without it, fast workers stuck
	// behind one slow low index could complete arbitrarily far ahead.
	window := p.cfg.queueCap + p.cfg.workers
	credits := make(chan struct{}, window)
	for i := 0; i < window; i++ {
		credits <- struct{}{}
	}

	Logger().Info("pipeline started",
		"count", count, "width", width, "height", height,
		"workers", p.cfg.workers, "queue", p.cfg.queueCap)

	// Propagate context cancellation onto the pipeline's own signal.
	go func() {
		select {
		case <-ctx.Done():
			p.Cancel()
		case <-p.done:
		}
	}()

	// Feeder: job distribution is the startup synchronization point. No job
	// is created ahead of a worker asking for it, and cancellation stops
	// distribution immediately.
	go func() {
		defer close(jobs)
		for i := 0; i < count; i++ {
			select {
			case <-credits:
			case <-p.done:
				return
			}
			select {
			case jobs <- Job{Index: i, Width: width, Height: height}:
			case <-p.done:
				return
			}
		}
	}()

	p.wg.Add(p.cfg.workers)
	for i := 0; i < p.cfg.workers; i++ {
		go p.worker(i, jobs, completions)
	}

	// Supervisor: close the completion stream once every worker has exited,
	// so the ordering stage can distinguish "drained" from "waiting".
	go func() {
		p.wg.Wait()
		close(completions)
		close(p.workersDone)
		Logger().Debug("all workers stopped")
	}()

	go p.deliver(completions, ordered, credits)

	return ordered, nil
}

// worker pulls jobs, renders them, and emits tagged results. Both blocking
// points (job pull, result emit) select on the cancellation signal so a
// worker can never be left parked after a quit request.
func (p *Pipeline) worker(id int, jobs <-chan Job, completions chan<- Result) {
	defer p.wg.Done()
	Logger().Debug("worker started", "worker", id)

	for {
		select {
		case <-p.done:
			Logger().Debug("worker cancelled", "worker", id)
			return
		case job, ok := <-jobs:
			if !ok {
				Logger().Debug("worker finished", "worker", id)
				return
			}

			res, fatal := p.renderJob(job)
			if fatal != nil {
				Logger().Warn("worker failed fatally", "worker", id, "error", fatal)
				p.fail(fatal)
				return
			}
			if res.Err != nil {
				Logger().Warn("render failed", "index", job.Index, "error", res.Err)
			}

			select {
			case completions <- res:
			case <-p.done:
				return
			}
		}
	}
}

// renderJob invokes the render function for one job. A returned error becomes
// a failed Result at that index (the pipeline continues); a panic becomes a
// fatal error (the pipeline cancels).
func (p *Pipeline) renderJob(job Job) (res Result, fatal error) {
	defer func() {
		if r := recover(); r != nil {
			fatal = fmt.Errorf("%w: render panic on image %d: %v", ErrWorkerFatal, job.Index, r)
		}
	}()

	pm, err := p.cfg.render(job)
	if err != nil {
		return Result{Index: job.Index, Err: &RenderError{Index: job.Index, Err: err}}, nil
	}
	return Result{Index: job.Index, Pixmap: pm}, nil
}

// deliver is the single ordering goroutine: it owns the reorder buffer and is
// the only writer to the ordered channel.
func (p *Pipeline) deliver(completions <-chan Result, ordered chan<- Result, credits chan<- struct{}) {
	buf := order.New[Result]()
	defer func() {
		p.peakPending.Store(int64(buf.Peak()))
		close(ordered)
	}()

	for {
		select {
		case <-p.done:
			return
		case res, ok := <-completions:
			if !ok {
				// Workers are gone; anything still pending is a gap that
				// can never fill (only possible after cancellation).
				return
			}

			run, err := buf.Put(res.Index, res)
			if err != nil {
				p.fail(fmt.Errorf("%w: %v", ErrProtocolViolation, err))
				return
			}
			if len(run) > 1 {
				Logger().Debug("reorder flush", "released", len(run), "cursor", buf.Next())
			}

			for _, r := range run {
				// Re-check cancellation before offering the result, so a
				// consumer racing with Cancel cannot pull extra items out
				// of an already-cancelled pipeline.
				select {
				case <-p.done:
					return
				default:
				}
				select {
				case ordered <- r:
					p.delivered.Add(1)
					// Delivery frees one slot in the job-issue window.
					select {
					case credits <- struct{}{}:
					default:
					}
				case <-p.done:
					return
				}
			}

			if int(p.delivered.Load()) == p.total {
				Logger().Info("all results delivered", "count", p.total)
				return
			}
		}
	}
}

// Cancel raises the pipeline's cancellation signal: no new renders start, all
// blocked workers unpark, and the ordered stream closes. Renders already in
// progress are not interrupted, only their emission is skipped.
//
// Cancel is idempotent and safe to call from any goroutine, including before
// Run.
func (p *Pipeline) Cancel() {
	if !p.cancelled.CompareAndSwap(false, true) {
		return
	}
	close(p.done)
	Logger().Info("pipeline cancelled", "delivered", p.delivered.Load())
}

// Wait blocks until all workers have acknowledged termination and returns the
// pipeline's terminal error, if any. After cancellation the wait is bounded
// by the configured grace period; exceeding it returns ErrShutdownTimeout
// (joined with any terminal error) instead of hanging.
func (p *Pipeline) Wait() error {
	if !p.started.Load() {
		return p.Err()
	}

	select {
	case <-p.workersDone:
	case <-p.done:
		// Cancelled: workers should unpark within the grace period.
		select {
		case <-p.workersDone:
		case <-time.After(p.cfg.gracePeriod):
			Logger().Warn("shutdown grace period exceeded, possible leaked worker",
				"grace", p.cfg.gracePeriod)
			if err := p.Err(); err != nil {
				return fmt.Errorf("%w (after: %v)", ErrShutdownTimeout, err)
			}
			return ErrShutdownTimeout
		}
	}
	return p.Err()
}

// Err returns the pipeline's terminal error: ErrWorkerFatal or
// ErrProtocolViolation (wrapped with detail), or nil. Per-job render failures
// are not terminal and are reported on the individual Result instead.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Stats returns current progress counters. Safe to call at any time.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Total:       p.total,
		Delivered:   int(p.delivered.Load()),
		PeakPending: int(p.peakPending.Load()),
		Cancelled:   p.cancelled.Load(),
	}
}

// fail records the first terminal error and cancels the pipeline. Later
// errors are dropped: the first failure is the one that explains the rest.
func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.Cancel()
}
