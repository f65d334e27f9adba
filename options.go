package chromaview

import (
	"runtime"
	"time"
)

// Option configures a Pipeline during creation.
// Use functional options to customize Pipeline behavior.
//
// Example:
//
//	// Default: GOMAXPROCS workers, watermark renderer
//	p := chromaview.New()
//
//	// Two workers, tiny completion queue, custom renderer
//	p := chromaview.New(
//	    chromaview.WithWorkers(2),
//	    chromaview.WithQueueCapacity(4),
//	    chromaview.WithRenderFunc(myRender),
//	)
type Option func(*config)

// config holds optional configuration for Pipeline creation.
type config struct {
	workers     int
	queueCap    int
	gracePeriod time.Duration
	render      RenderFunc
}

// defaultGracePeriod bounds how long Wait blocks for worker acknowledgment
// after cancellation before reporting ErrShutdownTimeout.
const defaultGracePeriod = 200 * time.Millisecond

// defaultConfig returns the default pipeline configuration.
func defaultConfig() config {
	return config{
		workers:     runtime.GOMAXPROCS(0),
		queueCap:    0, // derived from worker count in New
		gracePeriod: defaultGracePeriod,
		render:      Watermark,
	}
}

// WithWorkers sets the number of render workers.
// If n <= 0, GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		} else {
			c.workers = runtime.GOMAXPROCS(0)
		}
	}
}

// WithQueueCapacity sets the capacity of the completion channel between the
// workers and the ordering stage. Larger values let fast workers run further
// ahead at the cost of more buffered pixmaps; the reorder buffer is bounded
// by this capacity plus the worker count. If n <= 0, a default of twice the
// worker count (minimum 8) is used.
func WithQueueCapacity(n int) Option {
	return func(c *config) {
		c.queueCap = n
	}
}

// WithGracePeriod sets how long Wait blocks for workers to acknowledge
// cancellation before reporting ErrShutdownTimeout. Zero or negative values
// restore the default of 200ms.
func WithGracePeriod(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.gracePeriod = d
		} else {
			c.gracePeriod = defaultGracePeriod
		}
	}
}

// WithRenderFunc sets the render function invoked by the workers.
// The default is Watermark.
func WithRenderFunc(f RenderFunc) Option {
	return func(c *config) {
		if f != nil {
			c.render = f
		}
	}
}
