package chromaview

import (
	"errors"
	"fmt"
)

// Pipeline-level terminal errors. Per-job render failures are carried on the
// individual Result instead and never terminate the pipeline.
var (
	// ErrWorkerFatal indicates a worker could not continue (for example a
	// panicking render function). The whole pipeline is cancelled and the
	// error is surfaced from Wait.
	ErrWorkerFatal = errors.New("chromaview: worker failed fatally")

	// ErrProtocolViolation indicates the ordering stage received an index
	// below the delivery cursor. This can only happen if an index was
	// emitted twice and always indicates an internal bug.
	ErrProtocolViolation = errors.New("chromaview: result index below delivery cursor")

	// ErrShutdownTimeout indicates workers did not acknowledge termination
	// within the configured grace period. The pipeline still reports
	// completion; the error is a resource-leak warning, not a hang.
	ErrShutdownTimeout = errors.New("chromaview: workers did not stop within grace period")

	// ErrAlreadyRunning is returned by Run when the pipeline was already
	// started. A Pipeline is single-use.
	ErrAlreadyRunning = errors.New("chromaview: pipeline already started")
)

// RenderError reports a failed render for a single job. It is carried on the
// Result at that job's index; the pipeline continues with the remaining jobs.
type RenderError struct {
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("chromaview: render failed for image %d: %v", e.Index, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
