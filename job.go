package chromaview

// Job is the unit of requested work: one image to render. Jobs are created by
// the pipeline with strictly ascending indices starting at 0 and are immutable
// once created. Each job is consumed by exactly one worker.
type Job struct {
	Index  int
	Width  int
	Height int
}

// Result is the unit of output: one rendered image tagged with its job index.
// Exactly one of Pixmap and Err is set. Ownership of the pixmap transfers to
// the receiver; the pipeline never touches it after delivery.
type Result struct {
	Index  int
	Pixmap *Pixmap
	Err    error
}

// RenderFunc produces the pixels for a single job. It must be safe for
// concurrent use: the pipeline calls it from every worker. Implementations
// report per-job failures through the returned error and must not panic;
// a panic is escalated to a pipeline-level fatal error.
type RenderFunc func(job Job) (*Pixmap, error)
