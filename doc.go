// Package chromaview generates random watermarked images on a pool of
// parallel workers and delivers them to a viewer strictly in generation
// order.
//
// # Overview
//
// A Pipeline fans a sequence of Jobs (index + dimensions) out across N
// render workers, collects their out-of-order completions through a bounded
// channel, and reassembles them into an ascending-index stream. The consumer
// sees index 0, 1, 2, ... with no gaps and no repeats regardless of how the
// renders interleave.
//
// # Quick Start
//
//	p := chromaview.New()
//	results, err := p.Run(context.Background(), 10, 640, 480)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Cancel()
//
//	for res := range results {
//	    if res.Err != nil {
//	        continue // failed render at res.Index
//	    }
//	    display(res.Pixmap)
//	}
//	if err := p.Wait(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Shutdown
//
// Cancel may be called at any time, from any goroutine, any number of times.
// Every blocking point in the pipeline (job pull, completion emit, ordered
// delivery) also watches the cancellation signal, so a quit request never
// leaves a worker parked on a full or empty channel. Wait blocks until the
// workers acknowledge termination, bounded by the configured grace period.
//
// # Memory
//
// The pipeline never holds more than queueCapacity + workers undelivered
// results, independent of the total image count: workers block on the bounded
// completion channel (backpressure) and the reordering stage only buffers
// results that raced ahead of the delivery cursor.
package chromaview
