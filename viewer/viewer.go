// Package viewer presents a pipeline's ordered result stream to the user one
// image at a time, driving pipeline cancellation from the user's quit request.
package viewer

import (
	"sync"

	"github.com/chromaview/chromaview"
)

// Action is the user's response to a displayed image.
type Action int

const (
	// ActionNext advances to the next image.
	ActionNext Action = iota
	// ActionQuit stops the viewer and cancels the pipeline.
	ActionQuit
)

// Screen displays a single image and blocks for the user's response.
// The Loop never calls Show concurrently with itself.
type Screen interface {
	// Show displays one image and blocks until the user chooses an action.
	Show(pm *chromaview.Pixmap) (Action, error)

	// WaitQuit blocks until the user explicitly quits. The Loop calls it
	// after the last image when auto-quit is disabled.
	WaitQuit() error
}

// Loop is the display loop: it pulls ordered results, shows each image, and
// guarantees the pipeline's cancel function runs exactly once on the way out,
// whichever way the loop ends (quit, exhaustion, or screen failure).
type Loop struct {
	screen         Screen
	autoQuitOnLast bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithAutoQuitOnLast controls whether exhausting the image stream terminates
// the viewer automatically (the default) or parks on WaitQuit until the user
// presses quit.
func WithAutoQuitOnLast(v bool) Option {
	return func(l *Loop) {
		l.autoQuitOnLast = v
	}
}

// New creates a display loop over the given screen.
func New(screen Screen, opts ...Option) *Loop {
	l := &Loop{
		screen:         screen,
		autoQuitOnLast: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run consumes the ordered result stream until the user quits or the stream
// ends. Failed renders are skipped with a warning; they never stall the
// viewer. cancel is invoked exactly once before Run returns, regardless of
// which path ended the loop.
func (l *Loop) Run(results <-chan chromaview.Result, cancel func()) error {
	var once sync.Once
	doCancel := func() {
		if cancel != nil {
			once.Do(cancel)
		}
	}
	defer doCancel()

	for res := range results {
		if res.Err != nil {
			chromaview.Logger().Warn("skipping failed image", "index", res.Index, "error", res.Err)
			continue
		}

		action, err := l.screen.Show(res.Pixmap)
		if err != nil {
			return err
		}
		if action == ActionQuit {
			chromaview.Logger().Info("user quit", "after", res.Index)
			// Cancel before draining so producers stop promptly; the
			// stream closes once the pipeline winds down.
			doCancel()
			return nil
		}
	}

	if !l.autoQuitOnLast {
		return l.screen.WaitQuit()
	}
	return nil
}
