package viewer

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/chromaview/chromaview"
)

// ErrScreenClosed is returned when the terminal screen goes away while the
// viewer is waiting for a keypress.
var ErrScreenClosed = errors.New("viewer: screen closed")

// TermScreen renders pixmaps into a terminal using tcell. Two image rows are
// packed into each terminal cell with the upper-half-block rune (foreground =
// top pixel, background = bottom pixel), which is as close to square pixels
// as a character grid gets. Images larger than the terminal are downsampled
// by nearest-neighbor.
//
// Key bindings: Enter/space = next image, q/Esc/Ctrl-C = quit.
type TermScreen struct {
	screen tcell.Screen
	shown  int
}

// NewTermScreen allocates and initializes the terminal screen. The caller
// owns the screen and must Close it to restore the terminal.
func NewTermScreen() (*TermScreen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	s.SetStyle(tcell.StyleDefault)
	s.HideCursor()
	return &TermScreen{screen: s}, nil
}

// NewTermScreenFrom wraps an existing tcell.Screen (typically a
// SimulationScreen in tests). The screen must already be initialized.
func NewTermScreenFrom(s tcell.Screen) *TermScreen {
	return &TermScreen{screen: s}
}

// Show implements Screen.
func (t *TermScreen) Show(pm *chromaview.Pixmap) (Action, error) {
	t.shown++
	t.draw(pm)

	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
			t.draw(pm)
		case *tcell.EventKey:
			if a, ok := keyAction(ev); ok {
				return a, nil
			}
		case nil:
			return ActionQuit, ErrScreenClosed
		}
	}
}

// WaitQuit implements Screen. It keeps the last image on screen with an
// end-of-stream notice and blocks until the user quits.
func (t *TermScreen) WaitQuit() error {
	t.statusLine("No more images — press q to quit")
	t.screen.Show()

	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if a, ok := keyAction(ev); ok && a == ActionQuit {
				return nil
			}
		case nil:
			return ErrScreenClosed
		}
	}
}

// Close restores the terminal.
func (t *TermScreen) Close() {
	t.screen.Fini()
}

// keyAction maps a key event to a viewer action.
func keyAction(ev *tcell.EventKey) (Action, bool) {
	switch {
	case ev.Key() == tcell.KeyEnter || ev.Rune() == ' ':
		return ActionNext, true
	case ev.Rune() == 'q' || ev.Rune() == 'Q',
		ev.Key() == tcell.KeyEscape,
		ev.Key() == tcell.KeyCtrlC:
		return ActionQuit, true
	}
	return 0, false
}

// draw paints the pixmap centered on the terminal with a status line at the
// bottom.
func (t *TermScreen) draw(pm *chromaview.Pixmap) {
	t.screen.Clear()

	termW, termH := t.screen.Size()
	imgH := termH - 1 // bottom row is the status line
	if termW < 1 || imgH < 1 {
		t.screen.Show()
		return
	}

	// Cell grid the image maps onto: every cell covers 1 pixel across and
	// 2 pixels down. Downscale (never upscale) to fit.
	cols := pm.Width()
	rows := (pm.Height() + 1) / 2
	scale := 1
	for cols/scale > termW || rows/scale > imgH {
		scale++
	}
	cols /= scale
	rows /= scale
	if cols < 1 || rows < 1 {
		cols, rows = 1, 1
	}

	offX := (termW - cols) / 2
	offY := (imgH - rows) / 2

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := pm.GetPixel(col*scale, row*2*scale)
			bottom := pm.GetPixel(col*scale, row*2*scale+scale)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(offX+col, offY+row, '▀', nil, style)
		}
	}

	name := chromaview.PaletteName(pm.GetPixel(0, 0))
	if name == "" {
		name = "image"
	}
	t.statusLine(fmt.Sprintf("#%d %s — <Enter> next · q quit", t.shown, name))
	t.screen.Show()
}

// statusLine writes text on the bottom terminal row.
func (t *TermScreen) statusLine(text string) {
	termW, termH := t.screen.Size()
	y := termH - 1
	style := tcell.StyleDefault
	col := 0
	for _, r := range text {
		if col >= termW {
			break
		}
		t.screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < termW; col++ {
		t.screen.SetContent(col, y, ' ', nil, style)
	}
}
