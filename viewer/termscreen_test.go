package viewer

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/chromaview/chromaview"
)

func newSimScreen(t *testing.T) (*TermScreen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	sim.SetSize(80, 24)
	return NewTermScreenFrom(sim), sim
}

func showAsync(ts *TermScreen, pm *chromaview.Pixmap) <-chan Action {
	ch := make(chan Action, 1)
	go func() {
		a, _ := ts.Show(pm)
		ch <- a
	}()
	return ch
}

func TestTermScreen_EnterAdvances(t *testing.T) {
	ts, sim := newSimScreen(t)
	defer ts.Close()

	pm := chromaview.NewPixmap(10, 10)
	pm.Fill(chromaview.RGB{R: 255})

	got := showAsync(ts, pm)
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

	select {
	case a := <-got:
		if a != ActionNext {
			t.Errorf("action = %v, want ActionNext", a)
		}
	case <-time.After(time.Second):
		t.Fatal("Show did not return after Enter")
	}
}

func TestTermScreen_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		ch   rune
	}{
		{"q", tcell.KeyRune, 'q'},
		{"uppercase Q", tcell.KeyRune, 'Q'},
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, sim := newSimScreen(t)
			defer ts.Close()

			got := showAsync(ts, chromaview.NewPixmap(4, 4))
			sim.InjectKey(tt.key, tt.ch, tcell.ModNone)

			select {
			case a := <-got:
				if a != ActionQuit {
					t.Errorf("action = %v, want ActionQuit", a)
				}
			case <-time.After(time.Second):
				t.Fatal("Show did not return after quit key")
			}
		})
	}
}

func TestTermScreen_IgnoresUnboundKeys(t *testing.T) {
	ts, sim := newSimScreen(t)
	defer ts.Close()

	got := showAsync(ts, chromaview.NewPixmap(4, 4))
	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

	select {
	case a := <-got:
		if a != ActionNext {
			t.Errorf("action = %v, want ActionNext", a)
		}
	case <-time.After(time.Second):
		t.Fatal("Show did not return; unbound keys may have been consumed as actions")
	}
}

func TestTermScreen_WaitQuit(t *testing.T) {
	ts, sim := newSimScreen(t)
	defer ts.Close()

	done := make(chan error, 1)
	go func() { done <- ts.WaitQuit() }()

	// Next-keys must not end the wait; only quit does.
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitQuit: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitQuit did not return after q")
	}
}
