// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is executed and fed back
// until the chain settles. Cmds that do not return within a short timeout
// (cursor blinks, tickers) are dropped.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may execute.
const MaxDrainDepth = 100

// cmdTimeout separates quick Cmds (store calls, message factories) from
// timer-driven ones.
const cmdTimeout = 50 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when a tea.QuitMsg is produced.
	Quitting bool
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends an initial WindowSizeMsg.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.Send(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// ── Keys ─────────────────────────────────────────────────────────────────────

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) PressEnter() { d.T.Helper(); d.Press(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.Press(tea.KeyEsc) }
func (d *Driver) PressTab()   { d.T.Helper(); d.Press(tea.KeyTab) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.Press(tea.KeyCtrlC) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// ClearInput sends n backspaces.
func (d *Driver) ClearInput(n int) {
	d.T.Helper()
	for i := 0; i < n; i++ {
		d.Press(tea.KeyBackspace)
	}
}

// ── Mouse ────────────────────────────────────────────────────────────────────

func (d *Driver) mouse(x, y int, action tea.MouseAction) {
	d.T.Helper()
	d.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

// MouseDown presses the left button at cell (x, y).
func (d *Driver) MouseDown(x, y int) { d.T.Helper(); d.mouse(x, y, tea.MouseActionPress) }

// MouseMove reports motion with the left button held.
func (d *Driver) MouseMove(x, y int) { d.T.Helper(); d.mouse(x, y, tea.MouseActionMotion) }

// MouseUp releases the left button at cell (x, y).
func (d *Driver) MouseUp(x, y int) { d.T.Helper(); d.mouse(x, y, tea.MouseActionRelease) }

// Click presses and releases at the same cell.
func (d *Driver) Click(x, y int) {
	d.T.Helper()
	d.MouseDown(x, y)
	d.MouseUp(x, y)
}

// Drag presses at (x0, y), moves one cell at a time to x1 and releases.
func (d *Driver) Drag(x0, x1, y int) {
	d.T.Helper()
	d.MouseDown(x0, y)
	step := 1
	if x1 < x0 {
		step = -1
	}
	for x := x0; x != x1; x += step {
		d.MouseMove(x+step, y)
	}
	d.MouseUp(x1, y)
}

// Wheel scrolls once at (x, y).
func (d *Driver) Wheel(x, y int, up bool) {
	d.T.Helper()
	btn := tea.MouseButtonWheelDown
	if up {
		btn = tea.MouseButtonWheelUp
	}
	d.Send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: btn})
}

// View returns the model's rendered output.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── Draining ─────────────────────────────────────────────────────────────────

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isTimerMsg(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isTimerMsg detects blink messages from bubbles/cursor, which are
// unexported and re-arm themselves on every Update.
func isTimerMsg(msg tea.Msg) bool {
	t := strings.ToLower(fmt.Sprintf("%T", msg))
	return strings.Contains(t, "blink")
}
