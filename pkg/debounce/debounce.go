// Package debounce coalesces bursts of events into a single firing after a
// quiet period. It is built for the Bubble Tea update loop: timers are tea.Tick
// commands and every firing carries a token that the owner checks against the
// debouncer before acting on it. Superseded or cancelled tokens are inert.
package debounce

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
)

// FiredMsg is delivered when a quiet period elapses.
type FiredMsg struct {
	Token Token
	At    time.Time
}

// Token identifies one scheduled firing of one debouncer.
type Token struct {
	ID  string
	Gen uint64
}

// Debouncer restarts its quiet period on every Trigger and accepts only the
// token of the latest Trigger. It is not safe for concurrent use; it belongs to
// a single update loop.
type Debouncer struct {
	id       string
	delay    time.Duration
	gen      uint64
	pending  bool
	disposed bool
}

// New creates a debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		id:    uuid.NewString(),
		delay: delay,
	}
}

// ID returns the debouncer identifier carried by its tokens.
func (d *Debouncer) ID() string {
	return d.id
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger records a new event and returns the token for the restarted quiet
// period. Any previously issued token becomes stale.
func (d *Debouncer) Trigger() Token {
	d.gen++
	d.pending = !d.disposed
	return Token{ID: d.id, Gen: d.gen}
}

// Cmd triggers the debouncer and returns a command that delivers a FiredMsg
// once the quiet period elapses. It returns nil after Dispose.
func (d *Debouncer) Cmd() tea.Cmd {
	if d.disposed {
		return nil
	}
	tok := d.Trigger()
	return tea.Tick(d.delay, func(t time.Time) tea.Msg {
		return FiredMsg{Token: tok, At: t}
	})
}

// Owns reports whether the token was issued by this debouncer, regardless of
// whether it is still current.
func (d *Debouncer) Owns(tok Token) bool {
	return tok.ID == d.id
}

// Fire consumes a token. It returns true only for the latest token of a
// pending, non-disposed debouncer, and clears the pending state.
func (d *Debouncer) Fire(tok Token) bool {
	if d.disposed || !d.pending || tok.ID != d.id || tok.Gen != d.gen {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether a quiet period is running.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Cancel drops the pending firing, if any. The debouncer stays usable.
func (d *Debouncer) Cancel() {
	d.gen++
	d.pending = false
}

// Flush cancels a pending firing and reports whether one was pending, so the
// caller can run the coalesced action immediately.
func (d *Debouncer) Flush() bool {
	was := d.pending
	d.Cancel()
	return was
}

// Dispose cancels the debouncer permanently. Tokens issued before or after
// are never accepted again.
func (d *Debouncer) Dispose() {
	d.Cancel()
	d.disposed = true
}

// Disposed reports whether Dispose has been called.
func (d *Debouncer) Disposed() bool {
	return d.disposed
}
