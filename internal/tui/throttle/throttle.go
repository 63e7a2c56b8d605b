// Package throttle coalesces bursts of UI events into at most one action per interval.
//
// The list itself never batches scroll handling; throttling is a host-side
// choice for expensive follow-up work such as re-filtering on every keystroke.
// A Throttle is not safe for concurrent use; it is driven from a Bubble Tea
// Update loop.
package throttle

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FlushMsg is delivered when a deferred (trailing-edge) action is due.
type FlushMsg struct {
	// ID identifies the throttle that scheduled the flush.
	ID string

	// Seq is the sequence number of the event that scheduled the flush.
	Seq uint64
}

// Throttle gates events so that at most one passes per interval.
type Throttle struct {
	id       string
	interval time.Duration
	last     time.Time
	seq      uint64
	pending  bool
}

// New creates a Throttle identified by id. A non-positive interval lets every event through.
func New(id string, interval time.Duration) *Throttle {
	return &Throttle{id: id, interval: interval}
}

// Allow reports whether an event at now may run immediately.
// When it may not, the returned duration is how long until the window reopens.
func (t *Throttle) Allow(now time.Time) (bool, time.Duration) {
	if t.interval <= 0 || t.last.IsZero() || !now.Before(t.last.Add(t.interval)) {
		t.last = now
		return true, 0
	}
	return false, t.last.Add(t.interval).Sub(now)
}

// Trigger records an event at now. When the event may run immediately it
// returns (true, nil). Otherwise it returns false and a command that delivers
// a FlushMsg once the interval has elapsed; only the latest such message is
// considered current.
func (t *Throttle) Trigger(now time.Time) (bool, tea.Cmd) {
	t.seq++
	ok, wait := t.Allow(now)
	if ok {
		t.pending = false
		return true, nil
	}

	t.pending = true
	msg := FlushMsg{ID: t.id, Seq: t.seq}
	return false, tea.Tick(wait, func(time.Time) tea.Msg {
		return msg
	})
}

// Flush reports whether msg is the current trailing flush for this throttle.
// A current flush consumes the pending state and marks now as the last run.
func (t *Throttle) Flush(msg FlushMsg, now time.Time) bool {
	if msg.ID != t.id || msg.Seq != t.seq || !t.pending {
		return false
	}
	t.pending = false
	t.last = now
	return true
}

// Pending reports whether a trailing flush is outstanding.
func (t *Throttle) Pending() bool {
	return t.pending
}
