// Package timer provides single-owner delay timers that plug into the
// bubbletea event loop. A Slot holds at most one pending timer: starting a new
// one cancels the previous, and a fired message is only honored when it
// carries the token of the most recent start.
package timer

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastSlotID atomic.Uint64

// FiredMsg is delivered to the program's Update when a slot's timer elapses.
type FiredMsg struct {
	Slot    uint64
	Purpose string
	Token   uint64
	At      time.Time
}

type Slot struct {
	id      uint64
	purpose string
	token   uint64
	cancel  context.CancelFunc
}

func NewSlot(purpose string) *Slot {
	return &Slot{
		id:      lastSlotID.Add(1),
		purpose: purpose,
	}
}

func (s *Slot) ID() uint64      { return s.id }
func (s *Slot) Purpose() string { return s.purpose }
func (s *Slot) Token() uint64   { return s.token }
func (s *Slot) Pending() bool   { return s.cancel != nil }

// Start arms the slot for d, cancelling any timer still pending. The returned
// command blocks until the delay elapses or the timer is cancelled; a
// cancelled command yields a nil message, which bubbletea drops.
func (s *Slot) Start(d time.Duration) tea.Cmd {
	s.Stop()
	s.token++
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	msg := FiredMsg{Slot: s.id, Purpose: s.purpose, Token: s.token}
	return func() tea.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case at := <-t.C:
			msg.At = at
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop cancels the pending timer, if any. Messages already in flight from it
// are rejected by Accept.
func (s *Slot) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.token++
}

// Accept reports whether msg is the current firing of this slot and, if so,
// marks the slot idle.
func (s *Slot) Accept(msg tea.Msg) bool {
	fired, ok := msg.(FiredMsg)
	if !ok || fired.Slot != s.id {
		return false
	}
	if s.cancel == nil || fired.Token != s.token {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// Owns reports whether msg was produced by this slot, current or stale.
func (s *Slot) Owns(msg tea.Msg) bool {
	fired, ok := msg.(FiredMsg)
	return ok && fired.Slot == s.id
}
