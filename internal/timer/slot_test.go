package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSlotFiresWithCurrentToken(t *testing.T) {
	s := NewSlot("validate")
	cmd := s.Start(time.Millisecond)
	require.True(t, s.Pending())

	msg := cmd()
	fired, ok := msg.(FiredMsg)
	require.True(t, ok, "expected FiredMsg, got %T", msg)
	assert.Equal(t, s.ID(), fired.Slot)
	assert.Equal(t, "validate", fired.Purpose)
	assert.False(t, fired.At.IsZero())

	assert.True(t, s.Accept(msg))
	assert.False(t, s.Pending())
	assert.False(t, s.Accept(msg), "a message is accepted at most once")
}

func TestSlotRestartCancelsPrevious(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSlot("validate")
	first := s.Start(time.Hour)
	second := s.Start(time.Millisecond)

	done := make(chan any, 1)
	go func() { done <- first() }()
	select {
	case msg := <-done:
		assert.Nil(t, msg, "cancelled timer must not deliver a message")
	case <-time.After(time.Second):
		t.Fatal("cancelled timer goroutine did not exit")
	}

	msg := second()
	require.NotNil(t, msg)
	assert.True(t, s.Accept(msg))
}

func TestSlotRejectsStaleAndForeignMessages(t *testing.T) {
	s := NewSlot("trim")
	other := NewSlot("trim")

	stale := FiredMsg{Slot: s.ID(), Token: s.Token() + 1}
	s.Start(time.Hour)
	current := FiredMsg{Slot: s.ID(), Token: s.Token()}
	s.Start(time.Hour)

	assert.False(t, s.Accept(current), "superseded token must be rejected")
	assert.False(t, s.Accept(FiredMsg{Slot: other.ID(), Token: s.Token()}))
	assert.True(t, s.Owns(stale))
	assert.False(t, other.Owns(stale))
	assert.False(t, s.Accept("not a timer message"))

	s.Stop()
	assert.False(t, s.Pending())
	assert.False(t, s.Accept(FiredMsg{Slot: s.ID(), Token: s.Token()}))
}

func TestSlotStopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSlot("sampler")
	cmd := s.Start(time.Hour)
	done := make(chan struct{})
	go func() {
		_ = cmd()
		close(done)
	}()
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stopped timer goroutine did not exit")
	}
}
