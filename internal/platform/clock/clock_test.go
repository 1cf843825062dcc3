package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSystemCountdownExpires(t *testing.T) {
	t.Parallel()
	c := New()

	var ticks atomic.Int32
	expired := make(chan struct{})

	cd := c.NewCountdown(50*time.Millisecond, 10*time.Millisecond,
		func(remaining time.Duration) {
			ticks.Add(1)
		},
		func() {
			close(expired)
		})
	defer cd.Stop()

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}

	if ticks.Load() == 0 {
		t.Error("expected at least one tick before expiry")
	}
}

func TestSystemCountdownStopPreventsExpiry(t *testing.T) {
	t.Parallel()
	c := New()

	expired := make(chan struct{})
	cd := c.NewCountdown(30*time.Millisecond, 10*time.Millisecond, nil, func() {
		close(expired)
	})

	cd.Stop()
	cd.Stop() // Idempotent

	select {
	case <-expired:
		t.Fatal("stopped countdown must not expire")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFakeCountdown(t *testing.T) {
	t.Parallel()

	fake := NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	var remaining time.Duration
	var expired bool
	fake.NewCountdown(3*time.Second, time.Second,
		func(r time.Duration) { remaining = r },
		func() { expired = true })

	cd := fake.LastCountdown()
	if cd == nil {
		t.Fatal("expected a recorded countdown")
	}

	cd.Tick()
	if remaining != 2*time.Second {
		t.Errorf("expected 2s remaining after first tick, got %v", remaining)
	}

	cd.Tick()
	cd.Tick()
	if !expired {
		t.Error("expected countdown to expire after three ticks")
	}

	// Further ticks after expiry are no-ops.
	cd.Tick()
}

func TestFakeClockAdvance(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	fake.Advance(90 * time.Second)
	if got := fake.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("expected %v, got %v", start.Add(90*time.Second), got)
	}
}
