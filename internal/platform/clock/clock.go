// Package clock abstracts wall-clock time and per-question countdowns so the
// session engines can be driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time and cancellable countdowns.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time

	// NewCountdown starts a countdown of duration d that calls onTick with
	// the remaining time after every interval, and onExpire exactly once
	// when the countdown reaches zero. Callbacks run on a separate
	// goroutine; owners that mutate state from them must synchronize.
	NewCountdown(d, interval time.Duration, onTick func(remaining time.Duration), onExpire func()) Countdown
}

// Countdown is a running countdown. Stop cancels it; stopping an expired or
// already-stopped countdown is a no-op. After Stop returns no further
// callbacks are started.
type Countdown interface {
	Stop()
}

// systemClock implements Clock using the real time package.
type systemClock struct{}

// New returns a Clock backed by the system time.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) NewCountdown(
	d, interval time.Duration,
	onTick func(remaining time.Duration),
	onExpire func(),
) Countdown {
	c := &systemCountdown{
		stop: make(chan struct{}),
	}

	go c.run(d, interval, onTick, onExpire)
	return c
}

// systemCountdown drives callbacks from a time.Ticker goroutine.
type systemCountdown struct {
	stop     chan struct{}
	stopOnce sync.Once
}

func (c *systemCountdown) run(
	d, interval time.Duration,
	onTick func(remaining time.Duration),
	onExpire func(),
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	remaining := d
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining -= interval
			if remaining <= 0 {
				// Expiry wins only if Stop has not raced ahead.
				select {
				case <-c.stop:
				default:
					if onExpire != nil {
						onExpire()
					}
				}
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
}

func (c *systemCountdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
