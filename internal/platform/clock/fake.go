package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock for tests. Countdowns never fire on their
// own; tests call Tick or Expire on the returned FakeCountdown.
type Fake struct {
	mu         sync.Mutex
	now        time.Time
	countdowns []*FakeCountdown
}

// NewFake creates a Fake clock frozen at the given time.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now.UTC()}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// NewCountdown records a countdown and returns a handle the test can drive.
func (f *Fake) NewCountdown(
	d, interval time.Duration,
	onTick func(remaining time.Duration),
	onExpire func(),
) Countdown {
	c := &FakeCountdown{
		Duration:  d,
		Interval:  interval,
		remaining: d,
		onTick:    onTick,
		onExpire:  onExpire,
	}

	f.mu.Lock()
	f.countdowns = append(f.countdowns, c)
	f.mu.Unlock()
	return c
}

// Countdowns returns every countdown started so far, in creation order.
func (f *Fake) Countdowns() []*FakeCountdown {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeCountdown, len(f.countdowns))
	copy(out, f.countdowns)
	return out
}

// LastCountdown returns the most recently started countdown, or nil.
func (f *Fake) LastCountdown() *FakeCountdown {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.countdowns) == 0 {
		return nil
	}
	return f.countdowns[len(f.countdowns)-1]
}

// FakeCountdown is a countdown under manual test control.
type FakeCountdown struct {
	Duration time.Duration
	Interval time.Duration

	mu        sync.Mutex
	remaining time.Duration
	stopped   bool
	expired   bool
	onTick    func(remaining time.Duration)
	onExpire  func()
}

// Tick simulates one tick interval elapsing, expiring the countdown if the
// remaining time reaches zero.
func (c *FakeCountdown) Tick() {
	c.mu.Lock()
	if c.stopped || c.expired {
		c.mu.Unlock()
		return
	}
	c.remaining -= c.Interval
	if c.remaining <= 0 {
		c.expired = true
		expire := c.onExpire
		c.mu.Unlock()
		if expire != nil {
			expire()
		}
		return
	}
	tick := c.onTick
	remaining := c.remaining
	c.mu.Unlock()
	if tick != nil {
		tick(remaining)
	}
}

// Expire forces immediate expiry regardless of remaining time.
func (c *FakeCountdown) Expire() {
	c.mu.Lock()
	if c.stopped || c.expired {
		c.mu.Unlock()
		return
	}
	c.expired = true
	expire := c.onExpire
	c.mu.Unlock()
	if expire != nil {
		expire()
	}
}

// Stop implements Countdown.
func (c *FakeCountdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

// Stopped reports whether Stop was called before expiry.
func (c *FakeCountdown) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped && !c.expired
}

var _ Clock = (*Fake)(nil)
var _ Countdown = (*FakeCountdown)(nil)
