package scheduler

import "time"

// Clock is the timer source of a LoopScheduler. Production code uses
// Real(); tests use Fake() for deterministic control of time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once after d. If d <= 0, f is called as soon as
	// possible.
	AfterFunc(d time.Duration, f func()) *Timer

	// TickFunc calls f every d until the returned Timer is stopped. The
	// first call happens d after TickFunc returns. Panics if d <= 0.
	TickFunc(d time.Duration, f func()) *Timer
}

// Timer is a handle on a pending AfterFunc or TickFunc registration.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents any further calls. It returns true if the call stopped
// the timer, false if it had already fired (one-shot) or been stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }
