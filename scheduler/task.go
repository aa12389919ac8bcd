package scheduler

import (
	"sync/atomic"
	"time"
)

// taskState is the lifecycle of a scheduled task.
type taskState int32

const (
	// taskPending means the first (or only) timer is armed
	taskPending taskState = iota

	// taskActive means a repeating task has fired once and its
	// repeating timer is armed
	taskActive

	// taskDone means a one-shot task has run
	taskDone

	// taskCancelled means Cancel succeeded; nothing runs any more
	taskCancelled
)

// String returns the string representation of taskState.
func (s taskState) String() string {
	switch s {
	case taskPending:
		return "pending"
	case taskActive:
		return "active"
	case taskDone:
		return "done"
	case taskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// onceTask runs its body at most once.
type onceTask struct {
	s     *LoopScheduler
	id    uint64
	task  func()
	state int32 // taskState
	timer atomic.Pointer[Timer]
}

func (t *onceTask) load() taskState {
	return taskState(atomic.LoadInt32(&t.state))
}

// run executes on the loop. The state check keeps a callback queued
// before Cancel from running the body.
func (t *onceTask) run() {
	if !atomic.CompareAndSwapInt32(&t.state, int32(taskPending), int32(taskDone)) {
		return
	}
	t.s.untrack(t.id)
	t.s.runTask(t.id, t.task)
}

func (t *onceTask) Cancel() bool {
	if !atomic.CompareAndSwapInt32(&t.state, int32(taskPending), int32(taskCancelled)) {
		return false
	}
	if timer := t.timer.Load(); timer != nil {
		timer.Stop()
	}
	t.s.untrack(t.id)
	return true
}

func (t *onceTask) IsCancelled() bool {
	return t.load() == taskCancelled
}

// repeatingTask moves Pending -> Active -> Cancelled. While pending,
// handle holds the one-shot timer for the initial delay; the first run
// swaps in the repeating timer before the body executes, so a Cancel
// issued from the body (or from any goroutine afterwards) stops the
// timer that is actually armed.
type repeatingTask struct {
	s        *LoopScheduler
	id       uint64
	task     func()
	interval time.Duration
	state    int32 // taskState
	handle   atomic.Pointer[Timer]
}

func (t *repeatingTask) load() taskState {
	return taskState(atomic.LoadInt32(&t.state))
}

// fireFirst executes on the loop when the initial delay expires.
func (t *repeatingTask) fireFirst() {
	if t.load() != taskPending {
		return
	}

	ticker := t.s.clock.TickFunc(t.interval, func() { t.s.post(t.fireRepeat) })
	t.handle.Store(ticker)

	if !atomic.CompareAndSwapInt32(&t.state, int32(taskPending), int32(taskActive)) {
		// Cancelled between the check and the swap; the canceller may
		// have stopped the old handle only.
		ticker.Stop()
		return
	}
	t.s.runTask(t.id, t.task)
}

// fireRepeat executes on the loop on every tick.
func (t *repeatingTask) fireRepeat() {
	if t.load() != taskActive {
		return
	}
	t.s.runTask(t.id, t.task)
}

func (t *repeatingTask) Cancel() bool {
	for {
		state := t.load()
		if state == taskCancelled {
			return false
		}
		if atomic.CompareAndSwapInt32(&t.state, int32(state), int32(taskCancelled)) {
			break
		}
	}
	t.handle.Load().Stop()
	t.s.untrack(t.id)
	return true
}

func (t *repeatingTask) IsCancelled() bool {
	return t.load() == taskCancelled
}
