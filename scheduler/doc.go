// Package scheduler runs deferred and periodic tasks for the actor
// runtime.
//
// A LoopScheduler owns one goroutine, the timer loop. Timers fire on the
// injected Clock and hand their callbacks to the loop, so exactly one
// task body runs at a time and no task ever preempts another. Every
// scheduled task returns a Cancellable; cancellation can be requested
// from any goroutine, including from inside the task being cancelled,
// and only ever prevents future runs.
//
// Tests inject Fake() and drive time with Advance:
//
//	c := scheduler.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	s := scheduler.New(scheduler.Options{Clock: c})
//	s.Start(ctx)
//	s.ScheduleOnce(time.Second, task)
//	c.Advance(time.Second) // task is handed to the loop
package scheduler
