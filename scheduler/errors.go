package scheduler

import "errors"

// Scheduler lifecycle errors
var (
	ErrAlreadyStarted = errors.New("scheduler already started")
	ErrStopped        = errors.New("scheduler stopped")
)
