package scheduler

import (
	"sync"
	"time"
)

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stopFunc: timer.Stop}
}

func (realClock) TickFunc(d time.Duration, f func()) *Timer {
	ticker := time.NewTicker(d)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				f()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return &Timer{
		stopFunc: func() bool {
			stopped := false
			once.Do(func() {
				ticker.Stop()
				close(done)
				stopped = true
			})
			return stopped
		},
	}
}
