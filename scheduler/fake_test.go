package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	if got, want := clock.Now(), epoch.Add(5*time.Second); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfterFunc(t *testing.T) {
	clock := Fake(epoch)
	var fired int32
	timer := clock.AfterFunc(3*time.Second, func() { atomic.AddInt32(&fired, 1) })

	clock.Advance(2 * time.Second)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatal("AfterFunc fired before its deadline")
	}
	clock.Advance(time.Second)
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatal("AfterFunc did not fire at its deadline")
	}
	if timer.Stop() {
		t.Error("Stop after firing should return false")
	}
}

func TestFakeClockAfterFuncZeroDuration(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	clock.AfterFunc(0, func() { fired = true })
	if !fired {
		t.Fatal("AfterFunc(0) should fire immediately")
	}
}

func TestFakeClockStop(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("first Stop should return true")
	}
	if timer.Stop() {
		t.Fatal("second Stop should return false")
	}
	clock.Advance(time.Minute)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if clock.PendingCount() != 0 {
		t.Fatalf("PendingCount() = %d, want 0", clock.PendingCount())
	}
}

func TestFakeClockTickFunc(t *testing.T) {
	clock := Fake(epoch)
	var ticks int32
	timer := clock.TickFunc(time.Second, func() { atomic.AddInt32(&ticks, 1) })

	clock.Advance(3500 * time.Millisecond)
	if got := atomic.LoadInt32(&ticks); got != 3 {
		t.Fatalf("ticks = %d, want 3", got)
	}
	clock.Advance(500 * time.Millisecond)
	if got := atomic.LoadInt32(&ticks); got != 4 {
		t.Fatalf("ticks = %d, want 4", got)
	}

	if !timer.Stop() {
		t.Fatal("Stop on a running ticker should return true")
	}
	clock.Advance(10 * time.Second)
	if got := atomic.LoadInt32(&ticks); got != 4 {
		t.Fatalf("ticks after Stop = %d, want 4", got)
	}
}

func TestFakeClockCallbackRegistersTimer(t *testing.T) {
	clock := Fake(epoch)
	var second int32
	clock.AfterFunc(time.Second, func() {
		clock.AfterFunc(time.Second, func() { atomic.AddInt32(&second, 1) })
	})

	clock.Advance(time.Second)
	if clock.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1", clock.PendingCount())
	}
	clock.Advance(time.Second)
	if atomic.LoadInt32(&second) != 1 {
		t.Fatal("timer registered from a callback did not fire")
	}
}

func TestFakeClockWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	go clock.AfterFunc(time.Second, func() {})

	done := make(chan struct{})
	go func() {
		clock.WaitForTimers(1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForTimers did not observe the registration")
	}
}
