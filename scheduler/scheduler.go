package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// MinInterval is the finest timer resolution the scheduler honours.
// Shorter intervals are raised to it.
const MinInterval = 400 * time.Microsecond

// Cancellable is a handle on a scheduled task.
type Cancellable interface {
	// Cancel prevents every future run of the task. It returns true
	// only for the call that actually cancelled; later calls, and calls
	// on a one-shot task that already ran, return false. A run already
	// in progress is not interrupted.
	Cancel() bool

	// IsCancelled reports whether Cancel has succeeded.
	IsCancelled() bool
}

// Scheduler runs tasks after a delay, once or repeatedly.
type Scheduler interface {
	// ScheduleOnce runs task once after delay.
	ScheduleOnce(delay time.Duration, task func()) Cancellable

	// Schedule runs task after initialDelay and then every interval.
	Schedule(initialDelay, interval time.Duration, task func()) Cancellable

	// MaxFrequency is the highest repeat rate, in Hz, the scheduler
	// can honour.
	MaxFrequency() float64
}

// Options contains configuration options for creating a LoopScheduler.
type Options struct {
	// Clock is the timer source
	Clock Clock

	// QueueSize bounds the number of fired timers waiting for the loop
	QueueSize int

	// Logger receives task panics and lifecycle messages
	Logger *slog.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Clock:     Real(),
		QueueSize: 1024,
		Logger:    slog.Default(),
	}
}

// Stats contains runtime statistics for a LoopScheduler.
type Stats struct {
	// Tasks scheduled and neither cancelled nor finished
	Outstanding int

	// Task bodies run so far
	Executed uint64

	// Task bodies that panicked
	Panicked uint64
}

// LoopScheduler is a Scheduler backed by a single timer loop goroutine.
type LoopScheduler struct {
	clock  Clock
	logger *slog.Logger

	// Fired timer callbacks waiting to run on the loop
	queue chan func()

	started  int32
	stopped  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu          sync.Mutex
	halting     bool
	outstanding map[uint64]Cancellable
	nextID      uint64

	executed uint64
	panicked uint64
}

var _ Scheduler = (*LoopScheduler)(nil)

// New creates a LoopScheduler. Zero-valued options fall back to
// DefaultOptions.
func New(opts Options) *LoopScheduler {
	defaults := DefaultOptions()
	if opts.Clock == nil {
		opts.Clock = defaults.Clock
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaults.QueueSize
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}

	return &LoopScheduler{
		clock:       opts.Clock,
		logger:      opts.Logger,
		queue:       make(chan func(), opts.QueueSize),
		stopped:     make(chan struct{}),
		outstanding: make(map[uint64]Cancellable),
	}
}

// Start launches the timer loop. The loop stops when ctx is done or
// Stop is called.
func (s *LoopScheduler) Start(ctx context.Context) error {
	if s.isStopped() {
		return ErrStopped
	}
	if !atomic.CompareAndSwapInt32(&s.started, 0, 1) {
		return ErrAlreadyStarted
	}

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Debug("scheduler started", "queue_size", cap(s.queue))
	return nil
}

// Stop cancels every outstanding task and waits for the loop to exit.
// A task body running when Stop is called is allowed to finish.
func (s *LoopScheduler) Stop(ctx context.Context) error {
	s.halt()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// halt cancels what is outstanding and then marks the scheduler
// stopped, so no task body runs once the loop can observe the stop.
func (s *LoopScheduler) halt() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.halting = true
		pending := make([]Cancellable, 0, len(s.outstanding))
		for _, c := range s.outstanding {
			pending = append(pending, c)
		}
		s.mu.Unlock()

		for _, c := range pending {
			c.Cancel()
		}
		close(s.stopped)
		s.logger.Debug("scheduler stopped", "cancelled", len(pending))
	})
}

// MaxFrequency returns 1 / MinInterval, i.e. 2500 Hz.
func (s *LoopScheduler) MaxFrequency() float64 {
	return float64(time.Second) / float64(MinInterval)
}

// ScheduleOnce runs task once after delay. A negative delay counts as
// zero. On a stopped scheduler the returned handle is already
// cancelled.
func (s *LoopScheduler) ScheduleOnce(delay time.Duration, task func()) Cancellable {
	if delay < 0 {
		delay = 0
	}

	t := &onceTask{s: s, task: task}
	id, ok := s.track(t)
	if !ok {
		return cancelled{}
	}
	t.id = id
	t.timer.Store(s.clock.AfterFunc(delay, func() { s.post(t.run) }))
	return t
}

// Schedule runs task after initialDelay and then every interval.
// Intervals below MinInterval are raised to it.
func (s *LoopScheduler) Schedule(initialDelay, interval time.Duration, task func()) Cancellable {
	if initialDelay < 0 {
		initialDelay = 0
	}
	if interval < MinInterval {
		interval = MinInterval
	}

	t := &repeatingTask{s: s, task: task, interval: interval}
	id, ok := s.track(t)
	if !ok {
		return cancelled{}
	}
	t.id = id

	placeholder := &Timer{stopFunc: func() bool { return false }}
	t.handle.Store(placeholder)
	first := s.clock.AfterFunc(initialDelay, func() { s.post(t.fireFirst) })
	// With a zero delay the first run may already have installed the
	// repeating timer; it must not be overwritten.
	t.handle.CompareAndSwap(placeholder, first)
	return t
}

// Stats returns current runtime statistics.
func (s *LoopScheduler) Stats() Stats {
	s.mu.Lock()
	outstanding := len(s.outstanding)
	s.mu.Unlock()

	return Stats{
		Outstanding: outstanding,
		Executed:    atomic.LoadUint64(&s.executed),
		Panicked:    atomic.LoadUint64(&s.panicked),
	}
}

func (s *LoopScheduler) isStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

// track records c as outstanding. It fails once the scheduler is
// halting.
func (s *LoopScheduler) track(c Cancellable) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.halting {
		return 0, false
	}
	s.nextID++
	s.outstanding[s.nextID] = c
	return s.nextID, true
}

func (s *LoopScheduler) untrack(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.outstanding, id)
}

// post hands a fired timer callback to the loop. It gives up once the
// scheduler is stopped.
func (s *LoopScheduler) post(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.stopped:
	}
}

// loop is the single goroutine on which every task body runs.
func (s *LoopScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case fn := <-s.queue:
			fn()
		case <-ctx.Done():
			s.halt()
			return
		case <-s.stopped:
			return
		}
	}
}

// runTask runs a task body on the loop, containing any panic.
func (s *LoopScheduler) runTask(id uint64, task func()) {
	defer func() {
		if r := recover(); r != nil {
			atomic.AddUint64(&s.panicked, 1)
			s.logger.Error("scheduled task panicked", "task", id, "panic", r)
		}
	}()

	atomic.AddUint64(&s.executed, 1)
	task()
}

// cancelled is the handle returned by a stopped scheduler.
type cancelled struct{}

func (cancelled) Cancel() bool      { return false }
func (cancelled) IsCancelled() bool { return true }
