// Package timer implements the workout session clock: a counter that goes
// up by one on every tick while running.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/meltforce/kinetic/internal/reactive"
)

// Ticker is the subset of *time.Ticker the timer needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{time.NewTicker(d)}
}

// Timer counts ticks. Start is idempotent: starting a running timer
// replaces its tick source, so it never counts twice per interval.
type Timer struct {
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	value     *reactive.Value[int]

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Option configures a Timer.
type Option func(*Timer)

// WithTicker replaces the tick source, mainly for tests.
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(t *Timer) { t.newTicker = fn }
}

// New returns a stopped timer at zero. A non-positive interval means one second.
func New(interval time.Duration, opts ...Option) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Timer{
		interval:  interval,
		newTicker: NewStdTicker,
		value:     reactive.NewValue(0),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Value exposes the counter for observers.
func (t *Timer) Value() *reactive.Value[int] { return t.value }

// Interval returns the tick period.
func (t *Timer) Interval() time.Duration { return t.interval }

// Elapsed returns the current count.
func (t *Timer) Elapsed() int { return t.value.Get() }

// Running reports whether a tick source is installed.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Start begins counting from the current value, cancelling any prior tick.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	ticker := t.newTicker(t.interval)
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				t.value.Update(func(n int) int { return n + 1 })
			}
		}
	}()
}

// Stop halts counting and keeps the value. It returns once the tick
// goroutine has exited, so no increment lands after it.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the timer and sets the value to zero.
func (t *Timer) Reset() {
	t.Stop()
	t.value.Set(0)
}

func (t *Timer) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}

// FormatTime renders n ticks as zero-padded MM:SS. Minutes keep growing past
// two digits, so 6000 renders as "100:00". Negative input renders as "00:00".
func FormatTime(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%02d:%02d", n/60, n%60)
}
