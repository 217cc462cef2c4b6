package timer

import (
	"sync"
	"testing"
	"time"
)

type fakeTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// fakeClock hands out unbuffered tickers so each send completes only once
// the timer goroutine has received it.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) newTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	ft := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, ft)
	return ft
}

func (c *fakeClock) current() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

func (c *fakeClock) tick(n int) {
	ft := c.current()
	for i := 0; i < n; i++ {
		ft.ch <- time.Now()
	}
}

// TestStartTickStop verifies three ticks then stop leaves the counter at 3.
func TestStartTickStop(t *testing.T) {
	clock := &fakeClock{}
	tm := New(time.Second, WithTicker(clock.newTicker))

	tm.Start()
	clock.tick(3)
	tm.Stop()

	if got := tm.Elapsed(); got != 3 {
		t.Errorf("elapsed = %d, want 3", got)
	}
	if tm.Running() {
		t.Error("timer still running after Stop")
	}
	if !clock.current().isStopped() {
		t.Error("ticker not stopped")
	}
}

// TestRestartDoesNotDoubleTick verifies a second Start cancels the first
// tick source instead of adding another.
func TestRestartDoesNotDoubleTick(t *testing.T) {
	clock := &fakeClock{}
	tm := New(time.Second, WithTicker(clock.newTicker))

	tm.Start()
	clock.tick(1)
	tm.Start()
	tm.Start()
	clock.tick(2)
	tm.Stop()

	if got := tm.Elapsed(); got != 3 {
		t.Errorf("elapsed = %d, want 3", got)
	}
	if len(clock.tickers) != 3 {
		t.Fatalf("tickers created = %d, want 3", len(clock.tickers))
	}
	for i, ft := range clock.tickers {
		if !ft.isStopped() {
			t.Errorf("ticker %d left running", i)
		}
	}
}

// TestStopKeepsValueResetZeroes covers the stop/reset distinction.
func TestStopKeepsValueResetZeroes(t *testing.T) {
	clock := &fakeClock{}
	tm := New(time.Second, WithTicker(clock.newTicker))

	tm.Start()
	clock.tick(2)
	tm.Stop()
	tm.Stop()
	if tm.Elapsed() != 2 {
		t.Fatalf("elapsed after stop = %d, want 2", tm.Elapsed())
	}

	tm.Start()
	clock.tick(1)
	if tm.Elapsed() < 2 {
		t.Errorf("start reset the counter")
	}
	tm.Reset()
	if tm.Elapsed() != 0 {
		t.Errorf("elapsed after reset = %d, want 0", tm.Elapsed())
	}
	if tm.Running() {
		t.Error("timer running after reset")
	}
}

// TestValueObservable verifies subscribers see each increment.
func TestValueObservable(t *testing.T) {
	clock := &fakeClock{}
	tm := New(time.Second, WithTicker(clock.newTicker))

	var mu sync.Mutex
	var seen []int
	tm.Value().Subscribe(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})

	tm.Start()
	clock.tick(2)
	tm.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Errorf("seen = %v, want [0 1 2]", seen)
	}
}

// TestFormatTime covers padding, the hour mark and the 100 minute boundary.
func TestFormatTime(t *testing.T) {
	cases := []struct {
		input int
		want  string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{3661, "61:01"},
		{5999, "99:59"},
		{6000, "100:00"},
		{-5, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.input); got != tc.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
