// Package syncstatus tracks the lifecycle of the most recent backend call.
package syncstatus

import "github.com/meltforce/kinetic/internal/reactive"

// Status is the state of the last backend operation.
type Status string

const (
	Loading Status = "loading" // read in flight
	Syncing Status = "syncing" // write in flight
	Logging Status = "logging" // workout log write in flight
	Synced  Status = "synced"
	Error   Status = "error"
)

// InFlight reports whether s marks an outstanding call.
func (s Status) InFlight() bool {
	return s == Loading || s == Syncing || s == Logging
}

// Tracker holds one process-wide Status. Overlapping calls race on it and
// the last writer wins.
type Tracker struct {
	*reactive.Value[Status]
}

// NewTracker returns a tracker in the Synced state.
func NewTracker() *Tracker {
	return &Tracker{Value: reactive.NewValue(Synced)}
}

// Track sets s, runs fn, then records Synced or Error. fn's error is
// returned unchanged.
func (t *Tracker) Track(s Status, fn func() error) error {
	t.Set(s)
	if err := fn(); err != nil {
		t.Set(Error)
		return err
	}
	t.Set(Synced)
	return nil
}
