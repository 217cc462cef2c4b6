package reactive

import (
	"encoding/json"
	"log/slog"

	"github.com/meltforce/kinetic/internal/localstore"
)

type loadOutcome int

const (
	loadAbsent loadOutcome = iota
	loadStored
	loadMalformed
	loadFailed
)

func (o loadOutcome) String() string {
	switch o {
	case loadStored:
		return "stored"
	case loadMalformed:
		return "malformed"
	case loadFailed:
		return "failed"
	}
	return "absent"
}

// Persisted is a Value whose every change is written to a store under a
// fixed key before subscribers hear about it. A nil store keeps the value
// in memory only.
type Persisted[T any] struct {
	*Value[T]

	store   localstore.Store
	key     string
	initial T
	log     *slog.Logger
	loaded  loadOutcome
}

// NewPersisted seeds the value from store[key] when present and decodable,
// otherwise from initial. A malformed stored value falls back to initial.
func NewPersisted[T any](store localstore.Store, key string, initial T, log *slog.Logger) *Persisted[T] {
	if log == nil {
		log = slog.Default()
	}
	p := &Persisted[T]{
		store:   store,
		key:     key,
		initial: initial,
		log:     log,
	}

	start, outcome := p.load()
	p.loaded = outcome
	p.Value = NewValue(start)
	p.Value.onChange = p.write
	return p
}

// Key returns the storage key.
func (p *Persisted[T]) Key() string { return p.key }

// Remove deletes the stored value and resets to the initial value without
// writing it back.
func (p *Persisted[T]) Remove() {
	p.emit.Lock()
	defer p.emit.Unlock()
	if p.store != nil {
		if err := p.store.Remove(p.key); err != nil {
			p.log.Error("removing persisted value", "key", p.key, "error", err)
		}
	}
	p.replace(p.initial, false)
}

func (p *Persisted[T]) load() (T, loadOutcome) {
	if p.store == nil {
		return p.initial, loadAbsent
	}
	raw, ok, err := p.store.Get(p.key)
	if err != nil {
		p.log.Warn("reading persisted value", "key", p.key, "error", err)
		return p.initial, loadFailed
	}
	if !ok || raw == "" {
		return p.initial, loadAbsent
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		p.log.Debug("discarding malformed persisted value", "key", p.key, "error", err)
		return p.initial, loadMalformed
	}
	return v, loadStored
}

func (p *Persisted[T]) write(v T) {
	if p.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.log.Error("encoding persisted value", "key", p.key, "error", err)
		return
	}
	if err := p.store.Set(p.key, string(data)); err != nil {
		p.log.Error("writing persisted value", "key", p.key, "error", err)
	}
}
