// Package reactive provides observable value holders. A Value notifies its
// subscribers, in subscription order, every time it changes; a Persisted
// value additionally mirrors every change into a localstore.Store.
package reactive

import "sync"

// Value is an observable holder for a T. Values handed out by Get are
// shared; callers replace them with Set or Update rather than mutating.
//
// Subscribers run synchronously on the goroutine that made the change and
// must not call Set, Update or Subscribe on the same Value.
type Value[T any] struct {
	emit sync.Mutex // held across a change and its notifications

	mu     sync.RWMutex
	cur    T
	subs   []subscription[T]
	nextID int

	// onChange runs after the value is replaced and before subscribers.
	onChange func(T)
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Set replaces the current value and notifies subscribers.
func (v *Value[T]) Set(val T) {
	v.emit.Lock()
	defer v.emit.Unlock()
	v.replace(val, true)
}

// Update replaces the current value with fn(current) as one change.
func (v *Value[T]) Update(fn func(T) T) {
	v.emit.Lock()
	defer v.emit.Unlock()
	v.replace(fn(v.Get()), true)
}

// Subscribe calls fn with the current value, then again on every change.
// The returned func removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.emit.Lock()
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscription[T]{id: id, fn: fn})
	cur := v.cur
	v.mu.Unlock()
	fn(cur)
	v.emit.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, s := range v.subs {
				if s.id == id {
					v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// replace must be called with emit held.
func (v *Value[T]) replace(val T, hook bool) {
	v.mu.Lock()
	v.cur = val
	subs := append([]subscription[T](nil), v.subs...)
	v.mu.Unlock()

	if hook && v.onChange != nil {
		v.onChange(val)
	}
	for _, s := range subs {
		s.fn(val)
	}
}
