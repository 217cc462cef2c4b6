package reactive

import (
	"reflect"
	"testing"
)

// TestSubscribeImmediateAndOrdered verifies each subscriber is called once
// on subscribe and then on every change, in subscription order.
func TestSubscribeImmediateAndOrdered(t *testing.T) {
	v := NewValue(1)
	var calls []string

	v.Subscribe(func(n int) { calls = append(calls, "a"+itoa(n)) })
	v.Subscribe(func(n int) { calls = append(calls, "b"+itoa(n)) })
	v.Set(2)

	want := []string{"a1", "b1", "a2", "b2"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

// TestUnsubscribe verifies a removed subscriber hears nothing further and
// that calling the unsubscribe func twice is harmless.
func TestUnsubscribe(t *testing.T) {
	v := NewValue("x")
	count := 0
	unsub := v.Subscribe(func(string) { count++ })
	unsub()
	unsub()
	v.Set("y")
	if count != 1 {
		t.Errorf("subscriber calls = %d, want 1", count)
	}
}

func TestUpdate(t *testing.T) {
	v := NewValue([]int{1})
	v.Update(func(s []int) []int { return append([]int{0}, s...) })
	if got := v.Get(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Get = %v, want [0 1]", got)
	}
}

func itoa(n int) string {
	return string(rune('0' + n))
}
