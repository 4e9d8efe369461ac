package history

import (
	"reflect"
	"testing"
)

func TestRing_PushAndEvict(t *testing.T) {
	r := NewRing[int](3)

	for i := 1; i <= 3; i++ {
		if evicted := r.Push(i); evicted {
			t.Errorf("Push(%d) evicted on a non-full ring", i)
		}
	}
	if !r.Push(4) {
		t.Error("Push(4) on a full ring should evict")
	}

	if got := r.Snapshot(); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Errorf("Snapshot() = %v, want [2 3 4]", got)
	}
	if r.Len() != 3 || r.Cap() != 3 {
		t.Errorf("Len/Cap = %d/%d, want 3/3", r.Len(), r.Cap())
	}
}

func TestRing_Last(t *testing.T) {
	r := NewRing[string](5)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		r.Push(s)
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{}},
		{2, []string{"f", "g"}},
		{5, []string{"c", "d", "e", "f", "g"}},
		{10, []string{"c", "d", "e", "f", "g"}},
		{-1, []string{}},
	}

	for _, tt := range tests {
		if got := r.Last(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Last(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestRing_Empty(t *testing.T) {
	r := NewRing[int](0)
	if r.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1 for non-positive capacity", r.Cap())
	}
	got := r.Snapshot()
	if got == nil || len(got) != 0 {
		t.Errorf("Snapshot() on empty ring = %#v, want empty non-nil slice", got)
	}
}
