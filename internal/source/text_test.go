package source

import "testing"

func TestTextRangeBasics(t *testing.T) {
	r := NewRange(2, 6)
	if r.Len() != 4 || r.Empty() {
		t.Fatalf("Len/Empty wrong for %s", r)
	}
	if !r.Contains(2) || r.Contains(6) || !r.ContainsInclusive(6) {
		t.Fatalf("Contains semantics wrong for %s", r)
	}
	if !r.ContainsRange(NewRange(3, 6)) || r.ContainsRange(NewRange(1, 3)) {
		t.Fatalf("ContainsRange semantics wrong")
	}
	if got := r.Cover(NewRange(8, 9)); got != NewRange(2, 9) {
		t.Fatalf("Cover = %s", got)
	}
	if got := r.Add(3).Sub(1); got != NewRange(4, 8) {
		t.Fatalf("Add/Sub = %s", got)
	}
	if got := RangeAt(5, 2); got != NewRange(5, 7) {
		t.Fatalf("RangeAt = %s", got)
	}
	if got := r.Slice("abcdefgh"); got != "cdef" {
		t.Fatalf("Slice = %q", got)
	}
}

func TestTextRangeIntersect(t *testing.T) {
	tests := []struct {
		a, b TextRange
		want TextRange
		ok   bool
	}{
		{NewRange(0, 5), NewRange(3, 8), NewRange(3, 5), true},
		{NewRange(0, 3), NewRange(3, 8), NewRange(3, 3), true},
		{NewRange(0, 2), NewRange(3, 8), TextRange{}, false},
	}
	for _, tt := range tests {
		got, ok := tt.a.Intersect(tt.b)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s ∩ %s = %s,%v want %s,%v", tt.a, tt.b, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTextRangeOverlaps(t *testing.T) {
	if NewRange(0, 3).Overlaps(NewRange(3, 5)) {
		t.Fatalf("touching non-empty ranges must not overlap")
	}
	if !EmptyAt(3).Overlaps(NewRange(3, 5)) {
		t.Fatalf("empty range at start must overlap")
	}
	if NewRange(0, 3).Compare(NewRange(0, 4)) >= 0 {
		t.Fatalf("Compare must order by end on equal start")
	}
}

func TestNewRangePanicsOnInvertedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewRange(5, 1)
}
