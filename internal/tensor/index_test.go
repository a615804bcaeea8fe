package tensor

import (
	"math"
	"testing"
)

// Range resolution tests. Expected values follow Python slice semantics.

func TestRangeLengthPositiveStep(t *testing.T) {
	tests := []struct {
		start, stop, step int64
		dim               int
		wantLen           int
		wantStart         int
	}{
		{0, 4, 1, 4, 4, 0},
		{1, 3, 1, 4, 2, 1},
		{0, 4, 2, 4, 2, 0},
		{0, 5, 2, 5, 3, 0},
		{1, 5, 3, 5, 2, 1},
		{-3, -1, 1, 5, 2, 2},
		{0, 100, 1, 4, 4, 0},
		{-100, 100, 1, 4, 4, 0},
		{2, 2, 1, 4, 0, 0},
		{0, math.MaxInt64, 1, 7, 7, 0},
	}

	for _, tt := range tests {
		r := Range{start: tt.start, stop: tt.stop, step: tt.step}
		if got := r.Length(tt.dim); got != tt.wantLen {
			t.Errorf("Range{%d:%d:%d}.Length(%d) = %d, want %d",
				tt.start, tt.stop, tt.step, tt.dim, got, tt.wantLen)
		}
		if got := r.Start(tt.dim); got != tt.wantStart {
			t.Errorf("Range{%d:%d:%d}.Start(%d) = %d, want %d",
				tt.start, tt.stop, tt.step, tt.dim, got, tt.wantStart)
		}
	}
}

func TestRangeLengthNegativeStep(t *testing.T) {
	tests := []struct {
		start, stop, step int64
		dim               int
		wantLen           int
		wantStart         int
	}{
		{3, 0, -1, 5, 3, 3},
		{4, math.MinInt64, -1, 5, 5, 4},
		{math.MaxInt64, math.MinInt64, -1, 5, 5, 4},
		{math.MaxInt64, math.MinInt64, -2, 5, 3, 4},
		{-1, 1, -1, 5, 3, 4},
		{0, 4, -1, 5, 0, 0},
	}

	for _, tt := range tests {
		r := Range{start: tt.start, stop: tt.stop, step: tt.step}
		if got := r.Length(tt.dim); got != tt.wantLen {
			t.Errorf("Range{%d:%d:%d}.Length(%d) = %d, want %d",
				tt.start, tt.stop, tt.step, tt.dim, got, tt.wantLen)
		}
		if got := r.Start(tt.dim); got != tt.wantStart {
			t.Errorf("Range{%d:%d:%d}.Start(%d) = %d, want %d",
				tt.start, tt.stop, tt.step, tt.dim, got, tt.wantStart)
		}
	}
}

func TestRangeEmptyAxis(t *testing.T) {
	r := All().Range()
	if got := r.Length(0); got != 0 {
		t.Errorf("All().Length(0) = %d, want 0", got)
	}
	if got := r.Start(0); got != 0 {
		t.Errorf("All().Start(0) = %d, want 0", got)
	}
}

func TestSliceStepZeroPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("SliceStep with step 0 should panic")
		}
	}()
	_ = SliceStep(0, 4, 0)
}

// Index constructor tests

func TestIndexConstructors(t *testing.T) {
	single := Single(5)
	if single.Kind() != IndexSingle {
		t.Errorf("Single kind = %s, want single", single.Kind())
	}
	if single.Value() != 5 {
		t.Errorf("Single value = %d, want 5", single.Value())
	}

	slice := Slice(1, 4)
	if slice.Kind() != IndexSlice {
		t.Errorf("Slice kind = %s, want slice", slice.Kind())
	}
	if slice.Range().Step() != 1 {
		t.Errorf("Slice step = %d, want 1", slice.Range().Step())
	}

	stepped := SliceStep(4, 0, -2)
	if stepped.Range().Step() != -2 {
		t.Errorf("SliceStep step = %d, want -2", stepped.Range().Step())
	}

	newAxis := NewAxis()
	if newAxis.Kind() != IndexNewAxis {
		t.Errorf("NewAxis kind = %s, want newaxis", newAxis.Kind())
	}
}

func TestIndexKindString(t *testing.T) {
	kinds := map[IndexKind]string{
		IndexSingle:  "single",
		IndexSlice:   "slice",
		IndexNewAxis: "newaxis",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("IndexKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

// Axis normalization tests

func TestNormalizeAxis(t *testing.T) {
	tests := []struct {
		axis, ndim, want int
	}{
		{0, 3, 0},
		{2, 3, 2},
		{-1, 3, 2},
		{-3, 3, 0},
	}
	for _, tt := range tests {
		if got := NormalizeAxis(tt.axis, tt.ndim); got != tt.want {
			t.Errorf("NormalizeAxis(%d, %d) = %d, want %d", tt.axis, tt.ndim, got, tt.want)
		}
	}
}

func TestNormalizeAxisOutOfRange(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("NormalizeAxis(3, 3) should panic")
		}
		ae, ok := r.(*AxisError)
		if !ok {
			t.Fatalf("recovered %T, want *AxisError", r)
		}
		if ae.Axis != 3 || ae.Ndim != 3 {
			t.Errorf("AxisError = {%d, %d}, want {3, 3}", ae.Axis, ae.Ndim)
		}
	}()
	_ = NormalizeAxis(3, 3)
}
