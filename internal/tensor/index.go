package tensor

import (
	"math"

	"github.com/gomlx/exceptions"
)

// IndexKind discriminates the descriptor cases accepted by At and AddAt.
// The set is closed: every consumer switches over all three kinds.
type IndexKind int

const (
	// IndexSingle selects one position on an axis and removes the axis.
	IndexSingle IndexKind = iota
	// IndexSlice selects a strided range of positions and keeps the axis.
	IndexSlice
	// IndexNewAxis inserts a size-1 axis without consuming an input axis.
	IndexNewAxis
)

// String returns a human-readable name for the index kind.
func (k IndexKind) String() string {
	switch k {
	case IndexSingle:
		return "single"
	case IndexSlice:
		return "slice"
	case IndexNewAxis:
		return "newaxis"
	default:
		return "unknown"
	}
}

// Range describes a start:stop:step selection over one axis. Bounds resolve
// against the axis size the way Python slices do: negative values count from
// the end and out-of-range bounds clamp, so a Range is valid for any axis
// size and never fails. The step is never zero.
type Range struct {
	start int64
	stop  int64
	step  int64
}

// Step returns the distance between selected positions. Negative steps walk
// the axis backwards.
func (r Range) Step() int64 { return r.step }

// resolve clamps start and stop for an axis of the given size, following
// Python slice semantics.
func (r Range) resolve(dim int) (start, stop int64) {
	n := int64(dim)
	var lower, upper int64
	if r.step > 0 {
		lower, upper = 0, n
	} else {
		lower, upper = -1, n-1
	}

	start = r.start
	if start < 0 {
		start += n
		if start < lower {
			start = lower
		}
	} else if start > upper {
		start = upper
	}

	stop = r.stop
	if stop < 0 {
		stop += n
		if stop < lower {
			stop = lower
		}
	} else if stop > upper {
		stop = upper
	}
	return start, stop
}

// Length returns the number of positions selected on an axis of the given size.
func (r Range) Length(dim int) int {
	start, stop := r.resolve(dim)
	if r.step > 0 {
		if start >= stop {
			return 0
		}
		return int((stop-start-1)/r.step) + 1
	}
	if start <= stop {
		return 0
	}
	return int((start-stop-1)/(-r.step)) + 1
}

// Start returns the first selected position on an axis of the given size.
// An empty selection starts at 0 so that derived view offsets stay inside
// the buffer.
func (r Range) Start(dim int) int {
	if r.Length(dim) == 0 {
		return 0
	}
	start, _ := r.resolve(dim)
	return int(start)
}

// Index selects one axis-worth of a multi-axis index expression. Values are
// constructed with Single, Slice, SliceStep, All, or NewAxis and inspected
// through Kind plus the accessor matching the kind.
type Index struct {
	kind   IndexKind
	single int64
	rng    Range
}

// Single selects position i on an axis and removes the axis from the result.
// Negative values count from the end of the axis.
func Single(i int64) Index {
	return Index{kind: IndexSingle, single: i}
}

// Slice selects [start, stop) with step 1. Negative bounds count from the
// end of the axis; out-of-range bounds clamp, so math.MaxInt64 acts as an
// open upper bound.
func Slice(start, stop int64) Index {
	return Index{kind: IndexSlice, rng: Range{start: start, stop: stop, step: 1}}
}

// SliceStep selects [start, stop) walking by step, which must be nonzero.
// With a negative step the axis is walked backwards; math.MaxInt64 as start
// and math.MinInt64 as stop then act as open bounds.
func SliceStep(start, stop, step int64) Index {
	if step == 0 {
		exceptions.Panicf("tensor: slice step cannot be zero")
	}
	return Index{kind: IndexSlice, rng: Range{start: start, stop: stop, step: step}}
}

// All selects every position on an axis, keeping it unchanged.
func All() Index {
	return Index{kind: IndexSlice, rng: Range{start: 0, stop: math.MaxInt64, step: 1}}
}

// NewAxis inserts a size-1 axis at this position of the result. It does not
// consume an input axis.
func NewAxis() Index {
	return Index{kind: IndexNewAxis}
}

// NormalizeAxis resolves a possibly negative axis against ndim; -1 names the
// last axis. Panics with *AxisError when axis is outside [-ndim, ndim).
func NormalizeAxis(axis, ndim int) int {
	if axis < -ndim || axis >= ndim {
		panic(&AxisError{Axis: axis, Ndim: ndim})
	}
	if axis < 0 {
		axis += ndim
	}
	return axis
}

// Kind reports which descriptor case this index holds.
func (ix Index) Kind() IndexKind { return ix.kind }

// Value returns the position selected by an IndexSingle descriptor.
func (ix Index) Value() int64 { return ix.single }

// Range returns the selection held by an IndexSlice descriptor.
func (ix Index) Range() Range { return ix.rng }
