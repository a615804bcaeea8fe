// Copyright 2025 Trellis ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/trellis-ml/trellis/internal/tensor"
)

// IndexKind identifies what an Index descriptor does to its axis.
type IndexKind = tensor.IndexKind

// Index kind constants.
const (
	// IndexSingle selects one position on an axis and removes the axis.
	IndexSingle IndexKind = tensor.IndexSingle
	// IndexSlice selects a strided range of positions and keeps the axis.
	IndexSlice IndexKind = tensor.IndexSlice
	// IndexNewAxis inserts a size-1 axis without consuming an input axis.
	IndexNewAxis IndexKind = tensor.IndexNewAxis
)

// Range describes a start:stop:step selection over one axis. Bounds resolve
// against the axis size the way Python slices do: negative values count from
// the end and out-of-range bounds clamp, so a Range is valid for any axis
// size and never fails.
type Range = tensor.Range

// Index is a per-axis descriptor consumed by At. Build one with Single,
// Slice, SliceStep, All, or NewAxis.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{4, 6}, backend)
//	y := x.At(tensor.Single(2), tensor.Slice(1, 5)) // Shape{4}, shares storage
type Index = tensor.Index

// Single selects position i on an axis and removes the axis. Negative i
// counts from the end. Panics later with *IndexError if i is out of range
// for the axis it lands on.
func Single(i int64) Index {
	return tensor.Single(i)
}

// Slice selects positions start:stop with step 1 and keeps the axis.
//
// Example:
//
//	x.At(tensor.Slice(1, 3)) // rows 1 and 2
func Slice(start, stop int64) Index {
	return tensor.Slice(start, stop)
}

// SliceStep selects positions start:stop:step. A negative step walks the
// axis backwards. Panics if step is zero.
//
// Example:
//
//	x.At(tensor.SliceStep(5, -7, -1)) // whole axis, reversed
func SliceStep(start, stop, step int64) Index {
	return tensor.SliceStep(start, stop, step)
}

// All selects every position on an axis, equivalent to SliceStep over the
// full axis with step 1.
func All() Index {
	return tensor.All()
}

// NewAxis inserts a size-1 axis at this position without consuming an
// input axis.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{3}, backend)
//	y := x.At(tensor.NewAxis(), tensor.All()) // Shape{1, 3}
func NewAxis() Index {
	return tensor.NewAxis()
}
