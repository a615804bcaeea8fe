package cpu

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// At returns a view of a addressing the elements selected by indices. The
// result shares storage with a; no data is copied.
func (cpu *CPUBackend) At(a *tensor.RawTensor, indices []tensor.Index) *tensor.RawTensor {
	return a.View(indices)
}

// Take gathers slices of a along axis at the positions named by indices.
//
// The index tensor must have dtype int64. The result is a fresh dense tensor
// of shape a.Shape()[:axis] ++ indices.Shape() ++ a.Shape()[axis+1:].
// Out-of-range index values wrap modulo the axis length.
//
// Example:
//
//	a: [5, 3] with rows r0..r4
//	indices: [2] with values {4, 0}
//	axis: 0
//	output: [2, 3] holding rows r4, r0
//
//nolint:cyclop // Type-specific dispatch for gather operation (6 dtypes)
func (cpu *CPUBackend) Take(a, indices *tensor.RawTensor, axis int) *tensor.RawTensor {
	if indices.DType() != tensor.Int64 {
		panic(&tensor.DTypeError{Op: "take", Want: tensor.Int64, Got: indices.DType()})
	}
	axis = tensor.NormalizeAxis(axis, len(a.Shape()))

	aShape := a.Shape()
	outShape := make(tensor.Shape, 0, len(aShape)-1+len(indices.Shape()))
	outShape = append(outShape, aShape[:axis]...)
	outShape = append(outShape, indices.Shape()...)
	outShape = append(outShape, aShape[axis+1:]...)

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("take: failed to create result tensor: %v", err))
	}

	idx := wrappedIndexValues(indices, aShape[axis], axis)
	outerPos := positions(aShape[:axis], a.Strides()[:axis], a.Offset())
	innerPos := positions(aShape[axis+1:], a.Strides()[axis+1:], 0)
	axisStride := a.Strides()[axis]

	switch a.DType() {
	case tensor.Float32:
		takeFloat32(result.AsFloat32(), a.AsFloat32(), idx, outerPos, innerPos, axisStride, cpu.par)
	case tensor.Float64:
		takeFloat64(result.AsFloat64(), a.AsFloat64(), idx, outerPos, innerPos, axisStride, cpu.par)
	case tensor.Int32:
		takeInt32(result.AsInt32(), a.AsInt32(), idx, outerPos, innerPos, axisStride, cpu.par)
	case tensor.Int64:
		takeInt64(result.AsInt64(), a.AsInt64(), idx, outerPos, innerPos, axisStride, cpu.par)
	case tensor.Uint8:
		takeUint8(result.AsUint8(), a.AsUint8(), idx, outerPos, innerPos, axisStride, cpu.par)
	case tensor.Bool:
		takeBool(result.AsBool(), a.AsBool(), idx, outerPos, innerPos, axisStride, cpu.par)
	default:
		panic(fmt.Sprintf("take: unsupported dtype %s", a.DType()))
	}

	return result
}

// AddAt returns a copy of a with b accumulated into the elements selected by
// indices. a itself is never modified. The view described by indices must
// have exactly the shape of b.
func (cpu *CPUBackend) AddAt(a *tensor.RawTensor, indices []tensor.Index, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(&tensor.DTypeError{Op: "add_at", Want: a.DType(), Got: b.DType()})
	}

	out := a.Copy()
	view := out.View(indices)
	if !view.Shape().Equal(b.Shape()) {
		want := view.Shape()
		view.Release()
		panic(&tensor.ShapeError{Op: "add_at", Want: want, Got: b.Shape()})
	}
	cpu.addAssign(view, b)
	view.Release()

	return out
}

// AddAtAxis returns a copy of a with the slices of b scattered along axis at
// the positions named by indices. b must have shape
// a.Shape()[:axis] ++ indices.Shape() ++ a.Shape()[axis+1:]. Repeated index
// values accumulate, and out-of-range values wrap modulo the axis length,
// matching Take, so the two operations stay adjoint.
//
// Accumulation runs sequentially: repeated positions must sum in a
// deterministic order.
//
//nolint:cyclop // Type-specific dispatch for scatter-add operation (5 dtypes)
func (cpu *CPUBackend) AddAtAxis(a, indices *tensor.RawTensor, axis int, b *tensor.RawTensor) *tensor.RawTensor {
	if indices.DType() != tensor.Int64 {
		panic(&tensor.DTypeError{Op: "add_at", Want: tensor.Int64, Got: indices.DType()})
	}
	if a.DType() != b.DType() {
		panic(&tensor.DTypeError{Op: "add_at", Want: a.DType(), Got: b.DType()})
	}
	axis = tensor.NormalizeAxis(axis, len(a.Shape()))

	aShape := a.Shape()
	expected := make(tensor.Shape, 0, len(aShape)-1+len(indices.Shape()))
	expected = append(expected, aShape[:axis]...)
	expected = append(expected, indices.Shape()...)
	expected = append(expected, aShape[axis+1:]...)
	if !expected.Equal(b.Shape()) {
		panic(&tensor.ShapeError{Op: "add_at", Want: expected, Got: b.Shape()})
	}

	out := a.Copy()
	if b.NumElements() == 0 {
		return out
	}

	idx := wrappedIndexValues(indices, aShape[axis], axis)
	n := aShape[axis]
	inner := 1
	for _, d := range aShape[axis+1:] {
		inner *= d
	}

	bShape := b.Shape()
	bStrides := b.Strides()
	k := len(indices.Shape())
	outerPos := positions(bShape[:axis], bStrides[:axis], b.Offset())
	midPos := positions(bShape[axis:axis+k], bStrides[axis:axis+k], 0)
	innerPos := positions(bShape[axis+k:], bStrides[axis+k:], 0)

	switch out.DType() {
	case tensor.Float32:
		scatterAddFloat32(out.AsFloat32(), b.AsFloat32(), idx, n, inner, outerPos, midPos, innerPos)
	case tensor.Float64:
		scatterAddFloat64(out.AsFloat64(), b.AsFloat64(), idx, n, inner, outerPos, midPos, innerPos)
	case tensor.Int32:
		scatterAddInt32(out.AsInt32(), b.AsInt32(), idx, n, inner, outerPos, midPos, innerPos)
	case tensor.Int64:
		scatterAddInt64(out.AsInt64(), b.AsInt64(), idx, n, inner, outerPos, midPos, innerPos)
	case tensor.Uint8:
		scatterAddUint8(out.AsUint8(), b.AsUint8(), idx, n, inner, outerPos, midPos, innerPos)
	default:
		panic(fmt.Sprintf("add_at: unsupported dtype %s", out.DType()))
	}

	return out
}

// positions returns the flattened element positions visited by a row-major
// walk over (shape, strides), starting at base. The walk advances through
// stride arithmetic alone, so it is valid for views with negative strides.
func positions(shape tensor.Shape, strides []int, base int) []int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	out := make([]int, n)
	if n == 0 {
		return out
	}

	coords := make([]int, len(shape))
	pos := base
	for i := 0; i < n; i++ {
		out[i] = pos
		for d := len(shape) - 1; d >= 0; d-- {
			coords[d]++
			pos += strides[d]
			if coords[d] < shape[d] {
				break
			}
			coords[d] = 0
			pos -= strides[d] * shape[d]
		}
	}
	return out
}

// wrappedIndexValues reads the values of an int64 index tensor in row-major
// order, wrapping each into [0, dim). Any value against an empty axis is an
// error: there is no position it could name.
func wrappedIndexValues(indices *tensor.RawTensor, dim, axis int) []int64 {
	pos := positions(indices.Shape(), indices.Strides(), indices.Offset())
	data := indices.AsInt64()
	out := make([]int64, len(pos))
	for i, p := range pos {
		v := data[p]
		if dim == 0 {
			panic(&tensor.IndexError{Index: v, Axis: axis, Dim: 0})
		}
		n := int64(dim)
		out[i] = ((v % n) + n) % n
	}
	return out
}
