//go:build windows

package webgpu

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// At returns a view of a addressing the elements selected by indices. The
// result shares storage with a; no data is copied and no GPU work runs.
func (b *Backend) At(a *tensor.RawTensor, indices []tensor.Index) *tensor.RawTensor {
	return a.View(indices)
}

// Take gathers slices of a along axis at the positions named by indices.
//
// The index tensor must have dtype int64; out-of-range values wrap modulo
// the axis length. a must be float32, the only dtype the WGSL kernels
// support.
func (b *Backend) Take(a, indices *tensor.RawTensor, axis int) *tensor.RawTensor {
	if indices.DType() != tensor.Int64 {
		panic(&tensor.DTypeError{Op: "take", Want: tensor.Int64, Got: indices.DType()})
	}
	if a.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu: take: only float32 is supported, got %s", a.DType()))
	}
	axis = tensor.NormalizeAxis(axis, len(a.Shape()))

	aShape := a.Shape()
	outShape := make(tensor.Shape, 0, len(aShape)-1+len(indices.Shape()))
	outShape = append(outShape, aShape[:axis]...)
	outShape = append(outShape, indices.Shape()...)
	outShape = append(outShape, aShape[axis+1:]...)

	idx := wrappedIndices(indices, aShape[axis], axis)

	// Nothing to gather, skip the GPU round trip
	if outShape.NumElements() == 0 {
		result, err := tensor.NewRaw(outShape, a.DType(), tensor.WebGPU)
		if err != nil {
			panic(fmt.Sprintf("webgpu: take: %v", err))
		}
		return result
	}

	inner := 1
	for _, d := range aShape[axis+1:] {
		inner *= d
	}

	ad, owned := dense(a)
	if owned {
		defer ad.Release()
	}

	result, err := b.runTake(ad, idx, outShape, aShape[axis], inner)
	if err != nil {
		panic(fmt.Sprintf("webgpu: take: %v", err))
	}
	return result
}

// AddAt returns a copy of a with updates accumulated into the elements
// selected by indices. a itself is never modified. The view described by
// indices must have exactly the shape of updates, both float32.
func (b *Backend) AddAt(a *tensor.RawTensor, indices []tensor.Index, updates *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != updates.DType() {
		panic(&tensor.DTypeError{Op: "add_at", Want: a.DType(), Got: updates.DType()})
	}
	if a.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu: add_at: only float32 is supported, got %s", a.DType()))
	}

	out := a.Copy()
	view := out.View(indices)
	defer view.Release()
	if !view.Shape().Equal(updates.Shape()) {
		panic(&tensor.ShapeError{Op: "add_at", Want: view.Shape(), Got: updates.Shape()})
	}
	if updates.NumElements() == 0 {
		return out
	}
	if len(view.Shape()) > maxViewDims {
		panic(fmt.Sprintf("webgpu: add_at: view rank %d exceeds the supported maximum of %d", len(view.Shape()), maxViewDims))
	}

	ud, owned := dense(updates)
	if owned {
		defer ud.Release()
	}

	if err := b.runAddAt(out, view, ud); err != nil {
		panic(fmt.Sprintf("webgpu: add_at: %v", err))
	}
	return out
}

// AddAtAxis returns a copy of a with the slices of updates scattered along
// axis at the positions named by indices. updates must have shape
// a.Shape()[:axis] ++ indices.Shape() ++ a.Shape()[axis+1:]. Repeated
// index values accumulate in index order, and out-of-range values wrap
// modulo the axis length, matching Take, so the two operations stay
// adjoint.
func (b *Backend) AddAtAxis(a, indices *tensor.RawTensor, axis int, updates *tensor.RawTensor) *tensor.RawTensor {
	if indices.DType() != tensor.Int64 {
		panic(&tensor.DTypeError{Op: "add_at", Want: tensor.Int64, Got: indices.DType()})
	}
	if a.DType() != updates.DType() {
		panic(&tensor.DTypeError{Op: "add_at", Want: a.DType(), Got: updates.DType()})
	}
	if a.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu: add_at: only float32 is supported, got %s", a.DType()))
	}
	axis = tensor.NormalizeAxis(axis, len(a.Shape()))

	aShape := a.Shape()
	expected := make(tensor.Shape, 0, len(aShape)-1+len(indices.Shape()))
	expected = append(expected, aShape[:axis]...)
	expected = append(expected, indices.Shape()...)
	expected = append(expected, aShape[axis+1:]...)
	if !expected.Equal(updates.Shape()) {
		panic(&tensor.ShapeError{Op: "add_at", Want: expected, Got: updates.Shape()})
	}

	out := a.Copy()
	if updates.NumElements() == 0 {
		return out
	}

	idx := wrappedIndices(indices, aShape[axis], axis)
	inner := 1
	for _, d := range aShape[axis+1:] {
		inner *= d
	}

	ud, owned := dense(updates)
	if owned {
		defer ud.Release()
	}

	if err := b.runAxisScatterAdd(out, idx, ud, aShape[axis], inner); err != nil {
		panic(fmt.Sprintf("webgpu: add_at: %v", err))
	}
	return out
}

// Add performs element-wise addition on GPU. Shapes must match exactly;
// both tensors must be float32.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != other.DType() {
		panic(&tensor.DTypeError{Op: "add", Want: a.DType(), Got: other.DType()})
	}
	if !a.Shape().Equal(other.Shape()) {
		panic(&tensor.ShapeError{Op: "add", Want: a.Shape(), Got: other.Shape()})
	}
	if a.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu: add: only float32 is supported, got %s", a.DType()))
	}

	if a.NumElements() == 0 {
		result, err := tensor.NewRaw(a.Shape(), a.DType(), tensor.WebGPU)
		if err != nil {
			panic(fmt.Sprintf("webgpu: add: %v", err))
		}
		return result
	}

	ad, aOwned := dense(a)
	if aOwned {
		defer ad.Release()
	}
	od, oOwned := dense(other)
	if oOwned {
		defer od.Release()
	}

	result, err := b.runAdd(ad, od)
	if err != nil {
		panic(fmt.Sprintf("webgpu: add: %v", err))
	}
	return result
}
