package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Tensor is a generic tensor with element type T and backend B.
// It provides type-safe operations over multi-dimensional arrays.
//
// Type Parameters:
//   - T: Data type (must satisfy DType constraint)
//   - B: Computation backend (must implement Backend interface)
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	row := t.At(tensor.Single(1)) // View of row 1
type Tensor[T DType, B Backend] struct {
	raw          *RawTensor
	backend      B
	grad         *Tensor[T, B] // Gradient tensor (for autodiff)
	requiresGrad bool          // Whether to compute gradients for this tensor
}

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:     raw,
		backend: b,
		grad:    nil,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, errors.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		return nil, err
	}

	// Copy data into raw tensor
	t := New[T, B](raw, b)
	copy(t.Data(), data)

	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// Strides returns the tensor's per-axis element strides.
func (t *Tensor[T, B]) Strides() []int {
	return t.raw.Strides()
}

// Offset returns the element offset of the first logical element.
func (t *Tensor[T, B]) Offset() int {
	return t.raw.Offset()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// At returns a view selecting the sub-region described by the index
// descriptors. The view shares this tensor's buffer: writes through either
// are visible to both. With a recording backend the operation lands on the
// tape and gradients scatter back into the source's positions.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	row := t.At(tensor.Single(1))              // Shape{4}, shares storage
//	col := t.At(tensor.All(), tensor.Single(0)) // Shape{3}, stride 4
func (t *Tensor[T, B]) At(indices ...Index) *Tensor[T, B] {
	return New[T, B](t.backend.At(t.raw, indices), t.backend)
}

// Take gathers slices along axis at the positions named by indices. The
// result is freshly allocated; index values wrap modulo the axis size.
//
// Example:
//
//	rows := t.Take(idx, 0) // idx Shape{k} => rows Shape{k, t.Shape()[1]}
func (t *Tensor[T, B]) Take(indices *Tensor[int64, B], axis int) *Tensor[T, B] {
	return New[T, B](t.backend.Take(t.raw, indices.Raw(), axis), t.backend)
}

// Add returns the element-wise sum with other. Shapes must match exactly;
// there is no broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.Raw()), t.backend)
}

// AddAt returns a copy of this tensor with updates accumulated into the
// elements selected by the index descriptors. The receiver is never
// modified. The view the descriptors describe must have exactly the shape
// of updates.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{4}, backend)
//	u, _ := tensor.FromSlice([]float32{1, 2}, Shape{2}, backend)
//	r := t.AddAt([]tensor.Index{tensor.Slice(1, 3)}, u) // [0, 1, 2, 0]
func (t *Tensor[T, B]) AddAt(indices []Index, updates *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.AddAt(t.raw, indices, updates.Raw()), t.backend)
}

// AddAtAxis returns a copy of this tensor with the slices of updates
// scattered along axis at the positions named by indices. Repeated index
// values accumulate in index order; out-of-range values wrap modulo the
// axis size, matching Take.
func (t *Tensor[T, B]) AddAtAxis(indices *Tensor[int64, B], axis int, updates *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.AddAtAxis(t.raw, indices.Raw(), axis, updates.Raw()), t.backend)
}

// Grad returns the gradient tensor (if computed by autodiff).
func (t *Tensor[T, B]) Grad() *Tensor[T, B] {
	return t.grad
}

// SetGrad sets the gradient tensor.
// Used internally by autodiff.
func (t *Tensor[T, B]) SetGrad(grad *Tensor[T, B]) {
	t.grad = grad
}

// Detach returns a new tensor that shares the same data but doesn't track
// gradients. Useful for stopping gradient flow at a specific point; any
// operations on the detached tensor won't appear on the autodiff tape.
func (t *Tensor[T, B]) Detach() *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:          t.raw, // Share data (zero-copy)
		backend:      t.backend,
		grad:         nil, // No gradient tracking
		requiresGrad: false,
	}
}

// Data returns a typed slice over the tensor's entire backing buffer
// (zero-copy). For dense tensors the slice holds exactly the logical
// elements in order. For views it covers the whole shared buffer; use Get
// and Set for stride-aware element access.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T, B]) Data() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.raw.AsFloat32()).([]T)
	case float64:
		return any(t.raw.AsFloat64()).([]T)
	case int32:
		return any(t.raw.AsInt32()).([]T)
	case int64:
		return any(t.raw.AsInt64()).([]T)
	case uint8:
		return any(t.raw.AsUint8()).([]T)
	case bool:
		return any(t.raw.AsBool()).([]T)
	default:
		panic("unsupported type")
	}
}

// Item returns the scalar value of a 0-D tensor.
// Panics if the tensor is not a scalar.
func (t *Tensor[T, B]) Item() T {
	if len(t.Shape()) != 0 {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.Shape()))
	}
	return t.Get()
}

// Get returns the element at the given coordinates, following the tensor's
// strides and offset, so it works on views as well as dense tensors.
// Panics with *IndexError if a coordinate is out of bounds.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	value := t.Get(1, 2) // Row 1, column 2
func (t *Tensor[T, B]) Get(coords ...int) T {
	shape := t.Shape()
	if len(coords) != len(shape) {
		panic(fmt.Sprintf("expected %d coordinates, got %d", len(shape), len(coords)))
	}
	for i, c := range coords {
		if c < 0 || c >= shape[i] {
			panic(&IndexError{Index: int64(c), Axis: i, Dim: shape[i]})
		}
	}
	return t.Data()[t.raw.elemOffset(coords)]
}

// Set writes the element at the given coordinates, following the tensor's
// strides and offset. Writing through a view modifies the shared buffer.
// Panics with *IndexError if a coordinate is out of bounds.
func (t *Tensor[T, B]) Set(value T, coords ...int) {
	shape := t.Shape()
	if len(coords) != len(shape) {
		panic(fmt.Sprintf("expected %d coordinates, got %d", len(shape), len(coords)))
	}
	for i, c := range coords {
		if c < 0 || c >= shape[i] {
			panic(&IndexError{Index: int64(c), Axis: i, Dim: shape[i]})
		}
	}
	t.Data()[t.raw.elemOffset(coords)] = value
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.raw.DType(), t.raw.Shape(), t.raw.Device())
}

// Clone creates a shallow copy sharing the underlying buffer.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:          t.raw.Clone(),
		backend:      t.backend,
		grad:         nil,   // Don't clone gradient
		requiresGrad: false, // Don't clone gradient tracking
	}
}

// Copy materializes the tensor into a fresh dense buffer that shares
// nothing with this one. Views become ordinary row-major tensors.
func (t *Tensor[T, B]) Copy() *Tensor[T, B] {
	return New[T, B](t.raw.Copy(), t.backend)
}

// RequireGrad marks this tensor for gradient computation.
// Returns the tensor itself for method chaining.
func (t *Tensor[T, B]) RequireGrad() *Tensor[T, B] {
	t.requiresGrad = true
	return t
}

// RequiresGrad returns true if this tensor requires gradient computation.
func (t *Tensor[T, B]) RequiresGrad() bool {
	return t.requiresGrad
}
