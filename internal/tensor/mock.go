package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple in-package backend for testing the typed tensor
// API without importing a real backend package. It implements the kernel set
// naively, trading speed for obviousness. Bool tensors are not supported.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// At returns a view of a through the shared header arithmetic.
func (m *MockBackend) At(a *RawTensor, indices []Index) *RawTensor {
	return a.View(indices)
}

// Add performs strict-shape element-wise addition.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	if a.DType() != b.DType() {
		panic(&DTypeError{Op: "add", Want: a.DType(), Got: b.DType()})
	}
	if !a.Shape().Equal(b.Shape()) {
		panic(&ShapeError{Op: "add", Want: a.Shape(), Got: b.Shape()})
	}

	out, err := NewRaw(a.Shape(), a.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	av := m.readFloat64(a)
	bv := m.readFloat64(b)
	for i := range av {
		av[i] += bv[i]
	}
	m.writeFloat64(out, av)
	return out
}

// Take gathers slices of a along axis at the given positions. Index values
// wrap modulo the axis size.
func (m *MockBackend) Take(a, indices *RawTensor, axis int) *RawTensor {
	if indices.DType() != Int64 {
		panic(&DTypeError{Op: "take", Want: Int64, Got: indices.DType()})
	}
	shape := a.Shape()
	axis = NormalizeAxis(axis, len(shape))

	outShape := make(Shape, 0, len(shape)+len(indices.Shape())-1)
	outShape = append(outShape, shape[:axis]...)
	outShape = append(outShape, indices.Shape()...)
	outShape = append(outShape, shape[axis+1:]...)

	out, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	idx := m.wrappedIndices(indices, shape[axis], axis)
	outer, inner := 1, 1
	for _, d := range shape[:axis] {
		outer *= d
	}
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	n := shape[axis]

	src := m.readFloat64(a)
	dst := make([]float64, outShape.NumElements())
	for o := 0; o < outer; o++ {
		for j, ix := range idx {
			copy(dst[(o*len(idx)+j)*inner:(o*len(idx)+j+1)*inner],
				src[(o*n+int(ix))*inner:(o*n+int(ix)+1)*inner])
		}
	}
	m.writeFloat64(out, dst)
	return out
}

// AddAt returns a copy of a with b added into the region selected by the
// index descriptors.
func (m *MockBackend) AddAt(a *RawTensor, indices []Index, b *RawTensor) *RawTensor {
	if a.DType() != b.DType() {
		panic(&DTypeError{Op: "add_at", Want: a.DType(), Got: b.DType()})
	}

	out := a.Copy()
	view := out.View(indices)
	if !view.Shape().Equal(b.Shape()) {
		shape := view.Shape()
		view.Release()
		panic(&ShapeError{Op: "add_at", Want: shape, Got: b.Shape()})
	}

	vv := m.readFloat64(view)
	bv := m.readFloat64(b)
	for i := range vv {
		vv[i] += bv[i]
	}
	m.writeFloat64(view, vv)
	view.Release()
	return out
}

// AddAtAxis returns a copy of a with the slices of b accumulated along axis
// at the given positions. Repeated positions sum; index values wrap modulo
// the axis size.
func (m *MockBackend) AddAtAxis(a, indices *RawTensor, axis int, b *RawTensor) *RawTensor {
	if indices.DType() != Int64 {
		panic(&DTypeError{Op: "add_at", Want: Int64, Got: indices.DType()})
	}
	if a.DType() != b.DType() {
		panic(&DTypeError{Op: "add_at", Want: a.DType(), Got: b.DType()})
	}
	shape := a.Shape()
	axis = NormalizeAxis(axis, len(shape))

	expected := make(Shape, 0, len(shape)+len(indices.Shape())-1)
	expected = append(expected, shape[:axis]...)
	expected = append(expected, indices.Shape()...)
	expected = append(expected, shape[axis+1:]...)
	if !expected.Equal(b.Shape()) {
		panic(&ShapeError{Op: "add_at", Want: expected, Got: b.Shape()})
	}

	idx := m.wrappedIndices(indices, shape[axis], axis)
	outer, inner := 1, 1
	for _, d := range shape[:axis] {
		outer *= d
	}
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	n := shape[axis]

	out := a.Copy()
	dst := m.readFloat64(out)
	src := m.readFloat64(b)
	for o := 0; o < outer; o++ {
		for j, ix := range idx {
			for i := 0; i < inner; i++ {
				dst[(o*n+int(ix))*inner+i] += src[(o*len(idx)+j)*inner+i]
			}
		}
	}
	m.writeFloat64(out, dst)
	return out
}

// wrappedIndices reads an Int64 index tensor and wraps every value modulo
// dim. A nonempty index set over an empty axis has no valid positions.
func (m *MockBackend) wrappedIndices(indices *RawTensor, dim, axis int) []int64 {
	n := indices.NumElements()
	out := make([]int64, n)
	data := indices.AsInt64()
	coords := make([]int, len(indices.Shape()))
	for i := 0; i < n; i++ {
		v := data[indices.elemOffset(coords)]
		if dim == 0 {
			panic(&IndexError{Index: v, Axis: axis, Dim: 0})
		}
		out[i] = ((v % int64(dim)) + int64(dim)) % int64(dim)
		incrementCoords(coords, indices.Shape())
	}
	return out
}

// readFloat64 returns r's logical elements in row-major order as float64,
// following strides and offset.
func (m *MockBackend) readFloat64(r *RawTensor) []float64 {
	n := r.NumElements()
	out := make([]float64, n)
	coords := make([]int, len(r.Shape()))
	for i := 0; i < n; i++ {
		pos := r.elemOffset(coords)
		switch r.DType() {
		case Float32:
			out[i] = float64(r.AsFloat32()[pos])
		case Float64:
			out[i] = r.AsFloat64()[pos]
		case Int32:
			out[i] = float64(r.AsInt32()[pos])
		case Int64:
			out[i] = float64(r.AsInt64()[pos])
		case Uint8:
			out[i] = float64(r.AsUint8()[pos])
		default:
			panic(fmt.Sprintf("mock backend does not support dtype %s", r.DType()))
		}
		incrementCoords(coords, r.Shape())
	}
	return out
}

// writeFloat64 writes values into r's logical elements in row-major order,
// following strides and offset.
func (m *MockBackend) writeFloat64(r *RawTensor, values []float64) {
	coords := make([]int, len(r.Shape()))
	for i := range values {
		pos := r.elemOffset(coords)
		switch r.DType() {
		case Float32:
			r.AsFloat32()[pos] = float32(values[i])
		case Float64:
			r.AsFloat64()[pos] = values[i]
		case Int32:
			r.AsInt32()[pos] = int32(values[i])
		case Int64:
			r.AsInt64()[pos] = int64(values[i])
		case Uint8:
			r.AsUint8()[pos] = uint8(values[i])
		default:
			panic(fmt.Sprintf("mock backend does not support dtype %s", r.DType()))
		}
		incrementCoords(coords, r.Shape())
	}
}
