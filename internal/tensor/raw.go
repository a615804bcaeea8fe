package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted storage block. Views share it; the
// count tracks how many headers alias the same memory.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone and view creation).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// isUnique returns true if this buffer has only one reference.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is the low-level tensor representation: a header describing how
// to walk a shared buffer. The element at coordinates (c0, ..., ck) lives at
// buffer position offset + sum(ci * stride[i]), counted in elements. Strides
// may be negative or zero, so views can reverse or repeat axes without
// copying.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer
	shape  Shape         // Tensor dimensions
	stride []int         // Per-axis element strides (row-major when dense)
	dtype  DataType      // Runtime type information
	device Device        // Compute device
	offset int           // Element offset of the first logical element
}

// NewRaw creates a dense row-major RawTensor with the given shape and type.
// The buffer is zero-filled.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}

	numElements := shape.NumElements()
	byteSize := numElements * dtype.Size()

	return &RawTensor{
		buffer: newTensorBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// NewRawView creates a tensor header over base's buffer with the given
// shape, strides, and element offset. The buffer is retained, never copied;
// writes through the view are visible to base and every other view of the
// same buffer.
func NewRawView(base *RawTensor, shape Shape, stride []int, offset int) *RawTensor {
	if len(shape) != len(stride) {
		panic(fmt.Sprintf("view: %d strides for %d dimensions", len(stride), len(shape)))
	}
	base.buffer.addRef()
	return &RawTensor{
		buffer: base.buffer,
		shape:  shape.Clone(),
		stride: append([]int(nil), stride...),
		dtype:  base.dtype,
		device: base.device,
		offset: offset,
	}
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's per-axis element strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the element offset of the first logical element within the
// backing buffer.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the logical data size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// IsContiguous reports whether the strides are dense row-major, meaning the
// logical elements occupy the buffer positions [Offset(), Offset()+NumElements())
// in order.
func (r *RawTensor) IsContiguous() bool {
	computed := r.shape.ComputeStrides()
	for i, s := range r.stride {
		if s != computed[i] {
			return false
		}
	}
	return true
}

// elemOffset returns the buffer position (in elements) of the element at the
// given coordinates. Coordinates must already be validated.
func (r *RawTensor) elemOffset(coords []int) int {
	pos := r.offset
	for d, c := range coords {
		pos += c * r.stride[d]
	}
	return pos
}

// incrementCoords advances coords one step in row-major order over shape.
func incrementCoords(coords []int, shape Shape) {
	for d := len(coords) - 1; d >= 0; d-- {
		coords[d]++
		if coords[d] < shape[d] {
			return
		}
		coords[d] = 0
	}
}

// Data returns the entire backing buffer as bytes. The tensor's first
// logical element sits Offset()*DType().Size() bytes in; views with negative
// strides address positions before it, which is why the whole buffer is
// exposed rather than a tail slice.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// AsFloat32 interprets the entire backing buffer as []float32. Index with
// buffer positions (offset plus stride arithmetic), not logical element
// numbers. Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	if len(r.buffer.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buffer.data[0])), len(r.buffer.data)/4)
}

// AsFloat64 interprets the entire backing buffer as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	if len(r.buffer.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.buffer.data[0])), len(r.buffer.data)/8)
}

// AsInt32 interprets the entire backing buffer as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	if len(r.buffer.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.buffer.data[0])), len(r.buffer.data)/4)
}

// AsInt64 interprets the entire backing buffer as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	if len(r.buffer.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.buffer.data[0])), len(r.buffer.data)/8)
}

// AsUint8 interprets the entire backing buffer as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.buffer.data // Already []byte = []uint8
}

// AsBool interprets the entire backing buffer as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	if r.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not bool", r.dtype))
	}
	if len(r.buffer.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer
	return unsafe.Slice((*bool)(unsafe.Pointer(&r.buffer.data[0])), len(r.buffer.data))
}

// Clone creates a shallow copy of the RawTensor. The buffer is shared and
// its reference count incremented; the header (shape, strides, offset) is
// copied.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset,
	}
}

// Copy materializes the tensor into a fresh dense row-major buffer. The
// result shares nothing with r; writes to either are invisible to the other.
func (r *RawTensor) Copy() *RawTensor {
	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("copy: %v", err))
	}

	es := r.dtype.Size()
	if r.IsContiguous() {
		start := r.offset * es
		copy(out.buffer.data, r.buffer.data[start:start+r.ByteSize()])
		return out
	}

	n := r.NumElements()
	if n == 0 {
		return out
	}
	coords := make([]int, len(r.shape))
	for i := 0; i < n; i++ {
		src := r.elemOffset(coords)
		copy(out.buffer.data[i*es:(i+1)*es], r.buffer.data[src*es:(src+1)*es])
		incrementCoords(coords, r.shape)
	}
	return out
}

// Release decrements the buffer's reference count and deallocates when it
// reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this header holds the only reference to the
// buffer, meaning no view or clone can observe a write through it.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// SharesBufferWith reports whether two headers alias the same backing
// buffer.
func (r *RawTensor) SharesBufferWith(other *RawTensor) bool {
	return r.buffer == other.buffer
}
