// Package cpu implements the pure Go CPU backend for the tensor kernel set.
package cpu

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/parallel"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// CPUBackend implements tensor.Backend with pure Go kernels. Large gathers
// are split across goroutines; scatter-accumulation stays sequential so
// repeated indices sum deterministically.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend. Parallelism is configured from the
// environment (TRELLIS_NUM_WORKERS).
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.FromEnv(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition. Shapes and dtypes must match exactly;
// there is no broadcasting. Operands may be views with arbitrary strides.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(&tensor.DTypeError{Op: "add", Want: a.DType(), Got: b.DType()})
	}
	if !a.Shape().Equal(b.Shape()) {
		panic(&tensor.ShapeError{Op: "add", Want: a.Shape(), Got: b.Shape()})
	}

	result, err := tensor.NewRaw(a.Shape(), a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}
	if result.NumElements() == 0 {
		return result
	}

	if a.IsContiguous() && b.IsContiguous() {
		cpu.addContiguous(result, a, b)
	} else {
		cpu.addStrided(result, a, b)
	}
	return result
}

// addContiguous adds dense operands with flat loops.
func (cpu *CPUBackend) addContiguous(dst, a, b *tensor.RawTensor) {
	n := dst.NumElements()
	switch dst.DType() {
	case tensor.Float32:
		addVectorizedFloat32(dst.AsFloat32(), a.AsFloat32()[a.Offset():a.Offset()+n], b.AsFloat32()[b.Offset():b.Offset()+n])
	case tensor.Float64:
		addVectorizedFloat64(dst.AsFloat64(), a.AsFloat64()[a.Offset():a.Offset()+n], b.AsFloat64()[b.Offset():b.Offset()+n])
	case tensor.Int32:
		addVectorizedInt32(dst.AsInt32(), a.AsInt32()[a.Offset():a.Offset()+n], b.AsInt32()[b.Offset():b.Offset()+n])
	case tensor.Int64:
		addVectorizedInt64(dst.AsInt64(), a.AsInt64()[a.Offset():a.Offset()+n], b.AsInt64()[b.Offset():b.Offset()+n])
	case tensor.Uint8:
		addVectorizedUint8(dst.AsUint8(), a.AsUint8()[a.Offset():a.Offset()+n], b.AsUint8()[b.Offset():b.Offset()+n])
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", dst.DType()))
	}
}

// addStrided adds operands through their stride headers.
func (cpu *CPUBackend) addStrided(dst, a, b *tensor.RawTensor) {
	shape := dst.Shape()
	switch dst.DType() {
	case tensor.Float32:
		addStridedFloat32(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), shape, a.Strides(), b.Strides(), a.Offset(), b.Offset())
	case tensor.Float64:
		addStridedFloat64(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), shape, a.Strides(), b.Strides(), a.Offset(), b.Offset())
	case tensor.Int32:
		addStridedInt32(dst.AsInt32(), a.AsInt32(), b.AsInt32(), shape, a.Strides(), b.Strides(), a.Offset(), b.Offset())
	case tensor.Int64:
		addStridedInt64(dst.AsInt64(), a.AsInt64(), b.AsInt64(), shape, a.Strides(), b.Strides(), a.Offset(), b.Offset())
	case tensor.Uint8:
		addStridedUint8(dst.AsUint8(), a.AsUint8(), b.AsUint8(), shape, a.Strides(), b.Strides(), a.Offset(), b.Offset())
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", dst.DType()))
	}
}

// addAssign accumulates src into dst element-wise through both stride
// headers. dst is typically a view into a freshly copied buffer.
func (cpu *CPUBackend) addAssign(dst, src *tensor.RawTensor) {
	shape := dst.Shape()
	switch dst.DType() {
	case tensor.Float32:
		addAssignStridedFloat32(dst.AsFloat32(), src.AsFloat32(), shape, dst.Strides(), src.Strides(), dst.Offset(), src.Offset())
	case tensor.Float64:
		addAssignStridedFloat64(dst.AsFloat64(), src.AsFloat64(), shape, dst.Strides(), src.Strides(), dst.Offset(), src.Offset())
	case tensor.Int32:
		addAssignStridedInt32(dst.AsInt32(), src.AsInt32(), shape, dst.Strides(), src.Strides(), dst.Offset(), src.Offset())
	case tensor.Int64:
		addAssignStridedInt64(dst.AsInt64(), src.AsInt64(), shape, dst.Strides(), src.Strides(), dst.Offset(), src.Offset())
	case tensor.Uint8:
		addAssignStridedUint8(dst.AsUint8(), src.AsUint8(), shape, dst.Strides(), src.Strides(), dst.Offset(), src.Offset())
	default:
		panic(fmt.Sprintf("add_at: unsupported dtype %s", dst.DType()))
	}
}
