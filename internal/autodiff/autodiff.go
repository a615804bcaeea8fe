// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, GPU, etc.) and adds
// gradient tracking capabilities through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (At, Take, AddAt, Add) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	// Wrap any backend with autodiff
//	cpuBackend := cpu.New()
//	autodiffBackend := autodiff.New(cpuBackend)
//
//	// Use with tensors
//	autodiffBackend.Tape().StartRecording()
//	row := x.At(tensor.Single(0)) // row = x[0]
//
//	// Compute gradients
//	gradients := autodiff.Backward(row, autodiffBackend)
//	fmt.Println(gradients[x.Raw()]) // d(row)/dx
package autodiff

import (
	"github.com/trellis-ml/trellis/internal/autodiff/ops"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Gradient operations issued inside an op's Backward run against the wrapped
// backend through this decorator while the tape is paused, so the backward
// pass never records itself.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend (CPU, GPU, etc.)
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing tape between iterations
//   - Inspecting recorded operations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// At selects a strided view and records the operation. The result shares
// storage with a, exactly as it does on the wrapped backend.
func (b *AutodiffBackend[B]) At(a *tensor.RawTensor, indices []tensor.Index) *tensor.RawTensor {
	result := b.inner.At(a, indices)

	if b.tape.IsRecording() {
		op := ops.NewAtOp(a, indices, result)
		b.tape.Record(op)
	}

	return result
}

// Take gathers along an axis and records the operation.
func (b *AutodiffBackend[B]) Take(a, indices *tensor.RawTensor, axis int) *tensor.RawTensor {
	result := b.inner.Take(a, indices, axis)

	if b.tape.IsRecording() {
		op := ops.NewTakeOp(a, indices, axis, result)
		b.tape.Record(op)
	}

	return result
}

// AddAt accumulates updates into the selected view positions and records the
// operation. Both a and the updates receive gradients.
func (b *AutodiffBackend[B]) AddAt(a *tensor.RawTensor, indices []tensor.Index, updates *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.AddAt(a, indices, updates)

	if b.tape.IsRecording() {
		op := ops.NewAddAtOp(a, indices, updates, result)
		b.tape.Record(op)
	}

	return result
}

// AddAtAxis scatter-adds updates along an axis and records the operation.
// Both a and the updates receive gradients.
func (b *AutodiffBackend[B]) AddAtAxis(a, indices *tensor.RawTensor, axis int, updates *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.AddAtAxis(a, indices, axis, updates)

	if b.tape.IsRecording() {
		op := ops.NewAddAtAxisOp(a, indices, axis, updates, result)
		b.tape.Record(op)
	}

	return result
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)

	if b.tape.IsRecording() {
		op := ops.NewAddOp(a, c, result)
		b.tape.Record(op)
	}

	return result
}
