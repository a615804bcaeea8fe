// Copyright 2025 Trellis ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// autodiff capabilities: At, Take, AddAt, AddAtAxis, and Add record
// themselves on the tape, and Backward replays the tape in reverse,
// scattering gather gradients and gathering scatter gradients.
//
// Example:
//
//	import (
//	    "github.com/trellis-ml/trellis/autodiff"
//	    "github.com/trellis-ml/trellis/backend/cpu"
//	    "github.com/trellis-ml/trellis/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    base := cpu.New()
//	    backend := autodiff.New(base)
//	    backend.Tape().StartRecording()
//
//	    // Operations are recorded on the tape
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4}, backend)
//	    y := x.At(tensor.Slice(1, 3))
//
//	    // Compute gradients
//	    grads := autodiff.Backward(y, backend)
//	    _ = grads[x.Raw()] // [0, 1, 1, 0]: ones inside the slice, zeros outside
//	}
package autodiff

import (
	"github.com/trellis-ml/trellis/internal/autodiff"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward seeds t's gradient with ones and walks the tape backwards,
// accumulating a gradient for every tensor that contributed to t. The
// returned map is keyed by raw tensor identity; look gradients up with
// Raw().
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
