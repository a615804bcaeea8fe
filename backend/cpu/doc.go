// Copyright 2025 Trellis ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Stride-aware view kernels (At shares storage, never copies)
//   - Gather and scatter-add along arbitrary axes
//   - All data types: float32, float64, int32, int64, uint8, bool
//
// # Basic Usage
//
//	import (
//	    "github.com/trellis-ml/trellis/backend/cpu"
//	    "github.com/trellis-ml/trellis/tensor"
//	)
//
//	func main() {
//	    // Create CPU backend
//	    backend := cpu.New()
//
//	    // Use with tensors
//	    x := tensor.Zeros[float32](tensor.Shape{4, 6}, backend)
//	    row := x.At(tensor.Single(1))
//	    y := x.AddAt([]tensor.Index{tensor.Single(1)}, updates)
//	}
//
// # Performance
//
// Gather and scatter kernels walk memory in output order and split
// across goroutines once the element count justifies the fan-out cost.
// Small tensors run single-threaded to avoid scheduling overhead.
//
// For GPU acceleration, see the webgpu package.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
