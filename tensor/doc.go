// Copyright 2025 Trellis ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the Trellis framework.
//
// # Overview
//
// Tensors are the fundamental data structure in Trellis. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - View-based indexing with exact stride and offset arithmetic
//   - Gather and scatter-add along arbitrary axes
//   - Device abstraction (CPU, WebGPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/trellis-ml/trellis/backend/cpu"
//	    "github.com/trellis-ml/trellis/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros[float32](tensor.Shape{4, 6}, backend)
//
//	    // Views share storage with the base tensor
//	    row := x.At(tensor.Single(1))
//	    window := x.At(tensor.Slice(1, 3), tensor.SliceStep(0, 6, 2))
//	}
//
// # Views and Indexing
//
// At accepts one Index descriptor per axis and returns a view: a tensor
// that addresses the same buffer through its own shape, strides, and
// offset. No elements are copied. Descriptors:
//
//	x.At(tensor.Single(2))            // drop an axis at position 2
//	x.At(tensor.Slice(1, 4))          // keep positions 1..3
//	x.At(tensor.SliceStep(5, -7, -1)) // reversed axis (negative stride)
//	x.At(tensor.All())                // whole axis
//	x.At(tensor.NewAxis())            // insert a size-1 axis
//
// Single positions count from the end when negative and panic with
// *IndexError when out of range. Slice bounds clamp the way Python
// slices do, so a slice never fails.
//
// # Gather and Scatter
//
// Take gathers slices along an axis at positions named by an int64
// index tensor; AddAt and AddAtAxis accumulate updates back, so each
// gather has a matching scatter-add:
//
//	rows := x.Take(idx, 0)              // pick rows, idx may repeat
//	y := x.AddAt(descriptors, updates)  // add into a view-shaped region
//	y := x.AddAtAxis(idx, 0, updates)   // repeated rows sum
//
// Take and AddAtAxis wrap index values modulo the axis size. All three
// return fresh tensors; the input is never modified.
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//   - uint8 (unsigned integers, useful for images)
//   - bool (boolean masks)
//
// Operations require exact dtype matches; nothing coerces.
//
// # Device Support
//
// Tensors can reside on different devices:
//   - CPU: Pure Go implementation
//   - WebGPU: Zero-CGO GPU acceleration (Windows, float32 compute)
//   - CUDA, Vulkan, Metal: planned
//
// # Automatic Differentiation
//
// Wrapping a backend in autodiff.New records At, Take, AddAt, AddAtAxis,
// and Add on a gradient tape. Backward replays the tape in reverse:
// gather adjoints scatter, scatter adjoints gather, and views route
// gradients into the positions they came from. See the autodiff package.
//
// # Memory Management
//
// Views share reference-counted buffers with their base tensors; a
// buffer is released when its last view drops it. Operations that
// return fresh tensors (Take, AddAt, AddAtAxis, Add) allocate dense
// storage.
package tensor
