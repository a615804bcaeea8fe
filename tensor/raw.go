// Copyright 2025 Trellis ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/trellis-ml/trellis/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape, stride, and offset information via Shape(), Strides(), Offset()
//   - Type-safe data access via AsFloat32(), AsInt64(), etc.
//   - View construction via View() and the Index descriptors
//   - Reference counting for buffers shared between views
//
// A RawTensor may be a view: its buffer can be larger than the tensor it
// describes, and Data() always returns the full backing buffer. Check
// IsContiguous() and Offset() before treating the bytes as dense.
//
// Most users should use the high-level Tensor[T, B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()  // Type-safe access
//	row := raw.View([]tensor.Index{tensor.Single(1)}) // Shares the buffer
type RawTensor = tensor.RawTensor
