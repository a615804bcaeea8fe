package tensor

import "github.com/gomlx/exceptions"

// View derives the header selected by the index descriptors, sharing r's
// backing buffer. Descriptors consume input axes left to right: a single
// index removes its axis and folds stride*position into the offset, a slice
// keeps its axis with adjusted start, length, and step, and a new-axis entry
// inserts a size-1, stride-0 axis without consuming one. Input axes beyond
// the last descriptor are kept unchanged.
//
// A single index outside [-size, size) panics with *IndexError. Consuming
// more axes than r has panics.
func (r *RawTensor) View(indices []Index) *RawTensor {
	outShape := make(Shape, 0, len(r.shape)+len(indices))
	outStride := make([]int, 0, len(r.shape)+len(indices))
	offset := r.offset
	in := 0

	for _, ix := range indices {
		switch ix.Kind() {
		case IndexSingle:
			if in >= len(r.shape) {
				exceptions.Panicf("tensor: too many indices for tensor of dimension %d", len(r.shape))
			}
			idx := ix.Value()
			dim := int64(r.shape[in])
			if idx < -dim || dim <= idx {
				panic(&IndexError{Index: idx, Axis: in, Dim: r.shape[in]})
			}
			offset += r.stride[in] * int((idx+dim)%dim)
			in++
		case IndexSlice:
			if in >= len(r.shape) {
				exceptions.Panicf("tensor: too many indices for tensor of dimension %d", len(r.shape))
			}
			rng := ix.Range()
			dim := r.shape[in]
			offset += r.stride[in] * rng.Start(dim)
			outShape = append(outShape, rng.Length(dim))
			outStride = append(outStride, r.stride[in]*int(rng.Step()))
			in++
		case IndexNewAxis:
			outShape = append(outShape, 1)
			outStride = append(outStride, 0)
		default:
			exceptions.Panicf("tensor: unknown index kind %s", ix.Kind())
		}
	}

	for ; in < len(r.shape); in++ {
		outShape = append(outShape, r.shape[in])
		outStride = append(outStride, r.stride[in])
	}
	return NewRawView(r, outShape, outStride, offset)
}
