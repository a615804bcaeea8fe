package cpu

import (
	"github.com/trellis-ml/trellis/internal/parallel"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// Float64 operations follow the same pattern as float32

func addVectorizedFloat64(dst, a, b []float64) {
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

//nolint:dupl // Type-specific strided addition for float64
func addStridedFloat64(dst, a, b []float64, shape tensor.Shape, aStrides, bStrides []int, aOff, bOff int) {
	n := shape.NumElements()
	coords := make([]int, len(shape))
	pa, pb := aOff, bOff
	for i := 0; i < n; i++ {
		dst[i] = a[pa] + b[pb]
		for d := len(shape) - 1; d >= 0; d-- {
			coords[d]++
			pa += aStrides[d]
			pb += bStrides[d]
			if coords[d] < shape[d] {
				break
			}
			coords[d] = 0
			pa -= aStrides[d] * shape[d]
			pb -= bStrides[d] * shape[d]
		}
	}
}

//nolint:dupl // Type-specific strided accumulation for float64
func addAssignStridedFloat64(dst, src []float64, shape tensor.Shape, dstStrides, srcStrides []int, dstOff, srcOff int) {
	n := shape.NumElements()
	coords := make([]int, len(shape))
	pd, ps := dstOff, srcOff
	for i := 0; i < n; i++ {
		dst[pd] += src[ps]
		for d := len(shape) - 1; d >= 0; d-- {
			coords[d]++
			pd += dstStrides[d]
			ps += srcStrides[d]
			if coords[d] < shape[d] {
				break
			}
			coords[d] = 0
			pd -= dstStrides[d] * shape[d]
			ps -= srcStrides[d] * shape[d]
		}
	}
}

func takeFloat64(dst, src []float64, idx []int64, outerPos, innerPos []int, axisStride int, par parallel.Config) {
	inner := len(innerPos)
	blocks := len(outerPos) * len(idx)
	parallel.For(blocks, func(bk int) {
		o := bk / len(idx)
		j := bk % len(idx)
		base := outerPos[o] + int(idx[j])*axisStride
		d := bk * inner
		for i, p := range innerPos {
			dst[d+i] = src[base+p]
		}
	}, par)
}

func scatterAddFloat64(dst, src []float64, idx []int64, n, inner int, outerPos, midPos, innerPos []int) {
	for o, op := range outerPos {
		for j, ix := range idx {
			d := (o*n + int(ix)) * inner
			s := op + midPos[j]
			for i, p := range innerPos {
				dst[d+i] += src[s+p]
			}
		}
	}
}
