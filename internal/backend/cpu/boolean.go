package cpu

import (
	"github.com/trellis-ml/trellis/internal/parallel"
)

// Boolean tensors support gather but not arithmetic: there is no meaningful
// accumulation for bool, so scatter-add rejects the dtype at dispatch.

func takeBool(dst, src []bool, idx []int64, outerPos, innerPos []int, axisStride int, par parallel.Config) {
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
