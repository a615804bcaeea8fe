package ops

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// TakeOp represents a gather along an axis: output = Take(input, indices, axis).
//
// Backward:
//
//	gradInput = AddAtAxis(zeros_like(input), indices, axis, outputGrad)
//
// Each gathered slice routes its gradient back to the source position it was
// read from; positions gathered more than once accumulate, and positions never
// gathered stay zero. Scatter-add wraps index values exactly like the forward
// gather, so the pair stays adjoint.
//
// Example:
//
//	input: [10, 20, 30, 40]
//	indices: [2, 0, 2] along axis 0
//	output: [30, 10, 30]
//	outputGrad: [g0, g1, g2]
//	gradInput: [g1, 0, g0+g2, 0]
type TakeOp struct {
	input   *tensor.RawTensor
	indices *tensor.RawTensor
	axis    int
	output  *tensor.RawTensor
}

// NewTakeOp creates a new gather operation.
func NewTakeOp(input, indices *tensor.RawTensor, axis int, output *tensor.RawTensor) *TakeOp {
	return &TakeOp{
		input:   input,
		indices: indices,
		axis:    axis,
		output:  output,
	}
}

// Inputs returns the input tensor. The index tensor carries no gradient.
func (op *TakeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the gathered tensor.
func (op *TakeOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward scatter-adds the output gradient into a dense zero tensor shaped
// like the input, at the positions the forward pass gathered from.
func (op *TakeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	zeros, err := tensor.NewRaw(op.input.Shape(), outputGrad.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("take backward: %v", err))
	}
	gradInput := backend.AddAtAxis(zeros, op.indices, op.axis, outputGrad)
	return []*tensor.RawTensor{gradInput}
}
