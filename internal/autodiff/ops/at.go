package ops

import (
	"fmt"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// AtOp represents a strided view selection: output = At(input, indices).
//
// The forward pass allocates nothing; the output is a view sharing the input's
// storage. The backward pass maps the view gradient back onto the input's
// geometry:
//
//	gradInput = AddAt(zeros_like(input), indices, outputGrad)
//
// Every input element outside the view receives zero gradient; elements inside
// receive exactly the matching output gradient element.
type AtOp struct {
	input   *tensor.RawTensor
	indices []tensor.Index
	output  *tensor.RawTensor
}

// NewAtOp creates a new view selection operation.
func NewAtOp(input *tensor.RawTensor, indices []tensor.Index, output *tensor.RawTensor) *AtOp {
	return &AtOp{
		input:   input,
		indices: indices,
		output:  output,
	}
}

// Inputs returns the input tensor. Index descriptors carry no gradient.
func (op *AtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the selected view.
func (op *AtOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward scatters the view gradient back into a dense zero tensor shaped
// like the input, through the same index descriptors.
func (op *AtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	zeros, err := tensor.NewRaw(op.input.Shape(), outputGrad.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("at backward: %v", err))
	}
	gradInput := backend.AddAt(zeros, op.indices, outputGrad)
	return []*tensor.RawTensor{gradInput}
}
