package ops

import "github.com/trellis-ml/trellis/internal/tensor"

// AddAtOp represents view-directed accumulation: output = AddAt(input, indices, updates).
//
// The output is input with updates added at the positions the index
// descriptors select. Both operands are differentiable:
//
//	gradInput   = outputGrad                 (the op is the identity on input)
//	gradUpdates = At(outputGrad, indices)    (each update lands on one position)
type AddAtOp struct {
	input   *tensor.RawTensor
	indices []tensor.Index
	updates *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewAddAtOp creates a new view-directed accumulation operation.
func NewAddAtOp(input *tensor.RawTensor, indices []tensor.Index, updates, output *tensor.RawTensor) *AddAtOp {
	return &AddAtOp{
		input:   input,
		indices: indices,
		updates: updates,
		output:  output,
	}
}

// Inputs returns [input, updates].
func (op *AddAtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.updates}
}

// Output returns the accumulated tensor.
func (op *AddAtOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward passes the output gradient through unchanged for input, and selects
// the gradient view at the update positions for updates.
func (op *AddAtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradUpdates := backend.At(outputGrad, op.indices)
	return []*tensor.RawTensor{outputGrad, gradUpdates}
}

// AddAtAxisOp represents scatter-add along an axis:
// output = AddAtAxis(input, indices, axis, updates).
//
// Backward mirrors TakeOp with the roles of gather and scatter swapped:
//
//	gradInput   = outputGrad
//	gradUpdates = Take(outputGrad, indices, axis)
//
// A position written by several updates hands the same gradient slice to each
// of them, which is exactly the derivative of their sum.
type AddAtAxisOp struct {
	input   *tensor.RawTensor
	indices *tensor.RawTensor
	axis    int
	updates *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewAddAtAxisOp creates a new scatter-add operation.
func NewAddAtAxisOp(input, indices *tensor.RawTensor, axis int, updates, output *tensor.RawTensor) *AddAtAxisOp {
	return &AddAtAxisOp{
		input:   input,
		indices: indices,
		axis:    axis,
		updates: updates,
		output:  output,
	}
}

// Inputs returns [input, updates]. The index tensor carries no gradient.
func (op *AddAtAxisOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.updates}
}

// Output returns the scattered tensor.
func (op *AddAtAxisOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward passes the output gradient through unchanged for input, and gathers
// it at the scattered positions for updates.
func (op *AddAtAxisOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradUpdates := backend.Take(outputGrad, op.indices, op.axis)
	return []*tensor.RawTensor{outputGrad, gradUpdates}
}
