package ops

import (
	"testing"

	"github.com/trellis-ml/trellis/internal/backend/cpu"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// TestTakeOp_Backward_1D tests the gradient of a 1D gather.
func TestTakeOp_Backward_1D(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.NewRaw(tensor.Shape{4}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create input: %v", err)
	}
	inputData := input.AsFloat32()
	inputData[0], inputData[1], inputData[2], inputData[3] = 10, 20, 30, 40

	indices, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create indices: %v", err)
	}
	idxData := indices.AsInt64()
	idxData[0], idxData[1], idxData[2] = 2, 0, 3

	output := backend.Take(input, indices, 0)

	op := NewTakeOp(input, indices, 0, output)

	gradOutput, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create gradOutput: %v", err)
	}
	gradOutData := gradOutput.AsFloat32()
	gradOutData[0], gradOutData[1], gradOutData[2] = 1, 2, 3

	grads := op.Backward(gradOutput, backend)

	if len(grads) != 1 {
		t.Fatalf("Expected 1 gradient, got %d", len(grads))
	}
	if !grads[0].Shape().Equal(tensor.Shape{4}) {
		t.Errorf("grad shape = %v, expected [4]", grads[0].Shape())
	}

	// Each output gradient lands at the position it was gathered from.
	gradData := grads[0].AsFloat32()
	expected := []float32{2, 0, 1, 3}
	for i, exp := range expected {
		if gradData[i] != exp {
			t.Errorf("grad[%d] = %f, expected %f", i, gradData[i], exp)
		}
	}
}

// TestTakeOp_Backward_DuplicateIndices tests gradient accumulation when
// the same position is gathered more than once.
func TestTakeOp_Backward_DuplicateIndices(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create input: %v", err)
	}

	indices, err := tensor.NewRaw(tensor.Shape{5}, tensor.Int64, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create indices: %v", err)
	}
	idxData := indices.AsInt64()
	idxData[0], idxData[1], idxData[2], idxData[3], idxData[4] = 0, 1, 0, 2, 0

	output := backend.Take(input, indices, 0)

	op := NewTakeOp(input, indices, 0, output)

	gradOutput, err := tensor.NewRaw(tensor.Shape{5}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create gradOutput: %v", err)
	}
	gradOutData := gradOutput.AsFloat32()
	for i := range gradOutData {
		gradOutData[i] = 1
	}

	grads := op.Backward(gradOutput, backend)

	// Position 0 was gathered three times, so it accumulates gradient 3.
	gradData := grads[0].AsFloat32()
	expected := []float32{3, 1, 1}
	for i, exp := range expected {
		if gradData[i] != exp {
			t.Errorf("grad[%d] = %f, expected %f", i, gradData[i], exp)
		}
	}
}

// TestTakeOp_Backward_Axis1 tests the gradient of a gather along the
// second axis.
func TestTakeOp_Backward_Axis1(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create input: %v", err)
	}

	indices, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create indices: %v", err)
	}
	idxData := indices.AsInt64()
	idxData[0], idxData[1] = 2, 0

	output := backend.Take(input, indices, 1)

	op := NewTakeOp(input, indices, 1, output)

	gradOutput, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create gradOutput: %v", err)
	}
	gradOutData := gradOutput.AsFloat32()
	gradOutData[0], gradOutData[1], gradOutData[2], gradOutData[3] = 1, 2, 3, 4

	grads := op.Backward(gradOutput, backend)

	if !grads[0].Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("grad shape = %v, expected [2, 3]", grads[0].Shape())
	}
	gradData := grads[0].AsFloat32()
	expected := []float32{2, 0, 1, 4, 0, 3}
	for i, exp := range expected {
		if gradData[i] != exp {
			t.Errorf("grad[%d] = %f, expected %f", i, gradData[i], exp)
		}
	}
}

// TestTakeOp_Backward_WrappedIndices tests that out-of-range indices
// scatter to the same wrapped positions the forward pass read from.
func TestTakeOp_Backward_WrappedIndices(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.NewRaw(tensor.Shape{4}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create input: %v", err)
	}

	indices, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create indices: %v", err)
	}
	idxData := indices.AsInt64()
	idxData[0], idxData[1] = -1, 4

	output := backend.Take(input, indices, 0)

	op := NewTakeOp(input, indices, 0, output)

	gradOutput, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create gradOutput: %v", err)
	}
	gradOutData := gradOutput.AsFloat32()
	gradOutData[0], gradOutData[1] = 10, 20

	grads := op.Backward(gradOutput, backend)

	// -1 wraps to 3 and 4 wraps to 0.
	gradData := grads[0].AsFloat32()
	expected := []float32{20, 0, 0, 10}
	for i, exp := range expected {
		if gradData[i] != exp {
			t.Errorf("grad[%d] = %f, expected %f", i, gradData[i], exp)
		}
	}
}

// TestTakeOp_Inputs tests that index tensors are not reported as inputs.
func TestTakeOp_Inputs(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.NewRaw(tensor.Shape{4}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create input: %v", err)
	}

	indices, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create indices: %v", err)
	}

	output := backend.Take(input, indices, 0)

	op := NewTakeOp(input, indices, 0, output)

	inputs := op.Inputs()
	if len(inputs) != 1 {
		t.Fatalf("Expected 1 input, got %d", len(inputs))
	}
	if inputs[0] != input {
		t.Errorf("Inputs()[0] is not the data tensor")
	}
	if op.Output() != output {
		t.Errorf("Output() is not the forward result")
	}
}
