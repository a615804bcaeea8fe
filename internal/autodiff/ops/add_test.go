package ops

import (
	"testing"

	"github.com/trellis-ml/trellis/internal/backend/cpu"
	"github.com/trellis-ml/trellis/internal/tensor"
)

// TestAddOp_Backward tests that addition passes the gradient to both
// operands unchanged.
func TestAddOp_Backward(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create a: %v", err)
	}
	b, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create b: %v", err)
	}

	output := backend.Add(a, b)

	op := NewAddOp(a, b, output)

	gradOutput, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("Failed to create gradOutput: %v", err)
	}
	gradOutData := gradOutput.AsFloat32()
	gradOutData[0], gradOutData[1], gradOutData[2] = 1, 2, 3

	grads := op.Backward(gradOutput, backend)

	if len(grads) != 2 {
		t.Fatalf("Expected 2 gradients, got %d", len(grads))
	}
	for g, grad := range grads {
		data := grad.AsFloat32()
		for i, exp := range gradOutData {
			if data[i] != exp {
				t.Errorf("grad[%d][%d] = %f, expected %f", g, i, data[i], exp)
			}
		}
	}

	inputs := op.Inputs()
	if len(inputs) != 2 {
		t.Fatalf("Expected 2 inputs, got %d", len(inputs))
	}
	if inputs[0] != a || inputs[1] != b {
		t.Errorf("Inputs() should list both operands in order")
	}
}
