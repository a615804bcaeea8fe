package cpu

import (
	"testing"

	"github.com/trellis-ml/trellis/internal/tensor"
)

func TestBackendName(t *testing.T) {
	backend := New()
	if backend.Name() != "CPU" {
		t.Errorf("Name() = %q, expected %q", backend.Name(), "CPU")
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, expected CPU", backend.Device())
	}
}

// TestAddFloat32 tests element-wise addition of dense tensors.
func TestAddFloat32(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	b := rawFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})

	result := backend.Add(a, b)

	expected := []float32{11, 22, 33}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("Add result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}

	// Operands are never written.
	if a.AsFloat32()[0] != 1 || b.AsFloat32()[0] != 10 {
		t.Errorf("Add modified an operand: a[0] = %f, b[0] = %f", a.AsFloat32()[0], b.AsFloat32()[0])
	}
}

// TestAddColumnViews tests addition of two strided column views.
func TestAddColumnViews(t *testing.T) {
	backend := New()

	base := rawFloat32(t, tensor.Shape{3, 4}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	col1 := backend.At(base, []tensor.Index{tensor.All(), tensor.Single(1)})
	col2 := backend.At(base, []tensor.Index{tensor.All(), tensor.Single(2)})

	result := backend.Add(col1, col2)

	if !result.IsContiguous() || result.Offset() != 0 {
		t.Errorf("Add result should be dense, got strides %v offset %d", result.Strides(), result.Offset())
	}
	// col1 = [1, 5, 9], col2 = [2, 6, 10]
	expected := []float32{3, 11, 19}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("AddColumnViews result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestAddReversedView tests mixing a negative-stride view with a dense operand.
func TestAddReversedView(t *testing.T) {
	backend := New()

	base := rawFloat32(t, tensor.Shape{4}, []float32{0, 1, 2, 3})
	reversed := backend.At(base, []tensor.Index{tensor.SliceStep(3, -5, -1)})
	b := rawFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})

	result := backend.Add(reversed, b)

	// reversed = [3, 2, 1, 0]
	expected := []float32{13, 22, 31, 40}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("AddReversedView result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestAddInt64 tests the integer dispatch arm.
func TestAddInt64(t *testing.T) {
	backend := New()

	a := rawInt64(t, tensor.Shape{2, 2}, []int64{1, 2, 3, 4})
	b := rawInt64(t, tensor.Shape{2, 2}, []int64{10, 20, 30, 40})

	result := backend.Add(a, b)

	expected := []int64{11, 22, 33, 44}
	resultData := result.AsInt64()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("AddInt64 result[%d] = %d, expected %d", i, resultData[i], exp)
		}
	}
}

// TestAddScalar tests addition of zero-dimensional tensors.
func TestAddScalar(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{}, []float32{2})
	b := rawFloat32(t, tensor.Shape{}, []float32{40})

	result := backend.Add(a, b)

	if !result.Shape().Equal(tensor.Shape{}) {
		t.Fatalf("AddScalar result shape = %v, expected []", result.Shape())
	}
	if result.AsFloat32()[0] != 42 {
		t.Errorf("AddScalar result = %f, expected 42", result.AsFloat32()[0])
	}
}

// TestAddEmpty tests addition of zero-element tensors.
func TestAddEmpty(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{0, 3}, nil)
	b := rawFloat32(t, tensor.Shape{0, 3}, nil)

	result := backend.Add(a, b)

	if !result.Shape().Equal(tensor.Shape{0, 3}) {
		t.Errorf("AddEmpty result shape = %v, expected [0, 3]", result.Shape())
	}
	if result.NumElements() != 0 {
		t.Errorf("AddEmpty result has %d elements, expected 0", result.NumElements())
	}
}

// TestAddShapeMismatchPanics tests that shapes must match exactly.
func TestAddShapeMismatchPanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, nil)
	b := rawFloat32(t, tensor.Shape{4}, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Add with mismatched shapes should panic")
		}
		shapeErr, ok := r.(*tensor.ShapeError)
		if !ok {
			t.Fatalf("expected *tensor.ShapeError, got %T: %v", r, r)
		}
		if shapeErr.Op != "add" {
			t.Errorf("ShapeError.Op = %q, expected %q", shapeErr.Op, "add")
		}
	}()

	backend.Add(a, b)
}

// TestAddSameShapeDifferentRank tests that a [3] and a [1, 3] never mix.
func TestAddSameShapeDifferentRank(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	b := rawFloat32(t, tensor.Shape{1, 3}, []float32{1, 2, 3})

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Add of [3] and [1, 3] should panic")
		}
	}()

	backend.Add(a, b)
}

// TestAddDTypeMismatchPanics tests operand dtype agreement.
func TestAddDTypeMismatchPanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, nil)
	b := rawInt32(t, tensor.Shape{3}, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Add with mismatched dtypes should panic")
		}
		dtypeErr, ok := r.(*tensor.DTypeError)
		if !ok {
			t.Fatalf("expected *tensor.DTypeError, got %T: %v", r, r)
		}
		if dtypeErr.Want != tensor.Float32 || dtypeErr.Got != tensor.Int32 {
			t.Errorf("DTypeError = %+v, expected want float32 got int32", dtypeErr)
		}
	}()

	backend.Add(a, b)
}

// TestAddBoolPanics tests that bool tensors have no addition.
func TestAddBoolPanics(t *testing.T) {
	backend := New()

	a := rawBool(t, tensor.Shape{2}, []bool{true, false})
	b := rawBool(t, tensor.Shape{2}, []bool{false, true})

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Add of bool tensors should panic")
		}
	}()

	backend.Add(a, b)
}
