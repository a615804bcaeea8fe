package cpu

import (
	"math"
	"testing"

	"github.com/trellis-ml/trellis/internal/tensor"
)

func rawFloat32(t *testing.T, shape tensor.Shape, values []float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(r.AsFloat32(), values)
	return r
}

func rawFloat64(t *testing.T, shape tensor.Shape, values []float64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(r.AsFloat64(), values)
	return r
}

func rawInt32(t *testing.T, shape tensor.Shape, values []int32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(r.AsInt32(), values)
	return r
}

func rawInt64(t *testing.T, shape tensor.Shape, values []int64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(r.AsInt64(), values)
	return r
}

func rawUint8(t *testing.T, shape tensor.Shape, values []uint8) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Uint8, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(r.AsUint8(), values)
	return r
}

func rawBool(t *testing.T, shape tensor.Shape, values []bool) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Bool, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	copy(r.AsBool(), values)
	return r
}

// TestAtReturnsSharedView tests that At produces a view over the same buffer.
func TestAtReturnsSharedView(t *testing.T) {
	backend := New()

	base := rawFloat32(t, tensor.Shape{3, 4}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	row := backend.At(base, []tensor.Index{tensor.Single(1)})

	if !row.Shape().Equal(tensor.Shape{4}) {
		t.Fatalf("At result shape = %v, expected [4]", row.Shape())
	}
	if !row.SharesBufferWith(base) {
		t.Errorf("At result should share storage with its input")
	}

	// Writing through the view must be visible in the base tensor.
	row.AsFloat32()[row.Offset()] = 99
	if base.AsFloat32()[4] != 99 {
		t.Errorf("write through view not visible in base: got %f, expected 99", base.AsFloat32()[4])
	}
}

// TestTake1D tests gather on 1D tensors.
func TestTake1D(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})
	index := rawInt64(t, tensor.Shape{3}, []int64{2, 0, 3})

	result := backend.Take(input, index, 0)

	expected := []float32{30, 10, 40}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("Take1D result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTakeWrapsOutOfRange tests that index values wrap modulo the axis length.
func TestTakeWrapsOutOfRange(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})
	// -1 -> 3, 4 -> 0, -5 -> 3, 6 -> 2
	index := rawInt64(t, tensor.Shape{4}, []int64{-1, 4, -5, 6})

	result := backend.Take(input, index, 0)

	expected := []float32{40, 10, 40, 30}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("TakeWraps result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTake2DAxis0 tests gathering whole rows.
func TestTake2DAxis0(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{3, 2}, []float32{0, 1, 2, 3, 4, 5})
	index := rawInt64(t, tensor.Shape{3}, []int64{2, 0, 2})

	result := backend.Take(input, index, 0)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Take2D result shape = %v, expected [3, 2]", result.Shape())
	}
	expected := []float32{4, 5, 0, 1, 4, 5}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("Take2D result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTakeMatrixIndices tests that the index shape is spliced into the result
// shape: a [2, 3] input taken along axis 1 with [2, 2] indices gives [2, 2, 2].
func TestTakeMatrixIndices(t *testing.T) {
	backend := New()

	// Input: [[10, 20, 30],
	//         [40, 50, 60]]
	input := rawFloat32(t, tensor.Shape{2, 3}, []float32{10, 20, 30, 40, 50, 60})
	index := rawInt64(t, tensor.Shape{2, 2}, []int64{2, 0, 1, 2})

	result := backend.Take(input, index, 1)

	if !result.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("TakeMatrixIndices result shape = %v, expected [2, 2, 2]", result.Shape())
	}
	// result[i, j, k] = input[i, index[j, k]]
	expected := []float32{30, 10, 20, 30, 60, 40, 50, 60}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("TakeMatrixIndices result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTakeNegativeAxis tests take with axis counted from the end.
func TestTakeNegativeAxis(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{3, 4}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	index := rawInt64(t, tensor.Shape{2}, []int64{3, 0})

	result := backend.Take(input, index, -1)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("TakeNegativeAxis result shape = %v, expected [3, 2]", result.Shape())
	}
	expected := []float32{3, 0, 7, 4, 11, 8}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("TakeNegativeAxis result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTakeFromReversedView tests gathering out of a negative-stride view.
func TestTakeFromReversedView(t *testing.T) {
	backend := New()

	base := rawFloat32(t, tensor.Shape{6}, []float32{0, 1, 2, 3, 4, 5})
	reversed := backend.At(base, []tensor.Index{tensor.SliceStep(math.MaxInt64, math.MinInt64, -1)})
	index := rawInt64(t, tensor.Shape{3}, []int64{0, 2, 5})

	result := backend.Take(reversed, index, 0)

	// reversed = [5, 4, 3, 2, 1, 0]
	expected := []float32{5, 3, 0}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("TakeFromReversedView result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTakeStridedIndices tests that index values are read through the index
// tensor's strides, not from its flat buffer prefix.
func TestTakeStridedIndices(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})
	idxBase := rawInt64(t, tensor.Shape{4}, []int64{0, 9, 2, 9})
	// Every other value: [0, 2]. A flat read would see [0, 9] instead.
	index := backend.At(idxBase, []tensor.Index{tensor.SliceStep(0, 4, 2)})

	result := backend.Take(input, index, 0)

	expected := []float32{10, 30}
	resultData := result.AsFloat32()
	for i, exp := range expected {
		if resultData[i] != exp {
			t.Errorf("TakeStridedIndices result[%d] = %f, expected %f", i, resultData[i], exp)
		}
	}
}

// TestTakeEmptyIndices tests take with an empty index tensor.
func TestTakeEmptyIndices(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	index := rawInt64(t, tensor.Shape{0}, nil)

	result := backend.Take(input, index, 0)

	if !result.Shape().Equal(tensor.Shape{0}) {
		t.Errorf("TakeEmptyIndices result shape = %v, expected [0]", result.Shape())
	}
	if result.NumElements() != 0 {
		t.Errorf("TakeEmptyIndices result has %d elements, expected 0", result.NumElements())
	}
}

// TestTakeEmptyAxisPanics tests that any index value against a size-0 axis
// panics: there is no position it could wrap to.
func TestTakeEmptyAxisPanics(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{0}, nil)
	index := rawInt64(t, tensor.Shape{1}, []int64{0})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Take on an empty axis should panic")
		}
		indexErr, ok := r.(*tensor.IndexError)
		if !ok {
			t.Fatalf("expected *tensor.IndexError, got %T: %v", r, r)
		}
		if indexErr.Dim != 0 || indexErr.Axis != 0 {
			t.Errorf("IndexError = %+v, expected axis 0 with size 0", indexErr)
		}
	}()

	backend.Take(input, index, 0)
}

// TestTakeIndexDTypePanics tests that non-int64 indices are rejected.
func TestTakeIndexDTypePanics(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	index := rawInt32(t, tensor.Shape{1}, []int32{0})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Take with int32 indices should panic")
		}
		dtypeErr, ok := r.(*tensor.DTypeError)
		if !ok {
			t.Fatalf("expected *tensor.DTypeError, got %T: %v", r, r)
		}
		if dtypeErr.Want != tensor.Int64 || dtypeErr.Got != tensor.Int32 {
			t.Errorf("DTypeError = %+v, expected want int64 got int32", dtypeErr)
		}
	}()

	backend.Take(input, index, 0)
}

// TestTakeInvalidAxisPanics tests axis validation.
func TestTakeInvalidAxisPanics(t *testing.T) {
	backend := New()

	input := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	index := rawInt64(t, tensor.Shape{1}, []int64{0})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Take with axis 2 on a 1D tensor should panic")
		}
		if _, ok := r.(*tensor.AxisError); !ok {
			t.Fatalf("expected *tensor.AxisError, got %T: %v", r, r)
		}
	}()

	backend.Take(input, index, 2)
}

// TestTakeOtherDTypes tests the remaining dtype dispatch arms.
func TestTakeOtherDTypes(t *testing.T) {
	backend := New()
	index := rawInt64(t, tensor.Shape{2}, []int64{2, 0})

	f64 := backend.Take(rawFloat64(t, tensor.Shape{3}, []float64{1.5, 2.5, 3.5}), index, 0)
	if d := f64.AsFloat64(); d[0] != 3.5 || d[1] != 1.5 {
		t.Errorf("float64 take = %v, expected [3.5, 1.5]", d)
	}

	i32 := backend.Take(rawInt32(t, tensor.Shape{3}, []int32{7, 8, 9}), index, 0)
	if d := i32.AsInt32(); d[0] != 9 || d[1] != 7 {
		t.Errorf("int32 take = %v, expected [9, 7]", d)
	}

	i64 := backend.Take(rawInt64(t, tensor.Shape{3}, []int64{7, 8, 9}), index, 0)
	if d := i64.AsInt64(); d[0] != 9 || d[1] != 7 {
		t.Errorf("int64 take = %v, expected [9, 7]", d)
	}

	u8 := backend.Take(rawUint8(t, tensor.Shape{3}, []uint8{7, 8, 9}), index, 0)
	if d := u8.AsUint8(); d[0] != 9 || d[1] != 7 {
		t.Errorf("uint8 take = %v, expected [9, 7]", d)
	}

	b := backend.Take(rawBool(t, tensor.Shape{3}, []bool{true, false, true}), index, 0)
	if d := b.AsBool(); d[0] != true || d[1] != true {
		t.Errorf("bool take = %v, expected [true, true]", d)
	}
}

// TestTakeLargeGather tests a gather big enough to run on the parallel path.
func TestTakeLargeGather(t *testing.T) {
	backend := New()

	input, err := tensor.NewRaw(tensor.Shape{300}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	inputData := input.AsFloat32()
	for i := range inputData {
		inputData[i] = float32(i)
	}

	index, err := tensor.NewRaw(tensor.Shape{120}, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatalf("Failed to create tensor: %v", err)
	}
	indexData := index.AsInt64()
	for j := range indexData {
		indexData[j] = int64((j * 7) % 300)
	}

	result := backend.Take(input, index, 0)

	resultData := result.AsFloat32()
	for j := range resultData {
		exp := float32((j * 7) % 300)
		if resultData[j] != exp {
			t.Fatalf("TakeLargeGather result[%d] = %f, expected %f", j, resultData[j], exp)
		}
	}
}

// TestAddAtRow tests accumulating into a single row.
func TestAddAtRow(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3, 4}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	b := rawFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})

	out := backend.AddAt(a, []tensor.Index{tensor.Single(1)}, b)

	expected := []float32{0, 1, 2, 3, 14, 25, 36, 47, 8, 9, 10, 11}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtRow out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}

	// a must be left untouched and out must not alias it.
	if a.AsFloat32()[4] != 4 {
		t.Errorf("AddAt modified its input: a[4] = %f, expected 4", a.AsFloat32()[4])
	}
	if out.SharesBufferWith(a) {
		t.Errorf("AddAt result should not share storage with its input")
	}
}

// TestAddAtSubmatrix tests accumulating into a multi-axis view.
func TestAddAtSubmatrix(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3, 4}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	b := rawFloat32(t, tensor.Shape{3, 2}, []float32{1, 1, 1, 1, 1, 1})

	out := backend.AddAt(a, []tensor.Index{tensor.All(), tensor.Slice(1, 3)}, b)

	expected := []float32{0, 2, 3, 3, 4, 6, 7, 7, 8, 10, 11, 11}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtSubmatrix out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtSteppedSlice tests accumulating into every other element.
func TestAddAtSteppedSlice(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{6}, []float32{0, 1, 2, 3, 4, 5})
	b := rawFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})

	out := backend.AddAt(a, []tensor.Index{tensor.SliceStep(0, 6, 2)}, b)

	expected := []float32{10, 1, 22, 3, 34, 5}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtSteppedSlice out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtReversedSlice tests accumulating through a negative-step selection.
func TestAddAtReversedSlice(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	b := rawFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})

	out := backend.AddAt(a, []tensor.Index{tensor.SliceStep(2, math.MinInt64, -1)}, b)

	// b walks positions 2, 1, 0.
	expected := []float32{31, 22, 13}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtReversedSlice out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtShapeMismatchPanics tests that b must match the selected view shape.
func TestAddAtShapeMismatchPanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3, 4}, nil)
	b := rawFloat32(t, tensor.Shape{3}, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("AddAt with mismatched shapes should panic")
		}
		shapeErr, ok := r.(*tensor.ShapeError)
		if !ok {
			t.Fatalf("expected *tensor.ShapeError, got %T: %v", r, r)
		}
		if !shapeErr.Want.Equal(tensor.Shape{4}) || !shapeErr.Got.Equal(tensor.Shape{3}) {
			t.Errorf("ShapeError = %+v, expected want [4] got [3]", shapeErr)
		}
	}()

	backend.AddAt(a, []tensor.Index{tensor.Single(0)}, b)
}

// TestAddAtDTypePanics tests operand dtype agreement.
func TestAddAtDTypePanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, nil)
	b := rawInt32(t, tensor.Shape{3}, nil)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("AddAt with mismatched dtypes should panic")
		}
	}()

	backend.AddAt(a, []tensor.Index{tensor.All()}, b)
}

// TestAddAtAxis1DCollisions tests that repeated index values accumulate.
func TestAddAtAxis1DCollisions(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{4}, nil)
	index := rawInt64(t, tensor.Shape{3}, []int64{1, 1, 3})
	b := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 10})

	out := backend.AddAtAxis(a, index, 0, b)

	expected := []float32{0, 3, 0, 10}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxis1D out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtAxisRows tests scattering whole rows.
func TestAddAtAxisRows(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3, 2}, []float32{1, 1, 1, 1, 1, 1})
	index := rawInt64(t, tensor.Shape{2}, []int64{2, 0})
	b := rawFloat32(t, tensor.Shape{2, 2}, []float32{10, 20, 30, 40})

	out := backend.AddAtAxis(a, index, 0, b)

	expected := []float32{31, 41, 1, 1, 11, 21}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisRows out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}

	if a.AsFloat32()[0] != 1 {
		t.Errorf("AddAtAxis modified its input: a[0] = %f, expected 1", a.AsFloat32()[0])
	}
	if out.SharesBufferWith(a) {
		t.Errorf("AddAtAxis result should not share storage with its input")
	}
}

// TestAddAtAxisInnerAxis tests scattering along a non-leading axis with
// colliding indices.
func TestAddAtAxisInnerAxis(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{2, 3}, nil)
	index := rawInt64(t, tensor.Shape{2}, []int64{1, 1})
	b := rawFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})

	out := backend.AddAtAxis(a, index, 1, b)

	// Column 1 of row 0 collects 1+2, column 1 of row 1 collects 3+4.
	expected := []float32{0, 3, 0, 0, 7, 0}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisInnerAxis out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtAxisWraps tests that scatter index values wrap exactly like Take.
func TestAddAtAxisWraps(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{4}, nil)
	// -1 -> 3, 4 -> 0, -5 -> 3
	index := rawInt64(t, tensor.Shape{3}, []int64{-1, 4, -5})
	b := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 4})

	out := backend.AddAtAxis(a, index, 0, b)

	expected := []float32{2, 0, 0, 5}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisWraps out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtAxisMatrixIndices tests scattering with a 2D index tensor.
func TestAddAtAxisMatrixIndices(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, nil)
	index := rawInt64(t, tensor.Shape{2, 2}, []int64{0, 1, 1, 2})
	b := rawFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})

	out := backend.AddAtAxis(a, index, 0, b)

	expected := []float32{1, 5, 4}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisMatrixIndices out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtAxisStridedUpdates tests reading updates through a strided view.
func TestAddAtAxisStridedUpdates(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, nil)
	index := rawInt64(t, tensor.Shape{3}, []int64{0, 1, 2})
	bBase := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	b := backend.At(bBase, []tensor.Index{tensor.SliceStep(2, math.MinInt64, -1)})

	out := backend.AddAtAxis(a, index, 0, b)

	// b reads as [3, 2, 1].
	expected := []float32{3, 2, 1}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisStridedUpdates out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestTakeAddAtAxisAdjoint tests the inner-product identity
// <Take(a, idx), b> == <a, AddAtAxis(0, idx, b)> that makes scatter-add the
// gradient of gather.
func TestTakeAddAtAxisAdjoint(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3, 2}, []float32{1, 2, 3, 4, 5, 6})
	index := rawInt64(t, tensor.Shape{3}, []int64{2, 0, 2})
	b := rawFloat32(t, tensor.Shape{3, 2}, []float32{10, 20, 30, 40, 50, 60})
	zeros := rawFloat32(t, tensor.Shape{3, 2}, nil)

	taken := backend.Take(a, index, 0)
	scattered := backend.AddAtAxis(zeros, index, 0, b)

	var lhs, rhs float32
	takenData := taken.AsFloat32()
	bData := b.AsFloat32()
	for i := range takenData {
		lhs += takenData[i] * bData[i]
	}
	aData := a.AsFloat32()
	scatteredData := scattered.AsFloat32()
	for i := range aData {
		rhs += aData[i] * scatteredData[i]
	}

	if lhs != rhs {
		t.Errorf("adjoint identity violated: <Take(a), b> = %f, <a, AddAtAxis(0, b)> = %f", lhs, rhs)
	}
	if lhs != 890 {
		t.Errorf("inner product = %f, expected 890", lhs)
	}
}

// TestAddAtAxisEmptyIndices tests that an empty scatter returns a plain copy.
func TestAddAtAxisEmptyIndices(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	index := rawInt64(t, tensor.Shape{0}, nil)
	b := rawFloat32(t, tensor.Shape{0}, nil)

	out := backend.AddAtAxis(a, index, 0, b)

	expected := []float32{1, 2, 3}
	outData := out.AsFloat32()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisEmptyIndices out[%d] = %f, expected %f", i, outData[i], exp)
		}
	}
}

// TestAddAtAxisEmptyAxisPanics tests scattering into a size-0 axis.
func TestAddAtAxisEmptyAxisPanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{0}, nil)
	index := rawInt64(t, tensor.Shape{1}, []int64{0})
	b := rawFloat32(t, tensor.Shape{1}, []float32{5})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("AddAtAxis into an empty axis should panic")
		}
		indexErr, ok := r.(*tensor.IndexError)
		if !ok {
			t.Fatalf("expected *tensor.IndexError, got %T: %v", r, r)
		}
		if indexErr.Dim != 0 {
			t.Errorf("IndexError = %+v, expected size 0", indexErr)
		}
	}()

	backend.AddAtAxis(a, index, 0, b)
}

// TestAddAtAxisShapeMismatchPanics tests the update-shape law.
func TestAddAtAxisShapeMismatchPanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3, 2}, nil)
	index := rawInt64(t, tensor.Shape{2}, []int64{0, 1})
	b := rawFloat32(t, tensor.Shape{2, 3}, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("AddAtAxis with mismatched update shape should panic")
		}
		shapeErr, ok := r.(*tensor.ShapeError)
		if !ok {
			t.Fatalf("expected *tensor.ShapeError, got %T: %v", r, r)
		}
		if !shapeErr.Want.Equal(tensor.Shape{2, 2}) {
			t.Errorf("ShapeError = %+v, expected want [2, 2]", shapeErr)
		}
	}()

	backend.AddAtAxis(a, index, 0, b)
}

// TestAddAtAxisIndexDTypePanics tests that non-int64 indices are rejected.
func TestAddAtAxisIndexDTypePanics(t *testing.T) {
	backend := New()

	a := rawFloat32(t, tensor.Shape{3}, nil)
	index := rawInt32(t, tensor.Shape{1}, []int32{0})
	b := rawFloat32(t, tensor.Shape{1}, nil)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("AddAtAxis with int32 indices should panic")
		}
	}()

	backend.AddAtAxis(a, index, 0, b)
}

// TestAddAtAxisInt64 tests integer scatter-accumulation.
func TestAddAtAxisInt64(t *testing.T) {
	backend := New()

	a := rawInt64(t, tensor.Shape{3}, []int64{1, 2, 3})
	index := rawInt64(t, tensor.Shape{2}, []int64{0, 0})
	b := rawInt64(t, tensor.Shape{2}, []int64{10, 100})

	out := backend.AddAtAxis(a, index, 0, b)

	expected := []int64{111, 2, 3}
	outData := out.AsInt64()
	for i, exp := range expected {
		if outData[i] != exp {
			t.Errorf("AddAtAxisInt64 out[%d] = %d, expected %d", i, outData[i], exp)
		}
	}
}
