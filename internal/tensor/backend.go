package tensor

// Backend is the device capability interface. It carries the closed set of
// kernels the framework needs; devices are dispatched by holding a concrete
// Backend value, not through a global registry.
//
// Operations panic with the typed errors in this package (*IndexError,
// *DTypeError, *ShapeError, *AxisError) when their preconditions fail.
// None of them broadcast or coerce dtypes.
//
// Implementations:
//   - cpu: pure Go kernels, optionally parallelized across goroutines
//   - webgpu: WGSL compute shaders (windows only for now)
type Backend interface {
	// At returns a view of a selected by the index descriptors. The result
	// shares a's buffer; no elements are copied.
	At(a *RawTensor, indices []Index) *RawTensor

	// Take gathers slices of a along axis at the positions named by indices,
	// which must be Int64. The result shape is a.Shape()[:axis] ++
	// indices.Shape() ++ a.Shape()[axis+1:], freshly allocated. The axis may
	// be negative, counting from the end. Index values wrap modulo the axis
	// size.
	Take(a, indices *RawTensor, axis int) *RawTensor

	// AddAt returns a copy of a with b added into the region selected by the
	// index descriptors. b's shape must equal a.View(indices).Shape()
	// exactly. a itself is never modified.
	AddAt(a *RawTensor, indices []Index, b *RawTensor) *RawTensor

	// AddAtAxis returns a copy of a with the slices of b accumulated along
	// axis at the positions named by indices (Int64). b's shape must be
	// a.Shape()[:axis] ++ indices.Shape() ++ a.Shape()[axis+1:]. Repeated
	// positions sum. Index values wrap modulo the axis size, matching Take,
	// so the two stay adjoint.
	AddAtAxis(a, indices *RawTensor, axis int, b *RawTensor) *RawTensor

	// Add returns the elementwise sum of a and b. Shapes and dtypes must
	// match exactly.
	Add(a, b *RawTensor) *RawTensor

	// Name returns a human-readable backend name.
	Name() string

	// Device returns the device this backend computes on.
	Device() Device
}
