//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	// Compile shader
	shader := b.device.CreateShaderModuleWGSL(code)

	// Cache it
	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Create compute pipeline with auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	// Cache it
	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU buffer and uploads initial data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	// Create buffer with MappedAtCreation for initial data upload
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	// Copy data to mapped buffer
	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer with proper alignment.
// Uniform buffers require 16-byte alignment for struct fields.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	// Ensure 16-byte alignment
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15 // Round up to 16-byte boundary

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	// Copy data (padding is handled by aligned size)
	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a pooled staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingUsage := wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst
	stagingBuffer := b.bufferPool.Acquire(size, stagingUsage)
	defer b.bufferPool.Release(stagingBuffer, size, stagingUsage)

	// Copy from GPU buffer to staging buffer
	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// Map staging buffer for reading
	err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	// Get mapped range and copy data
	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	// Unmap buffer
	stagingBuffer.Unmap()

	return result, nil
}

// dense returns t when its buffer already holds exactly its row-major
// elements, otherwise a dense copy. The second return reports whether the
// caller owns the returned tensor and must release it.
func dense(t *tensor.RawTensor) (*tensor.RawTensor, bool) {
	if t.IsContiguous() && t.Offset() == 0 && t.ByteSize() == len(t.Data()) {
		return t, false
	}
	return t.Copy(), true
}

// uint32Bytes serializes values little-endian for upload.
func uint32Bytes(vals []uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// wrappedIndices reads an int64 index tensor in row-major order and wraps
// each value into [0, dim) for upload. Any value against an empty axis is
// an error: there is no position it could name.
func wrappedIndices(indices *tensor.RawTensor, dim, axis int) []uint32 {
	idx, owned := dense(indices)
	if owned {
		defer idx.Release()
	}

	data := idx.AsInt64()
	out := make([]uint32, len(data))
	for i, v := range data {
		if dim == 0 {
			panic(&tensor.IndexError{Index: v, Axis: axis, Dim: 0})
		}
		n := int64(dim)
		//nolint:gosec // G115: Safe conversion, wrapped value is in [0, dim)
		out[i] = uint32(((v % n) + n) % n)
	}
	return out
}

// runAdd executes element-wise addition on GPU. Both inputs must be dense
// float32 tensors of the same shape.
func (b *Backend) runAdd(x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	numElements := x.NumElements()

	// Compile shader
	shader := b.compileShader("add", addShader)

	// Get or create pipeline
	pipeline := b.getOrCreatePipeline("add", shader)

	// Create GPU buffers
	bufferX := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferX.Release()

	bufferY := b.createBuffer(y.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferY.Release()

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(x.ByteSize())
	resultUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	bufferResult := b.bufferPool.Acquire(resultSize, resultUsage)
	defer b.bufferPool.Release(bufferResult, resultSize, resultUsage)

	// Create uniform buffer for params (size: u32)
	params := make([]byte, 16) // 16-byte aligned
	//nolint:gosec // G115: Safe conversion, NumElements() returns non-negative int
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	// Get bind group layout and create bind group
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferX, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferY, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	// Execute compute pass
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// Calculate workgroup count: ceil(numElements / workgroupSize)
	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// Read result back from GPU
	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	// Create result tensor
	result, err := tensor.NewRaw(x.Shape(), x.DType(), tensor.WebGPU)
	if err != nil {
		return nil, err
	}

	copy(result.Data(), resultData)
	return result, nil
}

// runTake executes a gather along an axis on GPU. a must be a dense float32
// tensor and idx must already be wrapped into [0, axisSize).
func (b *Backend) runTake(a *tensor.RawTensor, idx []uint32, outShape tensor.Shape, axisSize, inner int) (*tensor.RawTensor, error) {
	total := outShape.NumElements()

	// Compile shader
	shader := b.compileShader("take", takeShader)

	// Get or create pipeline
	pipeline := b.getOrCreatePipeline("take", shader)

	// Create GPU buffers
	bufferInput := b.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()

	idxBytes := uint32Bytes(idx)
	bufferIndices := b.createBuffer(idxBytes, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferIndices.Release()

	//nolint:gosec // G115: Safe conversion, element count is non-negative
	resultSize := uint64(total * 4) // float32 = 4 bytes
	resultUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	bufferResult := b.bufferPool.Acquire(resultSize, resultUsage)
	defer b.bufferPool.Release(bufferResult, resultSize, resultUsage)

	// Create uniform buffer for params (axis_size, num_indices, inner, total: u32 each)
	params := make([]byte, 16)
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(axisSize))
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[4:8], uint32(len(idx)))
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[8:12], uint32(inner))
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[12:16], uint32(total))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	// Get bind group layout and create bind group
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferInput, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferIndices, 0, uint64(len(idxBytes))),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	// Execute compute pass
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((total + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// Read result back from GPU
	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	// Create result tensor
	result, err := tensor.NewRaw(outShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}

	copy(result.Data(), resultData)
	return result, nil
}

// runAddAt accumulates updates into the window of out described by view.
// out must be dense and view must address out's buffer; the result is
// written back into out's buffer.
func (b *Backend) runAddAt(out, view, updates *tensor.RawTensor) error {
	total := updates.NumElements()
	ndim := len(view.Shape())
	shape := view.Shape()
	strides := view.Strides()

	// Compile shader
	shader := b.compileShader("add_into_view", addIntoViewShader)

	// Get or create pipeline
	pipeline := b.getOrCreatePipeline("add_into_view", shader)

	// Create GPU buffers. The result buffer starts as a copy of out and is
	// accumulated into by the shader.
	bufferUpdates := b.createBuffer(updates.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferUpdates.Release()

	bufferResult := b.createBuffer(out.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferResult.Release()

	// Create uniform buffer for params (ndim, total, offset, shape_0..5, stride_0..5)
	params := make([]byte, 64)
	//nolint:gosec // G115: Safe conversions, rank and element counts are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(ndim))
	//nolint:gosec // G115: Safe conversions, rank and element counts are non-negative
	binary.LittleEndian.PutUint32(params[4:8], uint32(total))
	//nolint:gosec // G115: Two's-complement encoding, offsets and strides fit in int32
	binary.LittleEndian.PutUint32(params[8:12], uint32(int32(view.Offset())))
	for d := 0; d < ndim; d++ {
		//nolint:gosec // G115: Safe conversion, dimensions are non-negative
		binary.LittleEndian.PutUint32(params[12+4*d:], uint32(shape[d]))
		//nolint:gosec // G115: Two's-complement encoding, offsets and strides fit in int32
		binary.LittleEndian.PutUint32(params[36+4*d:], uint32(int32(strides[d])))
	}
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	// Get bind group layout and create bind group
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(out.ByteSize())
	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferUpdates, 0, uint64(updates.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 64),
	})
	defer bindGroup.Release()

	// Execute compute pass
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((total + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// Read result back into out's buffer
	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return err
	}

	copy(out.Data(), resultData)
	return nil
}

// runAxisScatterAdd accumulates update slices into out along an axis at the
// positions named by idx. out and updates must be dense float32 tensors and
// idx must already be wrapped into [0, axisSize). The result is written
// back into out's buffer.
func (b *Backend) runAxisScatterAdd(out *tensor.RawTensor, idx []uint32, updates *tensor.RawTensor, axisSize, inner int) error {
	total := out.NumElements()

	// Compile shader
	shader := b.compileShader("axis_scatter_add", axisScatterAddShader)

	// Get or create pipeline
	pipeline := b.getOrCreatePipeline("axis_scatter_add", shader)

	// Create GPU buffers
	bufferBase := b.createBuffer(out.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferBase.Release()

	idxBytes := uint32Bytes(idx)
	bufferIndices := b.createBuffer(idxBytes, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferIndices.Release()

	bufferUpdates := b.createBuffer(updates.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferUpdates.Release()

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(out.ByteSize())
	resultUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	bufferResult := b.bufferPool.Acquire(resultSize, resultUsage)
	defer b.bufferPool.Release(bufferResult, resultSize, resultUsage)

	// Create uniform buffer for params (axis_size, num_indices, inner, total: u32 each)
	params := make([]byte, 16)
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(axisSize))
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[4:8], uint32(len(idx)))
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[8:12], uint32(inner))
	//nolint:gosec // G115: Safe conversions, sizes are non-negative
	binary.LittleEndian.PutUint32(params[12:16], uint32(total))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	// Get bind group layout and create bind group
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferBase, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferIndices, 0, uint64(len(idxBytes))),
		wgpu.BufferBindingEntry(2, bufferUpdates, 0, uint64(updates.ByteSize())),
		wgpu.BufferBindingEntry(3, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(4, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	// Execute compute pass
	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((total + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// Read result back into out's buffer
	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return err
	}

	copy(out.Data(), resultData)
	return nil
}
