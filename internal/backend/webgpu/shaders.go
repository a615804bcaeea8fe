//go:build windows

// Package webgpu provides embedded WGSL compute shaders for the indexing
// and accumulation kernels.
package webgpu

// WGSL compute shaders for tensor operations.
// Using string constants instead of embed for simplicity.

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// maxViewDims is the deepest window the addIntoView shader can address.
const maxViewDims = 6

// addShader performs element-wise addition: result = a + b.
const addShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] + b[idx];
    }
}
`

// takeShader gathers slices along an axis. The input is dense row-major
// with the axis of size axis_size; output element (outer, j, c) reads
// input element (outer, indices[j], c). Index values are wrapped into
// [0, axis_size) on the host before upload.
const takeShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read> indices: array<u32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    axis_size: u32,
    num_indices: u32,
    inner: u32,
    total: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.total) {
        return;
    }

    let block = params.num_indices * params.inner;
    let outer = idx / block;
    let rem = idx % block;
    let j = rem / params.inner;
    let c = rem % params.inner;

    let src = (outer * params.axis_size + indices[j]) * params.inner + c;
    result[idx] = input[src];
}
`

// addIntoViewShader accumulates updates into a strided window of the
// result buffer. Each update element maps to a distinct window position,
// so the read-modify-write needs no atomics. Supports windows up to 6
// dimensions; strides and offset are in elements and may be negative.
const addIntoViewShader = `
@group(0) @binding(0) var<storage, read> updates: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    ndim: u32,
    total: u32,
    offset: i32,
    shape_0: u32,
    shape_1: u32,
    shape_2: u32,
    shape_3: u32,
    shape_4: u32,
    shape_5: u32,
    stride_0: i32,
    stride_1: i32,
    stride_2: i32,
    stride_3: i32,
    stride_4: i32,
    stride_5: i32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.total) {
        return;
    }

    var shape: array<u32, 6>;
    shape[0] = params.shape_0;
    shape[1] = params.shape_1;
    shape[2] = params.shape_2;
    shape[3] = params.shape_3;
    shape[4] = params.shape_4;
    shape[5] = params.shape_5;

    var stride: array<i32, 6>;
    stride[0] = params.stride_0;
    stride[1] = params.stride_1;
    stride[2] = params.stride_2;
    stride[3] = params.stride_3;
    stride[4] = params.stride_4;
    stride[5] = params.stride_5;

    // Convert linear update index to window coordinates (row-major)
    var coords: array<u32, 6>;
    var temp = idx;
    for (var d: i32 = i32(params.ndim) - 1; d >= 0; d = d - 1) {
        coords[u32(d)] = temp % shape[u32(d)];
        temp = temp / shape[u32(d)];
    }

    // Fold coordinates through the window strides
    var pos: i32 = params.offset;
    for (var d: u32 = 0u; d < params.ndim; d = d + 1u) {
        pos = pos + i32(coords[d]) * stride[d];
    }

    result[u32(pos)] = result[u32(pos)] + updates[idx];
}
`

// axisScatterAddShader accumulates update slices into rows named by an
// index tensor. Each thread owns one output element and scans the index
// list, so colliding updates sum in index order and the result is
// deterministic without atomics. Index values are wrapped into
// [0, axis_size) on the host before upload.
const axisScatterAddShader = `
@group(0) @binding(0) var<storage, read> base: array<f32>;
@group(0) @binding(1) var<storage, read> indices: array<u32>;
@group(0) @binding(2) var<storage, read> updates: array<f32>;
@group(0) @binding(3) var<storage, read_write> result: array<f32>;

struct Params {
    axis_size: u32,
    num_indices: u32,
    inner: u32,
    total: u32,
}
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.total) {
        return;
    }

    let block = params.axis_size * params.inner;
    let outer = idx / block;
    let rem = idx % block;
    let r = rem / params.inner;
    let c = rem % params.inner;

    var acc = base[idx];
    for (var j: u32 = 0u; j < params.num_indices; j = j + 1u) {
        if (indices[j] == r) {
            acc = acc + updates[(outer * params.num_indices + j) * params.inner + c];
        }
    }
    result[idx] = acc;
}
`
