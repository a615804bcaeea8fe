//go:build !windows

package main

// gpuAdapterNames reports no adapters on platforms where the WebGPU
// native library is not distributed.
func gpuAdapterNames() []string {
	return nil
}
