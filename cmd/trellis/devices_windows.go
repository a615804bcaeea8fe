//go:build windows

package main

import (
	"fmt"

	"github.com/trellis-ml/trellis/backend/webgpu"
)

// gpuAdapterNames returns a printable line per WebGPU adapter, or nothing
// when no compatible GPU is present.
func gpuAdapterNames() []string {
	if !webgpu.IsAvailable() {
		return nil
	}
	adapters, err := webgpu.ListAdapters()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(adapters))
	for _, info := range adapters {
		names = append(names, fmt.Sprintf("%s (%s)", info.Device, info.Vendor))
	}
	return names
}
