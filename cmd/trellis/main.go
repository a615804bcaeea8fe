// Package main provides the Trellis ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/trellis-ml/trellis/backend/cpu"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Trellis ML Framework %s\n", version)
			return
		case "devices":
			listDevices()
			return
		}
	}

	fmt.Println("Trellis ML Framework - Tensor Views and Autodiff for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List available compute devices")
}

func listDevices() {
	backend := cpu.New()
	fmt.Printf("  cpu     %s\n", backend.Name())

	for _, name := range gpuAdapterNames() {
		fmt.Printf("  webgpu  %s\n", name)
	}
}
