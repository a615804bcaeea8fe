// Package parallel provides goroutine-based work distribution for CPU
// kernels.
package parallel

import (
	"os"
	"runtime"
	"strconv"
	"sync"

	"k8s.io/klog/v2"
)

// Config controls how work is split across goroutines.
type Config struct {
	Enabled      bool // Master switch; false forces sequential execution
	NumWorkers   int  // Number of goroutines to spread work over
	MinChunkSize int  // Work units below this run sequentially
}

// DefaultConfig returns a config using all available CPUs.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		NumWorkers:   runtime.NumCPU(),
		MinChunkSize: 64,
	}
}

// FromEnv returns DefaultConfig overridden by the TRELLIS_NUM_WORKERS
// environment variable. A value of 0 disables parallelism; anything
// unparseable is ignored with a warning.
func FromEnv() Config {
	cfg := DefaultConfig()
	v := os.Getenv("TRELLIS_NUM_WORKERS")
	if v == "" {
		return cfg
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		klog.Warningf("ignoring TRELLIS_NUM_WORKERS=%q: want a non-negative integer", v)
		return cfg
	}
	if n == 0 {
		cfg.Enabled = false
		return cfg
	}
	cfg.NumWorkers = n
	return cfg
}

// For runs f(i) for every i in [0, n), splitting the range across workers.
// Falls back to a sequential loop when parallelism is disabled or the range
// is below MinChunkSize. f must be safe to call concurrently.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunkSize := (n + cfg.NumWorkers - 1) / cfg.NumWorkers
	if chunkSize < cfg.MinChunkSize {
		chunkSize = cfg.MinChunkSize
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
