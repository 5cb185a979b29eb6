package cpu

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// detectFeatures builds a one-line summary of the host CPU:
// brand, core counts and the vector extensions the kernels could use.
func detectFeatures() string {
	brand := strings.TrimSpace(cpuid.CPU.BrandName)
	if brand == "" {
		brand = runtime.GOARCH
	}

	var exts []string
	for _, f := range []struct {
		id   cpuid.FeatureID
		name string
	}{
		{cpuid.AVX512F, "AVX512"},
		{cpuid.AVX2, "AVX2"},
		{cpuid.AVX, "AVX"},
		{cpuid.SSE4, "SSE4"},
		{cpuid.ASIMD, "NEON"},
	} {
		if cpuid.CPU.Has(f.id) {
			exts = append(exts, f.name)
		}
	}
	if len(exts) == 0 {
		exts = append(exts, "scalar")
	}

	return fmt.Sprintf("%s (%d cores, %d threads) [%s]",
		brand, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, strings.Join(exts, " "))
}

// workerCount returns the goroutine count for parallel kernels.
// Physical cores are preferred over logical ones; hyperthreads do not
// help the memory-bound inner loops.
func workerCount() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
