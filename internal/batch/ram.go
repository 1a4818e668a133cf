// Package batch bins input sources into memory-safe processing batches.
//
// Batches run strictly sequentially, so peak memory is bounded by one
// batch's estimated decompressed footprint. When no RAM signal is available
// the partitioner degrades to one source per batch.
package batch

import "github.com/shirou/gopsutil/v4/mem"

const gb = 1 << 30

// AvailableBudget returns the memory budget for a batch in bytes: a fraction
// of the currently available RAM with a floor of minGB. The second return is
// false when RAM introspection is unavailable on this platform; that is not
// an error, it selects the degraded one-source-per-batch mode.
func AvailableBudget(fraction, minGB float64) (int64, bool) {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return 0, false
	}
	budget := float64(vm.Available) * fraction
	if floor := minGB * gb; budget < floor {
		budget = floor
	}
	return int64(budget), true
}
