// Package topology reports which logical CPUs the process may run on.
//
// It is used to size worker pools; it never changes affinity.
package topology

// AllowedCPUs returns the logical CPU ids in the calling thread's affinity
// mask, in ascending order. It falls back to 0..runtime.NumCPU()-1 when the
// platform cannot report a mask.
func AllowedCPUs() []int {
	return allowedCPUs()
}

// NumAllowedCPUs returns len(AllowedCPUs()), at least 1.
func NumAllowedCPUs() int {
	return max(1, len(allowedCPUs()))
}

// Groups splits cpus into consecutive groups of size elements each. The last
// group may be shorter. size < 1 is treated as 1.
func Groups(cpus []int, size int) [][]int {
	size = max(1, size)
	groups := make([][]int, 0, (len(cpus)+size-1)/size)
	for start := 0; start < len(cpus); start += size {
		end := min(start+size, len(cpus))
		groups = append(groups, cpus[start:end:end])
	}
	return groups
}
