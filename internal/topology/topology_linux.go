//go:build linux

package topology

import "golang.org/x/sys/unix"

func allowedCPUs() []int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return fallbackCPUs()
	}
	// CPUSet holds 1024 bits; a set bit beyond NumCPU is still a usable id.
	cpus := make([]int, 0, set.Count())
	for id := 0; len(cpus) < set.Count(); id++ {
		if set.IsSet(id) {
			cpus = append(cpus, id)
		}
	}
	return cpus
}
