//go:build linux

package labelring

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE (Linux 5.14+) is missing from older x/sys releases.
const madvPopulateWrite = 23

// adviseRing applies the page hints requested in cfg to the ring's backing
// memory. Every hint is best effort and errors are dropped: old kernels
// answer EINVAL, and heap memory is not page aligned.
func adviseRing(data []byte, cfg *ringConfig) {
	if len(data) == 0 {
		return
	}
	if cfg.hugePages && cfg.anonymous {
		// Before populating, so the prefault can use huge pages.
		_ = unix.Madvise(data, unix.MADV_HUGEPAGE)
	}
	if cfg.prefault {
		_ = unix.Madvise(data, madvPopulateWrite)
	}
}
