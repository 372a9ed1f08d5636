//go:build !linux

package labelring

// adviseRing is a no-op off Linux; the hints it applies are Linux madvise
// flags.
func adviseRing(data []byte, cfg *ringConfig) {}
