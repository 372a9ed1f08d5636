// Package bits provides low-level bit manipulation primitives.
package bits

// LowMask32 returns a mask with the low n bits set. n must be in [0, 32];
// larger values are the caller's bug and yield an all-ones mask.
func LowMask32(n uint) uint32 {
	if n >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<n - 1
}

// Bit32 returns a mask with only bit i set, or 0 if i >= 32.
func Bit32(i uint) uint32 {
	return uint32(1) << i
}
