package labelring

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/tamirms/labelring/internal/bits"
)

// MaxWindowBits is the number of positions a completion mask can track.
const MaxWindowBits = 32

// BitMask marks which logical positions of the current window have finished
// computation: bit i set means position i is complete.
//
// BitMask is a plain value with no reset; use a fresh one per window. It
// gives no atomicity or visibility guarantee. Wrap it in your own
// synchronization, or use AtomicBitMask, when it is observed across goroutines.
type BitMask uint32

// SetUpto sets bits [0, n). It panics if n > 32.
func (m *BitMask) SetUpto(n int) {
	if n < 0 || n > MaxWindowBits {
		panic(fmt.Sprintf("labelring: BitMask.SetUpto(%d) out of range [0, %d]", n, MaxWindowBits))
	}
	*m |= BitMask(bits.LowMask32(uint(n)))
}

// Set sets bit i. The caller must ensure i < 32.
func (m *BitMask) Set(i int) {
	*m |= BitMask(bits.Bit32(uint(i)))
}

// Get reports whether bit i is set.
func (m BitMask) Get(i int) bool {
	return m&BitMask(bits.Bit32(uint(i))) != 0
}

// AtomicBitMask is a BitMask that may be updated and read concurrently.
// Every Set happens before any Get or Load that observes its bit, which makes
// it usable as the completion signal between window workers and the consumer.
//
// The word sits on its own cache line; workers hammer it once per node and it
// should not false-share with neighbouring fields.
type AtomicBitMask struct {
	_    cpu.CacheLinePad
	bits atomic.Uint32
	_    cpu.CacheLinePad
}

// SetUpto sets bits [0, n). It panics if n > 32.
func (m *AtomicBitMask) SetUpto(n int) {
	if n < 0 || n > MaxWindowBits {
		panic(fmt.Sprintf("labelring: AtomicBitMask.SetUpto(%d) out of range [0, %d]", n, MaxWindowBits))
	}
	m.bits.Or(bits.LowMask32(uint(n)))
}

// Set sets bit i. The caller must ensure i < 32.
func (m *AtomicBitMask) Set(i int) {
	m.bits.Or(bits.Bit32(uint(i)))
}

// Get reports whether bit i is set.
func (m *AtomicBitMask) Get(i int) bool {
	return m.bits.Load()&bits.Bit32(uint(i)) != 0
}

// Load returns a snapshot of the mask.
func (m *AtomicBitMask) Load() BitMask {
	return BitMask(m.bits.Load())
}
