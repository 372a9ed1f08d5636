package labelring

import (
	"fmt"
	"iter"

	"github.com/edsrzf/mmap-go"

	lrerrors "github.com/tamirms/labelring/errors"
)

// RingBuf is fixed-size slot storage for the sliding window of a label
// generation pass. It bounds memory to the active window instead of the full
// node sequence.
//
// Layout: numSlots slots of slotSize bytes, contiguous, slot i at offset
// i*slotSize. The ring has no cursor: which slot holds which node, and the
// wraparound arithmetic, are entirely the caller's business.
//
// Two access modes are exposed:
//   - Slots: a checked, exclusive pass over every slot (initialization, clearing).
//   - Slot and View: unchecked random access for the parallel hot loop, where
//     many goroutines each own a disjoint slot at the same time.
//
// The ring does not stop a writer from reusing a slot that a lagging reader
// still holds.
type RingBuf struct {
	data     []byte
	mm       mmap.MMap // nil when heap backed
	slotSize int
	numSlots int
}

// NewRingBuf allocates a ring of numSlots zeroed slots of slotSize bytes.
//
// NewRingBuf panics with an error wrapping errors.ErrInvalidGeometry if
// slotSize < 1 or numSlots < 0, and with one wrapping errors.ErrAllocation if
// the backing memory cannot be obtained. Allocation failure is not retried.
func NewRingBuf(slotSize, numSlots int, opts ...RingOption) *RingBuf {
	if slotSize < 1 || numSlots < 0 {
		panic(fmt.Errorf("%w: slotSize=%d numSlots=%d", lrerrors.ErrInvalidGeometry, slotSize, numSlots))
	}
	size := slotSize * numSlots
	if size/slotSize != numSlots {
		panic(fmt.Errorf("%w: %d slots of %d bytes overflows int", lrerrors.ErrAllocation, numSlots, slotSize))
	}

	cfg := defaultRingConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &RingBuf{
		slotSize: slotSize,
		numSlots: numSlots,
	}

	// Anonymous mappings of zero length are rejected by the kernel; an empty
	// ring needs no memory anyway.
	if cfg.anonymous && size > 0 {
		mm, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			panic(fmt.Errorf("%w: anonymous mapping of %d bytes: %w", lrerrors.ErrAllocation, size, err))
		}
		r.mm = mm
		r.data = []byte(mm)
	} else {
		r.data = allocHeap(size)
	}

	adviseRing(r.data, cfg)
	return r
}

// allocHeap is make([]byte, size) with makeslice's runtime panic rethrown as
// ErrAllocation. An out-of-memory abort is fatal and cannot be intercepted.
func allocHeap(size int) []byte {
	defer func() {
		if r := recover(); r != nil {
			panic(fmt.Errorf("%w: %d bytes: %v", lrerrors.ErrAllocation, size, r))
		}
	}()
	return make([]byte, size)
}

// SlotSize returns the size of one slot in bytes.
func (r *RingBuf) SlotSize() int { return r.slotSize }

// NumSlots returns the number of slots.
func (r *RingBuf) NumSlots() int { return r.numSlots }

// Len returns the total size of the backing storage in bytes.
func (r *RingBuf) Len() int { return len(r.data) }

// Slot returns the slotSize bytes of slot i. The returned slice's capacity
// ends at the slot boundary, so append never spills into the next slot.
//
// Unlike Slots, Slot may be called concurrently. The caller must ensure that
// i < NumSlots (the index is already reduced modulo the window) and that no
// other goroutine holds a view into the same slot while this one is live.
// An out-of-range index panics.
func (r *RingBuf) Slot(i int) []byte {
	start := r.slotSize * i
	end := start + r.slotSize
	return r.data[start:end:end]
}

// Slots returns a sequence over every slot in ascending order, covering the
// backing storage contiguously with no gaps or overlaps. Each call returns a
// fresh sequence. The caller must have exclusive access to the whole ring for
// the duration of the iteration.
func (r *RingBuf) Slots() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := range r.numSlots {
			if !yield(i, r.Slot(i)) {
				return
			}
		}
	}
}

// View returns an UnsafeSlice over the whole backing storage, for callers
// that partition the window at a granularity other than whole slots.
// The same rules apply as for Slot: disjoint regions only.
func (r *RingBuf) View() UnsafeSlice[byte] {
	return NewUnsafeSlice(r.data)
}

// Close releases an anonymous mapping. It is a no-op for heap-backed rings.
// Every slice and view obtained from the ring is invalid after Close.
func (r *RingBuf) Close() error {
	if r.mm == nil {
		return nil
	}
	mm := r.mm
	r.mm = nil
	r.data = nil
	if err := mm.Unmap(); err != nil {
		return fmt.Errorf("unmap ring buffer: %w", err)
	}
	return nil
}
