// Package labelring provides the memory substrate for parallel stacked-graph
// label generation in a Proof-of-Replication sealing pipeline.
//
// The package decides neither what is computed nor when a node's parents are
// ready; an external scheduler does that. It supplies the pieces that let many
// workers fill one window of labels at the same time:
//
//   - RingBuf: fixed-size slot storage for the sliding window of nodes.
//   - UnsafeSlice: a view that many goroutines may write through, provided
//     they touch disjoint indices.
//   - BitMask and AtomicBitMask: which positions of the window are complete.
//   - PrepareBlock and Memset: the fixed pre-hash layout of one node's block.
//
// CPU binding intent for the sealing phases is resolved by the binding
// subpackage.
//
// # Basic Usage
//
//	ring := labelring.NewRingBuf(128, 32)
//	defer ring.Close()
//
//	done := new(labelring.AtomicBitMask)
//	var wg sync.WaitGroup
//	for pos := range 32 {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        block := ring.Slot(pos) // each worker owns exactly one slot
//	        labelring.Memset(block, 0)
//	        labelring.PrepareBlock(replicaID, layer, block)
//	        labels.Set(base+pos, compress(block))
//	        done.Set(pos)
//	    }()
//	}
//	wg.Wait()
//
// # Safety
//
// Slot, View and the UnsafeSlice accessors are not synchronized. Correctness
// depends on the caller: at most one writer per byte at any instant, and
// every reader ordered after the last writer through some synchronization
// (AtomicBitMask, sync.WaitGroup, errgroup.Group.Wait, a mutex). Slots is
// the exclusive, whole-ring path and must not overlap with any other access.
//
// # Package Structure
//
//   - Shared view: unsafeslice.go (UnsafeSlice)
//   - Ring: ringbuf.go (RingBuf), ring_options.go (RingOption, With* functions)
//   - Completion: bitmask.go (BitMask, AtomicBitMask)
//   - Block layout: block.go (PrepareBlock, Memset)
//   - Platform: madvise_*.go (Linux prefault and huge page hints)
//   - Binding policy: binding/
package labelring
