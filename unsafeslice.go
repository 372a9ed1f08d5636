package labelring

import (
	"iter"
	"slices"
	"unsafe"
)

// UnsafeSlice is a view over a slice that can be shared between goroutines,
// but whose synchronization is fully managed by the caller.
//
// Label generation partitions one large buffer into disjoint, data-dependent
// index ranges owned by different workers. Expressing that partition through
// sub-slicing at every step would mean re-deriving the scheduler's dependency
// graph; instead all aliasing risk is concentrated here.
//
// Contract: at every instant, no two live accesses through any copy of the
// view may touch the same index when at least one of them is a write.
// Violating this is a data race, not a reported error.
//
// Copies of an UnsafeSlice share the same memory and may be passed freely to
// other goroutines. The view never outlives its backing allocation for heap
// memory (it holds a reference to the source slice); for memory owned by a
// RingBuf created WithAnonymousMapping, the view is invalid after Close.
type UnsafeSlice[T any] struct {
	// src pins the backing array for the garbage collector.
	src []T
	ptr unsafe.Pointer
	len int
}

// NewUnsafeSlice checks out src. Until every view derived from this call is
// dropped, the caller must not access src directly.
func NewUnsafeSlice[T any](src []T) UnsafeSlice[T] {
	return UnsafeSlice[T]{
		src: src,
		ptr: unsafe.Pointer(unsafe.SliceData(src)),
		len: len(src),
	}
}

// Len returns the number of elements (not bytes) in the view.
func (s UnsafeSlice[T]) Len() int {
	return s.len
}

// MutSlice returns the whole region for writing.
// The caller must ensure no other access to any part of the region is active.
func (s UnsafeSlice[T]) MutSlice() []T {
	return unsafe.Slice((*T)(s.ptr), s.len)
}

// Slice returns the whole region for reading.
// The caller must ensure no write to any part of the region is active.
func (s UnsafeSlice[T]) Slice() []T {
	return unsafe.Slice((*T)(s.ptr), s.len)
}

// Ptr returns a pointer to element i without a bounds check.
// The caller must ensure 0 <= i < Len() and that no conflicting access to
// element i is active for as long as the pointer is used.
func (s UnsafeSlice[T]) Ptr(i int) *T {
	var zero T
	return (*T)(unsafe.Add(s.ptr, uintptr(i)*unsafe.Sizeof(zero)))
}

// Get reads element i without a bounds check.
// Same preconditions as Ptr.
func (s UnsafeSlice[T]) Get(i int) T {
	return *s.Ptr(i)
}

// Set writes element i without a bounds check.
// Same preconditions as Ptr.
func (s UnsafeSlice[T]) Set(i int, v T) {
	*s.Ptr(i) = v
}

// Chunks yields consecutive, non-overlapping sub-slices of at most size
// elements covering the whole region. Use it instead of indexed access when
// the work partition is regular: each yielded chunk can be handed to exactly
// one goroutine and the disjointness follows from construction.
//
// Chunks panics if size < 1. The caller must not use the indexed accessors on
// ranges that are currently owned through a chunk.
func (s UnsafeSlice[T]) Chunks(size int) iter.Seq[[]T] {
	return slices.Chunk(s.MutSlice(), size)
}
