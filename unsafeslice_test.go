package labelring

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestUnsafeSliceAliasesSource verifies that index i of the view designates
// the same memory as index i of the source, for every i.
func TestUnsafeSliceAliasesSource(t *testing.T) {
	src := make([]uint64, 257)
	view := NewUnsafeSlice(src)

	if view.Len() != len(src) {
		t.Fatalf("Len() = %d, want %d", view.Len(), len(src))
	}
	for i := range src {
		if view.Ptr(i) != &src[i] {
			t.Fatalf("Ptr(%d) = %p, want %p", i, view.Ptr(i), &src[i])
		}
	}

	// Writes through the view are visible in the source and vice versa.
	for i := range src {
		view.Set(i, uint64(i)*3)
	}
	for i := range src {
		if src[i] != uint64(i)*3 {
			t.Fatalf("src[%d] = %d after Set, want %d", i, src[i], uint64(i)*3)
		}
	}
	src[100] = 42
	if got := view.Get(100); got != 42 {
		t.Fatalf("Get(100) = %d, want 42", got)
	}
}

func TestUnsafeSliceWholeViews(t *testing.T) {
	rng := newTestRNG(t)
	src := make([]byte, 1000)
	fillFromRNG(rng, src)
	view := NewUnsafeSlice(src)

	ro := view.Slice()
	if len(ro) != len(src) || &ro[0] != &src[0] || &ro[len(ro)-1] != &src[len(src)-1] {
		t.Fatal("Slice() does not cover the source region")
	}

	rw := view.MutSlice()
	Memset(rw, 0x5A)
	for i, b := range src {
		if b != 0x5A {
			t.Fatalf("src[%d] = 0x%02X after MutSlice write, want 0x5A", i, b)
		}
	}
}

// TestUnsafeSliceCopiesShareMemory checks that copies of the value are views
// of the same region.
func TestUnsafeSliceCopiesShareMemory(t *testing.T) {
	src := make([]int32, 8)
	a := NewUnsafeSlice(src)
	b := a
	b.Set(3, -7)
	if got := a.Get(3); got != -7 {
		t.Fatalf("copy write not visible through original: Get(3) = %d", got)
	}
}

func TestUnsafeSliceEmpty(t *testing.T) {
	for _, src := range [][]byte{nil, {}} {
		view := NewUnsafeSlice(src)
		if view.Len() != 0 || len(view.Slice()) != 0 || len(view.MutSlice()) != 0 {
			t.Fatalf("empty view has length %d", view.Len())
		}
		for range view.Chunks(4) {
			t.Fatal("Chunks yielded a chunk for an empty view")
		}
	}
}

func TestUnsafeSliceStructElements(t *testing.T) {
	type label [32]byte
	src := make([]label, 5)
	view := NewUnsafeSlice(src)

	var l label
	for i := range l {
		l[i] = byte(i)
	}
	view.Set(4, l)
	if src[4] != l {
		t.Fatalf("src[4] = %x, want %x", src[4], l)
	}
	view.Ptr(2)[31] = 0xFF
	if src[2][31] != 0xFF {
		t.Fatal("write through Ptr(2) not visible in src[2]")
	}
}

func TestUnsafeSliceChunks(t *testing.T) {
	tests := []struct {
		n, size int
		want    []int // chunk lengths
	}{
		{12, 4, []int{4, 4, 4}},
		{10, 4, []int{4, 4, 2}},
		{3, 8, []int{3}},
		{5, 1, []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		src := make([]int, tt.n)
		view := NewUnsafeSlice(src)

		var got []int
		offset := 0
		for chunk := range view.Chunks(tt.size) {
			if &chunk[0] != &src[offset] {
				t.Fatalf("n=%d size=%d: chunk %d starts at wrong element", tt.n, tt.size, len(got))
			}
			if cap(chunk) != len(chunk) {
				t.Errorf("n=%d size=%d: chunk %d cap %d exceeds len %d", tt.n, tt.size, len(got), cap(chunk), len(chunk))
			}
			got = append(got, len(chunk))
			offset += len(chunk)
		}
		if offset != tt.n {
			t.Fatalf("n=%d size=%d: chunks cover %d elements", tt.n, tt.size, offset)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("n=%d size=%d: chunk lengths %v, want %v", tt.n, tt.size, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("n=%d size=%d: chunk lengths %v, want %v", tt.n, tt.size, got, tt.want)
			}
		}
	}

	mustPanic(t, "Chunks(0)", func() {
		for range NewUnsafeSlice(make([]int, 4)).Chunks(0) {
		}
	})
}

// TestUnsafeSliceConcurrentDisjointWrites hands copies of one view to many
// goroutines, each writing an interleaved (irregular) index set. Run with
// -race: disjoint indices must not be reported.
func TestUnsafeSliceConcurrentDisjointWrites(t *testing.T) {
	const (
		workers = 8
		n       = 4096
	)
	src := make([]uint32, n)
	view := NewUnsafeSlice(src)

	g, _ := errgroup.WithContext(context.Background())
	for w := range workers {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				view.Set(i, uint32(w)<<16|uint32(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	// Wait established happens-before; the owner may read src again.
	for i, v := range src {
		want := uint32(i%workers)<<16 | uint32(i)
		if v != want {
			t.Fatalf("src[%d] = 0x%08X, want 0x%08X", i, v, want)
		}
	}
}

func BenchmarkUnsafeSliceSet(b *testing.B) {
	src := make([]uint64, 1<<16)
	view := NewUnsafeSlice(src)
	mask := len(src) - 1
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		view.Set(i&mask, uint64(i))
	}
}
