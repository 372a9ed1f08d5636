package labelring

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a PCG generator seeded from the test name, so every test
// gets its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// fillFromRNG fills buf with pseudo-random bytes from rng.
func fillFromRNG(rng *rand.Rand, buf []byte) {
	for i := 0; i+8 <= len(buf); i += 8 {
		binary.LittleEndian.PutUint64(buf[i:], rng.Uint64())
	}
	if tail := len(buf) % 8; tail > 0 {
		v := rng.Uint64()
		start := len(buf) - tail
		for j := 0; j < tail; j++ {
			buf[start+j] = byte(v >> (j * 8))
		}
	}
}

// mustPanic runs fn and returns the recovered value, failing the test if fn
// returns normally.
func mustPanic(t *testing.T, name string, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("%s: expected panic, got none", name)
		}
	}()
	fn()
	return nil
}

// mustPanicWith is mustPanic for panics carrying an error wrapping target.
func mustPanicWith(t *testing.T, name string, target error, fn func()) {
	t.Helper()
	r := mustPanic(t, name, fn)
	err, ok := r.(error)
	if !ok {
		t.Fatalf("%s: panic value %v (%T) is not an error", name, r, r)
	}
	if !errors.Is(err, target) {
		t.Fatalf("%s: panic error %v does not wrap %v", name, err, target)
	}
}
