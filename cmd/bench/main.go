// Bench drives the labelring primitives through a synthetic label-generation
// pass and reports throughput.
//
// Each layer walks the node sequence one window at a time. A window is
// mapped onto a RingBuf of at most 32 slots; its positions are split into
// contiguous ranges, one per worker. A worker clears its slot, writes the
// pre-hash block, stamps the node index and a prefix of the node's label from
// the previous layer, compresses the block into the node's label and marks
// its position complete. The window is consumed once every position is set.
//
// Usage:
//
//	go run ./cmd/bench -nodes 1048576 -layers 4 -workers 8 -hash sha256
//
// Flags:
//
//	-nodes     Nodes per layer (default: 1<<20)
//	-layers    Number of layers (default: 2)
//	-window    Ring slots, at most 32 (default: 32)
//	-workers   Parallel workers per window (default: allowed CPUs)
//	-hash      Compression: sha256, xxh3 or murmur3 (default: sha256)
//	-seed      Seed string the replica id is derived from
//	-mmap      Back the ring with an anonymous mapping
//	-prefault  Prefault the ring's pages
//	-verify    Recompute single-threaded and compare digests
package main

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/labelring"
	"github.com/tamirms/labelring/binding"
	"github.com/tamirms/labelring/internal/topology"
)

const (
	blockSize = 128

	// Message layout beyond what PrepareBlock writes.
	nodeOffset   = 36
	parentOffset = 44
	parentLen    = 64 - parentOffset
)

type label = [32]byte

// compressFunc maps a prepared block to a 32-byte label.
type compressFunc func(block []byte, out *label)

func compressSHA256(block []byte, out *label) {
	*out = sha256.Sum256(block)
}

func compressXXH3(block []byte, out *label) {
	lo := xxh3.Hash128(block)
	hi := xxh3.Hash128Seed(block, lo.Lo)
	binary.LittleEndian.PutUint64(out[0:8], lo.Lo)
	binary.LittleEndian.PutUint64(out[8:16], lo.Hi)
	binary.LittleEndian.PutUint64(out[16:24], hi.Lo)
	binary.LittleEndian.PutUint64(out[24:32], hi.Hi)
}

func compressMurmur3(block []byte, out *label) {
	h1, h2 := murmur3.Sum128(block)
	h3, h4 := murmur3.Sum128WithSeed(block, uint32(h1))
	binary.LittleEndian.PutUint64(out[0:8], h1)
	binary.LittleEndian.PutUint64(out[8:16], h2)
	binary.LittleEndian.PutUint64(out[16:24], h3)
	binary.LittleEndian.PutUint64(out[24:32], h4)
}

var compressors = map[string]compressFunc{
	"sha256":  compressSHA256,
	"xxh3":    compressXXH3,
	"murmur3": compressMurmur3,
}

// replicaID derives a 32-byte replica id from a seed string.
func replicaID(seed string) []byte {
	id := make([]byte, labelring.ReplicaIDSize)
	a := xxh3.HashString128(seed)
	b := xxh3.HashString128Seed(seed, a.Hi)
	binary.LittleEndian.PutUint64(id[0:8], a.Lo)
	binary.LittleEndian.PutUint64(id[8:16], a.Hi)
	binary.LittleEndian.PutUint64(id[16:24], b.Lo)
	binary.LittleEndian.PutUint64(id[24:32], b.Hi)
	return id
}

type params struct {
	nodes    int
	layers   int
	window   int
	workers  int
	compress compressFunc
	id       []byte
	ringOpts []labelring.RingOption
}

func main() {
	nodesFlag := flag.Int("nodes", 1<<20, "nodes per layer")
	layersFlag := flag.Int("layers", 2, "number of layers")
	windowFlag := flag.Int("window", labelring.MaxWindowBits, "ring slots (at most 32)")
	workersFlag := flag.Int("workers", topology.NumAllowedCPUs(), "parallel workers per window")
	hashFlag := flag.String("hash", "sha256", "compression: sha256, xxh3 or murmur3")
	seedFlag := flag.String("seed", "labelring", "seed string for the replica id")
	mmapFlag := flag.Bool("mmap", false, "back the ring with an anonymous mapping")
	prefaultFlag := flag.Bool("prefault", false, "prefault the ring's pages")
	verifyFlag := flag.Bool("verify", false, "recompute single-threaded and compare digests")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	flag.Parse()

	compress, ok := compressors[*hashFlag]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown -hash %q\n", *hashFlag)
		os.Exit(2)
	}
	if *windowFlag < 1 || *windowFlag > labelring.MaxWindowBits {
		fmt.Fprintf(os.Stderr, "-window must be in [1, %d]\n", labelring.MaxWindowBits)
		os.Exit(2)
	}
	if *nodesFlag < 1 || *layersFlag < 1 {
		fmt.Fprintln(os.Stderr, "-nodes and -layers must be positive")
		os.Exit(2)
	}

	// Binding intent is resolved before any worker runs.
	cfg := binding.FromEnv()
	cpus := topology.AllowedCPUs()
	fmt.Printf("Binding: P1=%s P2=%s P2cores=%d sameSet=%v locality=%v\n",
		cfg.P1Policy, cfg.P2Policy, cfg.P2BoundCores, cfg.P2UseSameSet, cfg.UseLocality)
	fmt.Printf("Allowed CPUs: %d, P2 core groups: %v\n", len(cpus), topology.Groups(cpus, cfg.P2BoundCores))

	p := params{
		nodes:    *nodesFlag,
		layers:   *layersFlag,
		window:   *windowFlag,
		workers:  max(1, *workersFlag),
		compress: compress,
		id:       replicaID(*seedFlag),
	}
	if *mmapFlag {
		p.ringOpts = append(p.ringOpts, labelring.WithAnonymousMapping())
	}
	if *prefaultFlag {
		p.ringOpts = append(p.ringOpts, labelring.WithPrefault())
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create cpu profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Printf("Generating %d layers x %d nodes (window %d, %d workers, %s)...\n",
		p.layers, p.nodes, p.window, p.workers, *hashFlag)
	start := time.Now()
	digest, err := run(context.Background(), p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "label generation failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	total := float64(p.nodes) * float64(p.layers)
	fmt.Printf("Done in %v: %.2f Mlabels/s, digest %016x\n",
		elapsed, total/elapsed.Seconds()/1e6, digest)

	if *verifyFlag {
		serial := p
		serial.workers = 1
		want, err := run(context.Background(), serial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "serial run failed: %v\n", err)
			os.Exit(1)
		}
		if want != digest {
			fmt.Fprintf(os.Stderr, "digest mismatch: parallel %016x, serial %016x\n", digest, want)
			os.Exit(1)
		}
		fmt.Println("Verified against single-threaded run.")
	}
}

// run generates every layer and returns the xxHash64 of the last layer's
// labels in node order.
func run(ctx context.Context, p params) (uint64, error) {
	ring := labelring.NewRingBuf(blockSize, p.window, p.ringOpts...)
	defer ring.Close()

	prev := make([]label, p.nodes)
	cur := make([]label, p.nodes)
	for layer := range p.layers {
		if err := generateLayer(ctx, p, ring, uint32(layer+1), prev, cur); err != nil {
			return 0, fmt.Errorf("layer %d: %w", layer+1, err)
		}
		prev, cur = cur, prev
	}

	d := xxhash.New()
	for i := range prev {
		_, _ = d.Write(prev[i][:])
	}
	return d.Sum64(), nil
}

// generateLayer fills cur from prev, one window at a time.
func generateLayer(ctx context.Context, p params, ring *labelring.RingBuf, layer uint32, prev, cur []label) error {
	// cur is checked out for the duration of the layer; workers only ever
	// touch the labels of the nodes in their own range.
	labels := labelring.NewUnsafeSlice(cur)
	per := (p.window + p.workers - 1) / p.workers

	for base := 0; base < p.nodes; base += p.window {
		n := min(p.window, p.nodes-base)
		done := new(labelring.AtomicBitMask)

		g, gctx := errgroup.WithContext(ctx)
		for lo := 0; lo < n; lo += per {
			hi := min(lo+per, n)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				for pos := lo; pos < hi; pos++ {
					node := base + pos
					// base is a multiple of the window, so the slot is pos.
					block := ring.Slot(pos)
					labelring.Memset(block, 0)
					labelring.PrepareBlock(p.id, layer, block)
					binary.LittleEndian.PutUint64(block[nodeOffset:], uint64(node))
					copy(block[parentOffset:parentOffset+parentLen], prev[node][:])
					p.compress(block, labels.Ptr(node))
					done.Set(pos)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var want labelring.BitMask
		want.SetUpto(n)
		if got := done.Load(); got != want {
			return fmt.Errorf("window at node %d incomplete: mask %032b, want %032b", base, got, want)
		}
	}
	return nil
}
