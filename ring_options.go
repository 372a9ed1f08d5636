package labelring

// RingOption is a functional option for configuring a RingBuf.
type RingOption func(*ringConfig)

type ringConfig struct {
	anonymous bool // back the ring with an anonymous mapping instead of the Go heap
	prefault  bool // populate pages for writing right after allocation
	hugePages bool // ask for transparent huge pages on the mapping
}

func defaultRingConfig() *ringConfig {
	return &ringConfig{}
}

// WithAnonymousMapping backs the ring with an anonymous, private memory
// mapping rather than a Go heap slice. The memory is outside the garbage
// collector's view, is zero-filled by the kernel and must be released with
// Close. Prefer it for windows large enough that GC scanning and heap growth
// would matter.
func WithAnonymousMapping() RingOption {
	return func(c *ringConfig) {
		c.anonymous = true
	}
}

// WithPrefault asks the kernel to fault in every page of the ring for writing
// at construction time, so the first parallel pass over the window does not
// pay page faults on the hot path.
//
// On Linux 5.14+ this uses MADV_POPULATE_WRITE. Elsewhere it is a no-op.
// Prefaulting is best effort and any madvise error is ignored. It is
// effective mainly together with WithAnonymousMapping: a heap-backed ring is
// not page aligned, and the kernel may reject the advice with EINVAL.
func WithPrefault() RingOption {
	return func(c *ringConfig) {
		c.prefault = true
	}
}

// WithHugePages advises the kernel to back the ring with transparent huge
// pages. Only meaningful together with WithAnonymousMapping; Linux only,
// best effort.
func WithHugePages() RingOption {
	return func(c *ringConfig) {
		c.hugePages = true
	}
}
