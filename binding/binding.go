// Package binding resolves, once per process, the CPU binding intent for the
// two sealing phases: phase 1 (label generation) and phase 2 (proof
// generation).
//
// The package performs no pinning. It turns five environment variables into a
// Config that the worker-pool layer consults before it dispatches phase 1 or
// phase 2 threads. Resolution never fails: a malformed value is logged and
// replaced by its documented default.
//
//	FIL_PROOFS_P2_BOUND_CORES          positive integer          default 8
//	FIL_PROOFS_P2_BINDING_POLICY       NoBinding | Strict | Weak default NoBinding
//	FIL_PROOFS_P2_BINDING_USE_SAME_SET unsigned integer, 0=false default 1
//	FIL_PROOFS_BINDING_USE_LOCALITY    unsigned integer, 0=false default 1
//	FIL_PROOFS_P1_BINDING_POLICY       Default | ProcessingUnit | Core default Default
//
// The same-set and locality flags are hints; what they select is decided by
// the affinity layer, not here.
package binding

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	lrerrors "github.com/tamirms/labelring/errors"
)

// Environment variable names.
const (
	EnvP2BoundCores = "FIL_PROOFS_P2_BOUND_CORES"
	EnvP2Policy     = "FIL_PROOFS_P2_BINDING_POLICY"
	EnvP2UseSameSet = "FIL_PROOFS_P2_BINDING_USE_SAME_SET"
	EnvUseLocality  = "FIL_PROOFS_BINDING_USE_LOCALITY"
	EnvP1Policy     = "FIL_PROOFS_P1_BINDING_POLICY"
)

// DefaultP2Cores is the default phase-2 core group size.
const DefaultP2Cores = 8

// Config is the resolved binding intent. It is a plain value: build it once at
// startup and pass it to whatever spawns worker threads.
type Config struct {
	// P2BoundCores is the size of the core group a phase-2 worker set binds to.
	P2BoundCores int
	// P2Policy is how strictly phase-2 workers are bound.
	P2Policy P2BoundPolicy
	// P2UseSameSet asks for every phase-2 job to reuse the same core set.
	P2UseSameSet bool
	// UseLocality asks the affinity layer to prefer topologically close cores.
	UseLocality bool
	// P1Policy is the unit phase-1 workers are bound to.
	P1Policy P1BoundPolicy
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() Config {
	return Config{
		P2BoundCores: DefaultP2Cores,
		P2Policy:     P2NoBinding,
		P2UseSameSet: true,
		UseLocality:  true,
		P1Policy:     P1Default,
	}
}

// LookupFunc looks up a configuration variable; os.LookupEnv is the
// production implementation.
type LookupFunc func(key string) (string, bool)

// Load resolves a Config through lookup. Unset variables take their default
// silently; malformed ones take their default and are logged at error level
// on logger. A nil logger means slog.Default().
func Load(lookup LookupFunc, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	return Config{
		P2BoundCores: resolve(lookup, logger, EnvP2BoundCores, def.P2BoundCores, parsePositive),
		P2Policy:     resolve(lookup, logger, EnvP2Policy, def.P2Policy, ParseP2BoundPolicy),
		P2UseSameSet: resolve(lookup, logger, EnvP2UseSameSet, def.P2UseSameSet, parseFlag),
		UseLocality:  resolve(lookup, logger, EnvUseLocality, def.UseLocality, parseFlag),
		P1Policy:     resolve(lookup, logger, EnvP1Policy, def.P1Policy, ParseP1BoundPolicy),
	}
}

// FromEnv returns the process-wide Config, resolving it from the environment
// on first use. Later changes to the environment are not observed.
func FromEnv() Config {
	return fromEnvOnce()
}

var fromEnvOnce = sync.OnceValue(func() Config {
	return Load(os.LookupEnv, slog.Default())
})

// resolve is the single fallback rule shared by every variable.
func resolve[T any](lookup LookupFunc, logger *slog.Logger, key string, def T, parse func(string) (T, error)) T {
	raw, ok := lookup(key)
	if !ok {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		logger.Error("invalid binding configuration, using default",
			"var", key,
			"value", raw,
			"default", def,
			"error", err)
		return def
	}
	return v
}

// parseUint accepts unsigned decimal with at most one leading '+'.
func parseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", lrerrors.ErrInvalidInteger, s)
	}
	return v, nil
}

func parsePositive(s string) (int, error) {
	v, err := parseUint(s)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: %q", lrerrors.ErrNonPositive, s)
	}
	if v > math.MaxInt {
		return 0, fmt.Errorf("%w: %q overflows int", lrerrors.ErrInvalidInteger, s)
	}
	return int(v), nil
}

// parseFlag accepts any unsigned integer; non-zero is true.
func parseFlag(s string) (bool, error) {
	v, err := parseUint(s)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
