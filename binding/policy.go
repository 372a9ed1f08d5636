package binding

import (
	"fmt"

	lrerrors "github.com/tamirms/labelring/errors"
)

// P2BoundPolicy is how phase-2 (proof generation) workers are bound to cores.
type P2BoundPolicy int

const (
	// P2NoBinding leaves phase-2 threads to the OS scheduler.
	P2NoBinding P2BoundPolicy = iota
	// P2Strict pins each phase-2 thread to its core group.
	P2Strict
	// P2Weak binds phase-2 threads to a core group but lets them migrate
	// when the group is saturated.
	P2Weak
)

var p2PolicyNames = map[string]P2BoundPolicy{
	"NoBinding": P2NoBinding,
	"Strict":    P2Strict,
	"Weak":      P2Weak,
}

// ParseP2BoundPolicy maps a variant name to its policy. Names are case
// sensitive and must match exactly.
func ParseP2BoundPolicy(s string) (P2BoundPolicy, error) {
	p, ok := p2PolicyNames[s]
	if !ok {
		return P2NoBinding, fmt.Errorf("%w: P2 policy %q", lrerrors.ErrInvalidPolicy, s)
	}
	return p, nil
}

func (p P2BoundPolicy) String() string {
	switch p {
	case P2NoBinding:
		return "NoBinding"
	case P2Strict:
		return "Strict"
	case P2Weak:
		return "Weak"
	default:
		return fmt.Sprintf("P2BoundPolicy(%d)", int(p))
	}
}

// P1BoundPolicy is the hardware unit phase-1 (label generation) workers are
// bound to.
type P1BoundPolicy int

const (
	// P1Default keeps the affinity layer's built-in behaviour.
	P1Default P1BoundPolicy = iota
	// P1ProcessingUnit binds each worker to one logical CPU (hardware thread).
	P1ProcessingUnit
	// P1Core binds each worker to a physical core.
	P1Core
)

var p1PolicyNames = map[string]P1BoundPolicy{
	"Default":        P1Default,
	"ProcessingUnit": P1ProcessingUnit,
	"Core":           P1Core,
}

// ParseP1BoundPolicy maps a variant name to its policy. Names are case
// sensitive and must match exactly.
func ParseP1BoundPolicy(s string) (P1BoundPolicy, error) {
	p, ok := p1PolicyNames[s]
	if !ok {
		return P1Default, fmt.Errorf("%w: P1 policy %q", lrerrors.ErrInvalidPolicy, s)
	}
	return p, nil
}

func (p P1BoundPolicy) String() string {
	switch p {
	case P1Default:
		return "Default"
	case P1ProcessingUnit:
		return "ProcessingUnit"
	case P1Core:
		return "Core"
	default:
		return fmt.Sprintf("P1BoundPolicy(%d)", int(p))
	}
}
