// Package paging simulates demand paging over a fixed set of frames and
// reports, reference by reference, how a replacement policy treats the
// frames.
package paging

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned for a policy that is not one of the
// predefined values.
var ErrUnknownPolicy = errors.New("unknown replacement policy")

// Policy selects which resident page is evicted on a fault when every frame
// is occupied.
type Policy int

// Supported replacement policies.
const (
	// FIFO evicts the page that has been resident the longest.
	FIFO Policy = iota
	// LRU evicts the page whose last reference is the oldest.
	LRU
	// MRU evicts the page whose last reference is the newest.
	MRU
	// Optimal evicts the page whose next reference is the farthest away.
	Optimal
)

var policyNames = map[Policy]string{
	FIFO:    "FIFO",
	LRU:     "LRU",
	MRU:     "MRU",
	Optimal: "OPTIMAL",
}

// Policies lists every supported policy.
func Policies() []Policy {
	return []Policy{FIFO, LRU, MRU, Optimal}
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy resolves a policy from its name, ignoring case. "OPT" is
// accepted for Optimal.
func ParsePolicy(name string) (Policy, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "OPT" {
		return Optimal, nil
	}

	for p, n := range policyNames {
		if n == upper {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

func (p Policy) victimFinder() (victimFinder, error) {
	switch p {
	case FIFO:
		return fifoVictimFinder{}, nil
	case LRU:
		return lruVictimFinder{}, nil
	case MRU:
		return mruVictimFinder{}, nil
	case Optimal:
		return optimalVictimFinder{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
}
