package banker

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProcess is returned when a request names no known claim.
	ErrUnknownProcess = errors.New("unknown process")

	// ErrExceedsClaim is returned when a request goes beyond the process's
	// remaining need.
	ErrExceedsClaim = errors.New("request exceeds remaining need")
)

// Reasons a request is not granted.
const (
	ReasonGranted = "granted"
	ReasonWait    = "insufficient resources available, process must wait"
	ReasonUnsafe  = "granting would leave the system unsafe"
)

// A Decision is the outcome of a resource request.
type Decision struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason"`

	// State is the safety result of the state after the grant, or of the
	// current state when the request is not granted.
	State Result `json:"state"`

	// Claims is the allocation table after the request. It equals the input
	// when the request is not granted.
	Claims []Claim `json:"claims"`
}

// Request runs the resource-request algorithm: process id asks for request
// on top of what it already holds. The request is granted only if it stays
// within the process's need, fits in what is available, and leaves the
// system in a safe state. The inputs are not modified.
func Request(
	total Vector,
	claims []Claim,
	id int,
	request Vector,
) (Decision, error) {
	avail, err := Available(total, claims)
	if err != nil {
		return Decision{}, err
	}

	idx := indexOf(claims, id)
	if idx < 0 {
		return Decision{}, fmt.Errorf("%w: %d", ErrUnknownProcess, id)
	}

	if len(request) != len(total) {
		return Decision{}, fmt.Errorf("%w: request has %d classes, want %d",
			ErrDimensionMismatch, len(request), len(total))
	}

	if request.hasNegative() {
		return Decision{}, fmt.Errorf("%w: request %v",
			ErrNegativeResource, request)
	}

	if !request.LessOrEqual(claims[idx].Need()) {
		return Decision{}, fmt.Errorf("%w: process %d asks %v, needs %v",
			ErrExceedsClaim, id, request, claims[idx].Need())
	}

	current := cloneClaims(claims)

	if !request.LessOrEqual(avail) {
		state, _ := CheckSafety(total, current)
		return Decision{Reason: ReasonWait, State: state, Claims: current}, nil
	}

	next := cloneClaims(claims)
	next[idx].Allocation = next[idx].Allocation.Add(request)

	state, err := CheckSafety(total, next)
	if err != nil {
		return Decision{}, err
	}

	if !state.Safe {
		before, _ := CheckSafety(total, current)
		return Decision{Reason: ReasonUnsafe, State: before, Claims: current}, nil
	}

	return Decision{
		Granted: true,
		Reason:  ReasonGranted,
		State:   state,
		Claims:  next,
	}, nil
}

func indexOf(claims []Claim, id int) int {
	for i, c := range claims {
		if c.ID == id {
			return i
		}
	}

	return -1
}

func cloneClaims(claims []Claim) []Claim {
	out := make([]Claim, len(claims))
	for i, c := range claims {
		out[i] = Claim{
			ID:         c.ID,
			Allocation: c.Allocation.Clone(),
			Maximum:    c.Maximum.Clone(),
		}
	}

	return out
}
