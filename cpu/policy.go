package cpu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPolicy is returned when Schedule is called without a policy.
	ErrNoPolicy = errors.New("no scheduling policy")

	// ErrInvalidQuantum is returned when a round-robin quantum is below 1.
	ErrInvalidQuantum = errors.New("round-robin quantum must be at least 1")

	// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
	ErrUnknownPolicy = errors.New("unknown scheduling policy")
)

// A Policy decides which ready process runs next and for how long. The set
// of policies is closed; each carries exactly the parameters it needs.
type Policy interface {
	// Name returns the conventional short name of the policy.
	Name() string

	validate() error
	pick(ready []*task) *task
	slice(t *task, clock int, pool []*task) int
	rotate(pool []*task, dispatched *task) []*task
}

// FCFS runs processes in order of arrival, each to completion.
type FCFS struct{}

// SJF runs the ready process with the shortest burst, to completion.
type SJF struct{}

// SRTF preemptively runs the ready process with the least remaining time.
// The choice is revisited whenever a process arrives.
type SRTF struct{}

// Priority runs the ready process with the lowest priority value, to
// completion.
type Priority struct{}

// RoundRobin gives each ready process at most Quantum time units in turn.
type RoundRobin struct {
	Quantum int
}

// NewRoundRobin creates a RoundRobin policy, rejecting quanta below 1.
func NewRoundRobin(quantum int) (RoundRobin, error) {
	rr := RoundRobin{Quantum: quantum}
	if err := rr.validate(); err != nil {
		return RoundRobin{}, err
	}

	return rr, nil
}

// ParsePolicy resolves a policy by name. The quantum is only used for
// round robin.
func ParsePolicy(name string, quantum int) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fcfs":
		return FCFS{}, nil
	case "sjf":
		return SJF{}, nil
	case "srtf":
		return SRTF{}, nil
	case "priority":
		return Priority{}, nil
	case "rr", "roundrobin", "round-robin":
		return NewRoundRobin(quantum)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func (FCFS) Name() string     { return "FCFS" }
func (SJF) Name() string      { return "SJF" }
func (SRTF) Name() string     { return "SRTF" }
func (Priority) Name() string { return "Priority" }

func (RoundRobin) Name() string { return "RR" }

func (FCFS) validate() error     { return nil }
func (SJF) validate() error      { return nil }
func (SRTF) validate() error     { return nil }
func (Priority) validate() error { return nil }

func (p RoundRobin) validate() error {
	if p.Quantum < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidQuantum, p.Quantum)
	}

	return nil
}

func (FCFS) pick(ready []*task) *task {
	return minBy(ready, func(t *task) int { return t.ArrivalTime })
}

func (SJF) pick(ready []*task) *task {
	return minBy(ready, func(t *task) int { return t.BurstTime })
}

func (SRTF) pick(ready []*task) *task {
	return minBy(ready, func(t *task) int { return t.remaining })
}

func (Priority) pick(ready []*task) *task {
	return minBy(ready, func(t *task) int { return t.Priority })
}

func (RoundRobin) pick(ready []*task) *task {
	return ready[0]
}

func (FCFS) slice(t *task, _ int, _ []*task) int     { return t.remaining }
func (SJF) slice(t *task, _ int, _ []*task) int      { return t.remaining }
func (Priority) slice(t *task, _ int, _ []*task) int { return t.remaining }

// slice runs the process until it finishes or the next arrival. Between
// arrivals only the running process's remaining time changes, so it stays
// the shortest.
func (SRTF) slice(t *task, clock int, pool []*task) int {
	next, ok := nextArrivalAfter(pool, clock)
	if !ok {
		return t.remaining
	}

	return min(t.remaining, next-clock)
}

func (p RoundRobin) slice(t *task, _ int, _ []*task) int {
	return min(t.remaining, p.Quantum)
}

func (FCFS) rotate(pool []*task, _ *task) []*task     { return pool }
func (SJF) rotate(pool []*task, _ *task) []*task      { return pool }
func (SRTF) rotate(pool []*task, _ *task) []*task     { return pool }
func (Priority) rotate(pool []*task, _ *task) []*task { return pool }

// rotate moves the dispatched process to the back of the pool, so the next
// pick starts with whoever has waited longest since their last turn.
func (RoundRobin) rotate(pool []*task, dispatched *task) []*task {
	rotated := make([]*task, 0, len(pool))
	for _, t := range pool {
		if t != dispatched {
			rotated = append(rotated, t)
		}
	}

	return append(rotated, dispatched)
}

// minBy returns the first task with the smallest key. Earlier tasks win ties.
func minBy(ready []*task, key func(*task) int) *task {
	best := ready[0]
	for _, t := range ready[1:] {
		if key(t) < key(best) {
			best = t
		}
	}

	return best
}
