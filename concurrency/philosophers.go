package concurrency

import (
	"errors"
	"fmt"
)

// DefaultPhilosophers is the size of the classic table.
const DefaultPhilosophers = 5

// ErrTooFewPhilosophers is returned for tables with fewer than two seats.
var ErrTooFewPhilosophers = errors.New("a table needs at least two philosophers")

// ErrUnknownState is returned when decoding an unrecognized state name.
var ErrUnknownState = errors.New("unknown philosopher state")

// PhilosopherState is what a philosopher is doing.
type PhilosopherState int

// Philosopher states.
const (
	Thinking PhilosopherState = iota
	Hungry
	Eating
)

func (s PhilosopherState) String() string {
	switch s {
	case Thinking:
		return "thinking"
	case Hungry:
		return "hungry"
	case Eating:
		return "eating"
	default:
		return fmt.Sprintf("PhilosopherState(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s PhilosopherState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *PhilosopherState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "thinking":
		*s = Thinking
	case "hungry":
		*s = Hungry
	case "eating":
		*s = Eating
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, text)
	}

	return nil
}

// A Transition records one philosopher changing state.
type Transition struct {
	Philosopher int              `json:"philosopher"`
	From        PhilosopherState `json:"from"`
	To          PhilosopherState `json:"to"`
}

// A Table seats philosophers in a ring with one fork between each pair of
// neighbours. A philosopher eats only while holding both adjacent forks, so
// two neighbours never eat at the same time.
type Table struct {
	States []PhilosopherState
}

// NewTable seats n thinking philosophers.
func NewTable(n int) (*Table, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewPhilosophers, n)
	}

	return &Table{States: make([]PhilosopherState, n)}, nil
}

// Step visits every philosopher once, in seat order, and returns the
// transitions that happened. A thinking philosopher gets hungry with
// probability 0.3, a hungry one picks up both forks with probability 0.5 if
// they are free, and an eating one puts them down with probability 0.4.
func (t *Table) Step(rng Rand) []Transition {
	var transitions []Transition

	for i, s := range t.States {
		r := rng.Float64()
		next := s

		switch s {
		case Thinking:
			if r > 0.7 {
				next = Hungry
			}
		case Hungry:
			if r > 0.5 && t.forksFree(i) {
				next = Eating
			}
		case Eating:
			if r > 0.6 {
				next = Thinking
			}
		}

		if next != s {
			t.States[i] = next
			transitions = append(transitions,
				Transition{Philosopher: i + 1, From: s, To: next})
		}
	}

	return transitions
}

// forksFree tells if neither neighbour of seat i is eating.
func (t *Table) forksFree(i int) bool {
	n := len(t.States)
	left := t.States[(i+n-1)%n]
	right := t.States[(i+1)%n]

	return left != Eating && right != Eating
}

// Snapshot returns a copy of the states.
func (t *Table) Snapshot() []PhilosopherState {
	out := make([]PhilosopherState, len(t.States))
	copy(out, t.States)

	return out
}
