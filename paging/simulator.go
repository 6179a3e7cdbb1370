package paging

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NoSlot marks a step on which no slot changed.
const NoSlot = -1

var (
	// ErrInvalidCapacity is returned when the frame capacity is below 1.
	ErrInvalidCapacity = errors.New("frame capacity must be at least 1")

	// ErrInvalidReference is returned by ParseReferences for entries that are
	// not integers.
	ErrInvalidReference = errors.New("invalid page reference")
)

// A Step records the outcome of one reference.
type Step struct {
	Page   int    `json:"page"`
	Frames []Slot `json:"frames"`
	Hit    bool   `json:"hit"`

	// Faults is the number of faults so far, this step included.
	Faults int `json:"faults"`

	// Replaced is the slot that received the page on a fault, or NoSlot on a
	// hit.
	Replaced int `json:"replaced"`

	// Evicted tells whether loading the page pushed another page out, and
	// EvictedPage is that page.
	Evicted     bool `json:"evicted"`
	EvictedPage int  `json:"evicted_page"`
}

// Summary aggregates a trace.
type Summary struct {
	References int     `json:"references"`
	Hits       int     `json:"hits"`
	Faults     int     `json:"faults"`
	HitRatio   float64 `json:"hit_ratio"`
}

// Simulate replays the reference string against capacity frames under the
// given policy and returns one step per reference. The refs slice is not
// modified.
func Simulate(refs []int, capacity int, policy Policy) ([]Step, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}

	finder, err := policy.victimFinder()
	if err != nil {
		return nil, err
	}

	frames := newFrameSet(capacity, refs)
	steps := make([]Step, 0, len(refs))
	faults := 0

	for i, page := range refs {
		frames.pos = i
		step := Step{Page: page, Replaced: NoSlot}

		if frames.lookup(page) != NoSlot {
			step.Hit = true
		} else {
			faults++

			slot := frames.firstEmpty()
			if slot == NoSlot {
				slot = finder.FindVictim(frames)
				step.Evicted = true
				step.EvictedPage = frames.slots[slot].Page
			}

			frames.load(slot, page)
			step.Replaced = slot
		}

		frames.visit(page)

		step.Faults = faults
		step.Frames = frames.snapshot()
		steps = append(steps, step)
	}

	return steps, nil
}

// Summarize counts hits and faults over a trace.
func Summarize(steps []Step) Summary {
	s := Summary{References: len(steps)}

	for _, step := range steps {
		if step.Hit {
			s.Hits++
		}
	}

	if len(steps) > 0 {
		s.Faults = steps[len(steps)-1].Faults
		s.HitRatio = float64(s.Hits) / float64(len(steps))
	}

	return s
}

// Compare runs every policy on the same input.
func Compare(refs []int, capacity int) (map[Policy]Summary, error) {
	out := make(map[Policy]Summary, len(policyNames))

	for _, p := range Policies() {
		steps, err := Simulate(refs, capacity, p)
		if err != nil {
			return nil, err
		}

		out[p] = Summarize(steps)
	}

	return out, nil
}

// ParseReferences reads a comma separated reference string such as
// "7, 0, 1". Blank entries are skipped.
func ParseReferences(s string) ([]int, error) {
	refs := []int{}

	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		page, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidReference, field)
		}

		refs = append(refs, page)
	}

	return refs, nil
}
