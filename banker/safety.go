package banker

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is returned when vectors disagree on the number of
	// resource classes.
	ErrDimensionMismatch = errors.New("resource vector length mismatch")

	// ErrNegativeResource is returned for negative totals, allocations or
	// maxima.
	ErrNegativeResource = errors.New("negative resource amount")

	// ErrAllocationExceedsMaximum is returned when a process holds more of a
	// resource than it declared as its maximum.
	ErrAllocationExceedsMaximum = errors.New("allocation exceeds maximum claim")

	// ErrOverCommitted is returned when the processes together hold more than
	// the total of some resource.
	ErrOverCommitted = errors.New("allocations exceed total resources")

	// ErrDuplicateID is returned when two claims share an id.
	ErrDuplicateID = errors.New("duplicate process id")
)

// Result is the outcome of a safety check.
type Result struct {
	Safe bool `json:"safe"`

	// Sequence is a completion order when Safe is true and empty otherwise.
	Sequence []int `json:"sequence"`

	// Available is total minus the sum of all allocations.
	Available Vector `json:"available"`
}

// Available returns total minus the sum of all allocations, after checking
// that the configuration is consistent.
func Available(total Vector, claims []Claim) (Vector, error) {
	if err := validate(total, claims); err != nil {
		return nil, err
	}

	return available(total, claims), nil
}

// CheckSafety runs the safety algorithm. The scan restarts from the first
// unfinished claim after every completion, so among eligible claims the one
// listed first always completes first. Neither total nor claims are
// modified.
func CheckSafety(total Vector, claims []Claim) (Result, error) {
	avail, err := Available(total, claims)
	if err != nil {
		return Result{}, err
	}

	sequence := safeSequence(avail, claims)
	if len(sequence) < len(claims) {
		return Result{Sequence: []int{}, Available: avail}, nil
	}

	return Result{Safe: true, Sequence: sequence, Available: avail}, nil
}

func safeSequence(avail Vector, claims []Claim) []int {
	work := avail.Clone()
	finished := make([]bool, len(claims))
	sequence := make([]int, 0, len(claims))

	for len(sequence) < len(claims) {
		i := firstRunnable(work, claims, finished)
		if i < 0 {
			break
		}

		finished[i] = true
		work = work.Add(claims[i].Allocation)
		sequence = append(sequence, claims[i].ID)
	}

	return sequence
}

func firstRunnable(work Vector, claims []Claim, finished []bool) int {
	for i, c := range claims {
		if !finished[i] && c.Need().LessOrEqual(work) {
			return i
		}
	}

	return -1
}

func available(total Vector, claims []Claim) Vector {
	avail := total.Clone()
	for _, c := range claims {
		avail = avail.Sub(c.Allocation)
	}

	return avail
}

func validate(total Vector, claims []Claim) error {
	if total.hasNegative() {
		return fmt.Errorf("%w: total %v", ErrNegativeResource, total)
	}

	seen := make(map[int]bool, len(claims))
	for _, c := range claims {
		if err := validateClaim(total, c); err != nil {
			return err
		}

		if seen[c.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = true
	}

	avail := available(total, claims)
	if avail.hasNegative() {
		return fmt.Errorf("%w: available would be %v", ErrOverCommitted, avail)
	}

	return nil
}

func validateClaim(total Vector, c Claim) error {
	if len(c.Allocation) != len(total) || len(c.Maximum) != len(total) {
		return fmt.Errorf("%w: process %d has %d/%d classes, want %d",
			ErrDimensionMismatch, c.ID,
			len(c.Allocation), len(c.Maximum), len(total))
	}

	if c.Allocation.hasNegative() || c.Maximum.hasNegative() {
		return fmt.Errorf("%w: process %d", ErrNegativeResource, c.ID)
	}

	if !c.Allocation.LessOrEqual(c.Maximum) {
		return fmt.Errorf("%w: process %d holds %v, max %v",
			ErrAllocationExceedsMaximum, c.ID, c.Allocation, c.Maximum)
	}

	return nil
}
