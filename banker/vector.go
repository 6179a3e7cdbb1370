// Package banker implements the Banker's Algorithm: it decides whether a
// resource-allocation state is safe and, if it is, produces an order in
// which every process can run to completion.
package banker

// A Vector holds one amount per resource class.
type Vector []int

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)

	return out
}

// Add returns v + o. Both vectors must have the same length.
func (v Vector) Add(o Vector) Vector {
	out := v.Clone()
	for i := range out {
		out[i] += o[i]
	}

	return out
}

// Sub returns v - o. Both vectors must have the same length.
func (v Vector) Sub(o Vector) Vector {
	out := v.Clone()
	for i := range out {
		out[i] -= o[i]
	}

	return out
}

// LessOrEqual tells if every component of v is at most the matching
// component of o.
func (v Vector) LessOrEqual(o Vector) bool {
	for i := range v {
		if v[i] > o[i] {
			return false
		}
	}

	return true
}

func (v Vector) hasNegative() bool {
	for _, x := range v {
		if x < 0 {
			return true
		}
	}

	return false
}

// A Claim describes what a process holds and the most it may ever hold.
type Claim struct {
	ID         int    `json:"id"`
	Allocation Vector `json:"allocation"`
	Maximum    Vector `json:"maximum"`
}

// Need returns the resources the process may still request.
func (c Claim) Need() Vector {
	return c.Maximum.Sub(c.Allocation)
}
