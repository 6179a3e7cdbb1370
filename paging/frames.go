package paging

import (
	"encoding/json"
	"strconv"
)

// A Slot is one frame. An unoccupied slot holds no page.
type Slot struct {
	Page     int
	Occupied bool
}

func (s Slot) String() string {
	if !s.Occupied {
		return "-"
	}

	return strconv.Itoa(s.Page)
}

// MarshalJSON encodes an empty slot as null and an occupied one as its page.
func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.Occupied {
		return []byte("null"), nil
	}

	return json.Marshal(s.Page)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var page *int
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}

	*s = Slot{}
	if page != nil {
		s.Page = *page
		s.Occupied = true
	}

	return nil
}

// frameSet is the per-run scratch state: frame contents plus the bookkeeping
// the victim finders need.
type frameSet struct {
	slots []Slot

	// loadOrder lists occupied slot indices, oldest load first.
	loadOrder []int

	// lastUse maps a page to the position of its latest reference.
	lastUse map[int]int

	refs []int
	pos  int
}

func newFrameSet(capacity int, refs []int) *frameSet {
	return &frameSet{
		slots:   make([]Slot, capacity),
		lastUse: make(map[int]int),
		refs:    refs,
	}
}

func (f *frameSet) lookup(page int) int {
	for i, s := range f.slots {
		if s.Occupied && s.Page == page {
			return i
		}
	}

	return NoSlot
}

func (f *frameSet) firstEmpty() int {
	for i, s := range f.slots {
		if !s.Occupied {
			return i
		}
	}

	return NoSlot
}

func (f *frameSet) load(slot, page int) {
	f.slots[slot] = Slot{Page: page, Occupied: true}

	order := f.loadOrder[:0]
	for _, s := range f.loadOrder {
		if s != slot {
			order = append(order, s)
		}
	}
	f.loadOrder = append(order, slot)
}

func (f *frameSet) visit(page int) {
	f.lastUse[page] = f.pos
}

// nextUse returns the position of the next reference to page after the
// current one, or -1 if the page is never referenced again.
func (f *frameSet) nextUse(page int) int {
	for i := f.pos + 1; i < len(f.refs); i++ {
		if f.refs[i] == page {
			return i
		}
	}

	return -1
}

func (f *frameSet) snapshot() []Slot {
	out := make([]Slot, len(f.slots))
	copy(out, f.slots)

	return out
}
