package paging

// A victimFinder decides which slot is evicted when every slot is occupied.
type victimFinder interface {
	FindVictim(f *frameSet) int
}

type fifoVictimFinder struct{}

// FindVictim returns the slot loaded the longest time ago.
func (fifoVictimFinder) FindVictim(f *frameSet) int {
	return f.loadOrder[0]
}

type lruVictimFinder struct{}

// FindVictim returns the slot whose page was referenced least recently.
func (lruVictimFinder) FindVictim(f *frameSet) int {
	victim := 0
	for i, s := range f.slots {
		if f.lastUse[s.Page] < f.lastUse[f.slots[victim].Page] {
			victim = i
		}
	}

	return victim
}

type mruVictimFinder struct{}

// FindVictim returns the slot whose page was referenced most recently.
func (mruVictimFinder) FindVictim(f *frameSet) int {
	victim := 0
	for i, s := range f.slots {
		if f.lastUse[s.Page] > f.lastUse[f.slots[victim].Page] {
			victim = i
		}
	}

	return victim
}

type optimalVictimFinder struct{}

// FindVictim returns the first slot, in slot order, whose page is never
// referenced again. Failing that, it returns the slot whose page is
// referenced again the farthest in the future.
func (optimalVictimFinder) FindVictim(f *frameSet) int {
	victim := 0
	farthest := -1

	for i, s := range f.slots {
		next := f.nextUse(s.Page)
		if next < 0 {
			return i
		}

		if next > farthest {
			farthest = next
			victim = i
		}
	}

	return victim
}
