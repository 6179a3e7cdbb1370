package cpu

// Schedule simulates the given policy over the processes and returns the
// execution timeline. Consecutive blocks of the same process are merged.
// Idle gaps appear only as gaps between blocks. The input slice is not
// modified.
func Schedule(processes []Process, policy Policy) ([]Block, error) {
	if policy == nil {
		return nil, ErrNoPolicy
	}

	if err := policy.validate(); err != nil {
		return nil, err
	}

	if err := validateProcesses(processes); err != nil {
		return nil, err
	}

	pool := make([]*task, len(processes))
	for i, p := range processes {
		pool[i] = &task{Process: p, remaining: p.BurstTime}
	}

	blocks := []Block{}
	clock := 0
	completed := 0

	for completed < len(pool) {
		ready := readySet(pool, clock)
		if len(ready) == 0 {
			clock = nextArrival(pool)
			continue
		}

		t := policy.pick(ready)
		duration := policy.slice(t, clock, pool)

		blocks = appendBlock(blocks, Block{
			ProcessID: t.ID,
			Start:     clock,
			End:       clock + duration,
		})

		clock += duration
		t.remaining -= duration
		pool = policy.rotate(pool, t)

		if t.remaining == 0 {
			completed++
		}
	}

	return blocks, nil
}

func readySet(pool []*task, clock int) []*task {
	ready := make([]*task, 0, len(pool))
	for _, t := range pool {
		if t.ArrivalTime <= clock && t.remaining > 0 {
			ready = append(ready, t)
		}
	}

	return ready
}

// nextArrival returns the earliest arrival among unfinished processes. It is
// only called when nothing is ready, so every unfinished process lies in the
// future.
func nextArrival(pool []*task) int {
	next := -1
	for _, t := range pool {
		if t.remaining > 0 && (next < 0 || t.ArrivalTime < next) {
			next = t.ArrivalTime
		}
	}

	return next
}

// nextArrivalAfter returns the earliest arrival strictly after clock among
// unfinished processes.
func nextArrivalAfter(pool []*task, clock int) (int, bool) {
	next, found := 0, false
	for _, t := range pool {
		if t.remaining > 0 && t.ArrivalTime > clock &&
			(!found || t.ArrivalTime < next) {
			next, found = t.ArrivalTime, true
		}
	}

	return next, found
}

func appendBlock(blocks []Block, b Block) []Block {
	if n := len(blocks); n > 0 {
		last := &blocks[n-1]
		if last.ProcessID == b.ProcessID && last.End == b.Start {
			last.End = b.End
			return blocks
		}
	}

	return append(blocks, b)
}
