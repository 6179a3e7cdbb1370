package lab

import (
	"math/rand/v2"

	"github.com/sarchlab/oslab/sim"
)

// Bench groups one instance of every lab.
type Bench struct {
	CPU         *CPULab
	Memory      *MemoryLab
	Deadlock    *DeadlockLab
	Concurrency *ConcurrencyLab
	Shell       *ShellLab
}

// NewBench creates all labs. The interactive labs draw from independent
// generators derived from seed.
func NewBench(seed uint64) *Bench {
	return &Bench{
		CPU:         NewCPULab(),
		Memory:      NewMemoryLab(),
		Deadlock:    NewDeadlockLab(),
		Concurrency: NewConcurrencyLab(rand.New(rand.NewPCG(seed, 1))),
		Shell:       NewShellLab(rand.New(rand.NewPCG(seed, 2))),
	}
}

// AcceptHook registers the hook on every lab.
func (b *Bench) AcceptHook(hook sim.Hook) {
	for _, l := range b.labs() {
		l.AcceptHook(hook)
	}
}

// RemoveHook unregisters the hook from every lab.
func (b *Bench) RemoveHook(hook sim.Hook) {
	for _, l := range b.labs() {
		l.RemoveHook(hook)
	}
}

// NumHooks returns the number of hooks registered on the CPU lab, which is
// the same as on every other lab when hooks are added through the bench.
func (b *Bench) NumHooks() int {
	return b.CPU.NumHooks()
}

func (b *Bench) labs() []sim.Hookable {
	return []sim.Hookable{b.CPU, b.Memory, b.Deadlock, b.Concurrency, b.Shell}
}
