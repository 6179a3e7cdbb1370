package lab

import (
	"context"
	"sync"

	"github.com/sarchlab/oslab/concurrency"
	"github.com/sarchlab/oslab/shell"
)

// Rand is the randomness the interactive labs draw from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// ConcurrencyLab holds a live producer/consumer buffer and a philosophers
// table. Unlike the engine labs it is stateful, so it is guarded by a
// mutex.
type ConcurrencyLab struct {
	base

	mu    sync.Mutex
	rng   Rand
	PC    *concurrency.ProducerConsumer
	Table *concurrency.Table
}

// ConcurrencySnapshot is a copy of the lab state.
type ConcurrencySnapshot struct {
	Buffer       []int                          `json:"buffer"`
	Capacity     int                            `json:"capacity"`
	Log          []concurrency.Event            `json:"log"`
	Philosophers []concurrency.PhilosopherState `json:"philosophers"`
}

// NewConcurrencyLab creates a lab with the classic sizes.
func NewConcurrencyLab(rng Rand) *ConcurrencyLab {
	table, err := concurrency.NewTable(concurrency.DefaultPhilosophers)
	if err != nil {
		panic(err)
	}

	return &ConcurrencyLab{
		base:  base{kind: Concurrency},
		rng:   rng,
		PC:    concurrency.NewProducerConsumer(concurrency.DefaultBufferCapacity),
		Table: table,
	}
}

// Produce adds a random item to the buffer.
func (l *ConcurrencyLab) Produce(ctx context.Context) (ConcurrencySnapshot, error) {
	l.mu.Lock()
	err := l.PC.Produce(l.rng.IntN(99))
	snap := l.snapshot()
	l.mu.Unlock()

	if err != nil {
		return snap, err
	}

	l.completed(ctx, snap)

	return snap, nil
}

// Consume takes the oldest item from the buffer.
func (l *ConcurrencyLab) Consume(ctx context.Context) (ConcurrencySnapshot, error) {
	l.mu.Lock()
	_, err := l.PC.Consume()
	snap := l.snapshot()
	l.mu.Unlock()

	if err != nil {
		return snap, err
	}

	l.completed(ctx, snap)

	return snap, nil
}

// StepBuffer lets the auto-pilot act once on the buffer.
func (l *ConcurrencyLab) StepBuffer() ConcurrencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.PC.Step(l.rng)

	return l.snapshot()
}

// StepPhilosophers advances the table by one round.
func (l *ConcurrencyLab) StepPhilosophers() (
	[]concurrency.Transition,
	ConcurrencySnapshot,
) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := l.Table.Step(l.rng)

	return t, l.snapshot()
}

// Snapshot returns a copy of the lab state.
func (l *ConcurrencyLab) Snapshot() ConcurrencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshot()
}

func (l *ConcurrencyLab) snapshot() ConcurrencySnapshot {
	return ConcurrencySnapshot{
		Buffer:       l.PC.Items(),
		Capacity:     l.PC.Buffer.Capacity(),
		Log:          l.PC.Log(),
		Philosophers: l.Table.Snapshot(),
	}
}

// ShellLab holds a live shell session.
type ShellLab struct {
	base

	mu    sync.Mutex
	Shell *shell.Shell
}

// NewShellLab starts a shell session.
func NewShellLab(rng Rand) *ShellLab {
	return &ShellLab{
		base:  base{kind: Shell},
		Shell: shell.New(rng),
	}
}

// Execute runs one command line.
func (l *ShellLab) Execute(input string) []shell.Line {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.Shell.Execute(input)
}

// ShellSnapshot is a copy of the session state.
type ShellSnapshot struct {
	History []shell.Line `json:"history"`
	Procs   []shell.Proc `json:"procs"`
}

// Snapshot returns a copy of the session state.
func (l *ShellLab) Snapshot() ShellSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ShellSnapshot{
		History: append([]shell.Line{}, l.Shell.History...),
		Procs:   append([]shell.Proc{}, l.Shell.Procs...),
	}
}

// History returns a copy of the terminal history.
func (l *ShellLab) History() []shell.Line {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]shell.Line, len(l.Shell.History))
	copy(out, l.Shell.History)

	return out
}
