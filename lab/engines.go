package lab

import (
	"context"

	"github.com/sarchlab/oslab/banker"
	"github.com/sarchlab/oslab/cpu"
	"github.com/sarchlab/oslab/paging"
)

// CPUState is the input of the CPU scheduling lab.
type CPUState struct {
	Processes []cpu.Process
	Policy    cpu.Policy
}

// CPUResult is the timeline and its metrics.
type CPUResult struct {
	Blocks  []cpu.Block `json:"blocks"`
	Metrics cpu.Metrics `json:"metrics"`
}

// CPULab recomputes schedules.
type CPULab struct {
	base
}

// NewCPULab creates a CPULab.
func NewCPULab() *CPULab {
	return &CPULab{base: base{kind: CPU}}
}

// Recompute schedules the processes and derives the metrics.
func (l *CPULab) Recompute(ctx context.Context, s CPUState) (CPUResult, error) {
	blocks, err := cpu.Schedule(s.Processes, s.Policy)
	if err != nil {
		return CPUResult{}, err
	}

	r := CPUResult{
		Blocks:  blocks,
		Metrics: cpu.ComputeMetrics(s.Processes, blocks),
	}
	l.completed(ctx, r)

	return r, nil
}

// MemoryState is the input of the page replacement lab.
type MemoryState struct {
	References []int
	Frames     int
	Policy     paging.Policy
}

// MemoryResult is the trace and its summary.
type MemoryResult struct {
	Steps   []paging.Step  `json:"steps"`
	Summary paging.Summary `json:"summary"`
}

// MemoryLab recomputes page replacement traces.
type MemoryLab struct {
	base
}

// NewMemoryLab creates a MemoryLab.
func NewMemoryLab() *MemoryLab {
	return &MemoryLab{base: base{kind: Memory}}
}

// Recompute replays the reference string.
func (l *MemoryLab) Recompute(
	ctx context.Context,
	s MemoryState,
) (MemoryResult, error) {
	steps, err := paging.Simulate(s.References, s.Frames, s.Policy)
	if err != nil {
		return MemoryResult{}, err
	}

	r := MemoryResult{Steps: steps, Summary: paging.Summarize(steps)}
	l.completed(ctx, r)

	return r, nil
}

// DeadlockState is the input of the Banker's Algorithm lab.
type DeadlockState struct {
	Total  banker.Vector
	Claims []banker.Claim
}

// DeadlockLab recomputes safety checks.
type DeadlockLab struct {
	base
}

// NewDeadlockLab creates a DeadlockLab.
func NewDeadlockLab() *DeadlockLab {
	return &DeadlockLab{base: base{kind: Deadlock}}
}

// Recompute checks whether the state is safe.
func (l *DeadlockLab) Recompute(
	ctx context.Context,
	s DeadlockState,
) (banker.Result, error) {
	r, err := banker.CheckSafety(s.Total, s.Claims)
	if err != nil {
		return banker.Result{}, err
	}

	l.completed(ctx, r)

	return r, nil
}

// Request evaluates a resource request against the state.
func (l *DeadlockLab) Request(
	ctx context.Context,
	s DeadlockState,
	id int,
	request banker.Vector,
) (banker.Decision, error) {
	d, err := banker.Request(s.Total, s.Claims, id, request)
	if err != nil {
		return banker.Decision{}, err
	}

	l.completed(ctx, d)

	return d, nil
}
