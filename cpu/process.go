// Package cpu implements the CPU scheduling engine. It turns a set of
// processes and a scheduling policy into a timeline of execution blocks and
// derives the classic timing metrics from that timeline.
package cpu

import (
	"errors"
	"fmt"
)

// ErrInvalidProcess is returned when a process description cannot be
// scheduled.
var ErrInvalidProcess = errors.New("invalid process")

// A Process is a unit of work that competes for the CPU.
type Process struct {
	ID          int `json:"id"`
	ArrivalTime int `json:"arrival"`
	BurstTime   int `json:"burst"`

	// Priority is only consulted by the Priority policy. Lower values are
	// more urgent.
	Priority int `json:"priority"`
}

// A Block is a half-open interval [Start, End) during which a process owns
// the CPU.
type Block struct {
	ProcessID int `json:"process_id"`
	Start     int `json:"start"`
	End       int `json:"end"`
}

// Duration returns the length of the block.
func (b Block) Duration() int {
	return b.End - b.Start
}

func (b Block) String() string {
	return fmt.Sprintf("P%d[%d,%d)", b.ProcessID, b.Start, b.End)
}

// task is the per-run scratch copy of a process.
type task struct {
	Process
	remaining int
}

func validateProcesses(processes []Process) error {
	seen := make(map[int]bool, len(processes))

	for _, p := range processes {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidProcess, p.ID)
		}
		seen[p.ID] = true

		if p.ArrivalTime < 0 {
			return fmt.Errorf("%w: process %d arrives at negative time %d",
				ErrInvalidProcess, p.ID, p.ArrivalTime)
		}

		if p.BurstTime < 1 {
			return fmt.Errorf("%w: process %d has burst time %d, want >= 1",
				ErrInvalidProcess, p.ID, p.BurstTime)
		}
	}

	return nil
}
