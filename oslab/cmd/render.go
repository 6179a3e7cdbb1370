package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/oslab/banker"
	"github.com/sarchlab/oslab/concurrency"
	"github.com/sarchlab/oslab/cpu"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/paging"
	"github.com/sarchlab/oslab/shell"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// renderGantt draws one cell per block, marking idle gaps.
func renderGantt(w io.Writer, blocks []cpu.Block) {
	var sb strings.Builder

	clock := 0
	sb.WriteString("|")

	for _, b := range blocks {
		if b.Start > clock {
			fmt.Fprintf(&sb, " idle %d-%d |", clock, b.Start)
		}

		fmt.Fprintf(&sb, " P%d %d-%d |", b.ProcessID, b.Start, b.End)
		clock = b.End
	}

	fmt.Fprintln(w, sb.String())
}

func renderCPU(w io.Writer, r lab.CPUResult) {
	renderGantt(w, r.Blocks)
	fmt.Fprintln(w)

	t := newTable(w)
	fmt.Fprintln(t, "PID\tStart\tCompletion\tTurnaround\tWaiting\tResponse")

	for _, p := range r.Metrics.Processes {
		fmt.Fprintf(t, "P%d\t%d\t%d\t%d\t%d\t%d\n", p.ProcessID, p.FirstStart,
			p.Completion, p.Turnaround, p.Waiting, p.Response)
	}

	t.Flush()

	m := r.Metrics
	fmt.Fprintf(w, "\nAverage waiting %.2f, turnaround %.2f, response %.2f\n",
		m.AverageWaiting, m.AverageTurnaround, m.AverageResponse)
	fmt.Fprintf(w, "Makespan %d, idle %d, utilization %.1f%%, throughput %.3f\n",
		m.Makespan, m.IdleTime, m.Utilization*100, m.Throughput)
}

func renderSlots(slots []paging.Slot) string {
	s := make([]string, 0, len(slots))
	for _, slot := range slots {
		s = append(s, slot.String())
	}

	return strings.Join(s, " ")
}

func renderMemory(w io.Writer, r lab.MemoryResult) {
	t := newTable(w)
	fmt.Fprintln(t, "Step\tPage\tFrames\tResult\tEvicted")

	for i, s := range r.Steps {
		result := "FAULT"
		if s.Hit {
			result = "HIT"
		}

		evicted := ""
		if s.Evicted {
			evicted = fmt.Sprint(s.EvictedPage)
		}

		fmt.Fprintf(t, "%d\t%d\t%s\t%s\t%s\n",
			i+1, s.Page, renderSlots(s.Frames), result, evicted)
	}

	t.Flush()

	fmt.Fprintf(w, "\n%d references, %d faults, %d hits, hit ratio %.1f%%\n",
		r.Summary.References, r.Summary.Faults, r.Summary.Hits,
		r.Summary.HitRatio*100)
}

func renderComparison(w io.Writer, summaries map[paging.Policy]paging.Summary) {
	t := newTable(w)
	fmt.Fprintln(t, "Policy\tFaults\tHits\tHit ratio")

	for _, p := range paging.Policies() {
		s := summaries[p]
		fmt.Fprintf(t, "%s\t%d\t%d\t%.1f%%\n", p, s.Faults, s.Hits, s.HitRatio*100)
	}

	t.Flush()
}

func renderSequence(seq []int) string {
	s := make([]string, 0, len(seq))
	for _, id := range seq {
		s = append(s, fmt.Sprintf("P%d", id))
	}

	return strings.Join(s, " -> ")
}

func renderSafety(w io.Writer, r banker.Result) {
	fmt.Fprintf(w, "Available: %v\n", []int(r.Available))

	if r.Safe {
		fmt.Fprintf(w, "SAFE, sequence: %s\n", renderSequence(r.Sequence))
		return
	}

	fmt.Fprintln(w, "UNSAFE, no safe sequence exists")
}

func renderClaims(w io.Writer, claims []banker.Claim) {
	t := newTable(w)
	fmt.Fprintln(t, "PID\tAllocation\tMaximum\tNeed")

	for _, c := range claims {
		fmt.Fprintf(t, "P%d\t%v\t%v\t%v\n",
			c.ID, []int(c.Allocation), []int(c.Maximum), []int(c.Need()))
	}

	t.Flush()
}

func renderDecision(w io.Writer, id int, request banker.Vector, d banker.Decision) {
	verdict := "DENIED"
	if d.Granted {
		verdict = "GRANTED"
	}

	fmt.Fprintf(w, "Request P%d %v: %s (%s)\n", id, []int(request), verdict, d.Reason)
	renderSafety(w, d.State)
}

func renderBuffer(w io.Writer, snap lab.ConcurrencySnapshot) {
	cells := make([]string, snap.Capacity)
	for i := range cells {
		cells[i] = "__"
		if i < len(snap.Buffer) {
			cells[i] = fmt.Sprintf("%2d", snap.Buffer[i])
		}
	}

	latest := ""
	if len(snap.Log) > 0 {
		latest = snap.Log[0].Message
	}

	fmt.Fprintf(w, "[%s]  %s\n", strings.Join(cells, " "), latest)
}

func renderPhilosophers(
	w io.Writer,
	transitions []concurrency.Transition,
	snap lab.ConcurrencySnapshot,
) {
	states := make([]string, 0, len(snap.Philosophers))
	for _, s := range snap.Philosophers {
		states = append(states, fmt.Sprintf("%-8s", s))
	}

	changes := make([]string, 0, len(transitions))
	for _, t := range transitions {
		changes = append(changes,
			fmt.Sprintf("#%d %s->%s", t.Philosopher, t.From, t.To))
	}

	fmt.Fprintf(w, "%s  %s\n", strings.Join(states, " "), strings.Join(changes, ", "))
}

func renderLines(w io.Writer, lines []shell.Line) {
	for _, l := range lines {
		if l.Kind == shell.LineOutput {
			fmt.Fprintln(w, l.Content)
		}
	}
}
