package cpu

// ProcessMetrics holds the timing figures of one scheduled process.
type ProcessMetrics struct {
	ProcessID  int `json:"process_id"`
	FirstStart int `json:"first_start"`
	Completion int `json:"completion"`
	Turnaround int `json:"turnaround"`
	Waiting    int `json:"waiting"`
	Response   int `json:"response"`
}

// Metrics summarizes a timeline.
type Metrics struct {
	Processes []ProcessMetrics `json:"processes"`

	AverageWaiting    float64 `json:"average_waiting"`
	AverageTurnaround float64 `json:"average_turnaround"`
	AverageResponse   float64 `json:"average_response"`

	Makespan    int     `json:"makespan"`
	BusyTime    int     `json:"busy_time"`
	IdleTime    int     `json:"idle_time"`
	Utilization float64 `json:"utilization"`
	Throughput  float64 `json:"throughput"`
}

// ComputeMetrics derives per-process and aggregate timing from a timeline.
// Processes that do not appear in the timeline are left out of both the
// per-process list and the averages. An empty timeline yields zero metrics.
func ComputeMetrics(processes []Process, blocks []Block) Metrics {
	m := Metrics{Processes: []ProcessMetrics{}}

	for _, b := range blocks {
		m.BusyTime += b.Duration()
		m.Makespan = max(m.Makespan, b.End)
	}

	for _, p := range processes {
		pm, ok := measure(p, blocks)
		if !ok {
			continue
		}

		m.Processes = append(m.Processes, pm)
		m.AverageWaiting += float64(pm.Waiting)
		m.AverageTurnaround += float64(pm.Turnaround)
		m.AverageResponse += float64(pm.Response)
	}

	if n := float64(len(m.Processes)); n > 0 {
		m.AverageWaiting /= n
		m.AverageTurnaround /= n
		m.AverageResponse /= n
	}

	if m.Makespan > 0 {
		m.IdleTime = m.Makespan - m.BusyTime
		m.Utilization = float64(m.BusyTime) / float64(m.Makespan)
		m.Throughput = float64(len(m.Processes)) / float64(m.Makespan)
	}

	return m
}

func measure(p Process, blocks []Block) (ProcessMetrics, bool) {
	pm := ProcessMetrics{ProcessID: p.ID}
	found := false

	for _, b := range blocks {
		if b.ProcessID != p.ID {
			continue
		}

		if !found || b.Start < pm.FirstStart {
			pm.FirstStart = b.Start
		}
		pm.Completion = max(pm.Completion, b.End)
		found = true
	}

	if !found {
		return pm, false
	}

	pm.Turnaround = pm.Completion - p.ArrivalTime
	pm.Waiting = pm.Turnaround - p.BurstTime
	pm.Response = pm.FirstStart - p.ArrivalTime

	return pm, true
}
