package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oslab/cpu"
)

var _ = Describe("ComputeMetrics", func() {
	It("should compute FCFS waiting and turnaround", func() {
		procs := []cpu.Process{
			{ID: 1, ArrivalTime: 0, BurstTime: 5},
			{ID: 2, ArrivalTime: 2, BurstTime: 3},
		}
		blocks, err := cpu.Schedule(procs, cpu.FCFS{})
		Expect(err).NotTo(HaveOccurred())

		m := cpu.ComputeMetrics(procs, blocks)

		Expect(m.Processes).To(Equal([]cpu.ProcessMetrics{
			{ProcessID: 1, FirstStart: 0, Completion: 5, Turnaround: 5},
			{ProcessID: 2, FirstStart: 5, Completion: 8, Turnaround: 6,
				Waiting: 3, Response: 3},
		}))
		Expect(m.AverageTurnaround).To(Equal(5.5))
		Expect(m.AverageWaiting).To(Equal(1.5))
		Expect(m.AverageResponse).To(Equal(1.5))
		Expect(m.Makespan).To(Equal(8))
		Expect(m.Utilization).To(Equal(1.0))
		Expect(m.Throughput).To(Equal(0.25))
	})

	It("should use the last block as completion under preemption", func() {
		procs := []cpu.Process{
			{ID: 1, ArrivalTime: 0, BurstTime: 5},
			{ID: 2, ArrivalTime: 2, BurstTime: 3},
		}
		blocks, err := cpu.Schedule(procs, cpu.RoundRobin{Quantum: 2})
		Expect(err).NotTo(HaveOccurred())

		m := cpu.ComputeMetrics(procs, blocks)

		Expect(m.Processes[0].Completion).To(Equal(8))
		Expect(m.Processes[0].Waiting).To(Equal(3))
		Expect(m.Processes[1].Completion).To(Equal(7))
		Expect(m.Processes[1].Waiting).To(Equal(2))
		Expect(m.AverageTurnaround).To(Equal(6.5))
	})

	It("should account for idle time", func() {
		procs := []cpu.Process{
			{ID: 1, ArrivalTime: 0, BurstTime: 1},
			{ID: 2, ArrivalTime: 5, BurstTime: 3},
		}
		blocks, err := cpu.Schedule(procs, cpu.FCFS{})
		Expect(err).NotTo(HaveOccurred())

		m := cpu.ComputeMetrics(procs, blocks)

		Expect(m.Makespan).To(Equal(8))
		Expect(m.BusyTime).To(Equal(4))
		Expect(m.IdleTime).To(Equal(4))
		Expect(m.Utilization).To(Equal(0.5))
	})

	It("should return zero metrics for an empty run", func() {
		m := cpu.ComputeMetrics(nil, nil)

		Expect(m.Processes).To(BeEmpty())
		Expect(m.AverageWaiting).To(BeZero())
		Expect(m.AverageTurnaround).To(BeZero())
		Expect(m.Utilization).To(BeZero())
		Expect(m.Throughput).To(BeZero())
	})

	It("should ignore processes that never ran", func() {
		procs := []cpu.Process{
			{ID: 1, ArrivalTime: 0, BurstTime: 2},
			{ID: 2, ArrivalTime: 0, BurstTime: 2},
		}
		blocks := []cpu.Block{{ProcessID: 1, Start: 0, End: 2}}

		m := cpu.ComputeMetrics(procs, blocks)

		Expect(m.Processes).To(HaveLen(1))
		Expect(m.AverageTurnaround).To(Equal(2.0))
	})
})
