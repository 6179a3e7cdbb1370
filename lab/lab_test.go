package lab_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/oslab/banker"
	"github.com/sarchlab/oslab/concurrency"
	"github.com/sarchlab/oslab/cpu"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/paging"
	"github.com/sarchlab/oslab/shell"
	"github.com/sarchlab/oslab/sim"
)

var _ = Describe("Labs", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
		ctx = lab.WithUser(context.Background(), "alice")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should carry the user in the context", func() {
		Expect(lab.UserFromContext(ctx)).To(Equal("alice"))
		Expect(lab.UserFromContext(context.Background())).To(BeEmpty())
	})

	It("should list every kind", func() {
		Expect(lab.Kinds()).To(ConsistOf(
			lab.CPU, lab.Memory, lab.Deadlock, lab.Concurrency, lab.Shell))
	})

	Context("cpu", func() {
		var l *lab.CPULab

		BeforeEach(func() {
			l = lab.NewCPULab()
			l.AcceptHook(hook)
		})

		It("should schedule and report completion", func() {
			var got sim.HookCtx
			hook.EXPECT().Func(gomock.Any()).Do(func(c sim.HookCtx) {
				got = c
			})

			r, err := l.Recompute(ctx, lab.CPUState{
				Processes: []cpu.Process{
					{ID: 1, ArrivalTime: 0, BurstTime: 5},
					{ID: 2, ArrivalTime: 1, BurstTime: 3},
				},
				Policy: cpu.FCFS{},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Blocks).To(Equal([]cpu.Block{
				{ProcessID: 1, Start: 0, End: 5},
				{ProcessID: 2, Start: 5, End: 8},
			}))
			Expect(r.Metrics.AverageWaiting).To(BeNumerically("~", 2.0))

			Expect(got.Pos).To(BeIdenticalTo(lab.HookPosTaskCompleted))
			c := got.Item.(lab.Completion)
			Expect(c.Kind).To(Equal(lab.CPU))
			Expect(c.UserID).To(Equal("alice"))
			Expect(c.Result).To(Equal(r))
		})

		It("should not report failed computations", func() {
			_, err := l.Recompute(ctx, lab.CPUState{
				Processes: []cpu.Process{{ID: 1, BurstTime: 1}},
				Policy:    cpu.RoundRobin{Quantum: 0},
			})

			Expect(err).To(MatchError(cpu.ErrInvalidQuantum))
		})
	})

	Context("memory", func() {
		It("should replay the reference string", func() {
			l := lab.NewMemoryLab()
			l.AcceptHook(hook)
			hook.EXPECT().Func(gomock.Any())

			r, err := l.Recompute(ctx, lab.MemoryState{
				References: []int{1, 2, 1, 3},
				Frames:     2,
				Policy:     paging.LRU,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Steps).To(HaveLen(4))
			Expect(r.Summary.Faults).To(Equal(3))
			Expect(r.Summary.Hits).To(Equal(1))
		})

		It("should reject zero frames", func() {
			l := lab.NewMemoryLab()
			l.AcceptHook(hook)

			_, err := l.Recompute(ctx, lab.MemoryState{
				References: []int{1},
				Policy:     paging.FIFO,
			})

			Expect(err).To(MatchError(paging.ErrInvalidCapacity))
		})
	})

	Context("deadlock", func() {
		var (
			l     *lab.DeadlockLab
			state lab.DeadlockState
		)

		BeforeEach(func() {
			l = lab.NewDeadlockLab()
			l.AcceptHook(hook)
			state = lab.DeadlockState{
				Total: banker.Vector{10, 5, 7},
				Claims: []banker.Claim{
					{ID: 0, Allocation: banker.Vector{0, 1, 0}, Maximum: banker.Vector{7, 5, 3}},
					{ID: 1, Allocation: banker.Vector{2, 0, 0}, Maximum: banker.Vector{3, 2, 2}},
					{ID: 2, Allocation: banker.Vector{3, 0, 2}, Maximum: banker.Vector{9, 0, 2}},
				},
			}
		})

		It("should check safety", func() {
			hook.EXPECT().Func(gomock.Any())

			r, err := l.Recompute(ctx, state)

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Safe).To(BeTrue())
			Expect(r.Sequence).To(Equal([]int{1, 0, 2}))
		})

		It("should evaluate requests", func() {
			hook.EXPECT().Func(gomock.Any())

			d, err := l.Request(ctx, state, 1, banker.Vector{1, 0, 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(d.Granted).To(BeTrue())
		})
	})

	Context("concurrency", func() {
		var l *lab.ConcurrencyLab

		BeforeEach(func() {
			l = lab.NewConcurrencyLab(fixedRand{f: 0.9, n: 42})
			l.AcceptHook(hook)
		})

		It("should produce and consume", func() {
			hook.EXPECT().Func(gomock.Any()).Times(2)

			snap, err := l.Produce(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Buffer).To(Equal([]int{42}))
			Expect(snap.Capacity).To(Equal(concurrency.DefaultBufferCapacity))

			snap, err = l.Consume(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Buffer).To(BeEmpty())
		})

		It("should not report a consume on an empty buffer", func() {
			_, err := l.Consume(ctx)

			Expect(err).To(MatchError(concurrency.ErrBufferEmpty))
		})

		It("should step the philosophers", func() {
			_, snap := l.StepPhilosophers()

			Expect(snap.Philosophers).To(HaveLen(concurrency.DefaultPhilosophers))
		})
	})

	Context("shell", func() {
		It("should keep the session between commands", func() {
			l := lab.NewShellLab(fixedRand{n: 4})

			l.Execute("fork")
			out := l.Execute("ps")

			Expect(out).NotTo(BeEmpty())
			Expect(l.History()).NotTo(BeEmpty())

			l.Execute("clear")
			Expect(l.History()).To(BeEmpty())
		})
	})
})

var _ = Describe("Bench", func() {
	It("should hook every lab", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		hook := NewMockHook(mockCtrl)
		b := lab.NewBench(1)

		b.AcceptHook(hook)

		Expect(b.NumHooks()).To(Equal(1))
		Expect(b.Memory.NumHooks()).To(Equal(1))
		Expect(b.Shell.NumHooks()).To(Equal(1))

		hook.EXPECT().Func(gomock.Any())

		_, err := b.Memory.Recompute(context.Background(), lab.MemoryState{
			References: []int{1},
			Frames:     1,
			Policy:     paging.FIFO,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should unhook every lab", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		hook := NewMockHook(mockCtrl)
		b := lab.NewBench(1)

		b.AcceptHook(hook)
		b.RemoveHook(hook)

		Expect(b.NumHooks()).To(BeZero())
		Expect(b.Deadlock.NumHooks()).To(BeZero())

		_, err := b.Memory.Recompute(context.Background(), lab.MemoryState{
			References: []int{1},
			Frames:     1,
			Policy:     paging.FIFO,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should snapshot the shell", func() {
		b := lab.NewBench(1)

		b.Shell.Execute("fork")
		snap := b.Shell.Snapshot()

		Expect(snap.Procs).To(HaveLen(2))
		Expect(snap.Procs[1].PPID).To(Equal(shell.InitPID))
	})
})
