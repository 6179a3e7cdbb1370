package concurrency_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oslab/concurrency"
)

var _ = Describe("ProducerConsumer", func() {
	var (
		pc *concurrency.ProducerConsumer
	)

	BeforeEach(func() {
		pc = concurrency.NewProducerConsumer(concurrency.DefaultBufferCapacity)
	})

	It("should start with a standby message", func() {
		Expect(pc.Items()).To(BeEmpty())
		Expect(pc.Log()).To(HaveLen(1))
		Expect(pc.Log()[0].Kind).To(Equal(concurrency.EventSystem))
	})

	It("should consume in production order", func() {
		Expect(pc.Produce(4)).To(Succeed())
		Expect(pc.Produce(8)).To(Succeed())

		item, err := pc.Consume()
		Expect(err).NotTo(HaveOccurred())
		Expect(item).To(Equal(4))
		Expect(pc.Items()).To(Equal([]int{8}))
		Expect(pc.Log()[0].Kind).To(Equal(concurrency.EventConsumer))
	})

	It("should block the producer on a full buffer", func() {
		for i := 0; i < concurrency.DefaultBufferCapacity; i++ {
			Expect(pc.Produce(i)).To(Succeed())
		}

		err := pc.Produce(99)

		Expect(err).To(MatchError(concurrency.ErrBufferFull))
		Expect(pc.Items()).To(Equal([]int{0, 1, 2, 3, 4}))
		Expect(pc.Log()[0].Kind).To(Equal(concurrency.EventError))
	})

	It("should block the consumer on an empty buffer", func() {
		_, err := pc.Consume()

		Expect(err).To(MatchError(concurrency.ErrBufferEmpty))
	})

	It("should keep only the most recent events", func() {
		for i := 0; i < 10; i++ {
			_ = pc.Produce(i)
		}

		Expect(pc.Log()).To(HaveLen(concurrency.LogSize))
		Expect(pc.Log()[0].Kind).To(Equal(concurrency.EventError))
	})

	It("should let the auto-pilot produce or consume", func() {
		rng := &scriptedRand{
			floats: []float64{0.9, 0.9, 0.1},
			ints:   []int{12, 34},
		}

		pc.Step(rng)
		pc.Step(rng)
		Expect(pc.Items()).To(Equal([]int{12, 34}))

		pc.Step(rng)
		Expect(pc.Items()).To(Equal([]int{34}))
	})
})
