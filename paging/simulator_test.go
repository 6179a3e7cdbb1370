package paging_test

import (
	"encoding/json"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/oslab/paging"
)

func occupied(pages ...int) []paging.Slot {
	slots := make([]paging.Slot, len(pages))
	for i, p := range pages {
		slots[i] = paging.Slot{Page: p, Occupied: true}
	}

	return slots
}

var _ = Describe("Simulate", func() {
	var (
		textbook []int
		short    []int
	)

	BeforeEach(func() {
		textbook = []int{7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2}
		short = []int{7, 0, 1, 2, 0, 3, 0, 4, 2, 3}
	})

	faultsOf := func(refs []int, capacity int, p paging.Policy) int {
		steps, err := paging.Simulate(refs, capacity, p)
		Expect(err).NotTo(HaveOccurred())

		return paging.Summarize(steps).Faults
	}

	It("should count FIFO faults", func() {
		Expect(faultsOf(short, 3, paging.FIFO)).To(Equal(9))
		Expect(faultsOf(textbook, 3, paging.FIFO)).To(Equal(10))
	})

	It("should count LRU, MRU and OPTIMAL faults", func() {
		Expect(faultsOf(textbook, 3, paging.LRU)).To(Equal(9))
		Expect(faultsOf(textbook, 3, paging.MRU)).To(Equal(11))
		Expect(faultsOf(textbook, 3, paging.Optimal)).To(Equal(7))
	})

	It("should fill empty slots before evicting", func() {
		steps, err := paging.Simulate(short, 3, paging.FIFO)
		Expect(err).NotTo(HaveOccurred())

		Expect(steps[0].Frames).To(Equal([]paging.Slot{
			{Page: 7, Occupied: true}, {}, {},
		}))
		Expect(steps[0].Replaced).To(Equal(0))
		Expect(steps[0].Evicted).To(BeFalse())
		Expect(steps[2].Frames).To(Equal(occupied(7, 0, 1)))
		Expect(steps[2].Replaced).To(Equal(2))
	})

	It("should report a hit without touching the frames", func() {
		steps, err := paging.Simulate(short, 3, paging.FIFO)
		Expect(err).NotTo(HaveOccurred())

		hit := steps[4]
		Expect(hit.Page).To(Equal(0))
		Expect(hit.Hit).To(BeTrue())
		Expect(hit.Replaced).To(Equal(paging.NoSlot))
		Expect(hit.Faults).To(Equal(4))
		Expect(hit.Frames).To(Equal(steps[3].Frames))
	})

	It("should evict the oldest page under FIFO", func() {
		steps, err := paging.Simulate(short, 3, paging.FIFO)
		Expect(err).NotTo(HaveOccurred())

		Expect(steps[3].Frames).To(Equal(occupied(2, 0, 1)))
		Expect(steps[3].EvictedPage).To(Equal(7))
		Expect(steps[5].Frames).To(Equal(occupied(2, 3, 1)))
		Expect(steps[5].EvictedPage).To(Equal(0))
		Expect(steps[5].Replaced).To(Equal(1))
	})

	It("should evict the least recently used page under LRU", func() {
		steps, err := paging.Simulate(textbook, 3, paging.LRU)
		Expect(err).NotTo(HaveOccurred())

		Expect(steps[5].Frames).To(Equal(occupied(2, 0, 3)))
		Expect(steps[5].EvictedPage).To(Equal(1))
		Expect(steps[12].Frames).To(Equal(occupied(0, 3, 2)))
	})

	It("should evict the most recently used page under MRU", func() {
		steps, err := paging.Simulate(textbook, 3, paging.MRU)
		Expect(err).NotTo(HaveOccurred())

		Expect(steps[3].EvictedPage).To(Equal(1))
		Expect(steps[12].Frames).To(Equal(occupied(7, 4, 2)))
	})

	It("should evict a page with no future use first under OPTIMAL", func() {
		steps, err := paging.Simulate(textbook, 3, paging.Optimal)
		Expect(err).NotTo(HaveOccurred())

		Expect(steps[3].EvictedPage).To(Equal(7))
		Expect(steps[5].EvictedPage).To(Equal(1))
		Expect(steps[7].EvictedPage).To(Equal(0))
	})

	It("should evict the lowest slot among pages never used again", func() {
		steps, err := paging.Simulate([]int{1, 2, 3, 4, 2}, 3, paging.Optimal)
		Expect(err).NotTo(HaveOccurred())

		Expect(steps[3].Replaced).To(Equal(0))
		Expect(steps[3].EvictedPage).To(Equal(1))
	})

	It("should never fault more under OPTIMAL than under any other policy", func() {
		rng := rand.New(rand.NewPCG(3, 5))

		for round := 0; round < 200; round++ {
			refs := make([]int, rng.IntN(30))
			for i := range refs {
				refs[i] = rng.IntN(8)
			}
			capacity := 1 + rng.IntN(5)

			summaries, err := paging.Compare(refs, capacity)
			Expect(err).NotTo(HaveOccurred())

			for _, p := range paging.Policies() {
				Expect(summaries[paging.Optimal].Faults).
					To(BeNumerically("<=", summaries[p].Faults), p.String())
			}
		}
	})

	It("should never hold more pages than frames", func() {
		steps, err := paging.Simulate(textbook, 2, paging.LRU)
		Expect(err).NotTo(HaveOccurred())

		for _, s := range steps {
			Expect(s.Frames).To(HaveLen(2))
		}
	})

	It("should return an empty trace for no references", func() {
		steps, err := paging.Simulate(nil, 3, paging.LRU)
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(BeEmpty())

		Expect(paging.Summarize(steps)).To(Equal(paging.Summary{}))
	})

	It("should reject a capacity below 1", func() {
		_, err := paging.Simulate(short, 0, paging.FIFO)
		Expect(err).To(MatchError(paging.ErrInvalidCapacity))
	})

	It("should reject an unknown policy", func() {
		_, err := paging.Simulate(short, 3, paging.Policy(42))
		Expect(err).To(MatchError(paging.ErrUnknownPolicy))
	})

	It("should be repeatable and leave the input alone", func() {
		before := append([]int(nil), textbook...)

		for _, p := range paging.Policies() {
			first, err := paging.Simulate(textbook, 3, p)
			Expect(err).NotTo(HaveOccurred())
			second, err := paging.Simulate(textbook, 3, p)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
		}

		Expect(textbook).To(Equal(before))
	})
})

var _ = Describe("Summarize", func() {
	It("should compute the hit ratio", func() {
		steps, err := paging.Simulate([]int{1, 1, 1, 2}, 1, paging.FIFO)
		Expect(err).NotTo(HaveOccurred())

		Expect(paging.Summarize(steps)).To(Equal(paging.Summary{
			References: 4,
			Hits:       2,
			Faults:     2,
			HitRatio:   0.5,
		}))
	})
})

var _ = Describe("ParseReferences", func() {
	It("should parse and skip blanks", func() {
		refs, err := paging.ParseReferences(" 7, 0,,1 ,")
		Expect(err).NotTo(HaveOccurred())
		Expect(refs).To(Equal([]int{7, 0, 1}))
	})

	It("should reject non-integers", func() {
		_, err := paging.ParseReferences("7,x")
		Expect(err).To(MatchError(paging.ErrInvalidReference))
	})
})

var _ = Describe("ParsePolicy", func() {
	It("should parse names", func() {
		for _, p := range paging.Policies() {
			parsed, err := paging.ParsePolicy(p.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(p))
		}

		p, err := paging.ParsePolicy("opt")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(paging.Optimal))
	})

	It("should reject unknown names", func() {
		_, err := paging.ParsePolicy("clock")
		Expect(err).To(MatchError(paging.ErrUnknownPolicy))
	})
})

var _ = Describe("Slot", func() {
	It("should encode empty slots as null", func() {
		data, err := json.Marshal([]paging.Slot{{Page: 3, Occupied: true}, {}})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("[3,null]"))

		var slots []paging.Slot
		Expect(json.Unmarshal(data, &slots)).To(Succeed())
		Expect(slots).To(Equal([]paging.Slot{{Page: 3, Occupied: true}, {}}))
	})
})
