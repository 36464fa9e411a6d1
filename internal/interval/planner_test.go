package interval_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"keepwarm/internal/interval"
)

var _ = Describe("Planner", func() {
	Context("with the default schedule", func() {
		planner := interval.NewPlanner(600*time.Second, 1500*time.Second, 0.15)

		It("should stay within the jittered bounds", func() {
			minNanos := float64(600 * time.Second)
			maxNanos := float64(1500 * time.Second)
			lower := time.Duration(minNanos * 0.85)
			upper := time.Duration(maxNanos * 1.15)

			for i := 0; i < 10000; i++ {
				d := planner.Next()
				Expect(d).To(BeNumerically(">=", lower))
				Expect(d).To(BeNumerically("<=", upper))
			}
		})

		It("should spread draws across the whole range", func() {
			mid := (600 + 1500) / 2 * time.Second
			var below, above int

			for i := 0; i < 1000; i++ {
				if planner.Next() < mid {
					below++
				} else {
					above++
				}
			}

			Expect(below).To(BeNumerically(">", 0))
			Expect(above).To(BeNumerically(">", 0))
		})
	})

	Context("with a degenerate schedule", func() {
		It("should never return less than one second", func() {
			planner := interval.NewPlanner(0, 0, 0.15)

			for i := 0; i < 100; i++ {
				Expect(planner.Next()).To(BeNumerically(">=", time.Second))
			}
		})

		It("should pin the draw when min equals max and jitter is zero", func() {
			planner := interval.NewPlanner(42*time.Second, 42*time.Second, 0)

			Expect(planner.Next()).To(Equal(42 * time.Second))
		})
	})
})
