package retry_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"keepwarm/internal/retry"
)

var _ = Describe("Policy", func() {
	policy := retry.NewPolicy(3, 5*time.Second)

	DescribeTable("AttemptDelay",
		func(attempt int, expected time.Duration) {
			Expect(policy.AttemptDelay(attempt)).To(Equal(expected))
		},
		Entry("first failed attempt", 1, 5*time.Second),
		Entry("second failed attempt", 2, 10*time.Second),
		Entry("third failed attempt", 3, 20*time.Second),
		Entry("attempt below one clamps to the base", 0, 5*time.Second),
	)

	DescribeTable("StreakBackoff",
		func(streak int, expected time.Duration) {
			Expect(policy.StreakBackoff(streak)).To(Equal(expected))
		},
		Entry("first failed cycle", 1, 5*time.Second),
		Entry("second failed cycle", 2, 10*time.Second),
		Entry("third failed cycle", 3, 20*time.Second),
		Entry("fourth failed cycle", 4, 40*time.Second),
	)

	It("should stop doubling once the shift bound is reached", func() {
		capped := policy.StreakBackoff(21)
		Expect(policy.StreakBackoff(100)).To(Equal(capped))
		Expect(capped).To(BeNumerically(">", 0))
	})

	It("should hold at the last representable doubling for a very large base", func() {
		wide := retry.NewPolicy(3, 3*time.Hour)

		// 3h doubled 20 times does not fit in a Duration; the delay must
		// hold at the 19th doubling instead of wrapping negative.
		Expect(wide.StreakBackoff(21)).To(Equal(wide.StreakBackoff(20)))
		Expect(wide.StreakBackoff(21)).To(BeNumerically(">", 0))
	})
})
