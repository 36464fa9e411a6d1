package target_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"keepwarm/internal/target"
)

var _ = Describe("Target", func() {
	Describe("New", func() {
		It("should create a target with the configured URL", func() {
			t, err := target.New("https://app.example.com/health")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.URL().Scheme).To(Equal("https"))
			Expect(t.URL().Host).To(Equal("app.example.com"))
			Expect(t.String()).To(Equal("https://app.example.com/health"))
		})

		It("should reject an unparseable URL", func() {
			_, err := target.New("https://exa mple.com/health")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Response Time Tracking (EWMA)", func() {
		var t *target.Target

		BeforeEach(func() {
			var err error
			t, err = target.New("https://app.example.com/health")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return zero before any response is recorded", func() {
			Expect(t.EWMATime()).To(BeZero())
		})

		It("should adopt the first response time as-is", func() {
			t.RecordResponse(100 * time.Millisecond)
			Expect(t.EWMATime()).To(Equal(100 * time.Millisecond))
		})

		It("should smooth subsequent response times", func() {
			t.RecordResponse(100 * time.Millisecond)
			t.RecordResponse(200 * time.Millisecond)
			// 0.8*100ms + 0.2*200ms
			Expect(t.EWMATime()).To(BeNumerically("~", 120*time.Millisecond, time.Microsecond))
		})

		It("should weigh history above single spikes", func() {
			for i := 0; i < 10; i++ {
				t.RecordResponse(100 * time.Millisecond)
			}
			t.RecordResponse(2 * time.Second)

			Expect(t.EWMATime()).To(BeNumerically("<", 500*time.Millisecond))
			Expect(t.EWMATime()).To(BeNumerically(">", 100*time.Millisecond))
		})

		It("should be thread-safe", func() {
			var wg sync.WaitGroup
			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					t.RecordResponse(time.Duration(i) * time.Millisecond)
					_ = t.EWMATime()
				}(i)
			}
			wg.Wait()
		})
	})
})
