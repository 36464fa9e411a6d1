package target_test

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"keepwarm/internal/target"
)

func mustTarget(raw string) *target.Target {
	t, err := target.New(raw)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("Pool", func() {
	queryKeys := []string{"t", "v", "rand", "token", "src"}

	Describe("Pick", func() {
		It("should always return the only target of a single-entry pool", func() {
			t := mustTarget("https://app.example.com/health")
			pool := target.NewPool([]*target.Target{t}, queryKeys)

			for i := 0; i < 100; i++ {
				Expect(pool.Pick()).To(BeIdenticalTo(t))
			}
		})

		It("should spread picks across every target", func() {
			targets := []*target.Target{
				mustTarget("https://a.example.com/"),
				mustTarget("https://b.example.com/"),
				mustTarget("https://c.example.com/"),
			}
			pool := target.NewPool(targets, queryKeys)

			counts := make(map[*target.Target]int)
			for i := 0; i < 3000; i++ {
				counts[pool.Pick()]++
			}

			for _, t := range targets {
				Expect(counts[t]).To(BeNumerically(">", 250))
			}
		})
	})

	Describe("RandomizedURL", func() {
		var pool *target.Pool
		var t *target.Target

		BeforeEach(func() {
			t = mustTarget("https://app.example.com/upload_files")
			pool = target.NewPool([]*target.Target{t}, queryKeys)
		})

		It("should never touch scheme, host or path", func() {
			for i := 0; i < 1000; i++ {
				rendered, err := url.Parse(pool.RandomizedURL(t))
				Expect(err).NotTo(HaveOccurred())
				Expect(rendered.Scheme).To(Equal("https"))
				Expect(rendered.Host).To(Equal("app.example.com"))
				Expect(rendered.Path).To(Equal("/upload_files"))
			}
		})

		It("should inject a parameter roughly seven times out of ten", func() {
			injected := 0
			for i := 0; i < 10000; i++ {
				rendered, err := url.Parse(pool.RandomizedURL(t))
				Expect(err).NotTo(HaveOccurred())
				if rendered.RawQuery != "" {
					injected++
				}
			}

			Expect(injected).To(BeNumerically(">=", 6500))
			Expect(injected).To(BeNumerically("<=", 7500))
		})

		It("should draw the key from the pool and build a timestamped value", func() {
			for i := 0; i < 200; i++ {
				rendered, err := url.Parse(pool.RandomizedURL(t))
				Expect(err).NotTo(HaveOccurred())

				values := rendered.Query()
				if len(values) == 0 {
					continue
				}
				Expect(values).To(HaveLen(1))

				for key, vals := range values {
					Expect(queryKeys).To(ContainElement(key))
					Expect(vals).To(HaveLen(1))

					parts := strings.SplitN(vals[0], "_", 2)
					Expect(parts).To(HaveLen(2))

					ts, err := strconv.ParseInt(parts[0], 10, 64)
					Expect(err).NotTo(HaveOccurred())
					Expect(ts).To(BeNumerically("~", time.Now().Unix(), 5))

					n, err := strconv.Atoi(parts[1])
					Expect(err).NotTo(HaveOccurred())
					Expect(n).To(BeNumerically(">=", 1))
					Expect(n).To(BeNumerically("<=", 99999))
				}
			}
		})

		It("should preserve query parameters already on the target", func() {
			withQuery := mustTarget("https://app.example.com/hook?keep=yes&n=2")
			pool := target.NewPool([]*target.Target{withQuery}, queryKeys)

			for i := 0; i < 500; i++ {
				rendered, err := url.Parse(pool.RandomizedURL(withQuery))
				Expect(err).NotTo(HaveOccurred())

				values := rendered.Query()
				Expect(values.Get("keep")).To(Equal("yes"))
				Expect(values.Get("n")).To(Equal("2"))
				Expect(len(values)).To(BeElementOf(2, 3))
			}
		})

		It("should leave the stored target URL untouched", func() {
			before := t.String()
			for i := 0; i < 100; i++ {
				_ = pool.RandomizedURL(t)
			}
			Expect(t.String()).To(Equal(before))
		})
	})
})
