package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// SafeHistogram wraps an HDR histogram with a mutex. Latencies are recorded
// in microseconds between 1µs and 10 minutes at three significant figures,
// plenty of resolution for HTTP round trips.
type SafeHistogram struct {
	mutex sync.Mutex
	hist  *hdrhistogram.Histogram
}

func NewSafeHistogram() *SafeHistogram {
	return &SafeHistogram{
		hist: hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3),
	}
}

// Record adds one observed round-trip time. Values beyond the trackable
// range are dropped rather than failing the caller.
func (h *SafeHistogram) Record(d time.Duration) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	_ = h.hist.RecordValue(int64(d / time.Microsecond))
}

// Percentile returns the latency at percentile p (e.g. 50, 95, 99).
func (h *SafeHistogram) Percentile(p float64) time.Duration {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return time.Duration(h.hist.ValueAtQuantile(p)) * time.Microsecond
}

// Max returns the largest recorded latency.
func (h *SafeHistogram) Max() time.Duration {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return time.Duration(h.hist.Max()) * time.Microsecond
}

// Count returns how many latencies have been recorded.
func (h *SafeHistogram) Count() int64 {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.hist.TotalCount()
}
