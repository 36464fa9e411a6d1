package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mutex       sync.RWMutex
	delivered   map[string]int64
	failures    map[string]int64
	timeouts    map[string]int64
	bodyBytes   map[string]int64
	statusCodes map[string]map[int]int64
	latencies   map[string]*SafeHistogram
	abandoned   int64
	worstStreak int
	startTime   time.Time
}

type Snapshot struct {
	Uptime          time.Duration            `json:"uptime"`
	TotalDelivered  int64                    `json:"total_delivered"`
	TotalFailures   int64                    `json:"total_failures"`
	AbandonedCycles int64                    `json:"abandoned_cycles"`
	WorstStreak     int                      `json:"worst_streak"`
	Targets         map[string]TargetMetrics `json:"targets"`
}

type TargetMetrics struct {
	Delivered   int64         `json:"delivered"`
	Failures    int64         `json:"failures"`
	Timeouts    int64         `json:"timeouts"`
	BodyBytes   int64         `json:"body_bytes"`
	StatusCodes map[int]int64 `json:"status_codes"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	MaxResponse time.Duration `json:"max_response"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		delivered:   make(map[string]int64),
		failures:    make(map[string]int64),
		timeouts:    make(map[string]int64),
		bodyBytes:   make(map[string]int64),
		statusCodes: make(map[string]map[int]int64),
		latencies:   make(map[string]*SafeHistogram),
		startTime:   time.Now(),
	}
}

// RecordDelivery counts one answered ping against the target, whatever the
// status code was.
func (m *Metrics) RecordDelivery(target string, duration time.Duration, statusCode int, bodyBytes int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.delivered[target]++
	m.bodyBytes[target] += bodyBytes

	if m.statusCodes[target] == nil {
		m.statusCodes[target] = make(map[int]int64)
	}
	m.statusCodes[target][statusCode]++

	if m.latencies[target] == nil {
		m.latencies[target] = NewSafeHistogram()
	}
	m.latencies[target].Record(duration)
}

// RecordFailure counts one failed attempt against the target.
func (m *Metrics) RecordFailure(target string, timeout bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.failures[target]++
	if timeout {
		m.timeouts[target]++
	}
}

// RecordAbandonedCycle counts a delivery cycle that ran out of attempts and
// tracks the worst failure streak seen so far.
func (m *Metrics) RecordAbandonedCycle(streak int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.abandoned++
	if streak > m.worstStreak {
		m.worstStreak = streak
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:          time.Since(m.startTime),
		AbandonedCycles: m.abandoned,
		WorstStreak:     m.worstStreak,
		Targets:         make(map[string]TargetMetrics),
	}

	allTargets := make(map[string]bool)
	for target := range m.delivered {
		allTargets[target] = true
	}
	for target := range m.failures {
		allTargets[target] = true
	}

	for target := range allTargets {
		snap.TotalDelivered += m.delivered[target]
		snap.TotalFailures += m.failures[target]

		tm := TargetMetrics{
			Delivered:   m.delivered[target],
			Failures:    m.failures[target],
			Timeouts:    m.timeouts[target],
			BodyBytes:   m.bodyBytes[target],
			StatusCodes: m.statusCodes[target],
		}

		if hist := m.latencies[target]; hist != nil && hist.Count() > 0 {
			tm.P50Response = hist.Percentile(50)
			tm.P95Response = hist.Percentile(95)
			tm.P99Response = hist.Percentile(99)
			tm.MaxResponse = hist.Max()
		}

		snap.Targets[target] = tm
	}

	return snap
}
