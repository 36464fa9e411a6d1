package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventPingDelivered  EventType = "ping_delivered"
	EventPingFailed     EventType = "ping_failed"
	EventCycleAbandoned EventType = "cycle_abandoned"
)

type Event struct {
	Type       EventType
	Timestamp  time.Time
	Target     string
	Duration   time.Duration
	StatusCode int
	BodyBytes  int64
	Timeout    bool
	Streak     int
}

type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
	done    chan struct{}
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (c *Collector) EventChannel() chan<- Event {
	return c.eventCh
}

// Done is closed once the collector has drained after cancellation, so a
// snapshot taken afterwards is guaranteed to include every emitted event.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	defer close(c.done)

	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventPingDelivered:
		c.metrics.RecordDelivery(event.Target, event.Duration, event.StatusCode, event.BodyBytes)

	case EventPingFailed:
		c.metrics.RecordFailure(event.Target, event.Timeout)

	case EventCycleAbandoned:
		c.metrics.RecordAbandonedCycle(event.Streak)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
