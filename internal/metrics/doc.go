// Package metrics collects ping outcomes for the keepalive daemon.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Delivered pings per target with status code distribution
//   - Round-trip latencies in HDR histograms (P50, P95, P99, max)
//   - Failed attempts, split into timeouts and other transport errors
//   - Abandoned delivery cycles and the worst failure streak seen
//
// The collector runs in a dedicated goroutine and processes events without
// blocking the delivery loop. Events are sent via a buffered channel with
// non-blocking semantics, so a stalled collector can only ever cost events,
// never pings. On shutdown the channel is drained and the final snapshot is
// written to the log; there is no HTTP exposition.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.Event{
//		Type:       metrics.EventPingDelivered,
//		Target:     "https://app.example.com/health",
//		Duration:   150 * time.Millisecond,
//		StatusCode: 200,
//	}
//
//	cancel()
//	<-collector.Done()
//	snapshot := collector.Snapshot()
package metrics
