package keepalive

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"keepwarm/internal/interval"
	"keepwarm/internal/metrics"
	"keepwarm/internal/pinger"
	"keepwarm/internal/retry"
	"keepwarm/internal/target"
)

// recoveryPause is how long the loop rests after a crash inside the cycle
// body before carrying on.
const recoveryPause = 60 * time.Second

// SleepFunc pauses for d or until ctx is done, whichever comes first. The
// loop takes it as a dependency so tests can record scheduling decisions
// instead of waiting them out.
type SleepFunc func(ctx context.Context, d time.Duration)

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Loop is the daemon's single thread of control: pick a target, walk one
// delivery cycle through the retry state machine, back off while a failure
// streak lasts, sleep a randomized interval, repeat. It only ever returns
// on context cancellation.
type Loop struct {
	pool      *target.Pool
	pinger    *pinger.Pinger
	policy    retry.Policy
	planner   *interval.Planner
	collector *metrics.Collector
	logger    *slog.Logger
	sleep     SleepFunc
}

func NewLoop(
	pool *target.Pool,
	p *pinger.Pinger,
	policy retry.Policy,
	planner *interval.Planner,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Loop {
	return &Loop{
		pool:      pool,
		pinger:    p,
		policy:    policy,
		planner:   planner,
		collector: collector,
		logger:    logger,
		sleep:     sleep,
	}
}

// WithSleep replaces how the loop pauses and returns the loop for chaining.
func (l *Loop) WithSleep(fn SleepFunc) *Loop {
	l.sleep = fn
	return l
}

// Run drives the loop until ctx is canceled. No cycle error is ever fatal:
// failures back off, crashes pause and resume, and the loop keeps going.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("Keepalive loop started",
		slog.Int("targets", l.pool.Size()),
		slog.Int("max_retries", l.policy.MaxAttempts))

	streak := 0
	for {
		if ctx.Err() != nil {
			l.logger.Info("Keepalive loop stopped",
				slog.Int("failure_streak", streak))
			return
		}

		var crashed bool
		streak, crashed = l.runCycle(ctx, streak)

		// A crashed cycle already slept its recovery pause and goes
		// straight into the next delivery, with no interval.
		if crashed || ctx.Err() != nil {
			continue
		}

		next := l.planner.Next()
		l.logger.Info("Next ping scheduled",
			slog.Duration("in", next))
		l.sleep(ctx, next)
	}
}

// runCycle delivers one ping with retries. It takes the consecutive-failure
// streak going in and returns the updated streak: zero after any answered
// ping, incremented after an exhausted cycle, unchanged when the cycle was
// cut short by shutdown or a crash. A crashed cycle reports itself so the
// caller can skip the interval.
func (l *Loop) runCycle(ctx context.Context, streak int) (next int, crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Cycle crashed, pausing before continuing",
				slog.Any("panic", r),
				slog.Duration("pause", recoveryPause))
			next = streak
			crashed = true
			l.sleep(ctx, recoveryPause)
		}
	}()

	t := l.pool.Pick()
	log := l.logger.With(
		slog.String("ping_id", uuid.NewString()),
		slog.String("target", t.String()))

	cycle := l.policy.NewCycle()
	for {
		attempt, more := cycle.Begin()
		if !more || ctx.Err() != nil {
			break
		}

		// URL and headers are re-randomized on every attempt.
		rawURL := l.pool.RandomizedURL(t)
		result, err := l.pinger.Do(ctx, rawURL)
		if err == nil {
			t.RecordResponse(result.Elapsed)
			log.Info("Ping delivered",
				slog.String("url", result.URL),
				slog.Int("status", result.StatusCode),
				slog.Duration("elapsed", result.Elapsed),
				slog.Int64("body_bytes", result.BodyBytes),
				slog.Int("attempt", attempt),
				slog.Duration("ewma", t.EWMATime()))
			l.emitEvent(metrics.Event{
				Type:       metrics.EventPingDelivered,
				Timestamp:  time.Now(),
				Target:     t.String(),
				Duration:   result.Elapsed,
				StatusCode: result.StatusCode,
				BodyBytes:  result.BodyBytes,
			})
			cycle.Succeed()
			continue
		}

		// A request aborted by shutdown is not a delivery failure.
		if ctx.Err() != nil {
			break
		}

		timedOut := pinger.IsTimeout(err)
		if timedOut {
			log.Warn("Ping timed out",
				slog.String("url", rawURL),
				slog.Duration("elapsed", result.Elapsed),
				slog.Int("attempt", attempt))
		} else {
			log.Error("Ping failed",
				slog.String("url", rawURL),
				slog.String("error", err.Error()),
				slog.Duration("elapsed", result.Elapsed),
				slog.Int("attempt", attempt))
		}
		l.emitEvent(metrics.Event{
			Type:      metrics.EventPingFailed,
			Timestamp: time.Now(),
			Target:    t.String(),
			Timeout:   timedOut,
		})

		wait, retrying := cycle.Fail()
		if retrying {
			log.Info("Retrying ping",
				slog.Int("attempt", attempt),
				slog.Int("max_retries", l.policy.MaxAttempts),
				slog.Duration("wait", wait))
			l.sleep(ctx, wait)
		}
	}

	switch cycle.State() {
	case retry.StateSucceeded:
		return 0, false

	case retry.StateExhausted:
		streak++
		backoff := l.policy.StreakBackoff(streak)
		log.Warn("Delivery abandoned, backing off",
			slog.Int("attempts", cycle.Attempts()),
			slog.Int("failure_streak", streak),
			slog.Duration("backoff", backoff))
		l.emitEvent(metrics.Event{
			Type:      metrics.EventCycleAbandoned,
			Timestamp: time.Now(),
			Target:    t.String(),
			Streak:    streak,
		})
		l.sleep(ctx, backoff)
		return streak, false

	default:
		// Shutdown interrupted the cycle mid-flight.
		return streak, false
	}
}

func (l *Loop) emitEvent(event metrics.Event) {
	if l.collector == nil {
		return
	}

	select {
	case l.collector.EventChannel() <- event:
	default:
	}
}
