package interval

import (
	"math/rand/v2"
	"time"
)

// minSleep is the floor applied to every planned interval so that a
// misconfigured schedule can never spin the loop hot.
const minSleep = time.Second

// Planner draws the pause between keepalive cycles. Each draw is uniform
// over [Min, Max] with an extra ±Jitter fraction applied on top, so two
// deployments running the same config still drift apart over time.
type Planner struct {
	Min    time.Duration
	Max    time.Duration
	Jitter float64
}

func NewPlanner(min, max time.Duration, jitter float64) *Planner {
	return &Planner{
		Min:    min,
		Max:    max,
		Jitter: jitter,
	}
}

// Next returns the duration to wait before the next cycle.
func (p *Planner) Next() time.Duration {
	base := p.Min.Seconds() + rand.Float64()*(p.Max.Seconds()-p.Min.Seconds())
	jittered := base * (1 + (rand.Float64()*2-1)*p.Jitter)

	d := time.Duration(jittered * float64(time.Second))
	if d < minSleep {
		return minSleep
	}
	return d
}
