package retry

import "time"

// maxDoublings bounds how many times a delay is doubled; long before the
// bound matters the delay is already days long for any plausible base.
const maxDoublings = 20

// Policy holds the delivery retry knobs: how many attempts one cycle may
// spend on a target and the base used for exponential backoff.
type Policy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

func NewPolicy(maxAttempts int, baseBackoff time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseBackoff: baseBackoff,
	}
}

// AttemptDelay returns the pause before re-sending inside one cycle after
// the given 1-based attempt failed: BaseBackoff, doubled per attempt.
func (p Policy) AttemptDelay(attempt int) time.Duration {
	return scale(p.BaseBackoff, attempt)
}

// StreakBackoff returns the pause after an entire cycle failed, doubled for
// every consecutive failed cycle.
func (p Policy) StreakBackoff(streak int) time.Duration {
	return scale(p.BaseBackoff, streak)
}

// scale doubles base n-1 times. It holds at the last representable value
// instead of overflowing, so a multi-hour base can never wrap negative and
// fire a timer immediately.
func scale(base time.Duration, n int) time.Duration {
	d := base
	for i := uint(0); i < doublings(n); i++ {
		doubled := d << 1
		if doubled < d {
			return d
		}
		d = doubled
	}
	return d
}

func doublings(n int) uint {
	if n < 1 {
		return 0
	}
	if n-1 > maxDoublings {
		return maxDoublings
	}
	return uint(n - 1)
}
