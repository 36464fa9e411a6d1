package retry

import "time"

type State int

const (
	StateAttempting State = iota // More attempts remain
	StateSucceeded               // A response came back
	StateExhausted               // Every attempt failed
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "ATTEMPTING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateExhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Cycle walks a single delivery through its attempts. It starts in
// ATTEMPTING and ends in exactly one of SUCCEEDED or EXHAUSTED; Begin gates
// every attempt, so a finished cycle can never issue another request.
type Cycle struct {
	policy  Policy
	attempt int
	state   State
}

func (p Policy) NewCycle() *Cycle {
	return &Cycle{
		policy: p,
		state:  StateAttempting,
	}
}

// Begin claims the next attempt. It returns the 1-based attempt number, or
// false once the cycle has reached a terminal state.
func (c *Cycle) Begin() (int, bool) {
	if c.state != StateAttempting {
		return 0, false
	}

	c.attempt++
	return c.attempt, true
}

// Succeed marks the current attempt as answered and finishes the cycle.
func (c *Cycle) Succeed() {
	if c.state == StateAttempting {
		c.state = StateSucceeded
	}
}

// Fail records a failed attempt. While attempts remain it returns the pause
// to wait before the next one; once the budget is spent it moves the cycle
// to EXHAUSTED and returns false.
func (c *Cycle) Fail() (time.Duration, bool) {
	if c.state != StateAttempting {
		return 0, false
	}

	if c.attempt >= c.policy.MaxAttempts {
		c.state = StateExhausted
		return 0, false
	}

	return c.policy.AttemptDelay(c.attempt), true
}

func (c *Cycle) State() State {
	return c.state
}

// Attempts reports how many attempts the cycle has claimed so far.
func (c *Cycle) Attempts() int {
	return c.attempt
}
