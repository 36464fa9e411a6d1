package target

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

const ewmaAlpha = 0.2

// Target is a single URL kept warm, with response time monitoring.
type Target struct {
	url              *url.URL
	mutex            sync.Mutex
	ewmaResponseTime time.Duration
	hasEWMA          bool
}

// New creates a Target from its configured URL string.
func New(rawURL string) (*Target, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing target URL %q: %w", rawURL, err)
	}

	return &Target{url: parsed}, nil
}

// URL returns the target's base URL.
func (t *Target) URL() *url.URL {
	return t.url
}

func (t *Target) String() string {
	return t.url.String()
}

// RecordResponse updates the exponentially weighted moving average (EWMA)
// response time using the latest ping duration.
func (t *Target) RecordResponse(duration time.Duration) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.hasEWMA {
		t.ewmaResponseTime = duration
		t.hasEWMA = true
		return
	}
	//ewma = (1 - α) * ewma + α * latest
	t.ewmaResponseTime = time.Duration((1-ewmaAlpha)*float64(t.ewmaResponseTime) + ewmaAlpha*float64(duration))
}

// EWMATime returns the exponentially weighted moving average response time.
// Returns 0 if no responses have been recorded yet.
func (t *Target) EWMATime() time.Duration {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.hasEWMA {
		return 0
	}

	return t.ewmaResponseTime
}
