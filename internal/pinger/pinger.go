package pinger

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"
)

// perHostConns bounds the connection pool per target host. A keepalive
// daemon should never hold more than a handful of sockets to one service.
const perHostConns = 4

// Result describes one answered ping. Any HTTP status counts as answered:
// the point is waking the target up, not asserting on its health.
type Result struct {
	URL        string
	StatusCode int
	Elapsed    time.Duration
	BodyBytes  int64
}

// Pinger issues single GET attempts with randomized headers. One Pinger
// (and its connection pool) lives for the whole process.
type Pinger struct {
	client     *http.Client
	userAgents []string
}

func New(timeout time.Duration, userAgents []string) *Pinger {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = perHostConns
	transport.MaxIdleConnsPerHost = perHostConns

	return &Pinger{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgents: userAgents,
	}
}

// Do sends one GET to the given URL with a User-Agent drawn from the pool
// and a wildcard Accept header. The response body is drained and discarded;
// only its length is kept. Elapsed is measured to headers-received, the way
// response time is reported in the logs.
func (p *Pinger) Do(ctx context.Context, rawURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{URL: rawURL}, err
	}

	req.Header.Set("User-Agent", p.userAgents[rand.IntN(len(p.userAgents))])
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	res, err := p.client.Do(req)
	if err != nil {
		return Result{URL: rawURL, Elapsed: time.Since(start)}, err
	}
	defer res.Body.Close()

	elapsed := time.Since(start)

	n, err := io.Copy(io.Discard, res.Body)
	if err != nil {
		// A response whose body cannot be read through still failed.
		return Result{URL: rawURL, StatusCode: res.StatusCode, Elapsed: time.Since(start)}, err
	}

	return Result{
		URL:        rawURL,
		StatusCode: res.StatusCode,
		Elapsed:    elapsed,
		BodyBytes:  n,
	}, nil
}

// IsTimeout reports whether err looks like a timeout rather than some other
// transport failure. Both are handled the same way; the distinction only
// drives log severity.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
