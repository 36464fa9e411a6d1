package target

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// injectProbability is how often a ping URL gets an extra randomized query
// parameter. The rest of the time the URL goes out untouched, so requests do
// not all share one shape.
const injectProbability = 0.7

// Pool holds the warm-up targets together with the query-key pool used for
// URL randomization.
type Pool struct {
	targets   []*Target
	queryKeys []string
}

func NewPool(targets []*Target, queryKeys []string) *Pool {
	return &Pool{
		targets:   targets,
		queryKeys: queryKeys,
	}
}

// Pick returns a uniformly random target.
func (p *Pool) Pick() *Target {
	return p.targets[rand.IntN(len(p.targets))]
}

// Targets returns every target in the pool.
func (p *Pool) Targets() []*Target {
	return p.targets
}

// Size returns the number of targets in the pool.
func (p *Pool) Size() int {
	return len(p.targets)
}

// RandomizedURL renders the target's URL for one attempt. With probability
// injectProbability it sets one extra query parameter: a random key from the
// pool, valued with the current unix time and a random integer. Scheme, host,
// path and any pre-existing query parameters are left intact.
func (p *Pool) RandomizedURL(t *Target) string {
	u := *t.URL()

	if rand.Float64() < injectProbability {
		q := u.Query()
		key := p.queryKeys[rand.IntN(len(p.queryKeys))]
		q.Set(key, fmt.Sprintf("%d_%d", time.Now().Unix(), rand.IntN(99999)+1))
		u.RawQuery = q.Encode()
	}

	return u.String()
}
