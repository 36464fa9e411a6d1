// Package keepalive runs the delivery loop that keeps remote services warm.
// One loop owns the whole schedule: randomized target and URL per cycle,
// bounded retries with exponential pauses, escalating backoff across failed
// cycles, and a jittered random interval between pings.
package keepalive
