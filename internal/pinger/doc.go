// Package pinger performs the individual HTTP GET attempts: randomized
// User-Agent, wildcard Accept, a hard request timeout and a drained body.
// It reports what happened and leaves retry decisions to the caller.
package pinger
