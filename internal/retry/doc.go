// Package retry implements the delivery retry policy as a small state
// machine. A Cycle covers one delivery: it hands out attempt numbers, prices
// the exponential pause between attempts, and settles in SUCCEEDED or
// EXHAUSTED. The Policy also prices the longer backoff applied between
// cycles while a failure streak lasts.
package retry
