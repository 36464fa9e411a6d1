// Package target holds the set of URLs kept warm and the per-attempt URL
// randomization: uniform target selection and the occasional cache-busting
// query parameter that keeps pings from looking identical.
package target
