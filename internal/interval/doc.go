// Package interval plans the randomized pause between keepalive cycles.
package interval
