// Package ratelimit implements a fixed-window request throttle keyed by an arbitrary string,
// typically "<action>:<client address>".
package ratelimit

import (
	"context"
	"time"
)

type Rule struct {
	Limit  int
	Window time.Duration
}

type Result struct {
	Allowed           bool
	Remaining         int
	RetryAfterSeconds int
}

// Store decides one request against a rule. Implementations must be safe for concurrent use.
type Store interface {
	Allow(ctx context.Context, key string, rule Rule) (Result, error)
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
