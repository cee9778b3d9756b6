// Package throttle decides whether a repeated action on the same (actor, target) pair is allowed.
package throttle

import (
	"math"
	"time"
)

const DefaultWindowMinutes = 30.0

// Window converts a configured minute count into a duration. NaN, infinite and
// non-positive values fall back to DefaultWindowMinutes.
func Window(minutes float64) time.Duration {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		minutes = DefaultWindowMinutes
	}
	return time.Duration(minutes * float64(time.Minute))
}

// ComputeExpiry returns the earliest time a new action is allowed after one at last.
func ComputeExpiry(last time.Time, windowMinutes float64) time.Time {
	return last.Add(Window(windowMinutes))
}

type Decision struct {
	Allowed     bool
	AvailableAt time.Time
}

// CheckAward applies the point-award cooldown. A nil last means no prior award.
func CheckAward(last *time.Time, now time.Time, windowMinutes float64) Decision {
	if last == nil {
		return Decision{Allowed: true, AvailableAt: now}
	}

	next := ComputeExpiry(*last, windowMinutes)
	if now.Before(next) {
		return Decision{Allowed: false, AvailableAt: next}
	}

	return Decision{Allowed: true, AvailableAt: now}
}

// CheckVisit allows a visit only when the pair has never been recorded.
func CheckVisit(last *time.Time) bool {
	return last == nil
}
