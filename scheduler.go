package queuectl

import (
	"math"
	"time"
)

// BackoffDelay computes the retry delay for an attempt count n >= 1, as
// base^n seconds. n is the post-increment attempt count: the first
// retry waits base^1, the second base^2, and so on. The result is
// always non-negative.
func BackoffDelay(n uint32, base float64) time.Duration {
	seconds := math.Pow(base, float64(n))
	if seconds < 0 {
		seconds = 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// Decision is the outcome of applying the retry policy after a failed
// attempt.
type Decision struct {
	// Dead is true if the job's retry budget is exhausted and it should
	// move to the dead state.
	Dead bool
	// RetryAt is the time the job becomes eligible for leasing again.
	// Only meaningful when Dead is false.
	RetryAt time.Time
}

// Decide applies the retry policy: given the attempt count immediately
// after it was incremented (newAttempts) and the job's retry budget
// (maxRetries), it decides whether the job should move to the dead
// state or be rescheduled with a backoff delay computed from
// newAttempts.
//
// With maxRetries=3, a job has at most 3 attempts total: it moves to
// the dead state on the third failure.
func Decide(newAttempts, maxRetries uint32, backoffBase float64, now time.Time) Decision {
	if newAttempts >= maxRetries {
		return Decision{Dead: true}
	}
	return Decision{RetryAt: now.Add(BackoffDelay(newAttempts, backoffBase))}
}
