package queuectl

import (
	"context"
	"time"

	"github.com/ad1ttyya/queuectl/job"
)

// Store is the sole source of truth for job and configuration state.
// All concurrency safety in the system reduces to the Store's atomic
// conditional updates; implementations must ensure that each operation
// either commits in full or has no effect.
//
// Store implementations are shared, without coupling, by producers
// (CreateJob), workers (LeaseNext and the Mark* transitions), and the
// operator control surface (everything else). Nothing above this
// interface assumes a particular storage engine.
type Store interface {
	// CreateJob creates a new pending job. If maxRetries is nil, the
	// value is resolved from the "max_retries" configuration key at
	// creation time and snapshotted into the row; later configuration
	// changes do not affect it. CreateJob returns ErrAlreadyExists if id
	// is already present.
	CreateJob(ctx context.Context, id, command string, maxRetries *uint32) (*job.Job, error)

	// GetJob returns the current record for id, or ErrNotFound.
	GetJob(ctx context.Context, id string) (*job.Job, error)

	// LeaseNext atomically selects at most one job eligible for
	// workerID and transitions it to Processing, incrementing nothing
	// (attempts are incremented separately, by the caller, only on
	// failure — see IncrementAttempts). Eligibility, in priority order:
	//
	//  1. Status=Failed and (RetryAt is nil or RetryAt <= now), ordered
	//     by UpdatedAt ascending;
	//  2. otherwise Status=Pending, ordered by CreatedAt ascending.
	//
	// The returned job has Status=Processing, LockedBy=workerID,
	// LockedAt=now, RetryAt=nil. LeaseNext returns (nil, nil) if nothing
	// is eligible. Two concurrent callers must never both observe
	// success for the same id.
	LeaseNext(ctx context.Context, workerID string, now time.Time) (*job.Job, error)

	// MarkCompleted requires Status=Processing; it sets Status=Completed
	// and clears the lock fields. ErrIllegalTransition is returned if
	// the job is not currently Processing.
	MarkCompleted(ctx context.Context, id string, now time.Time) error

	// MarkFailedForRetry requires Status=Processing; it sets
	// Status=Failed, clears the lock fields, and sets RetryAt. It does
	// not touch Attempts — the caller must have already called
	// IncrementAttempts. ErrIllegalTransition is returned if the job is
	// not currently Processing.
	MarkFailedForRetry(ctx context.Context, id string, now, retryAt time.Time) error

	// MarkDead requires Status=Processing; it sets Status=Dead, clears
	// the lock fields and RetryAt. ErrIllegalTransition is returned if
	// the job is not currently Processing.
	MarkDead(ctx context.Context, id string, now time.Time) error

	// IncrementAttempts atomically adds 1 to Attempts and returns the
	// new value.
	IncrementAttempts(ctx context.Context, id string, now time.Time) (uint32, error)

	// ResetToPending sets Status=Pending, Attempts=0, and clears the
	// lock fields and RetryAt. It is used only by the DLQ-retry control
	// command; callers are expected to enforce the dead-only
	// precondition, but a Store must accept the transition regardless
	// of the job's prior state.
	ResetToPending(ctx context.Context, id string, now time.Time) error

	// ListJobs returns jobs newest-first by CreatedAt. If status is
	// job.Unknown, all jobs are returned.
	ListJobs(ctx context.Context, status job.Status) ([]*job.Job, error)

	// StatsByState returns a count for every job.Status value, zero-filled
	// for states with no jobs.
	StatsByState(ctx context.Context) (map[job.Status]int64, error)

	// GetConfig returns the value for key, or def if key has not been
	// set.
	GetConfig(ctx context.Context, key, def string) (string, error)

	// SetConfig sets key to value, creating it if absent.
	SetConfig(ctx context.Context, key, value string) error
}
