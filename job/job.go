package job

import "time"

// Job represents a unit of work managed by the queue storage: a shell
// command, its retry budget, and its lifecycle state.
//
// CreatedAt records when the job was initially enqueued and never
// changes. UpdatedAt records the last state transition or attempts
// increment.
//
// Attempts counts completed execution attempts. MaxRetries is the total
// number of attempts permitted before the job is moved to the dead
// state; it is snapshotted from configuration at creation time and is
// not affected by later configuration changes.
//
// LockedBy and LockedAt are non-nil if and only if Status is
// Processing. RetryAt is non-nil only when Status is Failed, and gates
// the earliest time the job may be leased again.
//
// Job values returned by a Store are snapshots. Mutating them directly
// does not change the underlying queue state; transitions must be
// performed through the Store's operations.
type Job struct {
	Id      string
	Command string

	Status     Status
	Attempts   uint32
	MaxRetries uint32

	CreatedAt time.Time
	UpdatedAt time.Time

	LockedBy *string
	LockedAt *time.Time
	RetryAt  *time.Time
}

// Processing reports whether the job is currently leased by a worker.
func (j *Job) Processing() bool {
	return j.Status == Processing
}

// Terminal reports whether the job is in a state that does not
// transition further without an explicit operator action.
func (j *Job) Terminal() bool {
	return j.Status == Completed || j.Status == Dead
}
