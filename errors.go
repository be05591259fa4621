package queuectl

import "errors"

var (
	// ErrAlreadyExists indicates that CreateJob was called with an id
	// that already identifies a job in the store.
	ErrAlreadyExists = errors.New("job already exists")

	// ErrNotFound indicates that a job id does not identify any job
	// known to the store.
	ErrNotFound = errors.New("job not found")

	// ErrIllegalTransition indicates that a state-transition operation
	// (MarkCompleted, MarkFailedForRetry, MarkDead, or a DLQ retry of a
	// job that is not dead) was attempted on a job that was not in the
	// state the operation requires. For the Mark* operations this
	// typically means the job is no longer processing.
	ErrIllegalTransition = errors.New("illegal job state transition")

	// ErrAlreadyRunning indicates that StartWorkers was called while a
	// set of workers is already tracked.
	ErrAlreadyRunning = errors.New("workers already running")

	// ErrNoWorkers indicates that StopWorkers was called for a database
	// with no pidfile at all, i.e. StartWorkers was never called (or its
	// pidfile was already cleared by a prior stop).
	ErrNoWorkers = errors.New("no workers running")

	// ErrInvalidInput indicates malformed operator input: missing
	// required flags, a non-integer max_retries, a non-numeric
	// backoff_base, or a worker count below 1.
	ErrInvalidInput = errors.New("invalid input")
)
