// Package job defines the stateful representation of a unit of work in
// the queuectl job queue.
//
// A Job carries a shell command plus delivery and scheduling metadata:
// its current Status, how many times it has been attempted, its retry
// budget, and lock/retry timestamps. These fields are maintained by the
// queue storage and worker logic, not by callers.
//
// Job values are returned by Store operations; state transitions
// (MarkCompleted, MarkFailedForRetry, MarkDead, ResetToPending) are
// requested from the store by job id. Job is not intended to be constructed
// manually by user code; its fields reflect the authoritative state
// held by the store.
package job
