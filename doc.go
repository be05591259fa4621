// Package queuectl provides a persistent, CLI-operated background job
// queue with at-most-one-concurrent-execution delivery and automatic
// retry with exponential backoff.
//
// # Overview
//
// queuectl models a durable shell-command queue with explicit state
// transitions. Producers enqueue named jobs; a pool of worker OS
// processes leases jobs from a shared persistent store, executes each
// job's command under a system shell, and records the outcome. Jobs
// that exhaust their retry budget land in a Dead Letter Queue (DLQ),
// from which an operator can manually re-enqueue them.
//
// The package does not mandate a particular physical database engine.
// The reference implementation (package store) uses SQLite via
// uptrace/bun, but any backend able to implement the atomic operations
// of the Store interface is acceptable.
//
// # Delivery Semantics
//
// queuectl guarantees at-most-one concurrent execution per job, not
// exactly-once execution. A worker that crashes mid-job leaves that
// job's lease stuck in state=processing; there is no automatic reaper
// to reclaim it.
//
// # State Machine
//
// Jobs follow this lifecycle (see package job):
//
//	pending    -> processing
//	processing -> completed
//	processing -> failed     (retry budget remains)
//	processing -> dead       (retry budget exhausted)
//	failed     -> processing (once retry_at has elapsed)
//	dead       -> pending    (via an explicit operator DLQ retry)
//
// completed and dead are terminal except for the explicit DLQ-retry
// transition out of dead.
//
// # Retry Policy
//
// Retry behavior is controlled by the backoff_base and max_retries
// configuration values (see BackoffDelay and Decide). When a job's command exits
// non-zero, times out, or cannot be spawned, the next-state decision
// is: retry with a computed backoff delay if attempts remain, or move
// to the DLQ once the retry budget is exhausted.
//
// # Components
//
//	Store   (this package)      — atomic transactional persistence contract
//	job                         — the Job record and its Status enum
//	store                       — a bun/SQLite-backed Store implementation
//	worker                      — single-process lease/execute/record loop
//	manager                     — spawns and supervises worker OS processes
//	cmd/queuectl                — the operator-facing control surface
//
// # Concurrency Model
//
// Coordination between producers, workers, and the operator CLI happens
// exclusively through the Store's atomic primitives; there is no shared
// in-process memory between the independent OS processes that make up a
// running system. See package worker and package manager for the
// process-level concurrency model.
package queuectl
