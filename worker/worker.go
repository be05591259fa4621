// Package worker implements the single-process job-execution loop:
// lease a job, run its command under a shell, record the outcome, and
// repeat. Each Worker owns no concurrency of its own — scaling out
// means running more OS processes, coordinated by package manager.
package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/ad1ttyya/queuectl"
	"github.com/ad1ttyya/queuectl/internal"
	"github.com/ad1ttyya/queuectl/job"
)

// idleInterval is how long the worker sleeps after finding no leasable
// job before polling the store again.
const idleInterval = 500 * time.Millisecond

// commandTimeout bounds the wall-clock duration of a single job's shell
// execution. It is independent of the worker's shutdown context: a
// signal that asks the worker to stop does not interrupt an in-flight
// command.
const commandTimeout = 5 * time.Minute

// Config controls a Worker's retry policy and identity.
type Config struct {
	// ID identifies this worker to the store as LockedBy. Must be
	// unique among concurrently running workers.
	ID string

	// BackoffBase is the exponential backoff base used by the
	// scheduler when a job fails and retains retry budget.
	BackoffBase float64
}

// Worker runs the lease/execute/record loop described in the package
// doc comment. A Worker may be Run only once.
type Worker struct {
	internal.Lifecycle

	store queuectl.Store
	log   *slog.Logger
	id    string
	base  float64

	running atomic.Bool
}

// New creates a Worker bound to store, identified to the store as
// cfg.ID.
func New(store queuectl.Store, cfg Config, log *slog.Logger) *Worker {
	return &Worker{
		store: store,
		log:   log.With("worker_id", cfg.ID),
		id:    cfg.ID,
		base:  cfg.BackoffBase,
	}
}

// Run executes the lease/execute/record loop until ctx is canceled.
// Cancellation is cooperative: it is observed between jobs, never while
// a command is in flight, so Run may outlive ctx by up to
// commandTimeout. Run returns ErrDoubleStarted if already running.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.TryStart(); err != nil {
		return err
	}
	w.running.Store(true)

	for w.running.Load() {
		select {
		case <-ctx.Done():
			w.log.Info("shutdown signal observed, draining")
			w.running.Store(false)
			return nil
		default:
		}

		leased, err := w.store.LeaseNext(context.Background(), w.id, time.Now().UTC())
		if err != nil {
			w.log.Error("lease failed", "err", err)
			time.Sleep(idleInterval)
			continue
		}
		if leased == nil {
			select {
			case <-ctx.Done():
				w.running.Store(false)
			case <-time.After(idleInterval):
			}
			continue
		}

		w.execute(leased)
	}
	return nil
}

func (w *Worker) execute(j *job.Job) {
	log := w.log.With("job_id", j.Id)
	log.Info("executing job", "command", j.Command, "attempt", j.Attempts+1)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", j.Command)
	cmd.Stdout = &out
	cmd.Stderr = &out
	runErr := cmd.Run()

	now := time.Now().UTC()
	if runErr == nil {
		if err := w.store.MarkCompleted(context.Background(), j.Id, now); err != nil {
			log.Error("cannot mark completed", "err", err)
		}
		log.Info("job completed")
		return
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warn("job command timed out", "limit", commandTimeout)
	} else {
		log.Warn("job command failed", "err", runErr, "output", truncate(out.String(), 2048))
	}

	w.fail(context.Background(), j, now, log)
}

func (w *Worker) fail(ctx context.Context, j *job.Job, now time.Time, log *slog.Logger) {
	attempts, err := w.store.IncrementAttempts(ctx, j.Id, now)
	if err != nil {
		log.Error("cannot increment attempts", "err", err)
		return
	}

	decision := queuectl.Decide(attempts, j.MaxRetries, w.base, now)
	if decision.Dead {
		if err := w.store.MarkDead(ctx, j.Id, now); err != nil {
			log.Error("cannot mark dead", "err", err)
		}
		log.Warn("job moved to dead letter", "attempts", attempts)
		return
	}
	if err := w.store.MarkFailedForRetry(ctx, j.Id, now, decision.RetryAt); err != nil {
		log.Error("cannot mark failed", "err", err)
	}
	log.Info("job scheduled for retry", "attempts", attempts, "retry_at", decision.RetryAt)
}

// truncate returns s capped at n bytes, for diagnostic logging of
// command output that is never persisted to the store.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
