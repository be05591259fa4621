package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ad1ttyya/queuectl"
	"github.com/ad1ttyya/queuectl/job"
	"github.com/ad1ttyya/queuectl/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db)
}

func TestCreateAndGetJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	j, err := s.CreateJob(ctx, "job-1", "echo hi", nil)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.Pending {
		t.Fatalf("expected Pending, got %v", j.Status)
	}
	if j.MaxRetries != 3 {
		t.Fatalf("expected default max_retries 3, got %d", j.MaxRetries)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Command != "echo hi" {
		t.Fatalf("expected command echo hi, got %q", got.Command)
	}
}

func TestCreateJobDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateJob(ctx, "job-1", "echo hi", nil); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreateJob(ctx, "job-1", "echo hi", nil)
	if !errors.Is(err, queuectl.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetJob(ctx, "missing")
	if !errors.Is(err, queuectl.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaseNextPrefersRetryReadyOverPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "retry-1", "echo b", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateJob(ctx, "pending-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}

	leased, err := s.LeaseNext(ctx, "worker-a", now)
	if err != nil {
		t.Fatal(err)
	}
	if leased == nil || leased.Id != "retry-1" {
		t.Fatalf("expected to lease retry-1 first")
	}
	if err := s.MarkFailedForRetry(ctx, "retry-1", now, now.Add(-time.Second)); err != nil {
		t.Fatal(err)
	}

	leased, err = s.LeaseNext(ctx, "worker-a", now)
	if err != nil {
		t.Fatal(err)
	}
	if leased == nil || leased.Id != "retry-1" {
		t.Fatalf("expected retry-ready job to be leased before pending, got %+v", leased)
	}
	if leased.Status != job.Processing {
		t.Fatalf("expected Processing, got %v", leased.Status)
	}

	leased, err = s.LeaseNext(ctx, "worker-a", now)
	if err != nil {
		t.Fatal(err)
	}
	if leased == nil || leased.Id != "pending-1" {
		t.Fatalf("expected pending-1 leased next, got %+v", leased)
	}

	leased, err = s.LeaseNext(ctx, "worker-a", now)
	if err != nil {
		t.Fatal(err)
	}
	if leased != nil {
		t.Fatalf("expected no more leasable jobs, got %+v", leased)
	}
}

func TestLeaseNextSkipsFutureRetry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	j, err := s.LeaseNext(ctx, "worker-a", now)
	if err != nil || j == nil {
		t.Fatal(err)
	}
	if err := s.MarkFailedForRetry(ctx, "job-1", now, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	leased, err := s.LeaseNext(ctx, "worker-b", now)
	if err != nil {
		t.Fatal(err)
	}
	if leased != nil {
		t.Fatalf("expected no job leasable before retry_at, got %+v", leased)
	}
}

func TestMarkCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LeaseNext(ctx, "worker-a", now); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkCompleted(ctx, "job-1", now); err != nil {
		t.Fatal(err)
	}

	j, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.Completed {
		t.Fatalf("expected Completed, got %v", j.Status)
	}
	if j.LockedBy != nil {
		t.Fatal("expected lock to be cleared")
	}
}

func TestMarkCompletedRejectsNonProcessing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	err := s.MarkCompleted(ctx, "job-1", now)
	if !errors.Is(err, queuectl.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestMarkDead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LeaseNext(ctx, "worker-a", now); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkDead(ctx, "job-1", now); err != nil {
		t.Fatal(err)
	}

	j, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.Dead {
		t.Fatalf("expected Dead, got %v", j.Status)
	}
}

func TestIncrementAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	n, err := s.IncrementAttempts(ctx, "job-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected attempts 1, got %d", n)
	}
	n, err = s.IncrementAttempts(ctx, "job-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected attempts 2, got %d", n)
	}
}

func TestResetToPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LeaseNext(ctx, "worker-a", now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.IncrementAttempts(ctx, "job-1", now); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkDead(ctx, "job-1", now); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetToPending(ctx, "job-1", now); err != nil {
		t.Fatal(err)
	}

	j, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.Pending {
		t.Fatalf("expected Pending, got %v", j.Status)
	}
	if j.Attempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", j.Attempts)
	}
}

func TestListJobsFiltersByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateJob(ctx, "job-2", "echo b", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LeaseNext(ctx, "worker-a", now); err != nil {
		t.Fatal(err)
	}

	pending, err := s.ListJobs(ctx, job.Pending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending job, got %d", len(pending))
	}

	all, err := s.ListJobs(ctx, job.Unknown)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs total, got %d", len(all))
	}
}

func TestStatsByState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.CreateJob(ctx, "job-1", "echo a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateJob(ctx, "job-2", "echo b", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LeaseNext(ctx, "worker-a", now); err != nil {
		t.Fatal(err)
	}

	stats, err := s.StatsByState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats[job.Pending] != 1 {
		t.Fatalf("expected 1 pending, got %d", stats[job.Pending])
	}
	if stats[job.Processing] != 1 {
		t.Fatalf("expected 1 processing, got %d", stats[job.Processing])
	}
	if stats[job.Dead] != 0 {
		t.Fatalf("expected 0 dead, got %d", stats[job.Dead])
	}
}

func TestConfigGetSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v, err := s.GetConfig(ctx, "missing", "default")
	if err != nil {
		t.Fatal(err)
	}
	if v != "default" {
		t.Fatalf("expected default, got %q", v)
	}

	if err := s.SetConfig(ctx, "backoff_base", "4"); err != nil {
		t.Fatal(err)
	}
	v, err = s.GetConfig(ctx, "backoff_base", "2")
	if err != nil {
		t.Fatal(err)
	}
	if v != "4" {
		t.Fatalf("expected 4, got %q", v)
	}

	if err := s.SetConfig(ctx, "backoff_base", "5"); err != nil {
		t.Fatal(err)
	}
	v, err = s.GetConfig(ctx, "backoff_base", "2")
	if err != nil {
		t.Fatal(err)
	}
	if v != "5" {
		t.Fatalf("expected updated value 5, got %q", v)
	}
}

func TestCreateJobExplicitMaxRetries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	retries := uint32(10)
	j, err := s.CreateJob(ctx, "job-1", "echo a", &retries)
	if err != nil {
		t.Fatal(err)
	}
	if j.MaxRetries != 10 {
		t.Fatalf("expected explicit max_retries 10, got %d", j.MaxRetries)
	}
}
