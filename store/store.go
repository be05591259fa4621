// Package store implements queuectl.Store using SQLite via
// github.com/uptrace/bun.
//
// # Overview
//
// The backend provides:
//
//   - durable persistence of jobs and configuration
//   - atomic state transitions
//   - retry-safe LeaseNext using UPDATE ... RETURNING
//
// # Concurrency Model
//
// LeaseNext issues at most two UPDATE statements (retry-ready failed
// jobs, then pending jobs), each a single atomic UPDATE with a
// subquery, avoiding a race between selecting a candidate job and
// transitioning it to processing. Every Mark* transition similarly
// conditions its UPDATE on state=processing, so a transition on a job
// that is no longer processing observes ErrIllegalTransition. The lock
// holder (locked_by) is not part of that condition.
//
// # Schema
//
// Schema is managed by goose against the embedded migrations directory
// (see migrate.go); Open runs pending migrations before returning a
// ready-to-use *bun.DB.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/ad1ttyya/queuectl"
	"github.com/ad1ttyya/queuectl/job"
)

// Store implements queuectl.Store over a *bun.DB.
type Store struct {
	db *bun.DB
}

// New wraps an already-migrated *bun.DB (see Open) as a queuectl.Store.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// CreateJob implements queuectl.Store.
func (s *Store) CreateJob(ctx context.Context, id, command string, maxRetries *uint32) (*job.Job, error) {
	retries := uint32(0)
	if maxRetries != nil {
		retries = *maxRetries
	} else {
		raw, err := s.GetConfig(ctx, "max_retries", "3")
		if err != nil {
			return nil, err
		}
		n, err := parseUint(raw)
		if err != nil {
			return nil, err
		}
		retries = n
	}

	now := time.Now().UTC()
	model := &jobModel{
		Id:         id,
		Command:    command,
		Status:     job.Pending,
		Attempts:   0,
		MaxRetries: retries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	var existing jobModel
	err = tx.NewSelect().Model(&existing).Where("id = ?", id).Scan(ctx)
	if err == nil {
		return nil, errors.Join(queuectl.ErrAlreadyExists, tx.Rollback())
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Join(err, tx.Rollback())
	}
	if _, err := tx.NewInsert().Model(model).Exec(ctx); err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return model.toJob(), nil
}

// GetJob implements queuectl.Store.
func (s *Store) GetJob(ctx context.Context, id string) (*job.Job, error) {
	var model jobModel
	err := s.db.NewSelect().Model(&model).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queuectl.ErrNotFound
		}
		return nil, err
	}
	return model.toJob(), nil
}

// LeaseNext implements queuectl.Store. It tries failed, retry-ready jobs
// first (oldest updated_at first), then pending jobs (oldest
// created_at first), each via its own atomic UPDATE ... RETURNING.
func (s *Store) LeaseNext(ctx context.Context, workerID string, now time.Time) (*job.Job, error) {
	if model, err := s.leaseOne(ctx, workerID, now, s.failedCandidate(now)); model != nil || err != nil {
		return model, err
	}
	return s.leaseOne(ctx, workerID, now, s.pendingCandidate())
}

func (s *Store) failedCandidate(now time.Time) *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Failed).
		WhereGroup("AND", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereOr("retry_at IS NULL").WhereOr("retry_at <= ?", now)
		}).
		Order("updated_at ASC").
		Limit(1)
}

func (s *Store) pendingCandidate() *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Order("created_at ASC").
		Limit(1)
}

func (s *Store) leaseOne(ctx context.Context, workerID string, now time.Time, candidate *bun.SelectQuery) (*job.Job, error) {
	var rows []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("locked_by = ?", workerID).
		Set("locked_at = ?", now).
		Set("updated_at = ?", now).
		Set("retry_at = NULL").
		Where("id IN (?)", candidate).
		Returning("*").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toJob(), nil
}

// MarkCompleted implements queuectl.Store.
func (s *Store) MarkCompleted(ctx context.Context, id string, now time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Completed).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrIllegalTransition
	}
	return nil
}

// MarkFailedForRetry implements queuectl.Store.
func (s *Store) MarkFailedForRetry(ctx context.Context, id string, now, retryAt time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Failed).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("retry_at = ?", retryAt).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrIllegalTransition
	}
	return nil
}

// MarkDead implements queuectl.Store.
func (s *Store) MarkDead(ctx context.Context, id string, now time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Dead).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("retry_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrIllegalTransition
	}
	return nil
}

// IncrementAttempts implements queuectl.Store.
func (s *Store) IncrementAttempts(ctx context.Context, id string, now time.Time) (uint32, error) {
	_, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("attempts = attempts + 1").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	j, err := s.GetJob(ctx, id)
	if err != nil {
		return 0, err
	}
	return j.Attempts, nil
}

// ResetToPending implements queuectl.Store.
func (s *Store) ResetToPending(ctx context.Context, id string, now time.Time) error {
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("retry_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrNotFound
	}
	return nil
}

// ListJobs implements queuectl.Store.
func (s *Store) ListJobs(ctx context.Context, status job.Status) ([]*job.Job, error) {
	var models []*jobModel
	q := s.db.NewSelect().Model(&models).Order("created_at DESC")
	if status != job.Unknown {
		q = q.Where("state = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	jobs := make([]*job.Job, len(models))
	for i, m := range models {
		jobs[i] = m.toJob()
	}
	return jobs, nil
}

// StatsByState implements queuectl.Store.
func (s *Store) StatsByState(ctx context.Context) (map[job.Status]int64, error) {
	stats := map[job.Status]int64{
		job.Pending:    0,
		job.Processing: 0,
		job.Completed:  0,
		job.Failed:     0,
		job.Dead:       0,
	}
	var rows []struct {
		State job.Status `bun:"state"`
		Count int64      `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state").
		ColumnExpr("count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats[r.State] = r.Count
	}
	return stats, nil
}

// GetConfig implements queuectl.Store.
func (s *Store) GetConfig(ctx context.Context, key, def string) (string, error) {
	var model configModel
	err := s.db.NewSelect().Model(&model).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return "", err
	}
	return model.Value, nil
}

// SetConfig implements queuectl.Store.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}
