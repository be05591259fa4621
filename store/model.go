package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/ad1ttyya/queuectl/job"
)

// jobModel is the bun row model for the jobs table. Status is stored as
// TEXT (job.Status is a defined string type) rather than an integer
// code, so the persisted state is human-readable in ad-hoc queries.
type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	Id      string `bun:"id,pk"`
	Command string `bun:"command,notnull"`

	Status     job.Status `bun:"state,notnull"`
	Attempts   uint32     `bun:"attempts,notnull,default:0"`
	MaxRetries uint32     `bun:"max_retries,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull"`

	LockedBy *string    `bun:"locked_by,nullzero"`
	LockedAt *time.Time `bun:"locked_at,nullzero"`
	RetryAt  *time.Time `bun:"retry_at,nullzero"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		Id:         jm.Id,
		Command:    jm.Command,
		Status:     jm.Status,
		Attempts:   jm.Attempts,
		MaxRetries: jm.MaxRetries,
		CreatedAt:  jm.CreatedAt,
		UpdatedAt:  jm.UpdatedAt,
		LockedBy:   jm.LockedBy,
		LockedAt:   jm.LockedAt,
		RetryAt:    jm.RetryAt,
	}
}

// configModel is the bun row model for the config key/value table.
type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}
