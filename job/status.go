package job

import "fmt"

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	pending    -> processing
//	processing -> completed
//	processing -> failed     (retry budget remains)
//	processing -> dead       (retry budget exhausted)
//	failed     -> processing (once retry_at has elapsed)
//	dead       -> pending    (operator DLQ retry only)
//
// Unknown is reserved as a zero value; ListJobs treats it as
// "no status filter".
type Status string

const (
	// Unknown represents an unspecified or invalid job state. It is the
	// zero value of Status.
	Unknown Status = ""

	// Pending indicates that the job is eligible for leasing. A Pending
	// job that arrived via a DLQ retry has Attempts reset to 0.
	Pending Status = "pending"

	// Processing indicates that the job has been leased and is owned by
	// a worker. LockedBy and LockedAt are non-null in this state.
	Processing Status = "processing"

	// Completed indicates successful execution. Terminal: a Completed
	// job never transitions again.
	Completed Status = "completed"

	// Failed indicates a failed attempt that still has retry budget
	// remaining. RetryAt gates when the job becomes leasable again.
	Failed Status = "failed"

	// Dead indicates the job's retry budget was exhausted. Terminal
	// until an operator performs a DLQ retry, which transitions it back
	// to Pending.
	Dead Status = "dead"
)

// Valid reports whether s is one of the recognized non-empty states.
func (s Status) Valid() bool {
	switch s {
	case Pending, Processing, Completed, Failed, Dead:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string representation of a status into a Status
// value. Recognized values are "pending", "processing", "completed",
// "failed", "dead" and the empty string (Unknown). An error is returned
// for any other input.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if s == "" || status.Valid() {
		return status, nil
	}
	return Unknown, fmt.Errorf("unknown job status: %q", s)
}

// String returns the canonical string representation of the status.
func (s Status) String() string {
	if s == Unknown {
		return "unknown"
	}
	return string(s)
}

// MarshalText implements encoding.TextMarshaler. It round-trips through
// UnmarshalText/ParseStatus, so Unknown marshals to "" rather than
// String()'s display form "unknown".
func (s Status) MarshalText() ([]byte, error) {
	return []byte(string(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}
