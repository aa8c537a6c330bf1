// Package scheduler runs the periodic pipeline jobs on staggered
// intervals, persisting per-job run state so restarts resume the cadence
// instead of resetting it.
package scheduler

import (
	"context"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// JobName identifies one scheduled job.
type JobName string

const (
	JobFeature   JobName = "feature"
	JobTraining  JobName = "training"
	JobInference JobName = "inference"
)

// JobOrder is the fixed execution order within a tick. Feature runs before
// training so a due training job sees the freshest rows; inference runs
// last so it can pick up a model trained in the same tick.
var JobOrder = []JobName{JobFeature, JobTraining, JobInference}

// ParseJobName validates a job name from external input.
func ParseJobName(s string) (JobName, error) {
	name := JobName(s)
	for _, known := range JobOrder {
		if name == known {
			return name, nil
		}
	}
	return "", errors.Wrapf(errors.ErrInvalidRequest, "unknown job %q", s)
}

// Run status values persisted per job.
const (
	StatusNever   = "never"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RunState is the durable scheduling state for one job.
type RunState struct {
	JobName    JobName
	LastRunAt  *time.Time
	LastStatus string
	UpdatedAt  time.Time
}

// Action is the work a job performs.
type Action func(ctx context.Context) error

// Job pairs a name with its interval and action.
type Job struct {
	Name     JobName
	Interval time.Duration
	Action   Action
}

// JobStatus is a point-in-time view of one job for the status endpoint.
// NextDueAt is nil when the job is due immediately.
type JobStatus struct {
	Name       JobName    `json:"name"`
	Interval   string     `json:"interval"`
	LastRunAt  *time.Time `json:"last_run_at"`
	LastStatus string     `json:"last_status"`
	NextDueAt  *time.Time `json:"next_due_at"`
}
