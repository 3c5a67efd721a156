package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDirectoryRefresh re-warms the supplier directory cache.
	TaskDirectoryRefresh = "directory:refresh"
	// RefreshSchedule is the cron spec the worker registers for the refresh.
	RefreshSchedule = "@every 30s"
)

// DirectoryRefreshPayload describes why a refresh was requested.
type DirectoryRefreshPayload struct {
	Reason string `json:"reason"`
}

// NewDirectoryRefreshTask constructs the refresh task. Refreshes enqueued
// within the same window collapse into one.
func NewDirectoryRefreshTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(DirectoryRefreshPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDirectoryRefresh, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(20*time.Second),
		asynq.Unique(25*time.Second),
	), nil
}
