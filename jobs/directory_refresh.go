package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/mawrid/mawrid/internal/jobs"
)

// Refresher reloads the supplier directory and reports how many rows it holds.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// DirectoryRefreshJob keeps the shared directory cache warm so page loads
// rarely wait on the hosted backend.
type DirectoryRefreshJob struct {
	Refresher Refresher
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewDirectoryRefreshJob wires dependencies for the refresh handler.
func NewDirectoryRefreshJob(refresher Refresher, logger *slog.Logger, metrics *jobmetrics.Metrics) *DirectoryRefreshJob {
	return &DirectoryRefreshJob{
		Refresher: refresher,
		Logger:    logger,
		Metrics:   metrics,
		clock:     time.Now,
	}
}

// Handle processes directory refresh tasks. Failures are not retried; the
// next scheduled run tries again.
func (j *DirectoryRefreshJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Refresher == nil {
		return errors.New("directory refresh: handler not configured")
	}
	var payload DirectoryRefreshPayload
	if len(t.Payload()) > 0 {
		if jsonErr := json.Unmarshal(t.Payload(), &payload); jsonErr != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.Metrics.Track(TaskDirectoryRefresh)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger().With(slog.String("job", TaskDirectoryRefresh), slog.String("reason", payload.Reason))
	count, err := j.Refresher.Refresh(ctx)
	if err != nil {
		logger.Error("directory refresh", slog.Any("error", err))
		return err
	}
	j.Metrics.MarkRefreshed(count, j.clock())
	logger.Debug("directory refreshed", slog.Int("suppliers", count))
	return nil
}

func (j *DirectoryRefreshJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}
