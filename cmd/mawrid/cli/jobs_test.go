package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/mawrid/mawrid/jobs"
)

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (s *stubEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: jobs.QueueDefault, Type: task.Type()}, nil
}

func (s *stubEnqueuer) Close() error { return nil }

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func (s stubInspector) ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	return []*asynq.TaskInfo{{ID: "sched-1", Queue: queue}}, nil
}

func (s stubInspector) Close() error { return nil }

func TestTriggerDirectoryRefresh(t *testing.T) {
	enq := &stubEnqueuer{}
	c := &JobsCLI{client: enq}

	id, err := c.Trigger(context.Background(), jobs.TaskDirectoryRefresh)
	require.NoError(t, err)
	require.Equal(t, "task-1", id)
	require.Len(t, enq.tasks, 1)
	require.Equal(t, jobs.TaskDirectoryRefresh, enq.tasks[0].Type())
	require.JSONEq(t, `{"reason":"manual"}`, string(enq.tasks[0].Payload()))
}

func TestTriggerDuplicateIsNotAnError(t *testing.T) {
	c := &JobsCLI{client: &stubEnqueuer{err: asynq.ErrDuplicateTask}}
	id, err := c.Trigger(context.Background(), jobs.TaskDirectoryRefresh)
	require.NoError(t, err)
	require.Equal(t, "deduplicated", id)
}

func TestTriggerUnsupported(t *testing.T) {
	c := &JobsCLI{client: &stubEnqueuer{}}
	_, err := c.Trigger(context.Background(), "report:weekly")
	require.ErrorContains(t, err, "unsupported job")
}

func TestInspectQueue(t *testing.T) {
	c := &JobsCLI{inspector: stubInspector{info: &asynq.QueueInfo{Queue: jobs.QueueDefault, Pending: 2, Active: 1, Scheduled: 3, Retry: 0, Failed: 4}}}
	stats, err := c.InspectQueue(context.Background())
	require.NoError(t, err)
	require.Equal(t, QueueStats{Queue: jobs.QueueDefault, Pending: 2, Active: 1, Scheduled: 3, Failed: 4}, stats)

	c = &JobsCLI{inspector: stubInspector{err: asynq.ErrQueueNotFound}}
	stats, err = c.InspectQueue(context.Background())
	require.NoError(t, err)
	require.Equal(t, QueueStats{Queue: jobs.QueueDefault}, stats)

	c = &JobsCLI{inspector: stubInspector{err: errors.New("redis down")}}
	_, err = c.InspectQueue(context.Background())
	require.Error(t, err)
}

func TestListScheduled(t *testing.T) {
	c := &JobsCLI{inspector: stubInspector{}}
	tasks, err := c.ListScheduled(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestRunCommands(t *testing.T) {
	enq := &stubEnqueuer{}
	c := &JobsCLI{client: enq, inspector: stubInspector{info: &asynq.QueueInfo{Queue: jobs.QueueDefault, Pending: 1}}}

	var out bytes.Buffer
	require.NoError(t, c.Run(context.Background(), &out, []string{"trigger", jobs.TaskDirectoryRefresh}))
	require.Contains(t, out.String(), "enqueued directory:refresh (task-1)")

	out.Reset()
	require.NoError(t, c.Run(context.Background(), &out, []string{"status"}))
	require.Contains(t, out.String(), "PENDING")
	require.Contains(t, out.String(), "default")

	require.Error(t, c.Run(context.Background(), &out, nil))
	require.Error(t, c.Run(context.Background(), &out, []string{"trigger"}))
	require.Error(t, c.Run(context.Background(), &out, []string{"purge"}))
}
