package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/mawrid/mawrid/internal/jobs"
)

type stubRefresher struct {
	count int
	err   error
	calls int
}

func (s *stubRefresher) Refresh(ctx context.Context) (int, error) {
	s.calls++
	return s.count, s.err
}

func TestDirectoryRefreshTaskPayload(t *testing.T) {
	task, err := NewDirectoryRefreshTask("schedule")
	require.NoError(t, err)
	assert.Equal(t, TaskDirectoryRefresh, task.Type())

	var payload DirectoryRefreshPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "schedule", payload.Reason)
}

func TestDirectoryRefreshJobHandle(t *testing.T) {
	refresher := &stubRefresher{count: 12}
	job := NewDirectoryRefreshJob(refresher, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	job.clock = func() time.Time { return time.Unix(1700000000, 0) }

	task, err := NewDirectoryRefreshTask("write")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("backend down")
	assert.EqualError(t, job.Handle(context.Background(), task), "backend down")
}

func TestDirectoryRefreshJobRejectsBadPayload(t *testing.T) {
	job := NewDirectoryRefreshJob(&stubRefresher{}, nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskDirectoryRefresh, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	var unset *DirectoryRefreshJob
	assert.Error(t, unset.Handle(context.Background(), asynq.NewTask(TaskDirectoryRefresh, nil)))
}

func TestClientEnqueueCollapsesDuplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, client.EnqueueDirectoryRefresh(context.Background(), "write"))
	require.NoError(t, client.EnqueueDirectoryRefresh(context.Background(), "write"))

	pending, err := mr.List("asynq:{default}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func serveHealth(inspector QueueInspector) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(inspector, nil).MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	return rec
}

func TestHealthReportsQueueDepth(t *testing.T) {
	rec := serveHealth(stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3, Active: 1}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":3,"active":1,"failed":0}`, rec.Body.String())

	rec = serveHealth(nil)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0,"failed":0}`, rec.Body.String())

	rec = serveHealth(stubInspector{err: errors.New("redis down")})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
