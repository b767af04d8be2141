package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/hbond-engine/pkg/errors"
	"github.com/turtacn/hbond-engine/pkg/types/common"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

type mockJobReader struct {
	mock.Mock
}

func (m *mockJobReader) Get(ctx context.Context, id string) (*types.JobRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.JobRecord), args.Error(1)
}

func (m *mockJobReader) List(ctx context.Context, f postgres.JobFilter) ([]*types.JobRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.JobRecord), args.Error(1)
}

func jobRouter(h *JobHandler) *gin.Engine {
	r := gin.New()
	r.GET("/jobs", h.List)
	r.GET("/jobs/:id", h.Get)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestJobHandler_Get(t *testing.T) {
	jobs := new(mockJobReader)
	jobs.On("Get", mock.Anything, "j1").Return(&types.JobRecord{
		JobResult: types.JobResult{JobID: "j1", Status: types.JobSucceeded, ResultKey: "results/j1.json"},
		Attempts:  2,
	}, nil)

	w := get(jobRouter(NewJobHandler(jobs)), "/jobs/j1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp common.APIResponse[types.JobRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "j1", resp.Data.JobID)
	assert.Equal(t, "results/j1.json", resp.Data.ResultKey)
	assert.Equal(t, 2, resp.Data.Attempts)
}

func TestJobHandler_GetNotFound(t *testing.T) {
	jobs := new(mockJobReader)
	jobs.On("Get", mock.Anything, "nope").Return(nil, errors.New(errors.ErrCodeNotFound, "job not found"))

	w := get(jobRouter(NewJobHandler(jobs)), "/jobs/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.ErrCodeNotFound.String(), decodeError(t, w).Code)
}

func TestJobHandler_GetDatabaseErrorIsMasked(t *testing.T) {
	jobs := new(mockJobReader)
	jobs.On("Get", mock.Anything, "j1").
		Return(nil, errors.Wrap(stderrors.New("dial tcp: refused"), errors.ErrCodeDatabaseError, "failed to load job"))

	w := get(jobRouter(NewJobHandler(jobs)), "/jobs/j1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, "database error", detail.Message)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestJobHandler_List(t *testing.T) {
	jobs := new(mockJobReader)
	jobs.On("List", mock.Anything, postgres.JobFilter{Status: types.JobFailed, Limit: 5}).
		Return([]*types.JobRecord{{JobResult: types.JobResult{JobID: "a", Status: types.JobFailed}}}, nil)

	w := get(jobRouter(NewJobHandler(jobs)), "/jobs?status=failed&limit=5")
	require.Equal(t, http.StatusOK, w.Code)

	var resp common.APIResponse[[]types.JobRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "a", resp.Data[0].JobID)
	jobs.AssertExpectations(t)
}

func TestJobHandler_ListRejectsBadQuery(t *testing.T) {
	jobs := new(mockJobReader)
	r := jobRouter(NewJobHandler(jobs))

	for _, path := range []string{"/jobs?status=running", "/jobs?limit=0", "/jobs?limit=ten"} {
		w := get(r, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	jobs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestHealthHandler_Readiness(t *testing.T) {
	var dbErr error
	h := NewHealthHandler("1.0.0", HealthCheck{Name: "database", Check: func(context.Context) error { return dbErr }})

	w := serve(h.Readiness, http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp common.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.HealthUp, resp.Status)
	assert.Equal(t, "up", resp.Components["database"])

	dbErr = stderrors.New("connection refused")
	w = serve(h.Readiness, http.MethodGet, "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.HealthDown, resp.Status)
	assert.Equal(t, "connection refused", resp.Components["database"])
}

func TestHealthHandler_ReadinessWithoutChecks(t *testing.T) {
	w := serve(NewHealthHandler("1.0.0").Readiness, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

//Personal.AI order the ending
