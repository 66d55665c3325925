package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julpayne/eval-hub/internal/apperr"
	"github.com/julpayne/eval-hub/internal/callback"
	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/dispatch"
	"github.com/julpayne/eval-hub/internal/executor"
	"github.com/julpayne/eval-hub/internal/hub"
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/storage/in_mem"
	"github.com/julpayne/eval-hub/internal/tracking"
)

type instantExecutor struct{}

func (instantExecutor) Submit(context.Context, executor.Unit) (executor.Handle, error) {
	return executor.Handle(uuid.NewString()), nil
}

func (instantExecutor) Poll(context.Context, executor.Handle) (*executor.Result, bool, error) {
	return &executor.Result{Metrics: map[string]any{"accuracy": 0.8}}, true, nil
}

func (instantExecutor) Cancel(context.Context, executor.Handle) error { return nil }

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	settings := config.Default()
	notifier := callback.New(settings.Callback, callback.WithBackoff(time.Millisecond))
	h := hub.New(settings, in_mem.NewInMemStore(), tracking.NoopSink{}, notifier,
		hub.WithDispatcher(dispatch.New(4, dispatch.WithPollInterval(5*time.Millisecond))),
		hub.WithExecutorFactory(func(spec.BackendSpec) (executor.Executor, error) {
			return instantExecutor{}, nil
		}),
	)

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewEvaluationRouter(e, h).Bind()
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_SyncReturns200(t *testing.T) {
	e := newTestRouter(t)

	body := `{
		"async_mode": false,
		"evaluations": [{"model_name": "llama-3-8b", "risk_category": "low"}]
	}`
	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp spec.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, spec.StatusCompleted, resp.Status)
	assert.Equal(t, 4, resp.TotalEvaluations)
}

func TestSubmit_AsyncReturns202(t *testing.T) {
	e := newTestRouter(t)

	body := `{"evaluations": [{"model_name": "llama-3-8b", "risk_category": "low"}]}`
	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations", body)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp spec.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.RequestID)
	assert.False(t, resp.Status.Terminal())
}

func TestSubmit_ValidationErrorReturns400(t *testing.T) {
	e := newTestRouter(t)

	body := `{"async_mode": false, "evaluations": [{"risk_category": "low"}]}`
	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["path"], "evaluations[0]")
	assert.Contains(t, resp["error"], "model_name")
}

func TestSubmit_MalformedBodyReturns400(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations", `{"evaluations": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBenchmark_Returns200(t *testing.T) {
	e := newTestRouter(t)

	body := `{"model_name": "llama-3-8b", "limit": 50}`
	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations/benchmarks/hellaswag", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp spec.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "hellaswag", resp.Results[0].BenchmarkName)
}

func TestGet_RoundTrip(t *testing.T) {
	e := newTestRouter(t)

	body := `{
		"async_mode": false,
		"evaluations": [{"model_name": "llama-3-8b", "risk_category": "low"}]
	}`
	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var submitted spec.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	rec = doJSON(e, http.MethodGet, "/api/v1/evaluations/"+submitted.RequestID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got spec.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, submitted.RequestID, got.RequestID)
	assert.Equal(t, spec.StatusCompleted, got.Status)
}

func TestGet_UnknownReturns404(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/evaluations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGet_InvalidIDReturns400(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/evaluations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancel_UnknownReturns404(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodDelete, "/api/v1/evaluations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancel_FinishedReturns409(t *testing.T) {
	e := newTestRouter(t)

	body := `{
		"async_mode": false,
		"evaluations": [{"model_name": "llama-3-8b", "risk_category": "low"}]
	}`
	rec := doJSON(e, http.MethodPost, "/api/v1/evaluations", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var submitted spec.EvaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	rec = doJSON(e, http.MethodDelete, "/api/v1/evaluations/"+submitted.RequestID.String(), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
