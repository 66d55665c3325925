package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/spec"
)

func newSink(t *testing.T, serverURL string) *MLflowSink {
	t.Helper()
	sink, err := NewMLflowSink(config.MLflowSettings{
		TrackingURI:      serverURL,
		ExperimentPrefix: "eval-hub",
	})
	require.NoError(t, err)
	return sink
}

func TestCreateExperiment_New(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/2.0/mlflow/experiments/create", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "eval-hub-nightly", body["name"])

		_ = json.NewEncoder(w).Encode(map[string]string{"experiment_id": "7"})
	}))
	defer srv.Close()

	sink := newSink(t, srv.URL)
	id, err := sink.CreateExperiment(context.Background(), &spec.EvaluationRequest{
		RequestID:      uuid.New(),
		ExperimentName: "nightly",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", id)
	assert.Contains(t, sink.ExperimentURL(id), "/experiments/7")
}

func TestCreateExperiment_AlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/2.0/mlflow/experiments/create":
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error_code": "RESOURCE_ALREADY_EXISTS"})
		case "/api/2.0/mlflow/experiments/get-by-name":
			assert.Equal(t, "eval-hub-nightly", r.URL.Query().Get("experiment_name"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"experiment": map[string]string{"experiment_id": "3"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	sink := newSink(t, srv.URL)
	id, err := sink.CreateExperiment(context.Background(), &spec.EvaluationRequest{
		RequestID:      uuid.New(),
		ExperimentName: "nightly",
	})
	require.NoError(t, err)
	assert.Equal(t, "3", id)
}

func TestLogResult_MetricsAndStatus(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if r.URL.Path == "/api/2.0/mlflow/runs/log-batch" {
			metrics := body["metrics"].([]any)
			require.Len(t, metrics, 1) // the string metric is dropped
			entry := metrics[0].(map[string]any)
			assert.Equal(t, "accuracy", entry["key"])
			assert.Equal(t, 0.9, entry["value"])
		}
		if r.URL.Path == "/api/2.0/mlflow/runs/update" {
			assert.Equal(t, "FINISHED", body["status"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	sink := newSink(t, srv.URL)
	err := sink.LogResult(context.Background(), "run-1", &spec.EvaluationResult{
		Status:  spec.StatusCompleted,
		Metrics: map[string]any{"accuracy": 0.9, "model_sha": "abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/2.0/mlflow/runs/log-batch", "/api/2.0/mlflow/runs/update"}, paths)
}

func TestSinkFailureIsTrackingError(t *testing.T) {
	sink := newSink(t, "http://127.0.0.1:1")

	_, err := sink.StartRun(context.Background(), "1", &spec.EvaluationSpec{ID: uuid.New(), ModelName: "m"}, "b", "bench")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start run")
}
