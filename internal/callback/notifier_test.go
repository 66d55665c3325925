package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julpayne/eval-hub/internal/config"
	"github.com/julpayne/eval-hub/internal/spec"
)

func testSettings() config.CallbackSettings {
	return config.CallbackSettings{TimeoutSeconds: 5, RetryAttempts: 3}
}

func TestNotify_DeliversPayload(t *testing.T) {
	var got spec.EvaluationResponse
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	requestID := uuid.New()
	n := New(testSettings(), WithBackoff(time.Millisecond))
	err := n.Notify(context.Background(), srv.URL, &spec.EvaluationResponse{
		RequestID: requestID,
		Status:    spec.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, requestID, got.RequestID)
	assert.Equal(t, spec.StatusCompleted, got.Status)
}

func TestNotify_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(testSettings(), WithBackoff(time.Millisecond))
	err := n.Notify(context.Background(), srv.URL, &spec.EvaluationResponse{RequestID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNotify_GivesUpAfterBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(testSettings(), WithBackoff(time.Millisecond))
	err := n.Notify(context.Background(), srv.URL, &spec.EvaluationResponse{RequestID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())
}
