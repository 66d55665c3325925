package pg

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/storage"
	pkgtesting "github.com/julpayne/eval-hub/pkg/testing"
)

var (
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *ResponseStore
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		// container-backed tests need a docker daemon
		os.Exit(0)
	}

	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "eval_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(pg.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testStore = NewResponseStore(testPool)

	os.Exit(m.Run())
}

func truncateTable(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE eval_responses")
	if err != nil {
		t.Fatalf("failed to truncate table: %v", err)
	}
}

func TestResponseStore_SaveAndGet(t *testing.T) {
	truncateTable(t)

	id := uuid.New()
	started := time.Now().UTC().Truncate(time.Second)
	resp := &spec.EvaluationResponse{
		RequestID:            id,
		Status:               spec.StatusCompleted,
		TotalEvaluations:     2,
		CompletedEvaluations: 2,
		Results: []spec.EvaluationResult{
			{
				EvaluationID:  uuid.New(),
				BackendName:   "lm-evaluation-harness",
				BenchmarkName: "hellaswag",
				Status:        spec.StatusCompleted,
				Metrics:       map[string]any{"accuracy": 0.82},
			},
		},
		AggregatedMetrics:  map[string]float64{"accuracy_mean": 0.82},
		CreatedAt:          started,
		UpdatedAt:          started,
		ProgressPercentage: 100,
	}
	require.NoError(t, testStore.Save(testCtx, resp))

	got, err := testStore.Get(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.RequestID)
	assert.Equal(t, spec.StatusCompleted, got.Status)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "hellaswag", got.Results[0].BenchmarkName)
	assert.InDelta(t, 0.82, got.AggregatedMetrics["accuracy_mean"], 1e-9)
}

func TestResponseStore_SaveUpserts(t *testing.T) {
	truncateTable(t)

	id := uuid.New()
	require.NoError(t, testStore.Save(testCtx, &spec.EvaluationResponse{RequestID: id, Status: spec.StatusRunning}))
	require.NoError(t, testStore.Save(testCtx, &spec.EvaluationResponse{RequestID: id, Status: spec.StatusFailed, FailedEvaluations: 1}))

	got, err := testStore.Get(testCtx, id)
	require.NoError(t, err)
	assert.Equal(t, spec.StatusFailed, got.Status)
	assert.Equal(t, 1, got.FailedEvaluations)

	var count int
	require.NoError(t, testPool.GetConn().QueryRow(testCtx, "SELECT count(*) FROM eval_responses").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestResponseStore_GetUnknown(t *testing.T) {
	truncateTable(t)

	_, err := testStore.Get(testCtx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
