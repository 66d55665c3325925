package spec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluationRequest_AsyncDefault(t *testing.T) {
	var req EvaluationRequest
	assert.True(t, req.Async())

	enabled := true
	req.AsyncMode = &enabled
	assert.True(t, req.Async())

	disabled := false
	req.AsyncMode = &disabled
	assert.False(t, req.Async())
}

func TestBenchmarkSpec_AbsentFieldsStayNil(t *testing.T) {
	var b BenchmarkSpec
	require.NoError(t, json.Unmarshal([]byte(`{"name": "hellaswag", "limit": 0}`), &b))

	assert.Nil(t, b.NumFewshot, "absent field must be distinguishable from zero")
	require.NotNil(t, b.Limit)
	assert.Equal(t, 0, *b.Limit)
}

func TestEvaluationStatus_Terminal(t *testing.T) {
	terminal := []EvaluationStatus{StatusCompleted, StatusFailed, StatusCancelled, StatusTimeout}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), string(s))
	}

	active := []EvaluationStatus{StatusPending, StatusInitializing, StatusRunning, StatusCompleting}
	for _, s := range active {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestEvaluationSpec_CloneIsolation(t *testing.T) {
	fewshot := 5
	original := EvaluationSpec{
		ModelName:          "llama-3-8b",
		ModelConfiguration: map[string]any{"dtype": "bfloat16"},
		Backends: []BackendSpec{
			{
				Name:   "lm-evaluation-harness",
				Config: map[string]any{"image": "eval-harness:latest"},
				Benchmarks: []BenchmarkSpec{
					{Name: "hellaswag", Tasks: []string{"hellaswag"}, NumFewshot: &fewshot},
				},
			},
		},
	}

	clone := original.Clone()
	clone.ModelConfiguration["dtype"] = "float32"
	clone.Backends[0].Config["image"] = "other:latest"
	clone.Backends[0].Benchmarks[0].Tasks[0] = "mutated"
	*clone.Backends[0].Benchmarks[0].NumFewshot = 0

	assert.Equal(t, "bfloat16", original.ModelConfiguration["dtype"])
	assert.Equal(t, "eval-harness:latest", original.Backends[0].Config["image"])
	assert.Equal(t, "hellaswag", original.Backends[0].Benchmarks[0].Tasks[0])
	assert.Equal(t, 5, *original.Backends[0].Benchmarks[0].NumFewshot)
}

func TestEvaluationRequest_CloneIsolation(t *testing.T) {
	original := EvaluationRequest{
		Tags: map[string]string{"team": "safety"},
		Evaluations: []EvaluationSpec{
			{ModelName: "llama-3-8b"},
		},
	}

	clone := original.Clone()
	clone.Tags["team"] = "platform"
	clone.Evaluations[0].ModelName = "mutated"

	assert.Equal(t, "safety", original.Tags["team"])
	assert.Equal(t, "llama-3-8b", original.Evaluations[0].ModelName)
}
