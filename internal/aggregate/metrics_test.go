package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julpayne/eval-hub/internal/spec"
)

func resultWith(metrics map[string]any) spec.EvaluationResult {
	return spec.EvaluationResult{
		BackendName:   "lm-evaluation-harness",
		BenchmarkName: "hellaswag",
		Status:        spec.StatusCompleted,
		Metrics:       metrics,
	}
}

func TestAggregate(t *testing.T) {
	results := []spec.EvaluationResult{
		resultWith(map[string]any{"accuracy": 0.8, "samples": 100}),
		resultWith(map[string]any{"accuracy": 0.6}),
		resultWith(map[string]any{"accuracy": 0.9, "samples": 250}),
	}

	agg := Aggregate(results)

	assert.InDelta(t, 0.766667, agg["accuracy_mean"], 1e-6)
	assert.Equal(t, 0.6, agg["accuracy_min"])
	assert.Equal(t, 0.9, agg["accuracy_max"])
	assert.Equal(t, 3.0, agg["accuracy_count"])

	assert.Equal(t, 175.0, agg["samples_mean"])
	assert.Equal(t, 2.0, agg["samples_count"])
}

func TestAggregate_SkipsNonNumeric(t *testing.T) {
	results := []spec.EvaluationResult{
		resultWith(map[string]any{"accuracy": 0.5, "model_sha": "abc123"}),
		resultWith(map[string]any{"model_sha": "def456"}),
	}

	agg := Aggregate(results)

	assert.Equal(t, 1.0, agg["accuracy_count"])
	assert.NotContains(t, agg, "model_sha_mean")
	assert.NotContains(t, agg, "model_sha_count")
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	require.NotNil(t, agg)
	assert.Empty(t, agg)
}

func TestFlatten(t *testing.T) {
	root := &MetricNode{
		Metrics: map[string]any{"acc": 0.7},
		Groups: map[string]*MetricNode{
			"mmlu": {
				Metrics: map[string]any{"acc": 0.6},
				Groups: map[string]*MetricNode{
					"stem": {Metrics: map[string]any{"acc": 0.55, "acc_stderr": 0.01}},
				},
			},
		},
	}

	flat := Flatten(root)

	assert.Equal(t, 0.7, flat["acc"])
	assert.Equal(t, 0.6, flat["mmlu/acc"])
	assert.Equal(t, 0.55, flat["mmlu/stem/acc"])
	assert.Equal(t, 0.01, flat["mmlu/stem/acc_stderr"])
	assert.Len(t, flat, 4)
}

func TestFlatten_DeepNesting(t *testing.T) {
	// a thousand levels must not blow the stack
	root := &MetricNode{}
	node := root
	for i := 0; i < 1000; i++ {
		child := &MetricNode{}
		node.Groups = map[string]*MetricNode{"g": child}
		node = child
	}
	node.Metrics = map[string]any{"leaf": 1.0}

	flat := Flatten(root)
	require.Len(t, flat, 1)
	for key, value := range flat {
		assert.Equal(t, 1.0, value)
		assert.Len(t, key, 2*1000+len("leaf")) // 1000 "g/" segments + leaf
	}
}

func TestFlatten_Nil(t *testing.T) {
	assert.Empty(t, Flatten(nil))
}
