// Package aggregate folds per-unit evaluation results into request-level
// metric summaries.
package aggregate

import (
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/pkg/utils"
)

// Aggregate computes mean, min, max and count for every numeric metric name
// appearing in any result. Non-numeric metric values are skipped here but
// stay on the per-unit results. An empty result set yields an empty map.
func Aggregate(results []spec.EvaluationResult) map[string]float64 {
	samples := make(map[string][]float64)
	order := make([]string, 0)

	for _, result := range results {
		for name, value := range result.Metrics {
			v, ok := numeric(value)
			if !ok {
				continue
			}
			if _, seen := samples[name]; !seen {
				order = append(order, name)
			}
			samples[name] = append(samples[name], v)
		}
	}

	out := make(map[string]float64, len(order)*4)
	for _, name := range order {
		values := samples[name]
		min, max := values[0], values[0]
		sum := 0.0
		for _, v := range values {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		out[name+"_mean"] = utils.RoundDecimal(sum/float64(len(values)), 6)
		out[name+"_min"] = min
		out[name+"_max"] = max
		out[name+"_count"] = float64(len(values))
	}
	return out
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
