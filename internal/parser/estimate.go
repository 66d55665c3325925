package parser

import "github.com/julpayne/eval-hub/internal/spec"

const (
	minutesPerBenchmark = 5
	queueInflation      = 1.5
	minEstimateMinutes  = 10
)

// TotalBenchmarkCount counts the benchmark units across all evaluations of a
// resolved request.
func TotalBenchmarkCount(req *spec.EvaluationRequest) int {
	total := 0
	for _, eval := range req.Evaluations {
		for _, backend := range eval.Backends {
			total += len(backend.Benchmarks)
		}
	}
	return total
}

// EstimateCompletionMinutes predicts how long a resolved request will run.
// Benchmarks beyond the concurrency ceiling queue, which inflates the
// estimate; the floor covers scheduling overhead on tiny requests.
func (p *Parser) EstimateCompletionMinutes(req *spec.EvaluationRequest) int {
	totalBenchmarks := TotalBenchmarkCount(req)

	estimate := totalBenchmarks * minutesPerBenchmark
	if totalBenchmarks > p.settings.MaxConcurrentEvaluations {
		estimate = int(float64(estimate) * queueInflation)
	}
	if estimate < minEstimateMinutes {
		estimate = minEstimateMinutes
	}
	return estimate
}
