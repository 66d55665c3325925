package parser

import "github.com/julpayne/eval-hub/internal/spec"

const (
	defaultBatchSize  = 1
	defaultDevice     = "auto"
	defaultNumFewshot = 5
)

// ApplyDefaults returns a copy of backend with the configured defaults
// overlaid under the caller's configuration. Caller keys win on conflict and
// caller-supplied values are never overwritten, so applying twice yields the
// same result as applying once.
func (p *Parser) ApplyDefaults(backend spec.BackendSpec) spec.BackendSpec {
	out := backend.Clone()

	merged := make(map[string]any)
	for k, v := range p.settings.BackendConfigs[out.Name] {
		merged[k] = v
	}
	for k, v := range out.Config {
		merged[k] = v
	}
	out.Config = merged

	fewshotBackend := p.settings.KindOf(out.Name) == spec.KindLMEval
	for i := range out.Benchmarks {
		applyBenchmarkDefaults(&out.Benchmarks[i], fewshotBackend)
	}
	return out
}

func applyBenchmarkDefaults(benchmark *spec.BenchmarkSpec, fewshotBackend bool) {
	if benchmark.BatchSize == nil {
		size := defaultBatchSize
		benchmark.BatchSize = &size
	}
	if benchmark.Device == "" {
		benchmark.Device = defaultDevice
	}
	if fewshotBackend && benchmark.NumFewshot == nil {
		fewshot := defaultNumFewshot
		benchmark.NumFewshot = &fewshot
	}
}
