package parser

import (
	"fmt"
	"sort"

	"github.com/julpayne/eval-hub/internal/apperr"
	"github.com/julpayne/eval-hub/internal/spec"
)

// ExpandRiskCategory synthesizes one backend per configured backend name,
// each carrying the category's benchmark set. Expansion is deterministic:
// backends come out sorted by name and every benchmark's task list is the
// benchmark name itself (one task per benchmark).
func (p *Parser) ExpandRiskCategory(category spec.RiskCategory, modelName string) ([]spec.BackendSpec, error) {
	profile, ok := p.settings.RiskCategoryBenchmarks[category]
	if !ok {
		return nil, apperr.NewConfiguration(fmt.Sprintf("no configuration found for risk category %q", category))
	}

	names := p.settings.KnownBackends()
	sort.Strings(names)

	backends := make([]spec.BackendSpec, 0, len(names))
	for _, name := range names {
		benchmarks := make([]spec.BenchmarkSpec, 0, len(profile.Benchmarks))
		for _, benchmarkName := range profile.Benchmarks {
			bm := spec.BenchmarkSpec{
				Name:   benchmarkName,
				Tasks:  []string{benchmarkName},
				Config: map[string]any{},
			}
			if profile.NumFewshot != nil {
				fewshot := *profile.NumFewshot
				bm.NumFewshot = &fewshot
			}
			if profile.Limit != nil {
				limit := *profile.Limit
				bm.Limit = &limit
			}
			benchmarks = append(benchmarks, bm)
		}

		backends = append(backends, spec.BackendSpec{
			Name:       name,
			Type:       p.settings.KindOf(name),
			Config:     map[string]any{},
			Benchmarks: benchmarks,
		})
	}

	return backends, nil
}
