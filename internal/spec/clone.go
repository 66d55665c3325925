package spec

// Clones copy the spec one level deep: top-level maps, slices and optional
// scalars are duplicated so defaulting and expansion never write into
// caller-supplied structures, while nested config values stay shared.

func (b BenchmarkSpec) Clone() BenchmarkSpec {
	c := b
	c.Tasks = append([]string(nil), b.Tasks...)
	c.NumFewshot = cloneInt(b.NumFewshot)
	c.BatchSize = cloneInt(b.BatchSize)
	c.Limit = cloneInt(b.Limit)
	c.Config = cloneMap(b.Config)
	return c
}

func (b BackendSpec) Clone() BackendSpec {
	c := b
	c.Config = cloneMap(b.Config)
	c.Benchmarks = make([]BenchmarkSpec, len(b.Benchmarks))
	for i, bm := range b.Benchmarks {
		c.Benchmarks[i] = bm.Clone()
	}
	return c
}

func (e EvaluationSpec) Clone() EvaluationSpec {
	c := e
	c.ModelConfiguration = cloneMap(e.ModelConfiguration)
	c.Metadata = cloneMap(e.Metadata)
	c.RetryAttempts = cloneInt(e.RetryAttempts)
	if e.Backends != nil {
		c.Backends = make([]BackendSpec, len(e.Backends))
		for i, b := range e.Backends {
			c.Backends[i] = b.Clone()
		}
	}
	return c
}

func (r EvaluationRequest) Clone() EvaluationRequest {
	c := r
	c.Evaluations = make([]EvaluationSpec, len(r.Evaluations))
	for i, e := range r.Evaluations {
		c.Evaluations[i] = e.Clone()
	}
	c.Tags = cloneStringMap(r.Tags)
	if r.AsyncMode != nil {
		mode := *r.AsyncMode
		c.AsyncMode = &mode
	}
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
