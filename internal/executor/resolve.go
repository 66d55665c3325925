package executor

import (
	"fmt"

	"github.com/julpayne/eval-hub/internal/apperr"
	"github.com/julpayne/eval-hub/internal/spec"
)

// ForBackend builds the executor for a resolved backend. The endpoint comes
// from the backend spec itself or from the defaulted backend config.
func ForBackend(backend spec.BackendSpec) (Executor, error) {
	endpoint := backend.Endpoint
	if endpoint == "" {
		if v, ok := backend.Config["endpoint"].(string); ok {
			endpoint = v
		}
	}
	if endpoint == "" {
		return nil, apperr.NewExecution(fmt.Sprintf("backend %s has no endpoint configured", backend.Name))
	}
	return NewHTTPExecutor(endpoint)
}
