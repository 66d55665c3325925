package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/julpayne/eval-hub/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("model_name is required")

	if err.Error() != "model_name is required" {
		t.Errorf("expected 'model_name is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationAt(t *testing.T) {
	err := apperr.NewValidationAt("evaluations[2].backends[0]", "name is required")

	if err.Error() != "evaluations[2].backends[0]: name is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Path != "evaluations[2].backends[0]" {
		t.Errorf("unexpected path %q", err.Path)
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidationAt("evaluations[0]", "timeout_minutes must be positive")

	wrapped := fmt.Errorf("failed to parse: %w", original)
	doubleWrapped := fmt.Errorf("handler error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Path != "evaluations[0]" {
		t.Errorf("expected 'evaluations[0]', got %q", ve.Path)
	}
}

func TestExecutionError_Wraps(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := apperr.NewExecutionWrap("backend unreachable", inner)

	if err.Error() != "backend unreachable: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestErrorKinds_DoNotCrossMatch(t *testing.T) {
	exec := apperr.NewExecution("executor died")
	wrapped := fmt.Errorf("unit failed: %w", exec)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in an ExecutionError chain")
	}
	var ce *apperr.ConfigurationError
	if errors.As(wrapped, &ce) {
		t.Fatal("errors.As should NOT find ConfigurationError in an ExecutionError chain")
	}
}
