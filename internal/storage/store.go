// Package storage keeps the transit state of evaluation requests: the latest
// response snapshot per request, from submission until the caller collects a
// terminal result.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/julpayne/eval-hub/internal/spec"
)

type Type string

const (
	InMem Type = "memory"
	PG    Type = "postgres"
)

var ErrNotFound = errors.New("response not found")

type Store interface {
	// Save upserts the response snapshot keyed by its request ID.
	Save(ctx context.Context, response *spec.EvaluationResponse) error
	Get(ctx context.Context, requestID uuid.UUID) (*spec.EvaluationResponse, error)
	Close()
}
