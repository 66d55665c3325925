package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/storage"
)

type ResponseStore struct {
	db *pgxpool.Pool
}

func NewResponseStore(pool *ConnectionPool) *ResponseStore {
	return &ResponseStore{db: pool.conn}
}

func (s *ResponseStore) Save(ctx context.Context, response *spec.EvaluationResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	cmd := `
        INSERT INTO eval_responses (request_id, status, payload, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (request_id)
        DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = now();
    `
	if _, err := s.db.Exec(ctx, cmd, response.RequestID, string(response.Status), payload); err != nil {
		return fmt.Errorf("failed to upsert response %s: %w", response.RequestID, err)
	}
	return nil
}

func (s *ResponseStore) Get(ctx context.Context, requestID uuid.UUID) (*spec.EvaluationResponse, error) {
	cmd := `SELECT payload FROM eval_responses WHERE request_id = $1;`

	var payload []byte
	err := s.db.QueryRow(ctx, cmd, requestID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load response %s: %w", requestID, err)
	}

	var response spec.EvaluationResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response %s: %w", requestID, err)
	}
	return &response, nil
}

func (s *ResponseStore) Close() {
	s.db.Close()
}
