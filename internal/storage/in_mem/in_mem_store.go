package in_mem

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/storage"
)

type InMemStore struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]*spec.EvaluationResponse
}

func NewInMemStore() *InMemStore {
	return &InMemStore{
		storage: make(map[uuid.UUID]*spec.EvaluationResponse),
	}
}

func (s *InMemStore) Save(_ context.Context, response *spec.EvaluationResponse) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.storage[response.RequestID] = response
	return nil
}

func (s *InMemStore) Get(_ context.Context, requestID uuid.UUID) (*spec.EvaluationResponse, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	response, ok := s.storage[requestID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return response, nil
}

func (s *InMemStore) Close() {}
