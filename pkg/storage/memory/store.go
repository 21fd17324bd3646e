// Package memory provides an in-process implementation of the memory store.
//
// Records live in a map keyed by identifier with a side slice preserving
// insertion order. Durability is limited to the process lifetime; use one of
// the database-backed stores when records must survive restarts.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evotext/evotext-go/pkg/storage"
)

// Store implements storage.MemoryStore using an in-process map.
type Store struct {
	mu      sync.RWMutex
	records map[string]*storage.Record

	// order holds identifiers in insertion order for RetrieveAll.
	order []string
}

// NewStore creates an empty in-process memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*storage.Record),
	}
}

// Store inserts a new record and returns its content-derived identifier.
func (s *Store) Store(ctx context.Context, content string, embedding []float64, response string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	now := time.Now().UTC()
	id := storage.RecordID(content, response, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; exists {
		return "", fmt.Errorf("Store: id %s: %w", id, storage.ErrConsistency)
	}

	// Copy the embedding so callers cannot mutate the stored record.
	vec := make([]float64, len(embedding))
	copy(vec, embedding)

	s.records[id] = &storage.Record{
		ID:        id,
		Content:   content,
		Embedding: vec,
		Response:  response,
		CreatedAt: now,
	}
	s.order = append(s.order, id)

	return id, nil
}

// RetrieveAll returns all records in insertion order.
func (s *Store) RetrieveAll(ctx context.Context) ([]*storage.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*storage.Record, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// Close releases the store's resources. It is a no-op for the in-process
// store and is retained for interface compatibility.
func (s *Store) Close() error {
	return nil
}
