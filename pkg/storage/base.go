// Package storage provides interfaces and types for memory store backends.
//
// It defines the MemoryStore interface that all storage implementations must
// satisfy, along with the Record type and the content-addressed identifier
// scheme shared by every backend.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrConsistency indicates that a computed record identifier collided with an
// existing record. Stores never overwrite on collision; the insert fails and
// the existing record is left untouched.
var ErrConsistency = errors.New("memory consistency violation")

// Record represents a single processed interaction persisted by a MemoryStore.
//
// Records are immutable and append-only: once stored they are never updated
// or deleted.
type Record struct {
	// ID is the content-derived identifier of the record.
	ID string

	// Content is the (preprocessed) input text of the interaction.
	Content string

	// Embedding is the embedding vector of the input text.
	Embedding []float64

	// Response is the selected response text.
	Response string

	// CreatedAt is when the record was created. It participates in the
	// identifier digest, so two records with identical content and
	// response still get distinct identifiers at distinct instants.
	CreatedAt time.Time
}

// MemoryStore defines the interface for memory store backends.
//
// All storage implementations (in-memory, SQLite, PostgreSQL, MySQL) must
// implement this interface. Implementations must be safe for concurrent use:
// each Store call inserts an independent record keyed by a fresh identifier.
type MemoryStore interface {
	// Store computes a content-addressed identifier for the interaction,
	// inserts a new immutable Record keyed by it, and returns the
	// identifier.
	//
	// An identifier that already exists in the store indicates a digest
	// collision at identical content, response and timestamp. That is a
	// consistency violation: the operation fails rather than silently
	// overwriting the existing record.
	Store(ctx context.Context, content string, embedding []float64, response string) (string, error)

	// RetrieveAll returns every stored record as a full scan, in
	// insertion order where the backend preserves it. No indexed or
	// similarity-based lookup is provided.
	RetrieveAll(ctx context.Context) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close closes the store and releases resources.
	Close() error
}

// RecordID derives the identifier for a record from its content, response
// and creation timestamp.
//
// The identifier is the hex-encoded SHA-256 digest of the three fields with
// the timestamp rendered as RFC 3339 with nanoseconds in UTC. The digest is
// deterministic, so the same inputs always produce the same identifier, and
// collision resistance gives practical uniqueness even for repeated prompts.
func RecordID(content, response string, createdAt time.Time) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(response))
	h.Write([]byte{0})
	h.Write([]byte(createdAt.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(h.Sum(nil))
}
