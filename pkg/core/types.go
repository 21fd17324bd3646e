package core

import "time"

// Record represents a single processed interaction as seen by callers.
//
// A record captures the original (preprocessed) input text, its embedding
// vector, the selected response, and a creation timestamp. The identifier is
// derived from the content and timestamp, never assigned externally.
//
// Records are immutable and append-only.
type Record struct {
	// ID is the content-derived identifier of the record.
	ID string `json:"id"`

	// Content is the (preprocessed) input text.
	Content string `json:"text"`

	// Embedding is the embedding vector of the input text.
	Embedding []float64 `json:"embedding"`

	// Response is the selected response text.
	Response string `json:"response"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"timestamp"`
}
