// Package fusion defines the multimodal preprocessing boundary of the
// pipeline.
//
// A Preprocessor fuses an optional secondary-modality payload into the text
// input before generation and embedding. The pipeline treats fusion as an
// external collaborator; Passthrough is the identity implementation used
// when no fusion front-end is supplied.
package fusion

import "context"

// Preprocessor fuses an optional secondary-modality payload into a text
// input.
type Preprocessor interface {
	// Process returns the preprocessed text. A nil or empty payload means
	// the input is text-only and implementations should behave as an
	// identity pass-through on it.
	Process(ctx context.Context, text string, payload []byte) (string, error)
}

// Passthrough is the identity Preprocessor: it returns the text unchanged
// and ignores any payload.
type Passthrough struct{}

// Process returns the input text unchanged.
func (Passthrough) Process(ctx context.Context, text string, payload []byte) (string, error) {
	return text, nil
}
