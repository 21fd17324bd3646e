// Package evolution implements the candidate generation and selection step
// of the pipeline.
//
// For each prompt, a Generator issues K concurrent generation requests
// (scatter-gather), an Evaluator scores the resulting candidates with an
// optional feedback adjustment, and the best candidate is selected. The step
// is a single-generation best-of-K selection, not iterated optimization
// across generations.
package evolution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/evotext/evotext-go/pkg/llm"
)

// Candidate is one generated response among the K produced for a prompt.
//
// Candidates are ephemeral: they exist only within a single pipeline
// invocation and are never persisted.
type Candidate struct {
	// Index is the candidate's position (0..K-1) in the batch.
	Index int

	// Text is the generated response text (empty for failed slots).
	Text string

	// Failed reports whether the generation request for this slot failed.
	// A failed candidate scores the minimum possible fitness, so it is
	// never selected ahead of a successful one.
	Failed bool

	// Err is the underlying generation error for a failed slot.
	Err error
}

// GenerationError is returned when every candidate in a batch fails.
type GenerationError struct {
	// FailedCount is the number of failed generation requests (equals the
	// batch size).
	FailedCount int

	// LastErr is the last underlying generation error observed.
	LastErr error
}

// Error returns a formatted error message.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("evolution: all %d candidates failed: %v", e.FailedCount, e.LastErr)
}

// Unwrap returns the last underlying error for error unwrapping.
func (e *GenerationError) Unwrap() error {
	return e.LastErr
}

// Generator produces candidate batches from a generation provider.
type Generator struct {
	// provider is the generation backend.
	provider llm.Provider

	// latencyBound caps the duration of each generation request when
	// positive. Zero disables the per-call deadline (advisory bound).
	latencyBound time.Duration
}

// NewGenerator creates a Generator over the given provider.
func NewGenerator(provider llm.Provider, latencyBound time.Duration) *Generator {
	return &Generator{
		provider:     provider,
		latencyBound: latencyBound,
	}
}

// Generate issues k concurrent generation requests and returns exactly k
// candidates ordered by index, regardless of completion order.
//
// Each request carries its candidate index so the provider can diversify
// output across the batch. An individual failure produces a sentinel failed
// candidate for that slot rather than a silent drop, so the batch size
// invariant always holds. Only when every request fails does Generate return
// a GenerationError carrying the failure count and the last underlying error.
//
// All k requests complete (or fail) before Generate returns; the join is a
// synchronization barrier, not a streaming interface. Each goroutine writes
// only its own slot, so no locking is needed beyond the barrier itself.
func (g *Generator) Generate(ctx context.Context, prompt string, k int) ([]Candidate, error) {
	if k < 1 {
		return nil, errors.New("evolution: candidate count must be >= 1")
	}

	candidates := make([]Candidate, k)

	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func(index int) {
			defer wg.Done()

			callCtx := ctx
			if g.latencyBound > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, g.latencyBound)
				defer cancel()
			}

			text, err := g.provider.Generate(callCtx, prompt, llm.WithCandidateIndex(index))
			if err != nil {
				candidates[index] = Candidate{Index: index, Failed: true, Err: err}
				return
			}
			candidates[index] = Candidate{Index: index, Text: text}
		}(i)
	}
	wg.Wait()

	failed := 0
	var lastErr error
	for _, c := range candidates {
		if c.Failed {
			failed++
			lastErr = c.Err
		}
	}

	if failed == k {
		return nil, &GenerationError{FailedCount: failed, LastErr: lastErr}
	}

	return candidates, nil
}
