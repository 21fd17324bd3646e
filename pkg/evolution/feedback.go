package evolution

import "context"

// FeedbackSource produces a scalar quality signal in [0,1] for a prompt.
//
// The signal is fetched once per prompt and is independent of candidate
// content, so it may run concurrently with candidate generation. A fetch
// failure is not fatal: the evaluator degrades to base-score-only scoring
// when no signal is available.
//
// Implementations may be deterministic (tests, replay), human-sourced, or
// model-predicted.
type FeedbackSource interface {
	// GetFeedback returns a quality signal in [0,1].
	GetFeedback(ctx context.Context) (float64, error)
}

// StaticFeedback is a FeedbackSource returning a fixed value.
// Useful for tests and for deployments without an external signal.
type StaticFeedback struct {
	// Value is the signal to return, expected in [0,1].
	Value float64
}

// GetFeedback returns the configured value.
func (s StaticFeedback) GetFeedback(ctx context.Context) (float64, error) {
	return s.Value, nil
}

// FeedbackFunc adapts a plain function to the FeedbackSource interface.
type FeedbackFunc func(ctx context.Context) (float64, error)

// GetFeedback calls the wrapped function.
func (f FeedbackFunc) GetFeedback(ctx context.Context) (float64, error) {
	return f(ctx)
}
