// Package llm provides interfaces and utilities for text generation providers.
//
// It defines the Provider interface that all generation implementations must
// satisfy, along with message types and generation options. The pipeline
// issues one generation request per candidate, tagged with the candidate's
// index so implementations can diversify sampling across a batch.
package llm

import "context"

// Provider defines the interface for generation providers.
//
// All generation implementations (OpenAI, Qwen, DeepSeek, Ollama, Anthropic)
// must implement this interface. Individual calls may fail independently;
// the candidate generator recovers per-call failures.
type Provider interface {
	// Generate generates text from a prompt.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - prompt: The input prompt text
	//   - opts: Optional generation parameters (temperature, candidate index, etc.)
	//
	// Returns the generated text and any error.
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)

	// GenerateWithMessages generates text from a conversation history.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - messages: Conversation history (system, user, assistant messages)
	//   - opts: Optional generation parameters
	//
	// Returns the generated text and any error.
	GenerateWithMessages(ctx context.Context, messages []Message, opts ...GenerateOption) (string, error)

	// Close closes the provider and releases resources.
	Close() error
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the message role: "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message content text.
	Content string `json:"content"`
}

// GenerateOptions contains options for text generation.
type GenerateOptions struct {
	// Temperature controls randomness (0.0-2.0). Higher = more random.
	Temperature float64

	// MaxTokens limits the maximum number of tokens in the response.
	MaxTokens int

	// TopP controls nucleus sampling (0.0-1.0). Higher = more diverse.
	TopP float64

	// Stop contains stop sequences that will end generation.
	Stop []string

	// CandidateIndex is the zero-based index of this request within a
	// candidate batch. Providers use it to diversify output across the
	// batch (seed selection, temperature offset). Negative means the
	// request is not part of a batch.
	CandidateIndex int
}

// GenerateOption is a function type for configuring generation options.
type GenerateOption func(*GenerateOptions)

// WithTemperature sets the temperature for text generation.
//
// Temperature controls randomness: 0.0 = deterministic, 2.0 = very random.
//
// Example:
//
//	text, _ := provider.Generate(ctx, "Hello", llm.WithTemperature(0.7))
func WithTemperature(temp float64) GenerateOption {
	return func(opts *GenerateOptions) {
		opts.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens in the response.
//
// Example:
//
//	text, _ := provider.Generate(ctx, "Hello", llm.WithMaxTokens(100))
func WithMaxTokens(max int) GenerateOption {
	return func(opts *GenerateOptions) {
		opts.MaxTokens = max
	}
}

// WithTopP sets the top-p (nucleus sampling) parameter.
//
// TopP controls diversity: 0.0 = most likely tokens only, 1.0 = all tokens.
//
// Example:
//
//	text, _ := provider.Generate(ctx, "Hello", llm.WithTopP(0.9))
func WithTopP(topP float64) GenerateOption {
	return func(opts *GenerateOptions) {
		opts.TopP = topP
	}
}

// WithCandidateIndex tags the request with its index in a candidate batch.
//
// Example:
//
//	text, _ := provider.Generate(ctx, prompt, llm.WithCandidateIndex(2))
func WithCandidateIndex(index int) GenerateOption {
	return func(opts *GenerateOptions) {
		opts.CandidateIndex = index
	}
}

// ApplyGenerateOptions applies a slice of GenerateOption functions to create
// GenerateOptions.
//
// This is a helper function used internally by provider implementations.
// Default values: Temperature=0.7, MaxTokens=1000, TopP=1.0, CandidateIndex=-1.
func ApplyGenerateOptions(opts []GenerateOption) *GenerateOptions {
	options := &GenerateOptions{
		Temperature:    0.7,
		MaxTokens:      1000,
		TopP:           1.0,
		CandidateIndex: -1,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// BatchTemperature returns the effective temperature for a candidate batch
// request. Index 0 keeps the configured sampling unchanged; later indexes get
// a small offset so a deterministic model still produces varied candidates.
// The result is capped at 1.5 to stay within every provider's accepted range.
func BatchTemperature(base float64, candidateIndex int) float64 {
	if candidateIndex <= 0 {
		return base
	}
	temp := base + 0.1*float64(candidateIndex)
	if temp > 1.5 {
		temp = 1.5
	}
	return temp
}
