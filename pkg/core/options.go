package core

import (
	"github.com/charmbracelet/log"

	"github.com/evotext/evotext-go/pkg/embedder"
	"github.com/evotext/evotext-go/pkg/evolution"
	"github.com/evotext/evotext-go/pkg/fusion"
	"github.com/evotext/evotext-go/pkg/llm"
	"github.com/evotext/evotext-go/pkg/storage"
)

// ClientOption configures a Client at construction time.
//
// Options that inject a component override whatever the configuration
// would have built for that slot. The client takes ownership of injected
// components: Close closes them along with everything it built itself.
type ClientOption func(*clientOptions)

type clientOptions struct {
	logger       *log.Logger
	store        storage.MemoryStore
	generation   llm.Provider
	embedding    embedder.Provider
	feedback     evolution.FeedbackSource
	preprocessor fusion.Preprocessor
	baseScorer   evolution.BaseScorer
}

// WithLogger sets the logger used by the client and its components.
func WithLogger(logger *log.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMemoryStore injects a memory store, bypassing the store factory.
// Useful for tests and for backends not covered by the built-in
// providers.
func WithMemoryStore(store storage.MemoryStore) ClientOption {
	return func(o *clientOptions) {
		o.store = store
	}
}

// WithGenerationProvider injects a generation provider, bypassing the
// provider factory.
func WithGenerationProvider(provider llm.Provider) ClientOption {
	return func(o *clientOptions) {
		o.generation = provider
	}
}

// WithEmbedderProvider injects an embedding provider, bypassing the
// provider factory.
func WithEmbedderProvider(provider embedder.Provider) ClientOption {
	return func(o *clientOptions) {
		o.embedding = provider
	}
}

// WithFeedbackSource injects a feedback source consulted on every
// ProcessPrompt call. Overrides the static feedback value from the
// configuration, if any.
func WithFeedbackSource(source evolution.FeedbackSource) ClientOption {
	return func(o *clientOptions) {
		o.feedback = source
	}
}

// WithPreprocessor injects an input preprocessor applied before
// candidate generation.
func WithPreprocessor(p fusion.Preprocessor) ClientOption {
	return func(o *clientOptions) {
		o.preprocessor = p
	}
}

// WithBaseScorer replaces the default length-based fitness scorer.
func WithBaseScorer(scorer evolution.BaseScorer) ClientOption {
	return func(o *clientOptions) {
		o.baseScorer = scorer
	}
}

// ProcessOption configures a single ProcessPrompt invocation.
type ProcessOption func(*processOptions)

type processOptions struct {
	payload        []byte
	candidateCount int
}

// WithPayload attaches an auxiliary payload passed to the preprocessor
// alongside the prompt text.
func WithPayload(payload []byte) ProcessOption {
	return func(o *processOptions) {
		o.payload = payload
	}
}

// WithCandidateCount overrides the configured candidate count for this
// invocation. Values below 1 are rejected by ProcessPrompt.
func WithCandidateCount(count int) ProcessOption {
	return func(o *processOptions) {
		o.candidateCount = count
	}
}
