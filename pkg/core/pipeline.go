package core

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/charmbracelet/log"

	"github.com/evotext/evotext-go/pkg/embedder"
	embedderopenai "github.com/evotext/evotext-go/pkg/embedder/openai"
	embedderqwen "github.com/evotext/evotext-go/pkg/embedder/qwen"
	"github.com/evotext/evotext-go/pkg/evolution"
	"github.com/evotext/evotext-go/pkg/fusion"
	"github.com/evotext/evotext-go/pkg/llm"
	"github.com/evotext/evotext-go/pkg/llm/anthropic"
	"github.com/evotext/evotext-go/pkg/llm/deepseek"
	"github.com/evotext/evotext-go/pkg/llm/ollama"
	llmopenai "github.com/evotext/evotext-go/pkg/llm/openai"
	llmqwen "github.com/evotext/evotext-go/pkg/llm/qwen"
	"github.com/evotext/evotext-go/pkg/storage"
	memstore "github.com/evotext/evotext-go/pkg/storage/memory"
	"github.com/evotext/evotext-go/pkg/storage/mysql"
	"github.com/evotext/evotext-go/pkg/storage/postgres"
	"github.com/evotext/evotext-go/pkg/storage/sqlite"
)

// Client is the main entry point of the pipeline. It wires candidate
// generation, fitness selection, embedding and memory persistence
// behind a single ProcessPrompt call.
//
// A Client is safe for concurrent use. Close releases the underlying
// providers and the store.
type Client struct {
	config       *Config
	store        storage.MemoryStore
	generation   llm.Provider
	embedding    embedder.Provider
	generator    *evolution.Generator
	evaluator    *evolution.Evaluator
	feedback     evolution.FeedbackSource
	preprocessor fusion.Preprocessor
	logger       *log.Logger
	node         *snowflake.Node
}

// NewClient creates a pipeline client from the given configuration.
//
// Components not overridden by options are built from the
// configuration's provider names. The configuration is validated
// before any component is constructed.
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if config == nil {
		return nil, NewPipelineError("NewClient", fmt.Errorf("%w: config is nil", ErrInvalidConfig))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	logger := options.logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "evotext",
		})
		if level, err := log.ParseLevel(config.LogLevel); err == nil {
			logger.SetLevel(level)
		}
	}

	// Snowflake ids correlate the log lines of a single invocation.
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewPipelineError("NewClient", err)
	}

	client := &Client{
		config:       config,
		logger:       logger,
		node:         node,
		feedback:     options.feedback,
		preprocessor: options.preprocessor,
	}

	client.store = options.store
	if client.store == nil {
		client.store, err = initStorage(config)
		if err != nil {
			return nil, NewPipelineError("NewClient", err)
		}
	}

	client.generation = options.generation
	if client.generation == nil {
		client.generation, err = initGeneration(config)
		if err != nil {
			client.Close()
			return nil, NewPipelineError("NewClient", err)
		}
	}

	client.embedding = options.embedding
	if client.embedding == nil {
		client.embedding, err = initEmbedder(config)
		if err != nil {
			client.Close()
			return nil, NewPipelineError("NewClient", err)
		}
	}

	if client.feedback == nil && config.Evolution.FeedbackValue != nil {
		client.feedback = &evolution.StaticFeedback{Value: *config.Evolution.FeedbackValue}
	}

	if client.preprocessor == nil {
		client.preprocessor = fusion.Passthrough{}
	}

	client.generator = evolution.NewGenerator(client.generation, config.Evolution.ProviderLatencyBound)
	client.evaluator = evolution.NewEvaluator(config.Evolution.FeedbackWeight, options.baseScorer)

	logger.Debug("client initialized",
		"store", config.MemoryStore.Provider,
		"generation", config.Generation.Provider,
		"embedder", config.Embedder.Provider,
		"candidates", config.Evolution.CandidateCount)

	return client, nil
}

// initStorage creates the memory store named by the configuration.
func initStorage(config *Config) (storage.MemoryStore, error) {
	cfg := config.MemoryStore.Config

	switch config.MemoryStore.Provider {
	case "memory":
		return memstore.NewStore(), nil
	case "sqlite":
		return sqlite.NewClient(&sqlite.Config{
			DBPath:    stringValue(cfg, "db_path"),
			TableName: stringValue(cfg, "table_name"),
		})
	case "postgres":
		return postgres.NewClient(&postgres.Config{
			Host:      stringValue(cfg, "host"),
			Port:      intValue(cfg, "port"),
			User:      stringValue(cfg, "user"),
			Password:  stringValue(cfg, "password"),
			DBName:    stringValue(cfg, "db_name"),
			TableName: stringValue(cfg, "table_name"),
			SSLMode:   stringValue(cfg, "ssl_mode"),
		})
	case "mysql":
		return mysql.NewClient(&mysql.Config{
			Host:      stringValue(cfg, "host"),
			Port:      intValue(cfg, "port"),
			User:      stringValue(cfg, "user"),
			Password:  stringValue(cfg, "password"),
			DBName:    stringValue(cfg, "db_name"),
			TableName: stringValue(cfg, "table_name"),
		})
	default:
		return nil, fmt.Errorf("%w: unsupported memory store provider: %s", ErrInvalidConfig, config.MemoryStore.Provider)
	}
}

// initGeneration creates the generation provider named by the
// configuration.
func initGeneration(config *Config) (llm.Provider, error) {
	cfg := config.Generation

	switch cfg.Provider {
	case "openai":
		return llmopenai.NewClient(&llmopenai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "qwen":
		return llmqwen.NewClient(&llmqwen.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "deepseek":
		return deepseek.NewClient(&deepseek.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "ollama":
		return ollama.NewClient(&ollama.Config{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "anthropic":
		return anthropic.NewClient(&anthropic.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("%w: unsupported generation provider: %s", ErrInvalidConfig, cfg.Provider)
	}
}

// initEmbedder creates the embedding provider named by the
// configuration.
func initEmbedder(config *Config) (embedder.Provider, error) {
	cfg := config.Embedder

	switch cfg.Provider {
	case "openai":
		return embedderopenai.NewClient(&embedderopenai.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
	case "qwen":
		return embedderqwen.NewClient(&embedderqwen.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", ErrInvalidConfig, cfg.Provider)
	}
}

// ProcessPrompt runs one full pipeline pass for the given prompt:
// preprocessing, best-of-K candidate generation, fitness selection,
// input embedding and memory persistence. It returns the winning
// response text.
//
// The feedback source, when present, is consulted concurrently with
// candidate generation; a feedback failure degrades scoring to base
// scores only and is not an error. A generation failure of every
// candidate aborts the pass without touching the store.
func (c *Client) ProcessPrompt(ctx context.Context, prompt string, opts ...ProcessOption) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", NewPipelineError("ProcessPrompt", fmt.Errorf("%w: prompt is empty", ErrInvalidInput))
	}

	var options processOptions
	for _, opt := range opts {
		opt(&options)
	}

	count := c.config.Evolution.CandidateCount
	if options.candidateCount != 0 {
		count = options.candidateCount
	}
	if count < 1 {
		return "", NewPipelineError("ProcessPrompt", fmt.Errorf("%w: candidate count must be >= 1", ErrInvalidInput))
	}

	requestID := c.node.Generate().String()
	logger := c.logger.With("request_id", requestID)

	input, err := c.preprocessor.Process(ctx, prompt, options.payload)
	if err != nil {
		return "", NewPipelineError("ProcessPrompt", err)
	}

	// Feedback retrieval runs alongside candidate generation; neither
	// depends on the other.
	var (
		wg         sync.WaitGroup
		candidates []evolution.Candidate
		genErr     error
		feedback   *float64
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		candidates, genErr = c.generator.Generate(ctx, input, count)
	}()

	if c.feedback != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := c.feedback.GetFeedback(ctx)
			if err != nil {
				logger.Debug("feedback unavailable, scoring on base fitness", "error", err)
				return
			}
			feedback = &value
		}()
	}

	wg.Wait()

	if genErr != nil {
		return "", NewPipelineError("ProcessPrompt", genErr)
	}

	best, err := c.evaluator.SelectBest(candidates, feedback)
	if err != nil {
		return "", NewPipelineError("ProcessPrompt", err)
	}

	logger.Debug("candidate selected",
		"index", best.Index,
		"candidates", len(candidates),
		"response_len", len(best.Text))

	embedding, err := c.embedding.Embed(ctx, input)
	if err != nil {
		return "", NewPipelineError("ProcessPrompt", fmt.Errorf("%w: %v", ErrEmbeddingFailed, err))
	}
	if len(embedding) != c.config.Embedder.Dimensions {
		return "", NewPipelineError("ProcessPrompt",
			fmt.Errorf("%w: expected %d dimensions, got %d", ErrEmbeddingFailed, c.config.Embedder.Dimensions, len(embedding)))
	}

	id, err := c.store.Store(ctx, input, embedding, best.Text)
	if err != nil {
		return "", NewPipelineError("ProcessPrompt", err)
	}

	logger.Info("interaction stored", "memory_id", id, "candidate_index", best.Index)

	return best.Text, nil
}

// RetrieveAll returns every stored interaction in insertion order.
func (c *Client) RetrieveAll(ctx context.Context) ([]*Record, error) {
	records, err := c.store.RetrieveAll(ctx)
	if err != nil {
		return nil, NewPipelineError("RetrieveAll", err)
	}
	return fromStorageRecords(records), nil
}

// Count returns the number of stored interactions.
func (c *Client) Count(ctx context.Context) (int, error) {
	n, err := c.store.Count(ctx)
	if err != nil {
		return 0, NewPipelineError("Count", err)
	}
	return n, nil
}

// Close releases the store and the providers. The first error
// encountered is returned; remaining components are still closed.
func (c *Client) Close() error {
	var firstErr error

	if c.store != nil {
		if err := c.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.generation != nil {
		if err := c.generation.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.embedding != nil {
		if err := c.embedding.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return NewPipelineError("Close", firstErr)
	}
	return nil
}

func stringValue(cfg map[string]interface{}, key string) string {
	if cfg == nil {
		return ""
	}
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}

func intValue(cfg map[string]interface{}, key string) int {
	if cfg == nil {
		return 0
	}
	switch v := cfg[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
