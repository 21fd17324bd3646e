package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config contains the complete configuration for a pipeline client.
//
// It is created once at startup, never mutated afterwards, and shared
// read-only by every component.
//
// Example:
//
//	config := &core.Config{
//	    Generation: core.GenerationConfig{
//	        Provider: "openai",
//	        APIKey:   "sk-...",
//	        Model:    "gpt-4o-mini",
//	    },
//	    Embedder: core.EmbedderConfig{
//	        Provider:   "openai",
//	        APIKey:     "sk-...",
//	        Model:      "text-embedding-3-small",
//	        Dimensions: 1536,
//	    },
//	    MemoryStore: core.MemoryStoreConfig{
//	        Provider: "sqlite",
//	        Config: map[string]interface{}{
//	            "db_path": "./interactions.db",
//	        },
//	    },
//	    Evolution: core.EvolutionConfig{
//	        CandidateCount: 3,
//	        FeedbackWeight: 0.5,
//	    },
//	}
type Config struct {
	// Generation contains generation provider configuration.
	Generation GenerationConfig `json:"generation" yaml:"generation"`

	// Embedder contains embedding provider configuration.
	Embedder EmbedderConfig `json:"embedder" yaml:"embedder"`

	// MemoryStore contains memory store configuration.
	MemoryStore MemoryStoreConfig `json:"memory_store" yaml:"memory_store"`

	// Evolution contains candidate generation and selection configuration.
	Evolution EvolutionConfig `json:"evolution" yaml:"evolution"`

	// LogLevel sets the logger level (debug, info, warn, error).
	// Defaults to "info".
	LogLevel string `json:"log_level,omitempty" yaml:"log_level"`
}

// GenerationConfig contains configuration for the generation provider.
//
// Supported providers: openai, qwen, deepseek, ollama, anthropic
type GenerationConfig struct {
	// Provider is the generation provider name.
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the provider. Always supplied through
	// configuration, never compiled in.
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the model name to use (e.g., "gpt-4o-mini", "qwen-plus").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the base URL for the API (optional, uses provider
	// default if empty).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url"`
}

// EmbedderConfig contains configuration for the embedding provider.
//
// Supported providers: openai, qwen
type EmbedderConfig struct {
	// Provider is the embedding provider name.
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the embedding provider.
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the embedding model name.
	Model string `json:"model" yaml:"model"`

	// BaseURL is the base URL for the API (optional).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url"`

	// Dimensions is the dimension of embedding vectors. Must be positive;
	// the pipeline rejects vectors of any other length.
	Dimensions int `json:"dimensions" yaml:"dimensions"`
}

// MemoryStoreConfig contains configuration for the memory store.
//
// Supported providers: memory, sqlite, postgres, mysql
type MemoryStoreConfig struct {
	// Provider is the memory store provider name.
	Provider string `json:"provider" yaml:"provider"`

	// Config contains provider-specific configuration.
	// For SQLite: db_path, table_name
	// For PostgreSQL: host, port, user, password, db_name, table_name, ssl_mode
	// For MySQL: host, port, user, password, db_name, table_name
	Config map[string]interface{} `json:"config,omitempty" yaml:"config"`
}

// EvolutionConfig contains configuration for candidate generation and
// selection.
type EvolutionConfig struct {
	// CandidateCount is the number of candidates generated per prompt.
	// Must be >= 1.
	CandidateCount int `json:"candidate_count" yaml:"candidate_count"`

	// FeedbackWeight scales the influence of the feedback signal on
	// fitness scores. Expected in [0,1]; not clamped.
	FeedbackWeight float64 `json:"feedback_weight" yaml:"feedback_weight"`

	// FeedbackValue, when set, configures a static feedback source
	// returning this value for every prompt. Nil means no feedback
	// source is configured and scoring uses base scores only (unless a
	// source is injected at client construction).
	FeedbackValue *float64 `json:"feedback_value,omitempty" yaml:"feedback_value"`

	// ProviderLatencyBound caps the duration of each generation request
	// when positive. Advisory; zero disables the per-call deadline.
	ProviderLatencyBound time.Duration `json:"provider_latency_bound,omitempty" yaml:"provider_latency_bound"`
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - DATABASE_PROVIDER (memory, sqlite, postgres, mysql)
//   - SQLITE_PATH, SQLITE_TABLE
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD, etc.
//   - MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, etc.
//   - LLM_PROVIDER, LLM_API_KEY, LLM_MODEL, LLM_BASE_URL
//   - EMBEDDING_PROVIDER, EMBEDDING_API_KEY, EMBEDDING_MODEL, EMBEDDING_BASE_URL, EMBEDDING_DIMS
//   - CANDIDATE_COUNT, FEEDBACK_WEIGHT, FEEDBACK_VALUE, PROVIDER_LATENCY_BOUND
//   - LOG_LEVEL
//
// Returns a Config instance, or an error if loading fails.
func LoadConfigFromEnv() (*Config, error) {
	// Use FindEnvFile to locate .env file (supports upward search)
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	provider := getEnvOrDefault("DATABASE_PROVIDER", "memory")

	storeConfig := make(map[string]interface{})

	switch provider {
	case "sqlite":
		storeConfig = map[string]interface{}{
			"db_path":    getEnvOrDefault("SQLITE_PATH", "./evotext.db"),
			"table_name": getEnvOrDefault("SQLITE_TABLE", "interactions"),
		}
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		storeConfig = map[string]interface{}{
			"host":       getEnvOrDefault("POSTGRES_HOST", "localhost"),
			"port":       port,
			"user":       getEnvOrDefault("POSTGRES_USER", "postgres"),
			"password":   os.Getenv("POSTGRES_PASSWORD"),
			"db_name":    getEnvOrDefault("POSTGRES_DATABASE", "evotext"),
			"table_name": getEnvOrDefault("POSTGRES_TABLE", "interactions"),
			"ssl_mode":   getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		}
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("MYSQL_PORT", "3306"))
		storeConfig = map[string]interface{}{
			"host":       getEnvOrDefault("MYSQL_HOST", "127.0.0.1"),
			"port":       port,
			"user":       getEnvOrDefault("MYSQL_USER", "root"),
			"password":   os.Getenv("MYSQL_PASSWORD"),
			"db_name":    getEnvOrDefault("MYSQL_DATABASE", "evotext"),
			"table_name": getEnvOrDefault("MYSQL_TABLE", "interactions"),
		}
	}

	// Determine the generation provider's default base URL and model
	llmProvider := getEnvOrDefault("LLM_PROVIDER", "openai")
	var llmBaseURL string
	var defaultModel string

	switch llmProvider {
	case "deepseek":
		llmBaseURL = getEnvOrDefault("DEEPSEEK_LLM_BASE_URL", "https://api.deepseek.com")
		defaultModel = "deepseek-chat"
	case "qwen":
		defaultModel = "qwen-plus"
	case "ollama":
		llmBaseURL = getEnvOrDefault("OLLAMA_LLM_BASE_URL", "http://localhost:11434")
		defaultModel = "llama3.1:8b"
	case "anthropic":
		llmBaseURL = getEnvOrDefault("ANTHROPIC_LLM_BASE_URL", "https://api.anthropic.com")
		defaultModel = "claude-3-5-sonnet-20240620"
	default:
		llmBaseURL = os.Getenv("LLM_BASE_URL")
		defaultModel = "gpt-4o-mini"
	}

	embedderProvider := getEnvOrDefault("EMBEDDING_PROVIDER", "openai")
	embedderModel := os.Getenv("EMBEDDING_MODEL")
	if embedderModel == "" {
		switch embedderProvider {
		case "qwen":
			embedderModel = "text-embedding-v4"
		default:
			embedderModel = "text-embedding-3-small"
		}
	}

	dims, _ := strconv.Atoi(getEnvOrDefault("EMBEDDING_DIMS", "1536"))
	candidateCount, _ := strconv.Atoi(getEnvOrDefault("CANDIDATE_COUNT", "3"))
	feedbackWeight, _ := strconv.ParseFloat(getEnvOrDefault("FEEDBACK_WEIGHT", "0.5"), 64)

	config := &Config{
		Generation: GenerationConfig{
			Provider: llmProvider,
			APIKey:   os.Getenv("LLM_API_KEY"),
			Model:    getEnvOrDefault("LLM_MODEL", defaultModel),
			BaseURL:  llmBaseURL,
		},
		Embedder: EmbedderConfig{
			Provider:   embedderProvider,
			APIKey:     os.Getenv("EMBEDDING_API_KEY"),
			Model:      embedderModel,
			BaseURL:    os.Getenv("EMBEDDING_BASE_URL"),
			Dimensions: dims,
		},
		MemoryStore: MemoryStoreConfig{
			Provider: provider,
			Config:   storeConfig,
		},
		Evolution: EvolutionConfig{
			CandidateCount: candidateCount,
			FeedbackWeight: feedbackWeight,
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("FEEDBACK_VALUE"); v != "" {
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, NewPipelineError("LoadConfigFromEnv", fmt.Errorf("parse FEEDBACK_VALUE: %w", err))
		}
		config.Evolution.FeedbackValue = &value
	}

	if v := os.Getenv("PROVIDER_LATENCY_BOUND"); v != "" {
		bound, err := time.ParseDuration(v)
		if err != nil {
			return nil, NewPipelineError("LoadConfigFromEnv", fmt.Errorf("parse PROVIDER_LATENCY_BOUND: %w", err))
		}
		config.Evolution.ProviderLatencyBound = bound
	}

	return config, nil
}

// LoadConfigFromEnvFile loads configuration from a specific .env file.
func LoadConfigFromEnvFile(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadConfigFromEnv()
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewPipelineError("LoadConfigFromJSON", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, NewPipelineError("LoadConfigFromJSON", err)
	}

	return &config, nil
}

// LoadConfigFromYAML loads configuration from a YAML file.
func LoadConfigFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewPipelineError("LoadConfigFromYAML", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, NewPipelineError("LoadConfigFromYAML", err)
	}

	return &config, nil
}

// Validate validates the configuration.
//
// Checks that all required fields are set:
//   - Generation provider must be specified
//   - Embedder provider must be specified with a positive dimension
//   - Memory store provider must be specified
//   - Candidate count must be >= 1
//
// Returns an error if validation fails, nil otherwise.
func (c *Config) Validate() error {
	if c.Generation.Provider == "" {
		return NewPipelineError("Validate", fmt.Errorf("%w: generation provider is required", ErrInvalidConfig))
	}
	if c.Embedder.Provider == "" {
		return NewPipelineError("Validate", fmt.Errorf("%w: embedder provider is required", ErrInvalidConfig))
	}
	if c.Embedder.Dimensions <= 0 {
		return NewPipelineError("Validate", fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidConfig))
	}
	if c.MemoryStore.Provider == "" {
		return NewPipelineError("Validate", fmt.Errorf("%w: memory store provider is required", ErrInvalidConfig))
	}
	if c.Evolution.CandidateCount < 1 {
		return NewPipelineError("Validate", fmt.Errorf("%w: candidate count must be >= 1", ErrInvalidConfig))
	}
	if c.Evolution.ProviderLatencyBound < 0 {
		return NewPipelineError("Validate", fmt.Errorf("%w: provider latency bound must not be negative", ErrInvalidConfig))
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
//
// Returns:
//   - path: Path to the found file (empty if not found)
//   - found: True if a file was found, false otherwise
func FindEnvFile() (string, bool) {
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
