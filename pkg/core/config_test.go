package core_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/core"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_PROVIDER", "LLM_PROVIDER", "LLM_MODEL", "EMBEDDING_PROVIDER",
		"EMBEDDING_MODEL", "EMBEDDING_DIMS", "CANDIDATE_COUNT",
		"FEEDBACK_WEIGHT", "FEEDBACK_VALUE", "PROVIDER_LATENCY_BOUND", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	config, err := core.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "memory", config.MemoryStore.Provider)
	assert.Equal(t, "openai", config.Generation.Provider)
	assert.Equal(t, "gpt-4o-mini", config.Generation.Model)
	assert.Equal(t, "openai", config.Embedder.Provider)
	assert.Equal(t, "text-embedding-3-small", config.Embedder.Model)
	assert.Equal(t, 1536, config.Embedder.Dimensions)
	assert.Equal(t, 3, config.Evolution.CandidateCount)
	assert.Equal(t, 0.5, config.Evolution.FeedbackWeight)
	assert.Nil(t, config.Evolution.FeedbackValue)
	assert.Equal(t, time.Duration(0), config.Evolution.ProviderLatencyBound)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_PROVIDER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("CANDIDATE_COUNT", "7")
	t.Setenv("FEEDBACK_WEIGHT", "0.25")
	t.Setenv("FEEDBACK_VALUE", "0.8")
	t.Setenv("PROVIDER_LATENCY_BOUND", "30s")

	config, err := core.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", config.MemoryStore.Provider)
	assert.Equal(t, "/tmp/test.db", config.MemoryStore.Config["db_path"])
	assert.Equal(t, "deepseek", config.Generation.Provider)
	assert.Equal(t, "deepseek-chat", config.Generation.Model)
	assert.Equal(t, "sk-test", config.Generation.APIKey)
	assert.Equal(t, 7, config.Evolution.CandidateCount)
	assert.Equal(t, 0.25, config.Evolution.FeedbackWeight)
	require.NotNil(t, config.Evolution.FeedbackValue)
	assert.Equal(t, 0.8, *config.Evolution.FeedbackValue)
	assert.Equal(t, 30*time.Second, config.Evolution.ProviderLatencyBound)
}

func TestLoadConfigFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("FEEDBACK_VALUE", "not-a-number")
	_, err := core.LoadConfigFromEnv()
	assert.Error(t, err)

	t.Setenv("FEEDBACK_VALUE", "")
	os.Unsetenv("FEEDBACK_VALUE")
	t.Setenv("PROVIDER_LATENCY_BOUND", "soon")
	_, err = core.LoadConfigFromEnv()
	assert.Error(t, err)
}

func TestLoadConfigFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"generation": {"provider": "openai", "api_key": "sk-test", "model": "gpt-4o-mini"},
		"embedder": {"provider": "openai", "api_key": "sk-test", "dimensions": 1536},
		"memory_store": {"provider": "sqlite", "config": {"db_path": "./test.db"}},
		"evolution": {"candidate_count": 4, "feedback_weight": 0.5, "feedback_value": 0.9}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	config, err := core.LoadConfigFromJSON(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "sqlite", config.MemoryStore.Provider)
	assert.Equal(t, 4, config.Evolution.CandidateCount)
	require.NotNil(t, config.Evolution.FeedbackValue)
	assert.Equal(t, 0.9, *config.Evolution.FeedbackValue)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
generation:
  provider: qwen
  api_key: sk-test
  model: qwen-plus
embedder:
  provider: qwen
  api_key: sk-test
  dimensions: 1536
memory_store:
  provider: memory
evolution:
  candidate_count: 3
  feedback_weight: 0.5
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	config, err := core.LoadConfigFromYAML(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "qwen", config.Generation.Provider)
	assert.Equal(t, "memory", config.MemoryStore.Provider)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := core.LoadConfigFromJSON("/nonexistent/config.json")
	assert.Error(t, err)

	_, err = core.LoadConfigFromYAML("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestFindEnvFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.Chdir(nested))

	// A .env two levels up is picked up by the upward walk.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("LOG_LEVEL=debug\n"), 0o644))
	path, found := core.FindEnvFile()
	require.True(t, found)
	assert.Equal(t, filepath.Join(root, ".env"), path)

	// A .env in the current directory wins over one further up.
	require.NoError(t, os.WriteFile(filepath.Join(nested, ".env"), []byte("LOG_LEVEL=info\n"), 0o644))
	path, found = core.FindEnvFile()
	require.True(t, found)
	assert.Equal(t, filepath.Join(nested, ".env"), path)
}

func TestValidate(t *testing.T) {
	valid := func() *core.Config {
		return &core.Config{
			Generation:  core.GenerationConfig{Provider: "openai"},
			Embedder:    core.EmbedderConfig{Provider: "openai", Dimensions: 1536},
			MemoryStore: core.MemoryStoreConfig{Provider: "memory"},
			Evolution:   core.EvolutionConfig{CandidateCount: 3},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*core.Config)
	}{
		{"missing generation provider", func(c *core.Config) { c.Generation.Provider = "" }},
		{"missing embedder provider", func(c *core.Config) { c.Embedder.Provider = "" }},
		{"zero dimensions", func(c *core.Config) { c.Embedder.Dimensions = 0 }},
		{"missing store provider", func(c *core.Config) { c.MemoryStore.Provider = "" }},
		{"zero candidates", func(c *core.Config) { c.Evolution.CandidateCount = 0 }},
		{"negative latency bound", func(c *core.Config) { c.Evolution.ProviderLatencyBound = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			assert.ErrorIs(t, config.Validate(), core.ErrInvalidConfig)
		})
	}
}
