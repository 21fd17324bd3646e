package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/storage/memory"
)

func TestStoreRoundTrip(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	ctx := context.Background()

	embedding := []float64{0.1, 0.2, 0.3}
	id, err := store.Store(ctx, "what is a closure", embedding, "a function with captured scope")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	records, err := store.RetrieveAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "what is a closure", rec.Content)
	assert.Equal(t, embedding, rec.Embedding)
	assert.Equal(t, "a function with captured scope", rec.Response)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestStoreCountGrowsByOne(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := store.Store(ctx, fmt.Sprintf("prompt %d", i), []float64{1}, "ok")
		require.NoError(t, err)

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
}

func TestStoreDistinctIDs(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, err := store.Store(ctx, "same content", []float64{1}, "same response")
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s issued twice", id)
		seen[id] = true
	}
}

func TestStoreInsertionOrder(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Store(ctx, fmt.Sprintf("prompt %d", i), []float64{1}, "ok")
		require.NoError(t, err)
	}

	records, err := store.RetrieveAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)

	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("prompt %d", i), rec.Content)
	}
}

func TestStoreCopiesEmbedding(t *testing.T) {
	store := memory.NewStore()
	defer store.Close()
	ctx := context.Background()

	embedding := []float64{0.5, 0.5}
	_, err := store.Store(ctx, "prompt", embedding, "response")
	require.NoError(t, err)

	embedding[0] = -1

	records, err := store.RetrieveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.5, records[0].Embedding[0])
}
