package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/storage/sqlite"
)

func newTestClient(t *testing.T) *sqlite.Client {
	t.Helper()

	client, err := sqlite.NewClient(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSQLiteRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	embedding := []float64{0.25, -0.5, 0.75}
	id, err := client.Store(ctx, "what is a mutex", embedding, "a mutual exclusion lock")
	require.NoError(t, err)
	require.Len(t, id, 64)

	records, err := client.RetrieveAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "what is a mutex", rec.Content)
	assert.Equal(t, embedding, rec.Embedding)
	assert.Equal(t, "a mutual exclusion lock", rec.Response)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSQLiteInsertionOrder(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.Store(ctx, fmt.Sprintf("prompt %d", i), []float64{float64(i)}, "ok")
		require.NoError(t, err)
	}

	records, err := client.RetrieveAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)

	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("prompt %d", i), rec.Content)
	}
}

func TestSQLiteCount(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	n, err := client.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 1; i <= 3; i++ {
		_, err := client.Store(ctx, fmt.Sprintf("prompt %d", i), []float64{1}, "ok")
		require.NoError(t, err)
	}

	n, err = client.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteEmptyRetrieve(t *testing.T) {
	client := newTestClient(t)

	records, err := client.RetrieveAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
