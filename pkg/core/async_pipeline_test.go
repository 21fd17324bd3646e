package core_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/core"
	"github.com/evotext/evotext-go/pkg/storage/memory"
)

func TestProcessPromptAsync(t *testing.T) {
	client := newTestClient(t, &stubGeneration{}, &stubEmbedder{dims: 4}, memory.NewStore())
	async := core.NewAsyncClient(client)
	defer async.Close()
	ctx := context.Background()

	ch := async.ProcessPromptAsync(ctx, "explain channels")
	result := <-ch
	require.NoError(t, result.Err)
	assert.Equal(t, "an unusually detailed and thorough answer", result.Response)

	n, err := async.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProcessPromptAsyncPropagatesErrors(t *testing.T) {
	client := newTestClient(t, &stubGeneration{failAll: true}, &stubEmbedder{dims: 4}, memory.NewStore())
	async := core.NewAsyncClient(client)
	defer async.Close()

	result := <-async.ProcessPromptAsync(context.Background(), "explain channels")
	assert.Error(t, result.Err)
	assert.Empty(t, result.Response)
}

func TestAsyncConcurrentPrompts(t *testing.T) {
	client := newTestClient(t, &stubGeneration{}, &stubEmbedder{dims: 4}, memory.NewStore())
	async := core.NewAsyncClient(client)
	defer async.Close()
	ctx := context.Background()

	const n = 8
	channels := make([]<-chan *core.ProcessResult, n)
	for i := range channels {
		channels[i] = async.ProcessPromptAsync(ctx, fmt.Sprintf("explain channels, take %d", i))
	}

	for _, ch := range channels {
		result := <-ch
		require.NoError(t, result.Err)
	}

	async.Wait()

	count, err := async.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestRetrieveAllAsync(t *testing.T) {
	client := newTestClient(t, &stubGeneration{}, &stubEmbedder{dims: 4}, memory.NewStore())
	async := core.NewAsyncClient(client)
	defer async.Close()
	ctx := context.Background()

	result := <-async.ProcessPromptAsync(ctx, "explain channels")
	require.NoError(t, result.Err)

	retrieved := <-async.RetrieveAllAsync(ctx)
	require.NoError(t, retrieved.Err)
	require.Len(t, retrieved.Records, 1)
	assert.Equal(t, "explain channels", retrieved.Records[0].Content)
}
