package evolution_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/evolution"
	"github.com/evotext/evotext-go/pkg/llm"
)

// fakeProvider generates deterministic text keyed by candidate index and
// fails for indices listed in failIndices.
type fakeProvider struct {
	mu          sync.Mutex
	calls       int
	failIndices map[int]bool
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	options := llm.ApplyGenerateOptions(opts)
	if p.failIndices[options.CandidateIndex] {
		return "", fmt.Errorf("provider unavailable for slot %d", options.CandidateIndex)
	}
	return fmt.Sprintf("response-%d", options.CandidateIndex), nil
}

func (p *fakeProvider) GenerateWithMessages(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (string, error) {
	return p.Generate(ctx, messages[len(messages)-1].Content, opts...)
}

func (p *fakeProvider) Close() error { return nil }

func TestGenerateReturnsExactlyKInIndexOrder(t *testing.T) {
	provider := &fakeProvider{}
	gen := evolution.NewGenerator(provider, 0)

	candidates, err := gen.Generate(context.Background(), "hello", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 5)

	for i, c := range candidates {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, fmt.Sprintf("response-%d", i), c.Text)
		assert.False(t, c.Failed)
	}
	assert.Equal(t, 5, provider.calls)
}

func TestGeneratePartialFailureKeepsBatchSize(t *testing.T) {
	provider := &fakeProvider{failIndices: map[int]bool{1: true, 3: true}}
	gen := evolution.NewGenerator(provider, 0)

	candidates, err := gen.Generate(context.Background(), "hello", 4)
	require.NoError(t, err)
	require.Len(t, candidates, 4)

	assert.False(t, candidates[0].Failed)
	assert.True(t, candidates[1].Failed)
	assert.Error(t, candidates[1].Err)
	assert.Empty(t, candidates[1].Text)
	assert.False(t, candidates[2].Failed)
	assert.True(t, candidates[3].Failed)
}

func TestGenerateAllFail(t *testing.T) {
	provider := &fakeProvider{failIndices: map[int]bool{0: true, 1: true, 2: true}}
	gen := evolution.NewGenerator(provider, 0)

	candidates, err := gen.Generate(context.Background(), "hello", 3)
	assert.Nil(t, candidates)
	require.Error(t, err)

	var genErr *evolution.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, 3, genErr.FailedCount)
	assert.Error(t, genErr.LastErr)
}

func TestGenerateRejectsZeroCount(t *testing.T) {
	gen := evolution.NewGenerator(&fakeProvider{}, 0)

	for _, k := range []int{0, -1} {
		_, err := gen.Generate(context.Background(), "hello", k)
		assert.Error(t, err)
	}
}

func TestGenerateSingleCandidate(t *testing.T) {
	gen := evolution.NewGenerator(&fakeProvider{}, 0)

	candidates, err := gen.Generate(context.Background(), "hello", 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "response-0", candidates[0].Text)
}
