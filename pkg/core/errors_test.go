package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/core"
	"github.com/evotext/evotext-go/pkg/storage"
)

func TestPipelineErrorFormat(t *testing.T) {
	err := core.NewPipelineError("ProcessPrompt", errors.New("boom"))
	require.Error(t, err)
	assert.Equal(t, "evotext: ProcessPrompt: boom", err.Error())
}

func TestPipelineErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := core.NewPipelineError("ProcessPrompt", inner)
	assert.ErrorIs(t, err, inner)

	var pipeErr *core.PipelineError
	require.True(t, errors.As(err, &pipeErr))
	assert.Equal(t, "ProcessPrompt", pipeErr.Op)
}

func TestNewPipelineErrorNilPassthrough(t *testing.T) {
	assert.NoError(t, core.NewPipelineError("ProcessPrompt", nil))
}

func TestMemoryConsistencySentinelMatchesStorage(t *testing.T) {
	// Callers can check either sentinel without importing the other
	// package.
	assert.ErrorIs(t, storage.ErrConsistency, core.ErrMemoryConsistency)

	wrapped := core.NewPipelineError("ProcessPrompt", storage.ErrConsistency)
	assert.ErrorIs(t, wrapped, core.ErrMemoryConsistency)
}
