package fusion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/fusion"
)

func TestPassthroughReturnsInputUnchanged(t *testing.T) {
	p := fusion.Passthrough{}

	out, err := p.Process(context.Background(), "hello world", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestPassthroughIgnoresPayload(t *testing.T) {
	p := fusion.Passthrough{}

	out, err := p.Process(context.Background(), "hello world", []byte{0xDE, 0xAD})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}
