package evolution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evotext/evotext-go/pkg/evolution"
)

func TestStaticFeedback(t *testing.T) {
	source := evolution.StaticFeedback{Value: 0.8}

	value, err := source.GetFeedback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.8, value)
}

func TestFeedbackFunc(t *testing.T) {
	calls := 0
	source := evolution.FeedbackFunc(func(ctx context.Context) (float64, error) {
		calls++
		if calls > 1 {
			return 0, errors.New("signal lost")
		}
		return 0.5, nil
	})

	value, err := source.GetFeedback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.5, value)

	_, err = source.GetFeedback(context.Background())
	assert.Error(t, err)
}
