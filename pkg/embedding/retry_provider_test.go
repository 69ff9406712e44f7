package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyEmbedder struct {
	failures int
	calls    int
}

func (f *flakyEmbedder) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("upstream unavailable")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestRetryProviderRecoversFromTransientFailure(t *testing.T) {
	inner := &flakyEmbedder{failures: 2}
	p := NewRetryProvider(inner, 3)

	vec, err := p.Generate(context.Background(), "hello", TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Len(t, vec, 3)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryProviderGivesUpAfterMaxRetries(t *testing.T) {
	inner := &flakyEmbedder{failures: 100}
	p := NewRetryProvider(inner, 2)

	_, err := p.Generate(context.Background(), "hello", TaskRetrievalQuery)

	require.Error(t, err)
	assert.Equal(t, 3, inner.calls, "initial attempt plus two retries")
}

func TestRetryProviderStopsOnCancelledContext(t *testing.T) {
	inner := &flakyEmbedder{failures: 100}
	p := NewRetryProvider(inner, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, "hello", TaskRetrievalQuery)

	require.Error(t, err)
	assert.LessOrEqual(t, inner.calls, 1)
}
