package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyProvider struct {
	failures int
	calls    int
}

func (f *flakyProvider) Chat(_ context.Context, _ []Message, _ ...Option) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("upstream unavailable")
	}
	return "ok", nil
}

func (f *flakyProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}

func TestRetryProviderRecoversFromTransientFailure(t *testing.T) {
	inner := &flakyProvider{failures: 2}
	p := NewRetryProvider(inner, 3)

	out, err := p.Generate(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryProviderGivesUpAfterMaxRetries(t *testing.T) {
	inner := &flakyProvider{failures: 100}
	p := NewRetryProvider(inner, 2)

	_, err := p.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.Equal(t, 3, inner.calls, "initial attempt plus two retries")
}

func TestRetryProviderStopsOnCancelledContext(t *testing.T) {
	inner := &flakyProvider{failures: 100}
	p := NewRetryProvider(inner, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, "hello")

	require.Error(t, err)
	assert.LessOrEqual(t, inner.calls, 1)
}
