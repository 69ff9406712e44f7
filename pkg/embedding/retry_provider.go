package embedding

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryProvider wraps another provider with bounded exponential backoff.
// Embedding calls are idempotent, so retrying a transient backend failure
// is always safe. Context cancellation aborts the retry loop immediately.
type RetryProvider struct {
	inner      Provider
	maxRetries uint64
}

var _ Provider = &RetryProvider{}

func NewRetryProvider(inner Provider, maxRetries int) *RetryProvider {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryProvider{
		inner:      inner,
		maxRetries: uint64(maxRetries),
	}
}

func (r *RetryProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second

	var result []float32
	operation := func() error {
		var err error
		result, err = r.inner.Generate(ctx, text, taskType)
		return err
	}

	err := backoff.Retry(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
