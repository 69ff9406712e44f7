package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryProvider wraps another provider with bounded exponential backoff.
// Context cancellation aborts the retry loop immediately.
type RetryProvider struct {
	inner      LLMProvider
	maxRetries uint64
}

var _ LLMProvider = &RetryProvider{}

func NewRetryProvider(inner LLMProvider, maxRetries int) *RetryProvider {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryProvider{
		inner:      inner,
		maxRetries: uint64(maxRetries),
	}
}

func (r *RetryProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Chat(ctx, history, options...)
	})
}

func (r *RetryProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Generate(ctx, prompt, options...)
	})
}

func (r *RetryProvider) do(ctx context.Context, call func() (string, error)) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second

	var result string
	operation := func() error {
		var err error
		result, err = call()
		return err
	}

	err := backoff.Retry(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}
