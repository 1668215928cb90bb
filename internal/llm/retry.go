package llm

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds every generator call made through WithRetry
type RetryPolicy struct {
	Timeout    time.Duration // Per attempt; zero means no per-attempt deadline
	MaxRetries int           // Additional attempts after the first
	BaseDelay  time.Duration // First backoff interval; zero uses 500ms
}

// DefaultRetryPolicy is a 30s timeout with a single retry
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Timeout: 30 * time.Second, MaxRetries: 1, BaseDelay: 500 * time.Millisecond}
}

// RetryingClient decorates a Client with per-call timeouts and bounded retries
type RetryingClient struct {
	inner  Client
	policy RetryPolicy
}

// WithRetry wraps client so every call gets the policy's timeout and retries.
// Only transport-level failures are retried: caller cancellation and
// non-retryable HTTP statuses return immediately.
func WithRetry(client Client, policy RetryPolicy) *RetryingClient {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &RetryingClient{inner: client, policy: policy}
}

// GenerateContent generates text content with the retry policy applied
func (c *RetryingClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.do(ctx, func(attemptCtx context.Context) (string, error) {
		return c.inner.GenerateContent(attemptCtx, prompt, tier)
	})
}

// GenerateJSON generates JSON content with the retry policy applied
func (c *RetryingClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.do(ctx, func(attemptCtx context.Context) (string, error) {
		return c.inner.GenerateJSON(attemptCtx, prompt, tier)
	})
}

// GetModel returns the wrapped client's model for a tier
func (c *RetryingClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close closes the wrapped client
func (c *RetryingClient) Close() error {
	return c.inner.Close()
}

func (c *RetryingClient) do(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	var result string
	attempt := 0

	operation := func() error {
		attempt++
		attemptCtx := ctx
		if c.policy.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
			defer cancel()
		}

		out, err := call(attemptCtx)
		if err == nil {
			result = out
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	if c.policy.BaseDelay > 0 {
		b.InitialInterval = c.policy.BaseDelay
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.policy.MaxRetries)), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		log.Printf("[LLM] attempt %d failed, retrying in %s: %v", attempt, wait.Round(time.Millisecond), err)
	})
	if err != nil {
		return "", err
	}
	return result, nil
}
