package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{Timeout: time.Second, MaxRetries: retries, BaseDelay: time.Millisecond}
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			return `{"ok": true}`, nil
		},
	}, fastPolicy(1))

	out, err := client.GenerateJSON(context.Background(), "prompt", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_SingleRetryOnTransportError(t *testing.T) {
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("connection reset by peer")
			}
			return "hello", nil
		},
	}, fastPolicy(1))

	out, err := client.GenerateContent(context.Background(), "prompt", TierLite)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			return "", errors.New("unavailable")
		},
	}, fastPolicy(1))

	_, err := client.GenerateContent(context.Background(), "prompt", TierLite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Equal(t, 2, calls)
}

func TestWithRetry_NonRetryableStatus(t *testing.T) {
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			return "", &APIError{StatusCode: 401, Body: "bad key"}
		},
	}, fastPolicy(3))

	_, err := client.GenerateJSON(context.Background(), "prompt", TierStandard)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RateLimitIsRetried(t *testing.T) {
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			if calls == 1 {
				return "", &APIError{StatusCode: 429}
			}
			return "{}", nil
		},
	}, fastPolicy(1))

	_, err := client.GenerateJSON(context.Background(), "prompt", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_PerAttemptTimeout(t *testing.T) {
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			<-ctx.Done()
			return "", ctx.Err()
		},
	}, RetryPolicy{Timeout: 10 * time.Millisecond, MaxRetries: 1, BaseDelay: time.Millisecond})

	start := time.Now()
	_, err := client.GenerateContent(context.Background(), "prompt", TierLite)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWithRetry_CallerCancellationNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	client := WithRetry(&MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			cancel()
			return "", context.Canceled
		},
	}, fastPolicy(3))

	_, err := client.GenerateContent(ctx, "prompt", TierLite)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_Delegates(t *testing.T) {
	closed := false
	client := WithRetry(&MockLLMClient{
		GetModelFunc: func(_ ModelTier) string { return "llama" },
		CloseFunc:    func() error { closed = true; return nil },
	}, DefaultRetryPolicy())

	assert.Equal(t, "llama", client.GetModel(TierStandard))
	require.NoError(t, client.Close())
	assert.True(t, closed)
}
