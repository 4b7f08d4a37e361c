package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testError         = errors.New("test error")
	retryableError    = errors.New("retryable error")
	nonRetryableError = errors.New("non-retryable error")
)

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	attemptCount := 0

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		return "success", nil
	}

	result, err := Retry(ctx, config, operation)

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, attemptCount, "should only attempt once on success")
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	config.InitialBackoff = 10 * time.Millisecond
	config.MaxBackoff = 50 * time.Millisecond
	attemptCount := 0

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, testError
		}
		return "success", nil
	}

	result, err := Retry(ctx, config, operation)

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, attemptCount, "should attempt 3 times")
}

func TestRetry_FailureAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	config.InitialBackoff = 1 * time.Millisecond
	attemptCount := 0

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		return nil, testError
	}

	result, err := Retry(ctx, config, operation)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, testError, err)
	assert.Equal(t, config.MaxAttempts, attemptCount)
}

func TestRetry_NonRetryableError(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	config.RetryableErrors = []error{retryableError}
	attemptCount := 0

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		return nil, nonRetryableError
	}

	result, err := Retry(ctx, config, operation)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, nonRetryableError, err)
	assert.Equal(t, 1, attemptCount, "should not retry non-retryable error")
}

func TestRetry_CustomRetryableChecker(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	config.InitialBackoff = 1 * time.Millisecond
	config.MaxAttempts = 3
	attemptCount := 0

	config.RetryableChecker = func(err error) bool {
		return errors.Is(err, testError)
	}

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		return nil, testError
	}

	_, err := Retry(ctx, config, operation)

	assert.Error(t, err)
	assert.Equal(t, 3, attemptCount, "should retry based on custom checker")
}

func TestRetry_CircuitBreakerOpenNotRetried(t *testing.T) {
	ctx := context.Background()
	config := DefaultRetryConfig()
	attemptCount := 0

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		return nil, ErrCircuitOpen
	}

	_, err := Retry(ctx, config, operation)

	assert.Error(t, err)
	assert.Equal(t, ErrCircuitOpen, err)
	assert.Equal(t, 1, attemptCount, "open breaker should short-circuit retries")
}

func TestRetry_ContextCanceledNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	config := DefaultRetryConfig()
	attemptCount := 0

	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		return nil, context.Canceled
	}

	_, err := Retry(ctx, config, operation)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, attemptCount, "should not retry context canceled errors")
}

func TestCalculateBackoff_ExponentialGrowth(t *testing.T) {
	config := RetryConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      false,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{6, 30 * time.Second}, // capped at max
	}

	for _, tt := range tests {
		backoff := calculateBackoff(tt.attempt, config)
		assert.Equal(t, tt.expected, backoff)
	}
}

func TestAddJitter(t *testing.T) {
	duration := 10 * time.Second

	results := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		jittered := addJitter(duration)
		results[jittered] = true

		assert.GreaterOrEqual(t, jittered, time.Duration(0))
		assert.LessOrEqual(t, jittered, duration)
	}

	assert.Greater(t, len(results), 1, "jitter should produce different values")
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, 1*time.Second, config.InitialBackoff)
	assert.Equal(t, 30*time.Second, config.MaxBackoff)
	assert.Equal(t, 2.0, config.BackoffMultiplier)
	assert.True(t, config.EnableJitter)
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		retryable  bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{404, false},
		{408, true},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.retryable, IsRetryableHTTPStatus(tt.statusCode), "status %d", tt.statusCode)
	}
}

func TestRetryWithBreaker_Integration(t *testing.T) {
	ctx := context.Background()
	retryConfig := DefaultRetryConfig()
	retryConfig.InitialBackoff = 1 * time.Millisecond
	retryConfig.MaxAttempts = 3

	breakerSettings := Settings{
		Name:             "test-breaker",
		Interval:         100 * time.Millisecond,
		Timeout:          1 * time.Second,
		FailureThreshold: 2,
	}
	breaker := NewCircuitBreaker(breakerSettings, NoopFallback)

	attemptCount := 0
	operation := func(ctx context.Context) (interface{}, error) {
		attemptCount++
		if attemptCount < 2 {
			return nil, testError
		}
		return "success", nil
	}

	result, err := RetryWithBreaker(ctx, retryConfig, breaker, operation)

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 2, attemptCount)
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	breaker := NewCircuitBreaker(Settings{
		Name:             "opens-after-threshold",
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, NoopFallback)

	failing := func(ctx context.Context) (interface{}, error) {
		return nil, testError
	}

	ctx := context.Background()
	_, err := breaker.Execute(ctx, failing)
	require.Equal(t, testError, err)
	_, err = breaker.Execute(ctx, failing)
	require.Equal(t, testError, err)

	// Third call: breaker is open, fallback path returns ErrCircuitOpen
	_, err = breaker.Execute(ctx, failing)
	assert.Equal(t, ErrCircuitOpen, err)
}
