package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// Operation is a unit of work executed under retry/breaker protection
type Operation func(ctx context.Context) (interface{}, error)

// RetryConfig tunes the retry loop
type RetryConfig struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	EnableJitter      bool
	// RetryableErrors, when non-empty, whitelists the errors worth retrying
	RetryableErrors []error
	// RetryableChecker overrides the error classification entirely
	RetryableChecker func(error) bool
}

// DefaultRetryConfig is the baseline: 3 attempts with jittered exponential backoff
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// AggressiveRetryConfig retries more, backing off less. For idempotent reads.
func AggressiveRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       5,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        16 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// ConservativeRetryConfig retries once. For operations that are expensive upstream.
func ConservativeRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       2,
		InitialBackoff:    2 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// Retry executes the operation until it succeeds, the error is classified
// non-retryable, the context ends, or attempts run out. The last error is
// returned unwrapped.
func Retry(ctx context.Context, config RetryConfig, operation Operation) (interface{}, error) {
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := operation(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err, config) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		backoff := calculateBackoff(attempt, config)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}

// RetryWithBreaker runs the operation through the circuit breaker inside the
// retry loop. An open breaker short-circuits further attempts.
func RetryWithBreaker(ctx context.Context, config RetryConfig, breaker *CircuitBreaker, operation Operation) (interface{}, error) {
	return Retry(ctx, config, func(ctx context.Context) (interface{}, error) {
		return breaker.Execute(ctx, operation)
	})
}

func shouldRetry(err error, config RetryConfig) bool {
	if err == nil {
		return false
	}
	// Never retry cancellations or an open breaker
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if config.RetryableChecker != nil {
		return config.RetryableChecker(err)
	}
	if len(config.RetryableErrors) > 0 {
		for _, retryable := range config.RetryableErrors {
			if errors.Is(err, retryable) {
				return true
			}
		}
		return false
	}
	return true
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	multiplier := config.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	backoff := time.Duration(float64(config.InitialBackoff) * math.Pow(multiplier, float64(attempt-1)))
	if config.MaxBackoff > 0 && backoff > config.MaxBackoff {
		backoff = config.MaxBackoff
	}
	if config.EnableJitter {
		backoff = addJitter(backoff)
	}
	return backoff
}

// addJitter returns a random duration in [0, d]
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d) + 1))
}

// IsRetryableHTTPStatus reports whether a status code is worth retrying
func IsRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return statusCode >= 500
}
