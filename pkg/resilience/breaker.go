package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
)

// ErrCircuitOpen is returned when the breaker rejects an operation
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings tunes a circuit breaker
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// BuildSettings produces a Settings struct from primitive tuning knobs.
func BuildSettings(name string, intervalSeconds, timeoutSeconds, failureThreshold, successThreshold int) Settings {
	interval := time.Duration(intervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if failureThreshold <= 0 {
		failureThreshold = 5
	}

	if successThreshold <= 0 {
		successThreshold = 1
	}

	return Settings{
		Name:             name,
		Interval:         interval,
		Timeout:          timeout,
		FailureThreshold: uint32(failureThreshold),
		SuccessThreshold: uint32(successThreshold),
	}
}

// FallbackFunc is executed when the breaker is open or overloaded.
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// NoopFallback returns the breaker open error without additional handling.
func NoopFallback(ctx context.Context, err error) (interface{}, error) {
	return nil, ErrCircuitOpen
}

// GracefulDegradation returns ErrCircuitOpen but logs a structured warning.
// Use this when the caller handles the error with its own fallback logic.
func GracefulDegradation(serviceName string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.Warn("circuit breaker open, service degraded",
			zap.String("service", serviceName),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}

// CircuitBreaker wraps gobreaker with fallback handling and metrics
type CircuitBreaker struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	fallback FallbackFunc
}

// NewCircuitBreaker builds a breaker from Settings
func NewCircuitBreaker(settings Settings, fallback FallbackFunc) *CircuitBreaker {
	if fallback == nil {
		fallback = NoopFallback
	}

	name := nextBreakerName(settings.Name)

	successThreshold := settings.SuccessThreshold
	if successThreshold == 0 {
		successThreshold = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: successThreshold,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			recordBreakerStateChange(name, from, to)
		},
	})

	recordBreakerState(name, cb.State())

	return &CircuitBreaker{name: name, cb: cb, fallback: fallback}
}

// Execute runs the operation through the breaker, invoking the fallback when
// the breaker refuses the call
func (b *CircuitBreaker) Execute(ctx context.Context, operation Operation) (interface{}, error) {
	recordBreakerRequest(b.name)

	result, err := b.cb.Execute(func() (interface{}, error) {
		return operation(ctx)
	})
	if err == nil {
		return result, nil
	}

	recordBreakerFailure(b.name)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordBreakerFallback(b.name)
		return b.fallback(ctx, err)
	}
	return nil, err
}

// State exposes the underlying breaker state
func (b *CircuitBreaker) State() gobreaker.State {
	return b.cb.State()
}
