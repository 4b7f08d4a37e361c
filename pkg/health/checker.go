package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Checker probes one dependency. A nil return means healthy.
type Checker func() error

// CheckerConfig tunes an individual probe
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default probe configuration
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// DatabaseChecker probes the audit-trail database
func DatabaseChecker(db *sql.DB) Checker {
	return DatabaseCheckerWithConfig(db, DefaultCheckerConfig())
}

// DatabaseCheckerWithConfig probes the audit-trail database with a custom timeout
func DatabaseCheckerWithConfig(db *sql.DB, cfg CheckerConfig) Checker {
	return func() error {
		if db == nil {
			return errors.New("database connection is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return db.PingContext(ctx)
	}
}

// RedisChecker probes the session/cache redis
func RedisChecker(client *redis.Client) Checker {
	return RedisCheckerWithConfig(client, DefaultCheckerConfig())
}

// RedisCheckerWithConfig probes redis with a custom timeout
func RedisCheckerWithConfig(client *redis.Client, cfg CheckerConfig) Checker {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

// HTTPEndpointChecker probes an HTTP dependency such as the core API. Any
// response below 400 counts as healthy.
func HTTPEndpointChecker(url string) Checker {
	return HTTPEndpointCheckerWithConfig(url, DefaultCheckerConfig())
}

// HTTPEndpointCheckerWithConfig probes an HTTP dependency with a custom timeout
func HTTPEndpointCheckerWithConfig(url string, cfg CheckerConfig) Checker {
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return func() error {
		resp, err := client.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		return nil
	}
}

// CompositeChecker aggregates named probes under a prefix; it reports the
// first failure as "prefix.name: error"
func CompositeChecker(name string, checkers map[string]Checker) Checker {
	return func() error {
		for probe, check := range checkers {
			if err := check(); err != nil {
				return fmt.Errorf("%s.%s: %w", name, probe, err)
			}
		}
		return nil
	}
}

// AsyncChecker runs a probe in a goroutine and fails with a timeout error when
// it does not report back in time
func AsyncChecker(checker Checker, timeout time.Duration) Checker {
	return func() error {
		done := make(chan error, 1)
		go func() { done <- checker() }()
		select {
		case err := <-done:
			return err
		case <-time.After(timeout):
			return fmt.Errorf("health check timeout after %s", timeout)
		}
	}
}

// CachedChecker memoizes a probe result for a TTL so a hammered /healthz does
// not hammer the dependency behind it
type CachedChecker struct {
	checker  Checker
	cacheTTL time.Duration

	mu        sync.Mutex
	lastRun   time.Time
	lastError error
}

// NewCachedChecker wraps a probe with result caching
func NewCachedChecker(checker Checker, cacheTTL time.Duration) *CachedChecker {
	return &CachedChecker{checker: checker, cacheTTL: cacheTTL}
}

// Check returns the cached result when fresh, otherwise runs the probe
func (c *CachedChecker) Check() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRun.IsZero() && time.Since(c.lastRun) < c.cacheTTL {
		return c.lastError
	}
	c.lastError = c.checker()
	c.lastRun = time.Now()
	return c.lastError
}
