package resilience

import (
	"fmt"
	"time"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 2
)

// CircuitBreakerConfig tunes a CircuitBreaker. A zero value means disabled with default limits.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: defaultFailureThreshold,
		OpenTimeout:      defaultOpenTimeout,
		HalfOpenMaxReq:   defaultHalfOpenMaxReq,
	}
}

// WithDefaults fills non-positive limits. Enabled is left alone.
func (c CircuitBreakerConfig) WithDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return c
}

// Validate rejects explicitly negative limits; zero still means "use the default".
func (c CircuitBreakerConfig) Validate() error {
	switch {
	case c.FailureThreshold < 0:
		return fmt.Errorf("circuit breaker failure threshold must be >= 0, got %d", c.FailureThreshold)
	case c.OpenTimeout < 0:
		return fmt.Errorf("circuit breaker open timeout must be >= 0, got %s", c.OpenTimeout)
	case c.HalfOpenMaxReq < 0:
		return fmt.Errorf("circuit breaker half-open probes must be >= 0, got %d", c.HalfOpenMaxReq)
	}
	return nil
}
