package configuration

import (
	"time"
)

// Event queue constants.
const (
	// DefaultQueueCapacity bounds the realtime event queue. Sized for
	// bursts around race finish (payout plus odds refresh per venue)
	// while keeping worst-case drain latency low.
	DefaultQueueCapacity = 256
)

// Backoff constants.
const (
	DefaultBackoffBase       = 500 * time.Millisecond
	DefaultBackoffMax        = 10 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Executor constants.
const (
	DefaultShutdownTimeout = 5 * time.Second
)

// DefaultConfig returns a configuration with production defaults.
// Suitable for direct use without further tuning.
func DefaultConfig() *Config {
	return &Config{
		EventQueue: EventQueueConfig{
			Capacity: DefaultQueueCapacity,
		},
		Backoff: BackoffConfig{
			BaseInterval: DefaultBackoffBase,
			MaxInterval:  DefaultBackoffMax,
			Multiplier:   DefaultBackoffMultiplier,
		},
		Executor: ExecutorConfig{
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}
