// Package configuration holds the tunable settings for the gateway:
// event queue sizing, read-retry backoff, and executor shutdown bounds.
package configuration

import (
	"fmt"
	"time"
)

// Config holds the complete configuration for a gateway client.
// Zero values are replaced by defaults at validation time, so callers
// only set the fields they care about.
type Config struct {
	// EventQueue controls the bounded queue between the native callback
	// and event subscribers.
	EventQueue EventQueueConfig `json:"event_queue"`

	// Backoff controls the retry delay applied while the provider reports
	// that requested files are still downloading.
	Backoff BackoffConfig `json:"backoff"`

	// Executor controls the dispatch worker lifecycle.
	Executor ExecutorConfig `json:"executor"`
}

// EventQueueConfig sizes the realtime event pipeline.
type EventQueueConfig struct {
	// Capacity is the bounded queue size. Events published while the
	// queue is full are dropped and reported through an overflow
	// notification. Must be positive.
	Capacity int `json:"capacity"`
}

// BackoffConfig controls the download-pending retry delay. Consecutive
// pending results grow the delay from BaseInterval by Multiplier up to
// MaxInterval; any successful read resets it.
type BackoffConfig struct {
	BaseInterval time.Duration `json:"base_interval"`
	MaxInterval  time.Duration `json:"max_interval"`
	Multiplier   float64       `json:"multiplier"`
}

// ExecutorConfig controls the dispatch worker.
type ExecutorConfig struct {
	// ShutdownTimeout bounds how long Dispose waits for the worker to
	// drain its queue before abandoning it.
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// Validate normalizes zero values to defaults and rejects settings that
// cannot produce a working gateway.
func (c *Config) Validate() error {
	if c.EventQueue.Capacity == 0 {
		c.EventQueue.Capacity = DefaultQueueCapacity
	}
	if c.EventQueue.Capacity < 0 {
		return fmt.Errorf("event queue capacity must be positive, got %d", c.EventQueue.Capacity)
	}

	if c.Backoff.BaseInterval == 0 {
		c.Backoff.BaseInterval = DefaultBackoffBase
	}
	if c.Backoff.MaxInterval == 0 {
		c.Backoff.MaxInterval = DefaultBackoffMax
	}
	if c.Backoff.Multiplier == 0 {
		c.Backoff.Multiplier = DefaultBackoffMultiplier
	}
	if c.Backoff.BaseInterval < 0 || c.Backoff.MaxInterval < 0 {
		return fmt.Errorf("backoff intervals must be non-negative")
	}
	if c.Backoff.MaxInterval < c.Backoff.BaseInterval {
		return fmt.Errorf("backoff max interval %v below base interval %v",
			c.Backoff.MaxInterval, c.Backoff.BaseInterval)
	}
	if c.Backoff.Multiplier < 1.0 {
		return fmt.Errorf("backoff multiplier must be at least 1.0, got %v", c.Backoff.Multiplier)
	}

	if c.Executor.ShutdownTimeout == 0 {
		c.Executor.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Executor.ShutdownTimeout < 0 {
		return fmt.Errorf("executor shutdown timeout must be non-negative")
	}

	return nil
}
