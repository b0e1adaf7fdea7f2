package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultQueueCapacity, cfg.EventQueue.Capacity)
	assert.Equal(t, DefaultBackoffBase, cfg.Backoff.BaseInterval)
	assert.Equal(t, DefaultBackoffMax, cfg.Backoff.MaxInterval)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Executor.ShutdownTimeout)
}

func TestValidate_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultQueueCapacity, cfg.EventQueue.Capacity)
	assert.Equal(t, DefaultBackoffMultiplier, cfg.Backoff.Multiplier)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Executor.ShutdownTimeout)
}

func TestValidate_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative capacity", Config{EventQueue: EventQueueConfig{Capacity: -1}}},
		{"max below base", Config{Backoff: BackoffConfig{
			BaseInterval: time.Second,
			MaxInterval:  time.Millisecond,
			Multiplier:   2.0,
		}}},
		{"multiplier below one", Config{Backoff: BackoffConfig{
			BaseInterval: time.Millisecond,
			MaxInterval:  time.Second,
			Multiplier:   0.5,
		}}},
		{"negative shutdown timeout", Config{Executor: ExecutorConfig{
			ShutdownTimeout: -time.Second,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Error(t, cfg.Validate())
		})
	}
}
