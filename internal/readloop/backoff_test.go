package readloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keibahub/jvgate/internal/configuration"
)

func TestBackoff_GrowsToCapAndResets(t *testing.T) {
	b := NewBackoff(configuration.BackoffConfig{
		BaseInterval: 100 * time.Millisecond,
		MaxInterval:  time.Second,
		Multiplier:   2.0,
	})

	assert.Equal(t, 100*time.Millisecond, b.Next())
	assert.Equal(t, 200*time.Millisecond, b.Next())
	assert.Equal(t, 400*time.Millisecond, b.Next())
	assert.Equal(t, 800*time.Millisecond, b.Next())
	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, time.Second, b.Next(), "delay must stay capped")

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.Next(), "reset must return to base")
}

func TestBackoff_StrictlyNonDecreasingBetweenResets(t *testing.T) {
	b := NewBackoff(configuration.BackoffConfig{
		BaseInterval: 10 * time.Millisecond,
		MaxInterval:  500 * time.Millisecond,
		Multiplier:   1.7,
	})

	prev := time.Duration(0)
	for i := 0; i < 20; i++ {
		d := b.Next()
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, 500*time.Millisecond)
		prev = d
	}
}

func TestBackoff_ZeroBaseFloorsAboveZero(t *testing.T) {
	b := NewBackoff(configuration.BackoffConfig{
		BaseInterval: 0,
		MaxInterval:  time.Second,
		Multiplier:   2.0,
	})
	assert.Positive(t, b.Next(), "zero base must not hot-loop")
}
