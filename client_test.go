package jvgate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibahub/jvgate/internal/configuration"
	"github.com/keibahub/jvgate/internal/domain"
	"github.com/keibahub/jvgate/internal/session"
	"github.com/keibahub/jvgate/internal/session/sim"
)

// testConfig keeps backoff delays short so pending-heavy scripts run
// quickly.
func testConfig() *Config {
	return &Config{
		EventQueue: configuration.EventQueueConfig{Capacity: 32},
		Backoff: configuration.BackoffConfig{
			BaseInterval: time.Millisecond,
			MaxInterval:  5 * time.Millisecond,
			Multiplier:   2.0,
		},
		Executor: configuration.ExecutorConfig{ShutdownTimeout: time.Second},
	}
}

func newTestClient(t *testing.T, sess session.Session) *Client {
	t.Helper()
	c, err := NewClient(sess, testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.EventQueue.Capacity = -5

	_, err := NewClient(sim.New(), cfg, nil)
	require.Error(t, err)
}

// Full bulk fetch: open, iterate through pending and boundary signals,
// clean end of stream.
func TestClient_BulkFetch(t *testing.T) {
	ts := time.Date(2026, 8, 22, 15, 40, 0, 0, time.UTC)
	sess := sim.New().
		SetInfo(session.Info{ReadCount: 3, LastTimestamp: ts}).
		QueuePending().
		QueuePayload([]byte("RA-one"), ts).
		QueueBoundary().
		QueuePayload([]byte("SE-two"), ts).
		QueuePayload([]byte("HR-three"), ts)

	c := newTestClient(t, sess)

	info, err := c.Open(context.Background(), OpenSpec{DataSpec: "RACE", From: ts.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Equal(t, 3, info.ReadCount)

	var got []string
	it := c.Records()
	for it.Next(context.Background()) {
		got = append(got, string(it.Record().Data))
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"RA-one", "SE-two", "HR-three"}, got)
	assert.Equal(t, domain.RecordTypeRace, domain.ParseRecordType([]byte(got[0])))

	progress, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, progress, "all scripted steps consumed")
}

// A fresh Open restarts the traversal: one Open/Records cycle is one
// pass over the data set.
func TestClient_RestartableAfterReopen(t *testing.T) {
	sess := sim.New().QueuePayload([]byte("RAonly"), time.Time{})
	c := newTestClient(t, sess)

	for cycle := 0; cycle < 2; cycle++ {
		_, err := c.Open(context.Background(), OpenSpec{DataSpec: "RACE"})
		require.NoError(t, err, "cycle %d", cycle)

		var got int
		it := c.Records()
		for it.Next(context.Background()) {
			got++
		}
		require.NoError(t, it.Err())
		assert.Equal(t, 1, got, "cycle %d", cycle)

		require.NoError(t, c.CloseSession(context.Background()))
	}
}

func TestClient_OpenErrorIsTyped(t *testing.T) {
	sess := sim.New().FailOpen(-301)
	c := newTestClient(t, sess)

	_, err := c.Open(context.Background(), OpenSpec{DataSpec: "RACE"})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAuthentication, pe.Kind)
}

func TestClient_ReadErrorTerminatesIteration(t *testing.T) {
	sess := sim.New().
		QueuePayload([]byte("RA"), time.Time{}).
		QueueError(-502)
	c := newTestClient(t, sess)

	_, err := c.Open(context.Background(), OpenSpec{DataSpec: "RACE"})
	require.NoError(t, err)

	var got int
	it := c.Records()
	for it.Next(context.Background()) {
		got++
	}
	assert.Equal(t, 1, got)
	assert.Equal(t, KindCommunication, KindOf(it.Err()))
}

// Realtime stream: records flow until cancellation, which closes the
// channel without an error element.
func TestClient_StreamRecordsCancellable(t *testing.T) {
	sess := sim.New()
	for i := 0; i < 1000; i++ {
		sess.QueuePayload([]byte(fmt.Sprintf("O1-%04d", i)), time.Time{})
	}
	c := newTestClient(t, sess)

	_, err := c.Open(context.Background(), OpenSpec{DataSpec: "0B12", Realtime: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got int
	for res := range c.StreamRecords(ctx) {
		require.NoError(t, res.Err)
		got++
		if got == 10 {
			cancel()
		}
	}
	assert.GreaterOrEqual(t, got, 10)
	assert.Less(t, got, 1000, "cancellation must stop the stream early")
}

// End-to-end event flow: native callback (fired on the worker thread
// via the executor) through the pipeline to a subscriber.
func TestClient_EventDeliveryEndToEnd(t *testing.T) {
	sess := sim.New()
	c := newTestClient(t, sess)

	var mu sync.Mutex
	var got []Delivery
	c.Subscribe(func(d Delivery) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, d)
	})

	require.NoError(t, c.StartEvents(context.Background()))
	require.NoError(t, c.StartEvents(context.Background()), "idempotent while watching")

	for i := 0; i < 5; i++ {
		require.True(t, sess.FireEvent(domain.Event{
			Kind: domain.EventWeightAnnounce,
			Key:  fmt.Sprintf("2026082205%02d", i),
		}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 5
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	for i, d := range got {
		require.NoError(t, d.Err)
		assert.Equal(t, fmt.Sprintf("2026082205%02d", i), d.Event.Key)
	}
	mu.Unlock()

	require.NoError(t, c.StopEvents(context.Background()))
	assert.False(t, sess.FireEvent(domain.Event{Kind: domain.EventPayout}),
		"callback must be unregistered after StopEvents")
}

func TestClient_CloseIdempotentAndTerminal(t *testing.T) {
	sess := sim.New()
	c, err := NewClient(sess, testConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, sess.Closes)

	_, err = c.Open(context.Background(), OpenSpec{DataSpec: "RACE"})
	require.ErrorIs(t, err, ErrExecutorDisposed)
}
