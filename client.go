package jvgate

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/keibahub/jvgate/internal/configuration"
	"github.com/keibahub/jvgate/internal/dispatch"
	"github.com/keibahub/jvgate/internal/domain"
	"github.com/keibahub/jvgate/internal/eventpipe"
	"github.com/keibahub/jvgate/internal/readloop"
	"github.com/keibahub/jvgate/internal/session"
)

// Re-exported types forming the public API surface.
type (
	// Config tunes queue capacity, backoff, and shutdown behavior.
	Config = configuration.Config

	// OpenSpec identifies the data set to open.
	OpenSpec = session.OpenSpec

	// Info describes an opened data set.
	Info = session.Info

	// Record is one application-level provider record.
	Record = domain.Record

	// RecordType is the two-byte record shape tag.
	RecordType = domain.RecordType

	// RecordResult is one element of the asynchronous record stream.
	RecordResult = domain.RecordResult

	// Event is one realtime provider notification.
	Event = domain.Event

	// Delivery is the envelope handed to event subscribers.
	Delivery = domain.Delivery

	// Handler consumes event deliveries.
	Handler = eventpipe.Handler

	// Subscription is the handle returned by Subscribe.
	Subscription = eventpipe.Subscription

	// RecordIterator traverses one opened data set.
	RecordIterator = readloop.Iterator
)

// DefaultConfig returns the production default configuration.
func DefaultConfig() *Config { return configuration.DefaultConfig() }

// Client is the concurrent gateway around one native provider session.
// All methods are safe for concurrent use from any goroutine; the
// underlying native calls execute serially on one dedicated thread.
type Client struct {
	cfg    *configuration.Config
	logger *slog.Logger

	exec *dispatch.Executor
	sess session.Session
	pipe *eventpipe.Pipeline

	watching atomic.Bool
	closed   atomic.Bool
}

// NewClient creates a client around the given provider session.
// A nil cfg uses DefaultConfig; a nil logger uses slog.Default.
// The dispatch worker thread starts immediately.
func NewClient(sess session.Session, cfg *Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:    cfg,
		logger: logger.With("component", "jvgate"),
		exec:   dispatch.New("jvlink", cfg.Executor.ShutdownTimeout, logger),
		sess:   sess,
		pipe:   eventpipe.New(logger),
	}, nil
}

// Open prepares a bulk or realtime data set for reading.
func (c *Client) Open(ctx context.Context, spec OpenSpec) (Info, error) {
	return dispatch.Submit(ctx, c.exec, "JVOpen", func() (session.Info, error) {
		return c.sess.Open(spec)
	})
}

// Records returns a lazy, finite iterator over the currently open data
// set. One Open/Records cycle is one traversal; reopen to restart.
func (c *Client) Records() *RecordIterator {
	return readloop.NewIterator(c.readFunc(), c.cfg.Backoff, c.logger)
}

// StreamRecords returns a cancellable asynchronous record sequence over
// the currently open data set. Cancelling ctx ends the stream cleanly.
func (c *Client) StreamRecords(ctx context.Context) <-chan RecordResult {
	return readloop.Stream(ctx, c.Records())
}

// readFunc marshals one native read through the dispatch executor.
func (c *Client) readFunc() readloop.ReadFunc {
	return func(ctx context.Context) (session.ReadOutcome, error) {
		return dispatch.Submit(ctx, c.exec, "JVRead", c.sess.Read)
	}
}

// Skip abandons the remainder of the current provider file.
func (c *Client) Skip(ctx context.Context) error {
	_, err := dispatch.Submit(ctx, c.exec, "JVSkip", func() (struct{}, error) {
		return struct{}{}, c.sess.Skip()
	})
	return err
}

// Cancel aborts outstanding downloads for the open data set.
func (c *Client) Cancel(ctx context.Context) error {
	_, err := dispatch.Submit(ctx, c.exec, "JVCancel", func() (struct{}, error) {
		return struct{}{}, c.sess.Cancel()
	})
	return err
}

// Status reports how many of the opened data set's files have finished
// downloading.
func (c *Client) Status(ctx context.Context) (int, error) {
	return dispatch.Submit(ctx, c.exec, "JVStatus", c.sess.Status)
}

// CloseSession releases the open data set without shutting the client
// down; a fresh Open restarts reading.
func (c *Client) CloseSession(ctx context.Context) error {
	_, err := dispatch.Submit(ctx, c.exec, "JVClose", func() (struct{}, error) {
		return struct{}{}, c.sess.Close()
	})
	return err
}

// Subscribe registers an event handler. Handlers receive deliveries in
// production order on the pipeline's consumer goroutine and survive
// StartEvents/StopEvents cycles until unsubscribed.
func (c *Client) Subscribe(fn Handler) *Subscription {
	return c.pipe.Subscribe(fn)
}

// StartEvents starts the event pipeline and installs the native
// notification callback. The callback runs on the dispatch worker and
// only performs a non-blocking enqueue, so the native callback path is
// never stalled. Idempotent while watching.
func (c *Client) StartEvents(ctx context.Context) error {
	if err := c.pipe.Start(c.cfg.EventQueue.Capacity); err != nil {
		return err
	}
	if !c.watching.CompareAndSwap(false, true) {
		return nil
	}

	_, err := dispatch.Submit(ctx, c.exec, "JVWatchEvent", func() (struct{}, error) {
		return struct{}{}, c.sess.RegisterEventCallback(func(ev domain.Event) {
			c.pipe.Publish(ev)
		})
	})
	if err != nil {
		c.watching.Store(false)
		c.pipe.Stop()
	}
	return err
}

// StopEvents removes the native callback and stops the pipeline after
// already-enqueued events are delivered. Idempotent.
func (c *Client) StopEvents(ctx context.Context) error {
	if !c.watching.CompareAndSwap(true, false) {
		return nil
	}

	_, err := dispatch.Submit(ctx, c.exec, "JVWatchEventClose", func() (struct{}, error) {
		return struct{}{}, c.sess.UnregisterEventCallback()
	})
	c.pipe.Stop()
	return err
}

// Close shuts the client down: events stop, the native session closes,
// and the worker thread is released. Idempotent; concurrent callers
// after the first return immediately.
func (c *Client) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	stopErr := c.StopEvents(ctx)
	closeErr := c.CloseSession(ctx)
	c.exec.Dispose()

	if closeErr != nil {
		return closeErr
	}
	return stopErr
}
