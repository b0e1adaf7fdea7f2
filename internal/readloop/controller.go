package readloop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keibahub/jvgate/internal/configuration"
	"github.com/keibahub/jvgate/internal/domain"
	"github.com/keibahub/jvgate/internal/jverrors"
	"github.com/keibahub/jvgate/internal/session"
)

// ReadFunc performs one native read attempt. The gateway supplies a
// function that marshals the call through the dispatch executor.
type ReadFunc func(ctx context.Context) (session.ReadOutcome, error)

// Iterator is a lazy, finite traversal of one opened data set.
// Usage follows the sql.Rows pattern:
//
//	for it.Next(ctx) {
//	    handle(it.Record())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Next returns false on end of stream, on a hard error, or when ctx is
// cancelled. Cancellation ends the traversal cleanly: Err reports nil.
// Not safe for concurrent use.
type Iterator struct {
	read    ReadFunc
	backoff *Backoff
	logger  *slog.Logger

	// waits counts backoff delays taken, exposed for observability.
	waits int

	rec  domain.Record
	err  error
	done bool
}

// NewIterator creates an iterator over read, applying cfg's backoff
// while the provider reports downloads still pending.
func NewIterator(read ReadFunc, cfg configuration.BackoffConfig, logger *slog.Logger) *Iterator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Iterator{
		read:    read,
		backoff: NewBackoff(cfg),
		logger:  logger.With("component", "readloop"),
	}
}

// Next advances to the next record. File boundaries are skipped
// silently; download-pending outcomes retry after a growing delay that
// is interrupted immediately by cancellation.
func (it *Iterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}

	for {
		if ctx.Err() != nil {
			it.finish(nil)
			return false
		}

		out, err := it.read(ctx)
		if err != nil {
			var ce *jverrors.CancelledError
			if errors.As(err, &ce) {
				it.finish(nil)
			} else {
				it.finish(err)
			}
			return false
		}

		switch out.Status {
		case session.StatusPayload:
			it.backoff.Reset()
			ts := out.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}
			it.rec = domain.NewRecord(out.Data, ts)
			return true

		case session.StatusFileBoundary:
			it.backoff.Reset()
			continue

		case session.StatusDownloadPending:
			delay := it.backoff.Next()
			it.waits++
			it.logger.Debug("download pending, backing off", "delay", delay, "waits", it.waits)
			if !sleep(ctx, delay) {
				it.finish(nil)
				return false
			}
			continue

		case session.StatusEndOfStream:
			it.finish(nil)
			return false

		default:
			it.finish(&jverrors.ProviderError{
				Method:  "JVRead",
				Code:    int(out.Status),
				Kind:    jverrors.KindUnexpected,
				Message: "unknown read status",
			})
			return false
		}
	}
}

func (it *Iterator) finish(err error) {
	it.done = true
	it.err = err
	if err != nil {
		it.logger.Warn("read loop terminated", "error", err)
	}
}

// Record returns the record produced by the last successful Next call.
func (it *Iterator) Record() domain.Record { return it.rec }

// Err returns the terminal error, nil after a clean end of stream or a
// cancelled traversal.
func (it *Iterator) Err() error { return it.err }

// Waits reports how many backoff delays the traversal has taken.
func (it *Iterator) Waits() int { return it.waits }
