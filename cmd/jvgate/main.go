// Command jvgate runs the gateway against the in-memory provider
// simulator: one bulk fetch traversal plus a short realtime event watch,
// with structured logging of everything that flows through.
//
// Useful for eyeballing dispatcher, read-loop, and pipeline behavior
// without the platform provider binding.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keibahub/jvgate"
	"github.com/keibahub/jvgate/internal/configuration"
	"github.com/keibahub/jvgate/internal/domain"
	"github.com/keibahub/jvgate/internal/session"
	"github.com/keibahub/jvgate/internal/session/sim"
)

func main() {
	var (
		capacity    = flag.Int("queue-capacity", configuration.DefaultQueueCapacity, "event queue capacity")
		backoffBase = flag.Duration("backoff-base", 50*time.Millisecond, "download-pending backoff base interval")
		backoffMax  = flag.Duration("backoff-max", time.Second, "download-pending backoff cap")
		watchFor    = flag.Duration("watch", 2*time.Second, "how long to watch realtime events")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	if err := run(logger, *capacity, *backoffBase, *backoffMax, *watchFor); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, capacity int, backoffBase, backoffMax, watchFor time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := scriptedSession()

	cfg := &jvgate.Config{
		EventQueue: configuration.EventQueueConfig{Capacity: capacity},
		Backoff: configuration.BackoffConfig{
			BaseInterval: backoffBase,
			MaxInterval:  backoffMax,
			Multiplier:   configuration.DefaultBackoffMultiplier,
		},
	}

	client, err := jvgate.NewClient(sess, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	info, err := client.Open(ctx, jvgate.OpenSpec{
		DataSpec: "RACE",
		From:     time.Now().AddDate(0, 0, -7),
	})
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	logger.Info("opened data set", "read_count", info.ReadCount)

	sub := client.Subscribe(func(d jvgate.Delivery) {
		if d.Err != nil {
			logger.Warn("event delivery error", "error", d.Err)
			return
		}
		logger.Info("event", "kind", d.Event.Kind, "key", d.Event.Key)
	})
	defer sub.Unsubscribe()

	if err := client.StartEvents(ctx); err != nil {
		return fmt.Errorf("start events: %w", err)
	}
	defer client.StopEvents(context.Background())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		it := client.Records()
		var n int
		for it.Next(gctx) {
			rec := it.Record()
			logger.Info("record", "type", rec.Type, "bytes", len(rec.Data))
			n++
		}
		logger.Info("bulk fetch finished", "records", n, "backoff_waits", it.Waits())
		return it.Err()
	})

	g.Go(func() error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		deadline := time.After(watchFor)
		for i := 0; ; i++ {
			select {
			case <-gctx.Done():
				return nil
			case <-deadline:
				return nil
			case <-ticker.C:
				sess.FireEvent(domain.Event{
					Kind:      domain.EventWeightAnnounce,
					Key:       fmt.Sprintf("202608250511%02d", i),
					Timestamp: time.Now(),
				})
			}
		}
	})

	return g.Wait()
}

// scriptedSession builds a simulator with a plausible bulk script:
// pending signals while files download, a couple of file boundaries,
// and a handful of records.
func scriptedSession() *sim.Session {
	now := time.Now()
	s := sim.New().SetInfo(session.Info{ReadCount: 6, DownloadCount: 2, LastTimestamp: now})

	s.QueuePending().QueuePending()
	s.QueuePayload([]byte("RA202608250511 Tokyo 11R"), now)
	s.QueuePayload([]byte("SE202608250511 01 Horse A"), now)
	s.QueueBoundary()
	s.QueuePayload([]byte("SE202608250511 02 Horse B"), now)
	s.QueuePending()
	s.QueuePayload([]byte("HR202608250511 payout"), now)
	s.QueueBoundary()
	s.QueuePayload([]byte("O1202608250511 odds"), now)
	s.QueuePayload([]byte("WH202608250511 weights"), now)

	return s
}
