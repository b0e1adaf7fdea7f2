// Package eventpipe decouples native event production from subscriber
// consumption. The producer side (the dispatch worker running a native
// callback) must never block, so Publish performs a non-blocking enqueue
// onto a bounded queue and counts drops; a dedicated consumer goroutine
// drains the queue and fans each envelope out to every subscriber in
// registration order. Accumulated drops are reported in-band as one
// ordered overflow notification per accumulation, not silently lost.
//
// Each Start/Stop cycle is one generation: a fresh queue and consumer.
// Envelopes never cross generations, and a clean Stop drains the queue
// before the consumer exits.
package eventpipe

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/keibahub/jvgate/internal/domain"
	"github.com/keibahub/jvgate/internal/jverrors"
)

// Handler consumes one delivery. Handlers run synchronously on the
// consumer goroutine, never on the dispatch worker; a slow handler
// delays later handlers and later events.
type Handler func(domain.Delivery)

// subscriber pairs a handler with its registry identity.
type subscriber struct {
	id uuid.UUID
	fn Handler
}

// generation is one Start-to-Stop lifetime: a bounded queue plus the
// consumer goroutine draining it.
type generation struct {
	seq   uint64
	queue chan domain.Delivery
	quit  chan struct{}
	done  chan struct{}
}

// Pipeline is the bounded multi-producer queue with ordered fan-out.
// Safe for concurrent use; Publish is wait-free toward the consumer.
type Pipeline struct {
	logger *slog.Logger

	// lifecycle serializes Start/Stop so a new generation never accepts
	// work before the previous consumer has fully drained and exited.
	lifecycle sync.Mutex

	mu     sync.Mutex
	subs   []*subscriber
	gen    *generation
	genSeq uint64

	// overflow counts envelopes dropped since the last delivered
	// overflow notification. Incremented on the producer thread,
	// swapped to zero on the consumer thread.
	overflow atomic.Uint64
}

// New creates a stopped pipeline. Subscriptions may be registered before
// the first Start and survive Stop/Start cycles.
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger.With("component", "eventpipe")}
}

// Start creates a fresh generation with the given queue capacity and
// launches its consumer. Calling Start while started is a no-op.
func (p *Pipeline) Start(capacity int) error {
	if capacity <= 0 {
		return jverrors.Interpret("JVWatchEvent", -115)
	}

	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != nil {
		return nil
	}

	p.genSeq++
	g := &generation{
		seq:   p.genSeq,
		queue: make(chan domain.Delivery, capacity),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	p.gen = g
	go p.consume(g)

	p.logger.Debug("pipeline started", "generation", g.seq, "capacity", capacity)
	return nil
}

// Stop signals the current generation's consumer to drain already
// enqueued envelopes and exit, then waits for it. Idempotent. Events
// published after Stop are not delivered.
func (p *Pipeline) Stop() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.mu.Lock()
	g := p.gen
	p.gen = nil
	p.mu.Unlock()

	if g == nil {
		return
	}

	close(g.quit)
	<-g.done
	p.logger.Debug("pipeline stopped", "generation", g.seq)
}

// Publish enqueues one event envelope without ever blocking the caller.
// On a full queue the envelope is dropped and the overflow counter is
// incremented; the consumer later reports the accumulated count as an
// in-band overflow notification. Publishing on a stopped pipeline is a
// silent no-op.
func (p *Pipeline) Publish(ev domain.Event) {
	p.mu.Lock()
	g := p.gen
	p.mu.Unlock()

	if g == nil {
		return
	}

	select {
	case g.queue <- domain.Delivery{Event: ev}:
	default:
		p.overflow.Add(1)
	}
}

// PublishError enqueues an error envelope, subject to the same
// non-blocking drop policy as Publish.
func (p *Pipeline) PublishError(err error) {
	p.mu.Lock()
	g := p.gen
	p.mu.Unlock()

	if g == nil {
		return
	}

	select {
	case g.queue <- domain.Delivery{Err: err}:
	default:
		p.overflow.Add(1)
	}
}

// consume drains the generation's queue, delivering each envelope and
// then any accumulated overflow notification, until quit. On quit the
// remaining enqueued envelopes are still delivered before exit.
func (p *Pipeline) consume(g *generation) {
	defer close(g.done)

	for {
		select {
		case d := <-g.queue:
			p.deliver(d)
			p.flushOverflow()
		case <-g.quit:
			for {
				select {
				case d := <-g.queue:
					p.deliver(d)
					p.flushOverflow()
				default:
					return
				}
			}
		}
	}
}

// flushOverflow reports drops accumulated since the last notification.
// The counter resets on successful hand-off to subscribers: the swap
// happens first, and the synthesized envelope is delivered synchronously
// before the consumer touches the queue again, so notifications stay
// ordered relative to real events and each reports a positive count.
func (p *Pipeline) flushOverflow() {
	if n := p.overflow.Swap(0); n > 0 {
		p.logger.Warn("event queue overflow", "dropped", n)
		p.deliver(domain.Delivery{Err: &jverrors.OverflowError{Dropped: n}})
	}
}

// deliver fans one envelope out to every subscriber in registration
// order. A panicking handler is contained: it neither stops delivery to
// the remaining subscribers nor kills the consumer.
func (p *Pipeline) deliver(d domain.Delivery) {
	p.mu.Lock()
	snapshot := make([]*subscriber, len(p.subs))
	copy(snapshot, p.subs)
	p.mu.Unlock()

	for _, sub := range snapshot {
		p.invoke(sub, d)
	}
}

func (p *Pipeline) invoke(sub *subscriber, d domain.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("subscriber handler panicked", "subscription", sub.id, "panic", r)
		}
	}()
	sub.fn(d)
}
