package eventpipe

import (
	"github.com/google/uuid"
)

// Subscription is the handle returned by Subscribe. A subscription's
// lifetime is independent of the pipeline's generations: it survives
// Stop/Start cycles until explicitly unsubscribed.
type Subscription struct {
	p  *Pipeline
	id uuid.UUID
}

// Subscribe registers a handler and returns its handle. Handlers are
// invoked in registration order for every delivered envelope.
func (p *Pipeline) Subscribe(fn Handler) *Subscription {
	sub := &subscriber{id: uuid.New(), fn: fn}

	p.mu.Lock()
	p.subs = append(p.subs, sub)
	p.mu.Unlock()

	return &Subscription{p: p, id: sub.id}
}

// Unsubscribe removes the handler. Safe to call from within the handler
// itself during a delivery; the handler receives no envelope after the
// one being delivered. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	for i, sub := range s.p.subs {
		if sub.id == s.id {
			s.p.subs = append(s.p.subs[:i], s.p.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount reports the number of registered handlers.
func (p *Pipeline) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
