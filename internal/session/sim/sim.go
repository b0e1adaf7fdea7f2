// Package sim provides a deterministic in-memory Session used by tests
// and the demo binary. Read outcomes are scripted ahead of time; events
// are fired explicitly by the driver.
//
// The real provider binding is a platform COM component and lives
// outside this repository; sim reproduces its observable call contract,
// including the state errors for out-of-order calls.
package sim

import (
	"sync"
	"time"

	"github.com/keibahub/jvgate/internal/domain"
	"github.com/keibahub/jvgate/internal/jverrors"
	"github.com/keibahub/jvgate/internal/session"
)

// step is one scripted read result: either an outcome or a raw provider
// code to interpret as an error.
type step struct {
	outcome session.ReadOutcome
	code    int
}

// Session is a scripted in-memory provider session.
// Methods are mutex-guarded so test drivers may fire events from
// arbitrary goroutines even though gateway traffic arrives on one thread.
type Session struct {
	mu     sync.Mutex
	script []step
	pos    int
	open   bool
	cb     session.EventCallback

	openCode int
	info     session.Info

	// Call counters for assertions.
	Opens   int
	Reads   int
	Skips   int
	Cancels int
	Closes  int
}

// New creates an empty simulator session. With no scripted steps every
// read reports end of stream.
func New() *Session {
	return &Session{}
}

// QueuePayload scripts one record payload.
func (s *Session) QueuePayload(data []byte, ts time.Time) *Session {
	return s.queue(step{outcome: session.ReadOutcome{
		Status:    session.StatusPayload,
		Data:      data,
		Timestamp: ts,
	}})
}

// QueuePending scripts one download-pending signal.
func (s *Session) QueuePending() *Session {
	return s.queue(step{outcome: session.ReadOutcome{Status: session.StatusDownloadPending}})
}

// QueueBoundary scripts one file-boundary signal.
func (s *Session) QueueBoundary() *Session {
	return s.queue(step{outcome: session.ReadOutcome{Status: session.StatusFileBoundary}})
}

// QueueError scripts a hard provider failure with the given raw code.
func (s *Session) QueueError(code int) *Session {
	return s.queue(step{code: code})
}

// FailOpen makes the next Open fail with the given raw code.
func (s *Session) FailOpen(code int) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openCode = code
	return s
}

// SetInfo sets the Info reported by Open.
func (s *Session) SetInfo(info session.Info) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
	return s
}

func (s *Session) queue(st step) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, st)
	return s
}

// FireEvent delivers ev to the registered callback, mimicking a native
// push notification. Reports whether a callback was installed.
func (s *Session) FireEvent(ev domain.Event) bool {
	s.mu.Lock()
	cb := s.cb
	s.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(ev)
	return true
}

// Open implements session.Session.
func (s *Session) Open(session.OpenSpec) (session.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Opens++
	if s.openCode != 0 {
		code := s.openCode
		s.openCode = 0
		return session.Info{}, jverrors.Interpret("JVOpen", code)
	}
	if s.open {
		return session.Info{}, jverrors.Interpret("JVOpen", -202)
	}
	s.open = true
	s.pos = 0
	return s.info, nil
}

// Read implements session.Session, replaying the scripted outcomes and
// reporting end of stream once the script is exhausted.
func (s *Session) Read() (session.ReadOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reads++
	if !s.open {
		return session.ReadOutcome{}, jverrors.Interpret("JVRead", -203)
	}
	if s.pos >= len(s.script) {
		return session.ReadOutcome{Status: session.StatusEndOfStream}, nil
	}

	st := s.script[s.pos]
	s.pos++
	if st.code != 0 {
		return session.ReadOutcome{}, jverrors.Interpret("JVRead", st.code)
	}
	return st.outcome, nil
}

// Skip implements session.Session.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Skips++
	if !s.open {
		return jverrors.Interpret("JVSkip", -203)
	}
	return nil
}

// Status implements session.Session, reporting scripted progress as the
// number of already-consumed steps.
func (s *Session) Status() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, jverrors.Interpret("JVStatus", -203)
	}
	return s.pos, nil
}

// Cancel implements session.Session.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Cancels++
	return nil
}

// Close implements session.Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Closes++
	s.open = false
	s.pos = 0
	return nil
}

// RegisterEventCallback implements session.Session.
func (s *Session) RegisterEventCallback(cb session.EventCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb == nil {
		return jverrors.Interpret("JVWatchEvent", -111)
	}
	s.cb = cb
	return nil
}

// UnregisterEventCallback implements session.Session.
func (s *Session) UnregisterEventCallback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cb = nil
	return nil
}
