// Package dispatch provides a single-worker executor that funnels every
// native provider call onto one dedicated OS thread.
//
// The native component is not thread-safe and binds its session state to
// the thread that initialized it, so all calls must originate from one
// long-lived thread. The executor owns that thread: callers submit
// closures and receive results or captured failures on their own
// goroutines, while execution happens strictly in FIFO submission order
// on the worker. Nested submissions from code already running on the
// worker (native callbacks issuing follow-up calls) execute inline to
// avoid self-deadlock.
package dispatch

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/keibahub/jvgate/internal/jverrors"
)

// result carries a completed work item's value or captured failure.
type result struct {
	value any
	err   error
}

// workItem is one queued unit of work. Owned by the executor while
// queued; the done channel transfers the result to the submitter and is
// buffered so the worker never blocks on delivery.
type workItem struct {
	id   string
	name string
	fn   func() (any, error)
	done chan result
}

// Executor serializes closures onto one dedicated, OS-thread-locked
// worker goroutine. Safe for concurrent use.
type Executor struct {
	name            string
	logger          *slog.Logger
	shutdownTimeout time.Duration

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*workItem
	disposed bool

	workerGID  atomic.Uint64
	workerDone chan struct{}
}

// New creates an executor and starts its worker thread. The worker
// locks itself to an OS thread for its entire lifetime.
// shutdownTimeout bounds how long Dispose waits for queue drain.
func New(name string, shutdownTimeout time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{
		name:            name,
		logger:          logger.With("component", "dispatch", "executor", name),
		shutdownTimeout: shutdownTimeout,
		workerDone:      make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)

	ready := make(chan struct{})
	go e.workerLoop(ready)
	<-ready

	return e
}

// workerLoop runs queued items until disposal. The queue is fully
// drained before exit so a clean Dispose loses no accepted work.
func (e *Executor) workerLoop(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(e.workerDone)

	e.workerGID.Store(goroutineID())
	close(ready)

	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.disposed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			e.mu.Unlock()
			e.logger.Debug("worker exiting")
			return
		}
		item := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		item.done <- e.run(item)
	}
}

// run executes one item, converting panics into errors so a failing
// action never kills the worker.
func (e *Executor) run(item *workItem) (res result) {
	defer func() {
		if r := recover(); r != nil {
			res = result{err: fmt.Errorf("work item %q panicked: %v", item.name, r)}
			e.logger.Error("work item panic", "item", item.name, "id", item.id, "panic", r)
		}
	}()

	v, err := item.fn()
	return result{value: v, err: err}
}

// onWorker reports whether the calling goroutine is the worker itself.
func (e *Executor) onWorker() bool {
	return goroutineID() == e.workerGID.Load()
}

// enqueue wraps fn as a work item and hands it to the worker.
// Fails fast with ErrExecutorDisposed once disposal has begun, so
// callers never wait on a worker that will not run their work.
func (e *Executor) enqueue(name string, fn func() (any, error)) (*workItem, error) {
	item := &workItem{
		id:   uuid.NewString(),
		name: name,
		fn:   fn,
		done: make(chan result, 1),
	}

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return nil, fmt.Errorf("submit %q: %w", name, jverrors.ErrExecutorDisposed)
	}
	e.queue = append(e.queue, item)
	e.cond.Signal()
	e.mu.Unlock()

	return item, nil
}

// Dispose shuts the executor down. Already-queued items are drained
// within the shutdown timeout; on timeout the worker is abandoned and
// remaining queued items are resolved with ErrWorkerExited rather than
// left pending. Idempotent.
func (e *Executor) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.cond.Broadcast()
	e.mu.Unlock()

	timer := time.NewTimer(e.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-e.workerDone:
	case <-timer.C:
		e.logger.Warn("worker did not drain before shutdown timeout, abandoning",
			"timeout", e.shutdownTimeout)
		e.failPending()
	}
}

// failPending resolves every still-queued item with a worker failure.
// Called only after the shutdown timeout fires; the abandoned worker
// finds an empty queue and exits when its current call returns.
func (e *Executor) failPending() {
	e.mu.Lock()
	pending := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, item := range pending {
		item.done <- result{err: fmt.Errorf("work item %q: %w", item.name, jverrors.ErrWorkerExited)}
	}
}

// Done is closed when the worker thread has exited.
func (e *Executor) Done() <-chan struct{} { return e.workerDone }
