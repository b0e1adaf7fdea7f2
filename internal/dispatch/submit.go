package dispatch

import (
	"context"
	"fmt"

	"github.com/keibahub/jvgate/internal/jverrors"
)

// Submit runs fn on the worker thread and blocks until it completes,
// returning its value or captured failure. If the caller is already the
// worker (a nested call from a native callback), fn runs inline so the
// worker never deadlocks on itself.
//
// Context cancellation abandons the wait, not the work: a queued item
// still executes, its result discarded. In-flight native calls cannot
// be preempted.
func Submit[T any](ctx context.Context, e *Executor, name string, fn func() (T, error)) (T, error) {
	var zero T

	if e.onWorker() {
		return fn()
	}

	item, err := e.enqueue(name, erase(fn))
	if err != nil {
		return zero, err
	}

	select {
	case res := <-item.done:
		if res.err != nil {
			return zero, res.err
		}
		v, _ := res.value.(T)
		return v, nil
	case <-ctx.Done():
		return zero, &jverrors.CancelledError{Op: name, Cause: ctx.Err()}
	case <-e.workerDone:
		// The worker can exit between enqueue and execution only on an
		// abandoned shutdown; the failPending resolution races with this
		// branch, so prefer a delivered result when one exists.
		select {
		case res := <-item.done:
			if res.err != nil {
				return zero, res.err
			}
			v, _ := res.value.(T)
			return v, nil
		default:
			return zero, fmt.Errorf("work item %q: %w", name, jverrors.ErrWorkerExited)
		}
	}
}

// Future is the pending result of an asynchronously submitted work item.
type Future[T any] struct {
	item *workItem
	e    *Executor

	// resolved holds an immediate outcome for inline or rejected
	// submissions that never reach the queue.
	resolved bool
	value    T
	err      error
}

// SubmitAsync schedules fn on the worker thread without blocking the
// caller. The returned future resolves when the worker completes the
// action. Inline execution applies on the worker goroutine, mirroring
// Submit.
func SubmitAsync[T any](e *Executor, name string, fn func() (T, error)) *Future[T] {
	if e.onWorker() {
		v, err := fn()
		return &Future[T]{resolved: true, value: v, err: err}
	}

	item, err := e.enqueue(name, erase(fn))
	if err != nil {
		return &Future[T]{resolved: true, err: err}
	}
	return &Future[T]{item: item, e: e}
}

// Wait blocks until the work item completes, the context is cancelled,
// or the worker exits without running it.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if f.resolved {
		return f.value, f.err
	}

	select {
	case res := <-f.item.done:
		f.resolve(res)
	case <-ctx.Done():
		return zero, &jverrors.CancelledError{Op: f.item.name, Cause: ctx.Err()}
	case <-f.e.workerDone:
		select {
		case res := <-f.item.done:
			f.resolve(res)
		default:
			f.resolved = true
			f.err = fmt.Errorf("work item %q: %w", f.item.name, jverrors.ErrWorkerExited)
		}
	}

	return f.value, f.err
}

func (f *Future[T]) resolve(res result) {
	f.resolved = true
	if res.err != nil {
		f.err = res.err
		return
	}
	f.value, _ = res.value.(T)
}

// erase adapts a typed action to the executor's untyped queue entry.
func erase[T any](fn func() (T, error)) func() (any, error) {
	return func() (any, error) { return fn() }
}
