// Package jverrors defines the typed error taxonomy for native provider
// operations and the catalog that maps raw provider status codes to it.
//
// The native component signals every failure as a negative integer return
// code. Interpret turns those codes into structured errors that callers can
// classify with errors.As, while transient flow signals (download pending,
// file boundary, end of stream) never surface here - they are resolved by
// the read loop before an error is ever produced.
package jverrors

import (
	"errors"
	"fmt"
)

// Kind categorizes provider operation failures for handling decisions.
// Kinds determine whether an operation can be retried after operator
// action (authentication, maintenance), indicates a caller bug (input,
// state), or is terminal for the session (communication, internal).
type Kind string

const (
	// KindNotInitialized indicates the provider was used before Init (non-retryable).
	KindNotInitialized Kind = "not_initialized"

	// KindInvalidState indicates a call sequence violation, such as reading
	// without an open session or opening over a live one (non-retryable).
	KindInvalidState Kind = "invalid_state"

	// KindInput indicates a rejected parameter: data spec, time range,
	// key, option, or file path (non-retryable).
	KindInput Kind = "input"

	// KindAuthentication indicates a service key or agreement problem
	// (retryable after operator action).
	KindAuthentication Kind = "authentication"

	// KindMaintenance indicates the provider service is under maintenance
	// (retryable later).
	KindMaintenance Kind = "maintenance"

	// KindCommunication indicates a download, server, or disk failure
	// (retryable).
	KindCommunication Kind = "communication"

	// KindInternal indicates a provider-internal fault (non-retryable).
	KindInternal Kind = "internal"

	// KindNoData indicates no data matched the requested parameters.
	KindNoData Kind = "no_data"

	// KindCancelled indicates a user- or caller-initiated cancellation.
	KindCancelled Kind = "cancelled"

	// KindOverflow indicates dropped event deliveries on a saturated queue.
	KindOverflow Kind = "event_queue_overflow"

	// KindUnexpected indicates an unclassified failure.
	KindUnexpected Kind = "unexpected"
)

// Sentinel errors for conditions that do not originate from a provider
// status code.
var (
	// ErrExecutorDisposed is returned for work submitted after the
	// dispatch executor has shut down.
	ErrExecutorDisposed = errors.New("executor disposed")

	// ErrWorkerExited is returned when the dispatch worker terminated
	// before a queued work item could run.
	ErrWorkerExited = errors.New("dispatch worker exited before executing work item")

	// ErrPipelineStopped is returned when an event pipeline operation
	// requires a running consumer generation.
	ErrPipelineStopped = errors.New("event pipeline not started")

	// ErrSessionClosed is returned for reads against a closed session.
	ErrSessionClosed = errors.New("session closed")
)

// ProviderError is a failure reported by the native component, carrying
// the raw status code alongside the classified kind and the method that
// produced it.
type ProviderError struct {
	Method  string // Native method name, e.g. "JVRead"
	Code    int    // Raw signed status code
	Kind    Kind   // Classified category
	Message string // Human-readable description from the catalog
}

// Error returns the formatted provider failure with method and code context.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed with code %d (%s): %s", e.Method, e.Code, e.Kind, e.Message)
}

// IsRetryable reports whether retrying the same call can eventually
// succeed without a code change on the caller's side.
func (e *ProviderError) IsRetryable() bool {
	switch e.Kind {
	case KindCommunication, KindMaintenance, KindAuthentication:
		return true
	default:
		return false
	}
}

// OverflowError reports events dropped from a saturated event queue.
// Dropped is the number of events lost since the previous overflow
// notification; it is always positive.
type OverflowError struct {
	Dropped uint64
}

// Error returns the formatted overflow notification.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("event queue overflow: %d events dropped", e.Dropped)
}

// CancelledError reports a cooperative cancellation observed at a
// checkpoint, wrapping the triggering cause when one exists.
type CancelledError struct {
	Op    string
	Cause error
}

// Error returns the formatted cancellation with operation context.
func (e *CancelledError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s cancelled: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s cancelled", e.Op)
}

// Unwrap exposes the cancellation cause to errors.Is chains.
func (e *CancelledError) Unwrap() error { return e.Cause }

// KindOf extracts the classified kind from an error chain.
// Errors outside the taxonomy report KindUnexpected; nil reports an
// empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	var oe *OverflowError
	if errors.As(err, &oe) {
		return KindOverflow
	}
	var ce *CancelledError
	if errors.As(err, &ce) {
		return KindCancelled
	}
	return KindUnexpected
}
