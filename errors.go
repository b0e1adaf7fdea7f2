package jvgate

import (
	"github.com/keibahub/jvgate/internal/jverrors"
)

// Re-exported error taxonomy so callers can classify failures without
// importing internal packages.
type (
	// ErrorKind categorizes provider operation failures.
	ErrorKind = jverrors.Kind

	// ProviderError is a failure reported by the native component.
	ProviderError = jverrors.ProviderError

	// OverflowError reports events dropped from a saturated queue.
	OverflowError = jverrors.OverflowError

	// CancelledError reports a cooperative cancellation.
	CancelledError = jverrors.CancelledError
)

// Error kinds.
const (
	KindNotInitialized = jverrors.KindNotInitialized
	KindInvalidState   = jverrors.KindInvalidState
	KindInput          = jverrors.KindInput
	KindAuthentication = jverrors.KindAuthentication
	KindMaintenance    = jverrors.KindMaintenance
	KindCommunication  = jverrors.KindCommunication
	KindInternal       = jverrors.KindInternal
	KindNoData         = jverrors.KindNoData
	KindCancelled      = jverrors.KindCancelled
	KindOverflow       = jverrors.KindOverflow
	KindUnexpected     = jverrors.KindUnexpected
)

// Sentinel errors.
var (
	// ErrExecutorDisposed is returned for calls after Close.
	ErrExecutorDisposed = jverrors.ErrExecutorDisposed

	// ErrWorkerExited is returned when the dispatch worker terminated
	// before a queued call could run.
	ErrWorkerExited = jverrors.ErrWorkerExited
)

// KindOf extracts the classified kind from an error chain.
func KindOf(err error) ErrorKind { return jverrors.KindOf(err) }
