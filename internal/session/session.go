// Package session defines the capability boundary to the native data
// provider: the typed facade interface every gateway component talks to,
// and the outcome variants a read attempt can produce.
//
// Implementations are not required to be thread-safe. The gateway
// invokes every method through the dispatch executor, so all calls
// arrive on one OS thread in submission order; event callbacks are
// likewise invoked on that thread.
package session

import (
	"time"

	"github.com/keibahub/jvgate/internal/domain"
)

// ReadStatus discriminates the non-error outcomes of one read attempt.
type ReadStatus int

const (
	// StatusPayload indicates one record payload was produced.
	StatusPayload ReadStatus = iota

	// StatusEndOfStream indicates the open request is exhausted; only a
	// fresh Open restarts reading.
	StatusEndOfStream

	// StatusFileBoundary indicates a file/segment boundary. No payload;
	// the next read continues immediately.
	StatusFileBoundary

	// StatusDownloadPending indicates the target files are still
	// downloading; the read should be retried after a backoff delay.
	StatusDownloadPending
)

// String returns the status name for logging.
func (s ReadStatus) String() string {
	switch s {
	case StatusPayload:
		return "payload"
	case StatusEndOfStream:
		return "end_of_stream"
	case StatusFileBoundary:
		return "file_boundary"
	case StatusDownloadPending:
		return "download_pending"
	default:
		return "unknown"
	}
}

// ReadOutcome is the result of one successful read call: a status tag
// plus, for StatusPayload, the record bytes and the provider-reported
// file timestamp (zero when the provider did not supply one).
type ReadOutcome struct {
	Status    ReadStatus
	Data      []byte
	Timestamp time.Time
}

// OpenSpec identifies the data set to open: the provider data-spec
// string (record type selection) and the starting point in time.
// Realtime marks a realtime watch key instead of a bulk range.
type OpenSpec struct {
	DataSpec string
	From     time.Time
	Realtime bool
}

// Info describes an opened data set.
type Info struct {
	// ReadCount is the number of records the provider expects to serve.
	ReadCount int

	// DownloadCount is the number of files the provider still needs to
	// download before all reads can complete.
	DownloadCount int

	// LastTimestamp is the newest file timestamp in the opened range,
	// used as the starting point of the caller's next incremental open.
	LastTimestamp time.Time
}

// EventCallback receives realtime notifications. Invoked on the
// executor's worker thread; implementations must not block.
type EventCallback func(domain.Event)

// Session is the typed facade over the native provider. Errors follow
// the jverrors taxonomy; transient flow signals are returned as
// ReadOutcome variants, never as errors.
type Session interface {
	// Open prepares a bulk or realtime data set for reading.
	Open(spec OpenSpec) (Info, error)

	// Read produces the next outcome for the open data set.
	Read() (ReadOutcome, error)

	// Skip abandons the remainder of the current file and moves to the
	// next one.
	Skip() error

	// Cancel aborts outstanding downloads for the open data set.
	Cancel() error

	// Status reports how many of the opened data set's files have
	// finished downloading.
	Status() (int, error)

	// Close releases the open data set. Reading requires a fresh Open.
	Close() error

	// RegisterEventCallback installs the realtime notification callback.
	RegisterEventCallback(cb EventCallback) error

	// UnregisterEventCallback removes the notification callback.
	UnregisterEventCallback() error
}
