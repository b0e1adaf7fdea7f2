// Package domain defines the core data types shared across the gateway:
// provider records produced by bulk and realtime reads, realtime event
// notifications pushed by the provider, and the delivery envelope handed
// to event subscribers.
package domain

import (
	"time"
)

// RecordTypeIDLength is the length of the record-type tag that prefixes
// every provider record payload.
const RecordTypeIDLength = 2

// RecordType identifies the shape of a provider record. The provider
// prefixes every record with a two-byte ASCII tag ("RA" race detail,
// "SE" horse entry, "O1" win/place odds, and so on). Field-level decoding
// of the individual shapes is handled by downstream parsers, not here.
type RecordType string

// Known record-type tags. The set is open-ended; records with tags not
// listed here still flow through the pipeline untouched.
const (
	RecordTypeRace       RecordType = "RA" // Race detail
	RecordTypeEntry      RecordType = "SE" // Horse entry per race
	RecordTypeHorse      RecordType = "UM" // Horse master
	RecordTypeJockey     RecordType = "KS" // Jockey master
	RecordTypeTrainer    RecordType = "CH" // Trainer master
	RecordTypePayout     RecordType = "HR" // Payout
	RecordTypeOddsWin    RecordType = "O1" // Win/place/bracket odds
	RecordTypeWeight     RecordType = "WH" // Horse weight announcement
	RecordTypeWeather    RecordType = "WE" // Weather/track condition change
	RecordTypeAvoid      RecordType = "AV" // Scratch / exclusion
	RecordTypeTimeChange RecordType = "TC" // Start time change
	RecordTypeCourse     RecordType = "CC" // Course change
	RecordTypeUnknown    RecordType = ""   // Payload too short to carry a tag
)

// Record is one application-level record produced by a read cycle.
// Data holds the raw provider payload including the leading type tag;
// Timestamp is the provider-reported file timestamp when available,
// otherwise the time the record was read.
type Record struct {
	Type      RecordType
	Data      []byte
	Timestamp time.Time
}

// ParseRecordType extracts the record-type tag from a raw payload.
// Payloads shorter than the tag yield RecordTypeUnknown.
func ParseRecordType(data []byte) RecordType {
	if len(data) < RecordTypeIDLength {
		return RecordTypeUnknown
	}
	return RecordType(data[:RecordTypeIDLength])
}

// NewRecord builds a Record from a raw payload, extracting the type tag.
func NewRecord(data []byte, ts time.Time) Record {
	return Record{Type: ParseRecordType(data), Data: data, Timestamp: ts}
}

// EventKind categorizes realtime notifications pushed by the provider
// while an event watch is active.
type EventKind string

const (
	// EventPayout signals a payout confirmation or revision.
	EventPayout EventKind = "payout"

	// EventJockeyChange signals a rider substitution.
	EventJockeyChange EventKind = "jockey_change"

	// EventWeightAnnounce signals horse weight publication.
	EventWeightAnnounce EventKind = "weight_announce"

	// EventWeatherChange signals a weather or track condition change.
	EventWeatherChange EventKind = "weather_change"

	// EventCourseChange signals a course or distance change.
	EventCourseChange EventKind = "course_change"

	// EventStartTimeChange signals a start time change.
	EventStartTimeChange EventKind = "start_time_change"

	// EventAvoid signals a scratch or race exclusion.
	EventAvoid EventKind = "avoid"
)

// Event is one realtime notification. Key identifies the subject race or
// entry in provider key format (year/month/day/venue/race number); Raw
// carries the accompanying record payload when the provider supplies one.
type Event struct {
	Kind      EventKind
	Key       string
	Raw       []byte
	Timestamp time.Time
}

// Delivery is the envelope handed to event subscribers: either a
// successfully produced event or a typed error (for example an
// overflow notification standing in for dropped events).
type Delivery struct {
	Event Event
	Err   error
}

// Ok reports whether the delivery carries an event rather than an error.
func (d Delivery) Ok() bool { return d.Err == nil }

// RecordResult pairs one record with the error that ended the stream.
// Used by the channel-based realtime record stream, where exactly one
// of the fields is meaningful per element.
type RecordResult struct {
	Record Record
	Err    error
}
