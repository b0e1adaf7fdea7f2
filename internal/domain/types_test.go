package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRecordType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want RecordType
	}{
		{"race record", []byte("RA20260825..."), RecordTypeRace},
		{"entry record", []byte("SE..."), RecordTypeEntry},
		{"unknown tag passes through", []byte("ZZrest"), RecordType("ZZ")},
		{"too short", []byte("R"), RecordTypeUnknown},
		{"empty", nil, RecordTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecordType(tt.data))
		})
	}
}

func TestNewRecord(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	rec := NewRecord([]byte("HR123"), ts)

	assert.Equal(t, RecordTypePayout, rec.Type)
	assert.Equal(t, []byte("HR123"), rec.Data)
	assert.Equal(t, ts, rec.Timestamp)
}

func TestDelivery_Ok(t *testing.T) {
	assert.True(t, Delivery{Event: Event{Kind: EventPayout}}.Ok())
	assert.False(t, Delivery{Err: assert.AnError}.Ok())
}
