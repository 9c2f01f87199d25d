package entities

import (
	"encoding/json"
	"time"
)

// ProgressRecord is the completion state of one section.
type ProgressRecord struct {
	Completed bool
	Timestamp time.Time
}

type progressRecordJSON struct {
	Completed bool  `json:"completed"`
	Timestamp int64 `json:"timestamp"` // unix milliseconds
}

// MarshalJSON encodes the timestamp as unix milliseconds, 0 when unset.
func (r ProgressRecord) MarshalJSON() ([]byte, error) {
	var millis int64
	if !r.Timestamp.IsZero() {
		millis = r.Timestamp.UnixMilli()
	}
	return json.Marshal(progressRecordJSON{
		Completed: r.Completed,
		Timestamp: millis,
	})
}

// UnmarshalJSON decodes a unix millisecond timestamp.
func (r *ProgressRecord) UnmarshalJSON(data []byte) error {
	var raw progressRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Completed = raw.Completed
	r.Timestamp = time.Time{}
	if raw.Timestamp != 0 {
		r.Timestamp = time.UnixMilli(raw.Timestamp)
	}
	return nil
}

// Progress maps section identifiers to their completion records.
type Progress map[string]ProgressRecord
