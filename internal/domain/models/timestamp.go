// internal/domain/models/timestamp.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayout matches ISO-8601 timestamps written without a zone offset,
// as found in data files produced by earlier versions of the service.
// Such values are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a UTC instant stored as an RFC 3339 string.
type Timestamp struct {
	time.Time
}

// Now returns the current instant in UTC.
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC()}
}

// MarshalJSON writes the instant in RFC 3339 with nanosecond precision.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339, naive ISO-8601 and null.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}
	parsed, err := time.Parse(naiveLayout, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}
