package dashboardapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const naiveLayout = "2006-01-02T15:04:05"

// Zone-less layouts keep their wall clock; see Timestamp.In.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp decodes the ISO-8601 variants the backend emits. Naive is set
// when the value carried no zone offset.
type Timestamp struct {
	time.Time
	Naive bool
}

func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}, nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return Timestamp{Time: parsed}, nil
	}

	for _, layout := range naiveLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return Timestamp{Time: parsed, Naive: true}, nil
		}
	}

	return Timestamp{}, fmt.Errorf("unsupported timestamp %q", value)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	if t.Naive {
		return json.Marshal(t.Time.Format(naiveLayout))
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// In returns the instant in loc. A naive value is read as wall-clock time in
// loc, so 14:05 stays 14:05 whatever the host zone is.
func (t Timestamp) In(loc *time.Location) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	if !t.Naive {
		return t.Time.In(loc)
	}

	year, month, day := t.Time.Date()
	hour, minute, sec := t.Time.Clock()
	return time.Date(year, month, day, hour, minute, sec, t.Time.Nanosecond(), loc)
}

// At is In for optional timestamps. It returns nil for a missing or zero value.
func (t *Timestamp) At(loc *time.Location) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}

	value := t.In(loc)
	return &value
}

// Flag accepts true/false as well as the 0/1 integers SQLite rows produce.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	switch raw {
	case "null", "":
		*f = false
		return nil
	}

	if b, err := strconv.ParseBool(raw); err == nil {
		*f = Flag(b)
		return nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid flag %s", string(data))
	}

	*f = n != 0
	return nil
}
