package api

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wall-clock format used on the wire.
const DateTimeLayout = "2006-01-02T15:04:05"

var dateTimeInputLayouts = []string{
	time.RFC3339Nano,
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateTime is a UTC timestamp serialised as YYYY-MM-DDTHH:MM:SS.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t, normalised to UTC with second precision.
func NewDateTime(t time.Time) DateTime {
	if t.IsZero() {
		return DateTime{}
	}
	return DateTime{Time: t.UTC().Truncate(time.Second)}
}

// ParseDateTime accepts RFC 3339 and the usual form-input layouts.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeInputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NewDateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid date-time %q", s)
}

func (d DateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(DateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		*d = DateTime{}
		return nil
	}
	v, err := ParseDateTime(*s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Value returns nil for the zero time so "required" rules treat it as missing.
func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}
