package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the wire format of a due date
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
// It is stored as UTC midnight.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts "YYYY-MM-DD" or a full RFC3339 timestamp
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t: t}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t.UTC()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// IsZero reports whether the date is unset.
// Imported records may carry "" for a missing due date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns the date as UTC midnight
func (d Date) Time() time.Time { return d.t }

// Before reports whether the date's UTC midnight is before t
func (d Date) Before(t time.Time) bool { return d.t.Before(t) }

// Equal reports whether both values are the same calendar date
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

func (d Date) String() string { return d.t.Format(DateLayout) }

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if strings.TrimSpace(node.Value) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
