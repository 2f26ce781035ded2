package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
