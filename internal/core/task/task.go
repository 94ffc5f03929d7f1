// Package task defines the checklist task model and the line grammar used to
// read tasks out of a checklist document.
package task

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	// allDayMarker fills the time slot of an identity key for tasks without a time.
	allDayMarker = "allday"
)

// Date is a calendar date without a time-of-day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string and rejects dates that do not exist on
// the calendar (2024-02-30, 2024-13-01).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddDays returns the date n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a 24-hour wall clock time with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an HH:MM string. Hours above 23 and minutes above 59 are rejected.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Valid reports whether c is a real time of day.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// Offset returns the duration from midnight to c.
func (c Clock) Offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Task is one checklist entry. Tasks are rebuilt from the document on every
// polling cycle and never mutated after parsing.
type Task struct {
	Completed   bool   `json:"completed"`
	Date        Date   `json:"date"`
	Time        *Clock `json:"time,omitempty"`
	Description string `json:"description"`

	// Source and Line locate the task in its document. They are informational
	// and take no part in Key.
	Source string `json:"source,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// AllDay reports whether the task has no time-of-day.
func (t Task) AllDay() bool {
	return t.Time == nil
}

// DateTime combines the task date and time into an instant in loc. It returns
// false for all-day tasks and for tasks carrying an impossible clock value.
func (t Task) DateTime(loc *time.Location) (time.Time, bool) {
	if t.Time == nil || !t.Time.Valid() {
		return time.Time{}, false
	}
	return time.Date(t.Date.Year, t.Date.Month, t.Date.Day, t.Time.Hour, t.Time.Minute, 0, 0, loc), true
}

// TimeLabel returns "HH:MM" for timed tasks and "all-day" otherwise.
func (t Task) TimeLabel() string {
	if t.Time == nil {
		return "all-day"
	}
	return t.Time.String()
}

// Key returns the notification identity of the task, derived only from the
// date, the time (or its absence) and the description.
//
// The date is fixed width and the time slot is either "HH:MM" or "allday", so
// distinct triples always produce distinct keys.
func (t Task) Key() string {
	slot := allDayMarker
	if t.Time != nil {
		slot = t.Time.String()
	}
	return t.Date.String() + "-" + slot + "-" + t.Description
}

// String renders the task as "[x] 2024-05-01 14:30 : description".
func (t Task) String() string {
	status := "[ ]"
	if t.Completed {
		status = "[x]"
	}
	if t.Time == nil {
		return fmt.Sprintf("%s %s : %s", status, t.Date, t.Description)
	}
	return fmt.Sprintf("%s %s %s : %s", status, t.Date, t.Time, t.Description)
}
