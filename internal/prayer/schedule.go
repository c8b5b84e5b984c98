// Package prayer provides the prayer-time trigger engine: the daily schedule
// cache, day rollover detection, minute matching and effect dispatch.
package prayer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Name identifies one of the five daily prayers.
type Name string

// Prayer names in their fixed daily order.
const (
	Subuh   Name = "Subuh"
	Dzuhur  Name = "Dzuhur"
	Ashar   Name = "Ashar"
	Maghrib Name = "Maghrib"
	Isya    Name = "Isya"
)

// TestPrayer is the synthetic name used by test notifications.
const TestPrayer Name = "Test"

// Order is the fixed scan order used for matching and tie-breaking.
var Order = []Name{Subuh, Dzuhur, Ashar, Maghrib, Isya}

// ErrIncompleteSchedule is returned when a schedule is missing a prayer.
var ErrIncompleteSchedule = errors.New("schedule is missing a prayer time")

// TimeOfDay is a wall-clock time at minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayOf truncates t to its minute of the day.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "15:04". Anything after the first space is ignored,
// so provider values like "04:35 (WIB)" parse as 04:35.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i != -1 {
		s = s[:i]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parsing time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the time as "15:04".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// Date is a calendar day in the local time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as "2006-01-02".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// At returns the instant of tod on d in loc.
func (d Date) At(tod TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, tod.Hour, tod.Minute, 0, 0, loc)
}

// Entry is one prayer time of a schedule.
type Entry struct {
	Name Name      `json:"name"`
	Time TimeOfDay `json:"time"`
}

// Schedule is the immutable set of prayer times for a single date.
// It must never be consulted for any other date.
type Schedule struct {
	date    Date
	entries []Entry
}

// NewSchedule builds a schedule for date. times must contain all five
// prayers; entries are stored in Order.
func NewSchedule(date Date, times map[Name]TimeOfDay) (*Schedule, error) {
	entries := make([]Entry, 0, len(Order))
	for _, name := range Order {
		tod, ok := times[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteSchedule, name)
		}
		entries = append(entries, Entry{Name: name, Time: tod})
	}
	return &Schedule{date: date, entries: entries}, nil
}

// Date returns the day the schedule is valid for.
func (s *Schedule) Date() Date {
	return s.date
}

// Entries returns a copy of the entries in prayer order.
func (s *Schedule) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the time of the named prayer.
func (s *Schedule) Lookup(name Name) (TimeOfDay, bool) {
	for _, e := range s.entries {
		if e.Name == name {
			return e.Time, true
		}
	}
	return TimeOfDay{}, false
}

// Next returns the first entry strictly after tod, if any remain today.
func (s *Schedule) Next(tod TimeOfDay) (Entry, bool) {
	var best Entry
	found := false
	for _, e := range s.entries {
		if !tod.Before(e.Time) {
			continue
		}
		if !found || e.Time.Before(best.Time) {
			best = e
			found = true
		}
	}
	return best, found
}

// MarshalText encodes the time as "15:04".
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes "15:04".
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText encodes the date as "2006-01-02".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "2006-01-02".
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
