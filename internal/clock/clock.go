// Package clock resolves instants to calendar days and provides the day
// arithmetic used by range queries, streak walks and trend bucketing. All
// arithmetic happens on date-only keys so DST transitions cannot skip or
// duplicate a day.
package clock

import (
	"time"

	"github.com/julianstephens/habitheat/internal/constants"
)

// DayKey identifies a calendar day (YYYY-MM-DD) in the user's local timezone.
type DayKey string

// Clock supplies the current instant. Injected so tests and replay can pin
// "today".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Fixed is a clock pinned to a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// LocalDay resolves an instant to the calendar day in the runtime's local
// timezone, regardless of the instant's own offset.
func LocalDay(t time.Time) DayKey {
	return DayKey(t.Local().Format(constants.DateFormat))
}

// Today is shorthand for LocalDay(c.Now()).
func Today(c Clock) DayKey {
	return LocalDay(c.Now())
}

// parse interprets a DayKey as midnight UTC. Date-only math in UTC is pure
// calendar arithmetic with no DST edges.
func (d DayKey) parse() time.Time {
	t, err := time.Parse(constants.DateFormat, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether the key is a well-formed YYYY-MM-DD date.
func (d DayKey) Valid() bool {
	_, err := time.Parse(constants.DateFormat, string(d))
	return err == nil
}

// Time returns the day at midnight in the given location.
func (d DayKey) Time(loc *time.Location) time.Time {
	t := d.parse()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays shifts the day by n calendar days (n may be negative).
func AddDays(d DayKey, n int) DayKey {
	return DayKey(d.parse().AddDate(0, 0, n).Format(constants.DateFormat))
}

// DaysBetween returns the number of calendar days from a to b (positive when
// b is later).
func DaysBetween(a, b DayKey) int {
	return int(b.parse().Sub(a.parse()).Hours() / 24)
}

// WeekStart returns the Sunday on or before the given day.
func WeekStart(d DayKey) DayKey {
	t := d.parse()
	return AddDays(d, -int(t.Weekday()))
}

// MonthStart returns the first day of the day's month.
func MonthStart(d DayKey) DayKey {
	t := d.parse()
	return DayKey(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat))
}

// MonthEnd returns the last day of the day's month.
func MonthEnd(d DayKey) DayKey {
	t := d.parse()
	return DayKey(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat))
}

// AddMonths shifts the day to the first of the month n months away. Used for
// month bucketing, so it always lands on day 1 and cannot overflow short
// months.
func AddMonths(d DayKey, n int) DayKey {
	t := d.parse()
	return DayKey(time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat))
}
