// Package daterange models closed intervals of local calendar days and their
// conversion to half-open UTC ranges for timestamp filtering. Reports take
// date boundaries in the organization's timezone; a row created at 23:30
// local time belongs to that local day even when its UTC date differs.
package daterange

import (
	"fmt"
	"time"
)

// Period is a closed interval of local calendar days in one timezone.
// Start and End are local midnights of the first and last day.
type Period struct {
	Start time.Time
	End   time.Time
	loc   *time.Location
}

// New builds a period from two timestamps, using only their calendar date in
// the given location.
func New(start, end time.Time, loc *time.Location) Period {
	s := midnight(start.In(loc))
	e := midnight(end.In(loc))
	return Period{Start: s, End: e, loc: loc}
}

// Parse builds a period from "2006-01-02" date strings and a timezone name.
func Parse(startDate, endDate, tz string) (Period, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Period{}, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	s, err := time.ParseInLocation("2006-01-02", startDate, loc)
	if err != nil {
		return Period{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	e, err := time.ParseInLocation("2006-01-02", endDate, loc)
	if err != nil {
		return Period{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}
	return Period{Start: s, End: e, loc: loc}, nil
}

// UTCRange returns the half-open UTC interval [from, to) covering the period:
// local midnight of the first day up to, excluding, local midnight of the day
// after the last day.
func (p Period) UTCRange() (time.Time, time.Time) {
	return p.Start.UTC(), p.End.AddDate(0, 0, 1).UTC()
}

// Days returns the period length in calendar days.
func (p Period) Days() int {
	days := 0
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Previous returns the immediately preceding period of equal length.
func (p Period) Previous() Period {
	days := p.Days()
	return Period{
		Start: p.Start.AddDate(0, 0, -days),
		End:   p.Start.AddDate(0, 0, -1),
		loc:   p.loc,
	}
}

// SplitDays breaks the period into consecutive one-day periods.
func (p Period) SplitDays() []Period {
	out := make([]Period, 0, p.Days())
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		out = append(out, Period{Start: d, End: d, loc: p.loc})
	}
	return out
}

// Label returns the period's first day as a date string.
func (p Period) Label() string {
	return p.Start.Format("2006-01-02")
}

// Day returns the one-day period containing t.
func Day(t time.Time, loc *time.Location) Period {
	return New(t, t, loc)
}

// Week returns the full Monday-to-Sunday calendar week containing t.
func Week(t time.Time, loc *time.Location) Period {
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7 // Monday = 0
	monday := midnight(local).AddDate(0, 0, -offset)
	return Period{Start: monday, End: monday.AddDate(0, 0, 6), loc: loc}
}

// MonthToDate returns the period from the first of t's month through t's day.
func MonthToDate(t time.Time, loc *time.Location) Period {
	local := t.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Period{Start: first, End: midnight(local), loc: loc}
}

// YearToDate returns the period from January 1st of t's year through t's day.
func YearToDate(t time.Time, loc *time.Location) Period {
	local := t.In(loc)
	first := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	return Period{Start: first, End: midnight(local), loc: loc}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
