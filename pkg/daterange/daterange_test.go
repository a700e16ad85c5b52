package daterange

import (
	"testing"
	"time"
)

func TestUTCRange_BucharestMonthBoundary(t *testing.T) {
	// March 2024 in Bucharest spans a DST switch: +02:00 at the start of
	// the month, +03:00 at the end.
	p, err := Parse("2024-03-01", "2024-03-31", "Europe/Bucharest")
	if err != nil {
		t.Fatal(err)
	}

	from, to := p.UTCRange()

	if want := time.Date(2024, 2, 29, 22, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	if want := time.Date(2024, 3, 31, 21, 0, 0, 0, time.UTC); !to.Equal(want) {
		t.Errorf("to = %v, want %v", to, want)
	}

	// A job created one minute before local midnight on the last day is
	// inside the range; one created a minute past midnight is not.
	loc, _ := time.LoadLocation("Europe/Bucharest")
	inside := time.Date(2024, 3, 31, 23, 59, 0, 0, loc).UTC()
	outside := time.Date(2024, 4, 1, 0, 1, 0, 0, loc).UTC()

	if inside.Before(from) || !inside.Before(to) {
		t.Errorf("%v should fall inside [%v, %v)", inside, from, to)
	}
	if outside.Before(to) {
		t.Errorf("%v should fall outside [%v, %v)", outside, from, to)
	}
}

func TestSplitDays_BucketsByLocalDay(t *testing.T) {
	// Two UTC timestamps on the same UTC date land on different local
	// days at +02:00 when the later one crosses local midnight.
	loc := time.FixedZone("UTC+2", 2*3600)
	early := time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)

	p := New(
		time.Date(2024, 3, 5, 0, 0, 0, 0, loc),
		time.Date(2024, 3, 6, 0, 0, 0, 0, loc),
		loc,
	)

	days := p.SplitDays()
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}

	bucketOf := func(ts time.Time) string {
		for _, day := range days {
			from, to := day.UTCRange()
			if !ts.Before(from) && ts.Before(to) {
				return day.Label()
			}
		}
		return ""
	}

	if got := bucketOf(early); got != "2024-03-05" {
		t.Errorf("early bucket = %q, want 2024-03-05", got)
	}
	if got := bucketOf(late); got != "2024-03-06" {
		t.Errorf("late bucket = %q, want 2024-03-06", got)
	}
}

func TestPrevious_EqualLengthImmediatelyPreceding(t *testing.T) {
	p, err := Parse("2024-03-10", "2024-03-16", "UTC")
	if err != nil {
		t.Fatal(err)
	}

	prev := p.Previous()

	if got := prev.Days(); got != 7 {
		t.Errorf("prev.Days() = %d, want 7", got)
	}
	if want := "2024-03-03"; prev.Label() != want {
		t.Errorf("prev start = %s, want %s", prev.Label(), want)
	}
	if want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC); !prev.End.Equal(want) {
		t.Errorf("prev end = %v, want %v", prev.End, want)
	}
}

func TestWeek_StartsMonday(t *testing.T) {
	loc := time.UTC
	// 2024-03-13 is a Wednesday.
	p := Week(time.Date(2024, 3, 13, 15, 0, 0, 0, loc), loc)

	if want := "2024-03-11"; p.Label() != want {
		t.Errorf("week start = %s, want %s", p.Label(), want)
	}
	if got := p.Days(); got != 7 {
		t.Errorf("week length = %d, want 7", got)
	}
	if p.Previous().Label() != "2024-03-04" {
		t.Errorf("previous week start = %s, want 2024-03-04", p.Previous().Label())
	}
}

func TestMonthToDate_AndYearToDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, loc)

	mtd := MonthToDate(now, loc)
	if mtd.Label() != "2024-03-01" || mtd.Days() != 13 {
		t.Errorf("mtd = %s +%d days, want 2024-03-01 +13", mtd.Label(), mtd.Days())
	}

	ytd := YearToDate(now, loc)
	if ytd.Label() != "2024-01-01" || ytd.Days() != 73 {
		t.Errorf("ytd = %s +%d days, want 2024-01-01 +73", ytd.Label(), ytd.Days())
	}
}

func TestParse_RejectsInvertedRange(t *testing.T) {
	if _, err := Parse("2024-03-31", "2024-03-01", "UTC"); err == nil {
		t.Fatal("expected error for end before start")
	}
	if _, err := Parse("2024-03-01", "2024-03-31", "Not/AZone"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
