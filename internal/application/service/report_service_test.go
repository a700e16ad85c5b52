package service

import (
	"testing"
	"time"

	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// March 2024 in Bucharest: local midnight of the 1st is 22:00 UTC the day
// before (+02:00), local midnight of April 1st is 21:00 UTC (+03:00 after
// the DST switch).
var (
	marchFromUTC = time.Date(2024, 2, 29, 22, 0, 0, 0, time.UTC)
	marchToUTC   = time.Date(2024, 3, 31, 21, 0, 0, 0, time.UTC)
)

func TestRangeStats_DeltaUndefinedWhenPreviousZero(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	repo := &fakeReportRepo{
		stats: func(from, _ time.Time) repository.NetStatsRow {
			if from.Equal(marchFromUTC) {
				return repository.NetStatsRow{NetTotal: 50000, JobCount: 2}
			}
			return repository.NetStatsRow{}
		},
	}
	svc := NewReportService(repo, orgRepo, "UTC")

	out, err := svc.RangeStats(ctx, &RangeStatsInput{
		From: "2024-03-01",
		To:   "2024-03-31",
		TZ:   "Europe/Bucharest",
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, out.Current.NetTotal)
	assert.Equal(t, int64(2), out.Current.JobCount)
	assert.Equal(t, 250.0, out.Current.AvgPerJob)

	// Previous period had no net at all: the change is undefined, which
	// must surface as null, not as zero or infinity.
	assert.Equal(t, 0.0, out.Previous.NetTotal)
	assert.Nil(t, out.DeltaPct)

	// The current window was queried with DST-correct UTC boundaries
	require.NotEmpty(t, repo.queried)
	assert.Equal(t, marchFromUTC, repo.queried[0][0])
	assert.Equal(t, marchToUTC, repo.queried[0][1])
}

func TestRangeStats_DeltaComputedAgainstPreviousPeriod(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	repo := &fakeReportRepo{
		stats: func(from, _ time.Time) repository.NetStatsRow {
			if from.Equal(marchFromUTC) {
				return repository.NetStatsRow{NetTotal: 30000, JobCount: 3}
			}
			return repository.NetStatsRow{NetTotal: 20000, JobCount: 2}
		},
	}
	svc := NewReportService(repo, orgRepo, "UTC")

	out, err := svc.RangeStats(ctx, &RangeStatsInput{
		From: "2024-03-01",
		To:   "2024-03-31",
		TZ:   "Europe/Bucharest",
	})
	require.NoError(t, err)

	require.NotNil(t, out.DeltaPct)
	assert.InDelta(t, 50.0, *out.DeltaPct, 1e-9)
}

func TestDailyBreakdown_OneQueryPerLocalDay(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	repo := &fakeReportRepo{
		stats: func(_, _ time.Time) repository.NetStatsRow {
			return repository.NetStatsRow{NetTotal: 10000, JobCount: 1}
		},
	}
	svc := NewReportService(repo, orgRepo, "UTC")

	buckets, err := svc.DailyBreakdown(ctx, &RangeStatsInput{
		From: "2024-03-05",
		To:   "2024-03-07",
		TZ:   "Europe/Bucharest",
	})
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-03-05", buckets[0].Date)
	assert.Equal(t, "2024-03-06", buckets[1].Date)
	assert.Equal(t, "2024-03-07", buckets[2].Date)

	// Each bucket is its own query over that local day's UTC window
	require.Len(t, repo.queried, 3)
	assert.Equal(t, time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC), repo.queried[0][0])
	assert.Equal(t, time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC), repo.queried[0][1])
	assert.Equal(t, repo.queried[0][1], repo.queried[1][0])
}

func TestDailyBreakdown_RejectsOverlongRange(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	svc := NewReportService(&fakeReportRepo{}, orgRepo, "UTC")

	_, err := svc.DailyBreakdown(ctx, &RangeStatsInput{
		From: "2020-01-01",
		To:   "2024-01-01",
		TZ:   "UTC",
	})
	require.Error(t, err)
}

func TestGetDashboard_FansOutAllCards(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	repo := &fakeReportRepo{
		stats: func(_, _ time.Time) repository.NetStatsRow {
			return repository.NetStatsRow{NetTotal: 10000, JobCount: 1}
		},
		counts: []repository.ProgressCountRow{
			{Progress: enum.JobProgressRepair, Count: 3},
			{Progress: enum.JobProgressFinished, Count: 12},
		},
	}
	svc := NewReportService(repo, orgRepo, "UTC")

	dashboard, err := svc.GetDashboard(ctx, "UTC")
	require.NoError(t, err)

	for name, card := range map[string]RangeComparison{
		"today":         dashboard.Today,
		"week":          dashboard.Week,
		"month_to_date": dashboard.MonthToDate,
		"year_to_date":  dashboard.YearToDate,
	} {
		assert.Equal(t, 100.0, card.Current.NetTotal, name)
		// Previous window is equally nonzero, so the delta is defined
		require.NotNil(t, card.DeltaPct, name)
		assert.InDelta(t, 0.0, *card.DeltaPct, 1e-9, name)
	}

	assert.Equal(t, int64(3), dashboard.JobsByProgress["repair"])
	assert.Equal(t, int64(12), dashboard.JobsByProgress["finished"])
}

func TestResolveLocation_FallsBackToOrgTimezone(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	orgRepo.org.Settings.Timezone = "Europe/Bucharest"
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, orgRepo, "UTC")

	// No tz in the request: boundaries must come out in the workshop's
	// own timezone, not UTC.
	_, err := svc.RangeStats(ctx, &RangeStatsInput{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)

	require.NotEmpty(t, repo.queried)
	assert.Equal(t, marchFromUTC, repo.queried[0][0])
}
