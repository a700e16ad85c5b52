package service

import (
	"context"
	"math"
	"time"

	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/daterange"
	"golang.org/x/sync/errgroup"
)

// maxReportDays caps daily breakdowns; each day is its own query
const maxReportDays = 366

// ReportService aggregates the net ledger into money reports. Only finished
// jobs count, bucketed by the local calendar day they were created on.
type ReportService struct {
	reportRepo repository.ReportRepository
	orgRepo    repository.OrganizationRepository
	defaultTZ  string
}

// NewReportService creates a new report service. defaultTZ is the fallback
// timezone when neither the request nor the organization names one.
func NewReportService(reportRepo repository.ReportRepository, orgRepo repository.OrganizationRepository, defaultTZ string) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		orgRepo:    orgRepo,
		defaultTZ:  defaultTZ,
	}
}

// resolveLocation picks the reporting timezone: the explicit request
// parameter wins, then the workshop's configured timezone, then the
// service-wide default.
func (s *ReportService) resolveLocation(ctx context.Context, tz string) (*time.Location, error) {
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, apperror.NewFieldError("tz", "Unknown timezone")
		}
		return loc, nil
	}

	if orgID, ok := infraRepo.GetOrganizationID(ctx); ok {
		org, err := s.orgRepo.GetByID(ctx, orgID)
		if err != nil {
			return nil, err
		}
		if org != nil && org.Settings.Timezone != "" {
			if loc, err := time.LoadLocation(org.Settings.Timezone); err == nil {
				return loc, nil
			}
		}
	}

	if s.defaultTZ != "" {
		if loc, err := time.LoadLocation(s.defaultTZ); err == nil {
			return loc, nil
		}
	}

	return time.UTC, nil
}

// RangeSummary is one reporting window's aggregates in currency units
type RangeSummary struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	NetTotal  float64 `json:"net_total"`
	JobCount  int64   `json:"job_count"`
	AvgPerJob float64 `json:"avg_per_job"`
	Labor     float64 `json:"labor"`
	Parts     float64 `json:"parts"`
	Other     float64 `json:"other"`
}

// RangeComparison pairs a window with the equal-length window right before
// it. DeltaPct is nil when the previous window had no net — the change is
// undefined, not zero.
type RangeComparison struct {
	Current  RangeSummary `json:"current"`
	Previous RangeSummary `json:"previous"`
	DeltaPct *float64     `json:"delta_pct"`
}

// summarize runs the aggregate queries for one local-day period
func (s *ReportService) summarize(ctx context.Context, p daterange.Period) (RangeSummary, error) {
	from, to := p.UTCRange()

	stats, err := s.reportRepo.RangeNetStats(ctx, from, to)
	if err != nil {
		return RangeSummary{}, err
	}

	buckets, err := s.reportRepo.RangeNetBuckets(ctx, from, to)
	if err != nil {
		return RangeSummary{}, err
	}

	var avgCents int64
	if stats.JobCount > 0 {
		avgCents = int64(math.Round(float64(stats.NetTotal) / float64(stats.JobCount)))
	}

	return RangeSummary{
		From:      p.Start.Format("2006-01-02"),
		To:        p.End.Format("2006-01-02"),
		NetTotal:  fromCents(stats.NetTotal),
		JobCount:  stats.JobCount,
		AvgPerJob: fromCents(avgCents),
		Labor:     fromCents(buckets.Labor),
		Parts:     fromCents(buckets.Parts),
		Other:     fromCents(buckets.Other),
	}, nil
}

// compare summarizes a period and the equal-length period preceding it
func (s *ReportService) compare(ctx context.Context, p daterange.Period) (RangeComparison, error) {
	current, err := s.summarize(ctx, p)
	if err != nil {
		return RangeComparison{}, err
	}

	previous, err := s.summarize(ctx, p.Previous())
	if err != nil {
		return RangeComparison{}, err
	}

	return RangeComparison{
		Current:  current,
		Previous: previous,
		DeltaPct: deltaPct(current.NetTotal, previous.NetTotal),
	}, nil
}

// deltaPct returns the percentage change, or nil when there is no base to
// compare against
func deltaPct(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	d := (current - previous) / previous * 100
	return &d
}

// RangeStatsInput represents a custom reporting range request. From and To
// are inclusive "2006-01-02" dates interpreted in the resolved timezone.
type RangeStatsInput struct {
	From string
	To   string
	TZ   string
}

// RangeStats reports a custom date range against the equal-length period
// before it
func (s *ReportService) RangeStats(ctx context.Context, input *RangeStatsInput) (*RangeComparison, error) {
	loc, err := s.resolveLocation(ctx, input.TZ)
	if err != nil {
		return nil, err
	}

	period, err := daterange.Parse(input.From, input.To, loc.String())
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	comparison, err := s.compare(ctx, period)
	if err != nil {
		return nil, err
	}
	return &comparison, nil
}

// DailyBucket is one local calendar day's aggregates
type DailyBucket struct {
	Date     string  `json:"date"`
	NetTotal float64 `json:"net_total"`
	JobCount int64   `json:"job_count"`
}

// DailyBreakdown reports one bucket per local calendar day in the range,
// each day queried independently
func (s *ReportService) DailyBreakdown(ctx context.Context, input *RangeStatsInput) ([]DailyBucket, error) {
	loc, err := s.resolveLocation(ctx, input.TZ)
	if err != nil {
		return nil, err
	}

	period, err := daterange.Parse(input.From, input.To, loc.String())
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if period.Days() > maxReportDays {
		return nil, apperror.NewBadRequestError("Range too long for a daily breakdown")
	}

	days := period.SplitDays()
	buckets := make([]DailyBucket, 0, len(days))
	for _, day := range days {
		from, to := day.UTCRange()
		stats, err := s.reportRepo.RangeNetStats(ctx, from, to)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, DailyBucket{
			Date:     day.Label(),
			NetTotal: fromCents(stats.NetTotal),
			JobCount: stats.JobCount,
		})
	}

	return buckets, nil
}

// Dashboard is the landing-page snapshot: four compared windows plus the
// live board counts
type Dashboard struct {
	Today          RangeComparison  `json:"today"`
	Week           RangeComparison  `json:"week"`
	MonthToDate    RangeComparison  `json:"month_to_date"`
	YearToDate     RangeComparison  `json:"year_to_date"`
	JobsByProgress map[string]int64 `json:"jobs_by_progress"`
}

// GetDashboard computes the four standard windows concurrently. Each card
// compares against the equal-length window before it.
func (s *ReportService) GetDashboard(ctx context.Context, tz string) (*Dashboard, error) {
	loc, err := s.resolveLocation(ctx, tz)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dashboard := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)

	cards := []struct {
		period daterange.Period
		dest   *RangeComparison
	}{
		{daterange.Day(now, loc), &dashboard.Today},
		{daterange.Week(now, loc), &dashboard.Week},
		{daterange.MonthToDate(now, loc), &dashboard.MonthToDate},
		{daterange.YearToDate(now, loc), &dashboard.YearToDate},
	}
	for _, card := range cards {
		period, dest := card.period, card.dest
		g.Go(func() error {
			comparison, err := s.compare(gctx, period)
			if err != nil {
				return err
			}
			*dest = comparison
			return nil
		})
	}

	g.Go(func() error {
		rows, err := s.reportRepo.CountJobsByProgress(gctx)
		if err != nil {
			return err
		}
		counts := make(map[string]int64, len(rows))
		for _, row := range rows {
			counts[row.Progress.String()] = row.Count
		}
		dashboard.JobsByProgress = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}
