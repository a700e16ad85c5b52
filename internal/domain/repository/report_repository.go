package repository

import (
	"context"
	"time"

	"github.com/mpopescu/atelier-api/internal/domain/enum"
)

// NetStatsRow aggregates finished jobs created inside a UTC range:
// summed net ledger totals (cents) and the number of matching jobs.
type NetStatsRow struct {
	NetTotal int64
	JobCount int64
}

// NetBucketsRow splits a range's net total by item type, in cents.
type NetBucketsRow struct {
	Labor int64
	Parts int64
	Other int64
}

// ProgressCountRow represents how many jobs sit at one workflow stage
type ProgressCountRow struct {
	Progress enum.JobProgress
	Count    int64
}

// ReportRepository defines the interface for reporting aggregation queries.
// All ranges are half-open UTC intervals [from, to) produced from local
// calendar days by the caller; only jobs with progress == finished count.
type ReportRepository interface {
	// RangeNetStats returns the net total and job count for the range
	RangeNetStats(ctx context.Context, from, to time.Time) (NetStatsRow, error)

	// RangeNetBuckets returns the range's net total split by item type
	RangeNetBuckets(ctx context.Context, from, to time.Time) (NetBucketsRow, error)

	// CountJobsByProgress returns job counts per workflow stage,
	// regardless of creation date
	CountJobsByProgress(ctx context.Context) ([]ProgressCountRow, error)
}
