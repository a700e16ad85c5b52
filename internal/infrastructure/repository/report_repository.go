package repository

import (
	"context"
	"time"

	"github.com/mpopescu/atelier-api/internal/domain/enum"
	domainRepo "github.com/mpopescu/atelier-api/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

// RangeNetStats sums the net ledger of finished jobs created inside
// [from, to). Finished jobs without net lines still count toward JobCount.
// A missing org context yields uuid.Nil, which matches no rows.
func (r *reportRepository) RangeNetStats(ctx context.Context, from, to time.Time) (domainRepo.NetStatsRow, error) {
	orgID, _ := GetOrganizationID(ctx)

	var row domainRepo.NetStatsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(ni.net_total), 0) as net_total,
			COUNT(DISTINCT j.id) as job_count
		FROM jobs j
		LEFT JOIN job_net_items ni ON ni.job_id = j.id AND ni.deleted_at IS NULL
		WHERE j.organization_id = ?
		AND j.progress = ?
		AND j.created_at >= ? AND j.created_at < ?
		AND j.deleted_at IS NULL
	`, orgID, enum.JobProgressFinished, from, to).Scan(&row).Error

	return row, err
}

// RangeNetBuckets splits the range's net total by item type
func (r *reportRepository) RangeNetBuckets(ctx context.Context, from, to time.Time) (domainRepo.NetBucketsRow, error) {
	orgID, _ := GetOrganizationID(ctx)

	var row domainRepo.NetBucketsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN ni.item_type = ? THEN ni.net_total ELSE 0 END), 0) as labor,
			COALESCE(SUM(CASE WHEN ni.item_type = ? THEN ni.net_total ELSE 0 END), 0) as parts,
			COALESCE(SUM(CASE WHEN ni.item_type = ? THEN ni.net_total ELSE 0 END), 0) as other
		FROM job_net_items ni
		JOIN jobs j ON j.id = ni.job_id
		WHERE j.organization_id = ?
		AND j.progress = ?
		AND j.created_at >= ? AND j.created_at < ?
		AND j.deleted_at IS NULL
		AND ni.deleted_at IS NULL
	`, enum.JobItemTypeLabor, enum.JobItemTypePart, enum.JobItemTypeOther,
		orgID, enum.JobProgressFinished, from, to).Scan(&row).Error

	return row, err
}

// CountJobsByProgress returns how many live jobs sit at each workflow
// stage, regardless of when they were created
func (r *reportRepository) CountJobsByProgress(ctx context.Context) ([]domainRepo.ProgressCountRow, error) {
	orgID, _ := GetOrganizationID(ctx)

	var rows []domainRepo.ProgressCountRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT progress, COUNT(*) as count
		FROM jobs
		WHERE organization_id = ?
		AND deleted_at IS NULL
		GROUP BY progress
		ORDER BY progress ASC
	`, orgID).Scan(&rows).Error

	return rows, err
}
