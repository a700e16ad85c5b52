package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPaid_SettlesAdvanceAtGrandTotal(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	jobRepo := newFakeJobRepo()
	svc := NewJobService(jobRepo, nil, nil, nil, nil, nil, nil, orgRepo)

	// 60 min at 100/h plus 2 x 50.00 parts, 20.00 discount -> grand 180.00
	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Schimb ulei", Quantity: 1, NormMinutes: floatPtr(60)},
		entity.JobItem{ItemType: enum.JobItemTypePart, Title: "Filtru", Quantity: 2, UnitPrice: 5000},
	)
	job.DiscountValue = 2000

	detail, err := svc.MarkPaid(ctx, job.ID, true)
	require.NoError(t, err)

	assert.True(t, detail.Job.IsPaid)
	assert.Equal(t, 180.0, detail.Totals.GrandTotal)
	// Marking paid overwrites the advance with the grand total
	assert.Equal(t, 180.0, detail.Totals.AdvancePaid)
	assert.Equal(t, 0.0, detail.Totals.BalanceDue)
	assert.Equal(t, int64(18000), jobRepo.jobs[job.ID].AdvancePaid)

	// Unmarking touches only the flag; the collected amount stays on record
	detail, err = svc.MarkPaid(ctx, job.ID, false)
	require.NoError(t, err)
	assert.False(t, detail.Job.IsPaid)
	assert.Equal(t, 180.0, detail.Totals.AdvancePaid)
}

func TestGetJob_RepricesWithCurrentLaborRate(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	jobRepo := newFakeJobRepo()
	svc := NewJobService(jobRepo, nil, nil, nil, nil, nil, nil, orgRepo)

	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Diagnoza", Quantity: 1, NormMinutes: floatPtr(60)},
	)

	detail, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, detail.Totals.Labor)

	// Raising the shop rate re-prices the same job on the next read;
	// nothing is snapshotted into the rows.
	orgRepo.org.Settings.LaborRatePerHour = 150

	detail, err = svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, detail.Totals.Labor)
}

func TestGetJob_OverrideWinsOverRate(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	jobRepo := newFakeJobRepo()
	svc := NewJobService(jobRepo, nil, nil, nil, nil, nil, nil, orgRepo)

	override := int64(25000)
	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Negociat", Quantity: 3, NormMinutes: floatPtr(90), LaborTotalOverride: &override},
	)

	detail, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, detail.Totals.Labor)
}

func TestUpdateProgress_AppendsHistory(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	jobRepo := newFakeJobRepo()
	progressRepo := &fakeProgressRepo{}
	svc := NewJobService(jobRepo, nil, progressRepo, nil, nil, nil, nil, orgRepo)

	job := seedJob(jobRepo, orgRepo)
	mechanic := uuid.New()

	updated, err := svc.UpdateProgress(ctx, &UpdateProgressInput{
		JobID:       job.ID,
		Progress:    enum.JobProgressDiagnosis,
		ChangedByID: mechanic,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.JobProgressDiagnosis, updated.Progress)

	history, err := svc.GetProgressHistory(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enum.JobProgressNotStarted, history[0].FromProgress)
	assert.Equal(t, enum.JobProgressDiagnosis, history[0].ToProgress)
	assert.Equal(t, mechanic, history[0].ChangedByID)

	// Re-sending the same stage is a no-op without an event
	_, err = svc.UpdateProgress(ctx, &UpdateProgressInput{
		JobID:       job.ID,
		Progress:    enum.JobProgressDiagnosis,
		ChangedByID: mechanic,
	})
	require.NoError(t, err)

	history, err = svc.GetProgressHistory(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// Backwards moves are allowed and logged like any other change
	_, err = svc.UpdateProgress(ctx, &UpdateProgressInput{
		JobID:       job.ID,
		Progress:    enum.JobProgressNotStarted,
		ChangedByID: mechanic,
	})
	require.NoError(t, err)

	history, err = svc.GetProgressHistory(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, enum.JobProgressDiagnosis, history[1].FromProgress)
	assert.Equal(t, enum.JobProgressNotStarted, history[1].ToProgress)
}

func TestRecordAdvance_AccumulatesPayments(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	jobRepo := newFakeJobRepo()
	svc := NewJobService(jobRepo, nil, nil, nil, nil, nil, nil, orgRepo)

	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypePart, Title: "Baterie", Quantity: 1, UnitPrice: 50000},
	)

	detail, err := svc.RecordAdvance(ctx, job.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, detail.Totals.AdvancePaid)
	assert.Equal(t, 400.0, detail.Totals.BalanceDue)

	detail, err = svc.RecordAdvance(ctx, job.ID, 50.50)
	require.NoError(t, err)
	assert.Equal(t, 150.5, detail.Totals.AdvancePaid)

	_, err = svc.RecordAdvance(ctx, job.ID, -5)
	require.Error(t, err)
}

func TestAddJobItem_SnapshotsNormMinutesFromOperation(t *testing.T) {
	orgRepo, ctx := newTestOrg(100)
	jobRepo := newFakeJobRepo()
	itemRepo := &fakeJobItemRepo{}
	operation := &entity.Operation{
		ID:             uuid.New(),
		OrganizationID: orgRepo.org.ID,
		Name:           "Schimb distribuție",
		NormMinutes:    240,
		IsActive:       true,
	}
	opRepo := &fakeOperationRepo{operations: map[uuid.UUID]*entity.Operation{operation.ID: operation}}
	svc := NewJobService(jobRepo, itemRepo, nil, nil, nil, nil, opRepo, orgRepo)

	job := seedJob(jobRepo, orgRepo)

	item, err := svc.AddJobItem(ctx, &AddJobItemInput{
		JobID: job.ID,
		Item:  JobItemInput{ItemType: enum.JobItemTypeLabor, OperationID: &operation.ID},
	})
	require.NoError(t, err)

	// Title and norm minutes come from the catalog entry at add time
	assert.Equal(t, "Schimb distribuție", item.Title)
	require.NotNil(t, item.NormMinutes)
	assert.Equal(t, 240.0, *item.NormMinutes)
	assert.Equal(t, 1.0, item.Quantity)

	// A later catalog edit must not reach back into existing lines
	operation.NormMinutes = 300
	stored, err := itemRepo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 240.0, *stored.NormMinutes)
}
