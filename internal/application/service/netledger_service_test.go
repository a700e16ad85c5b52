package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/pkg/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNetLedgerFixture(laborRatePerHour float64) (*NetLedgerService, *fakeJobRepo, *fakeNetItemRepo, *fakeOrgRepo, context.Context) {
	orgRepo, ctx := newTestOrg(laborRatePerHour)
	jobRepo := newFakeJobRepo()
	netRepo := &fakeNetItemRepo{}
	svc := NewNetLedgerService(netRepo, jobRepo, orgRepo)
	return svc, jobRepo, netRepo, orgRepo, ctx
}

func seedJob(jobRepo *fakeJobRepo, orgRepo *fakeOrgRepo, items ...entity.JobItem) *entity.Job {
	job := &entity.Job{
		ID:             uuid.New(),
		OrganizationID: orgRepo.org.ID,
		Number:         "JOB-TEST0001",
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].JobID = job.ID
		items[i].Position = i
	}
	job.Items = items
	jobRepo.jobs[job.ID] = job
	return job
}

func TestImportLabor_CopiesSubtotalsIntoLedger(t *testing.T) {
	svc, jobRepo, _, orgRepo, ctx := newNetLedgerFixture(100)

	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Schimb ulei", Quantity: 1, NormMinutes: floatPtr(60)},
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Verificare frâne", Quantity: 2, NormMinutes: floatPtr(90)},
		entity.JobItem{ItemType: enum.JobItemTypePart, Title: "Filtru ulei", Quantity: 1, UnitPrice: 4500},
	)

	result, err := svc.ImportLabor(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Imported)
	assert.Equal(t, int64(0), result.Skipped)

	ledger, err := svc.ListNetItems(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, ledger.Items, 2)

	// 60 min at 100/h -> 100.00; the net total is the subtotal verbatim
	first := ledger.Items[0]
	assert.Equal(t, int64(10000), first.NetTotal)
	assert.Equal(t, int64(10000), first.SaleUnitPrice)
	require.NotNil(t, first.SourceJobItemID)
	assert.Equal(t, job.Items[0].ID, *first.SourceJobItemID)
	assert.Equal(t, normalize.TitleKey("Schimb ulei"), first.TitleKey)

	// 90 min at 100/h, qty 2 -> 300.00 total, 150.00 per unit
	second := ledger.Items[1]
	assert.Equal(t, int64(30000), second.NetTotal)
	assert.Equal(t, int64(15000), second.SaleUnitPrice)

	assert.Equal(t, 400.0, ledger.Totals.Labor)
	assert.Equal(t, 400.0, ledger.Totals.Total)
}

func TestImportLabor_ReRunIsIdempotent(t *testing.T) {
	svc, jobRepo, _, orgRepo, ctx := newNetLedgerFixture(100)

	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Schimb ulei", Quantity: 1, NormMinutes: floatPtr(60)},
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Distribuție", Quantity: 1, NormMinutes: floatPtr(240)},
	)

	first, err := svc.ImportLabor(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Imported)

	second, err := svc.ImportLabor(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.Imported)
	assert.Equal(t, int64(2), second.Skipped)

	ledger, err := svc.ListNetItems(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, ledger.Items, 2)
}

func TestImportParts_PrefillsCostFromHistory(t *testing.T) {
	svc, jobRepo, netRepo, orgRepo, ctx := newNetLedgerFixture(100)

	// A part costed on an earlier job, entered with diacritics. The new
	// deviz spells it differently; the normalized key must still match.
	cost := int64(3200)
	netRepo.items = append(netRepo.items, &entity.JobNetItem{
		ID:               uuid.New(),
		OrganizationID:   orgRepo.org.ID,
		JobID:            uuid.New(),
		ItemType:         enum.JobItemTypePart,
		Title:            "Plăcuțe frână",
		TitleKey:         normalize.TitleKey("Plăcuțe frână"),
		Quantity:         1,
		SaleUnitPrice:    4000,
		PurchaseUnitCost: &cost,
		NetTotal:         800,
	})

	job := seedJob(jobRepo, orgRepo,
		entity.JobItem{ItemType: enum.JobItemTypePart, Title: "PLACUTE  FRANA", Quantity: 2, UnitPrice: 4500},
		entity.JobItem{ItemType: enum.JobItemTypePart, Title: "Bujii", Quantity: 4, UnitPrice: 2000},
		entity.JobItem{ItemType: enum.JobItemTypeLabor, Title: "Montaj", Quantity: 1, NormMinutes: floatPtr(30)},
	)

	result, err := svc.ImportParts(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Imported)

	ledger, err := svc.ListNetItems(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, ledger.Items, 2)

	pads := ledger.Items[0]
	require.NotNil(t, pads.PurchaseUnitCost)
	assert.Equal(t, int64(3200), *pads.PurchaseUnitCost)
	// (45.00 - 32.00) * 2 = 26.00
	assert.Equal(t, int64(2600), pads.NetTotal)

	// Never costed before: cost unknown, net conservatively zero
	plugs := ledger.Items[1]
	assert.Nil(t, plugs.PurchaseUnitCost)
	assert.Equal(t, int64(0), plugs.NetTotal)

	rerun, err := svc.ImportParts(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rerun.Imported)
	assert.Equal(t, int64(2), rerun.Skipped)
}

func TestAddNetItem_PartDerivesTotalFromCost(t *testing.T) {
	svc, jobRepo, _, orgRepo, ctx := newNetLedgerFixture(100)
	job := seedJob(jobRepo, orgRepo)

	item, err := svc.AddNetItem(ctx, &AddNetItemInput{
		JobID:            job.ID,
		ItemType:         enum.JobItemTypePart,
		Title:            "Filtru aer",
		Quantity:         2,
		SaleUnitPrice:    45,
		PurchaseUnitCost: floatPtr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), item.NetTotal)

	// Labor takes the staff-entered net directly
	labor, err := svc.AddNetItem(ctx, &AddNetItemInput{
		JobID:    job.ID,
		ItemType: enum.JobItemTypeLabor,
		Title:    "Manoperă",
		Quantity: 1,
		NetTotal: floatPtr(120),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), labor.NetTotal)
}

func TestUpdateNetItem_ClearingCostZeroesPartTotal(t *testing.T) {
	svc, jobRepo, _, orgRepo, ctx := newNetLedgerFixture(100)
	job := seedJob(jobRepo, orgRepo)

	item, err := svc.AddNetItem(ctx, &AddNetItemInput{
		JobID:            job.ID,
		ItemType:         enum.JobItemTypePart,
		Title:            "Filtru aer",
		Quantity:         2,
		SaleUnitPrice:    45,
		PurchaseUnitCost: floatPtr(30),
	})
	require.NoError(t, err)
	require.Equal(t, int64(3000), item.NetTotal)

	updated, err := svc.UpdateNetItem(ctx, &UpdateNetItemInput{
		JobID:             job.ID,
		ItemID:            item.ID,
		ClearPurchaseCost: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.PurchaseUnitCost)
	assert.Equal(t, int64(0), updated.NetTotal)
}

func TestAddNetItem_UnknownJobIsNotFound(t *testing.T) {
	svc, _, _, _, ctx := newNetLedgerFixture(100)

	_, err := svc.AddNetItem(ctx, &AddNetItemInput{
		JobID:    uuid.New(),
		ItemType: enum.JobItemTypePart,
		Title:    "Filtru aer",
	})
	require.Error(t, err)
}
