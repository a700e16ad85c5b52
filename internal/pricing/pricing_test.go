package pricing

import (
	"testing"

	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
)

func equalCents(t *testing.T, name string, got, want int64) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %d, want %d", name, got, want)
	}
}

func laborItem(normMinutes, qty float64) entity.JobItem {
	nm := normMinutes
	return entity.JobItem{
		ItemType:    enum.JobItemTypeLabor,
		Quantity:    qty,
		NormMinutes: &nm,
	}
}

func TestItemSubtotal_LaborOverrideWins(t *testing.T) {
	item := laborItem(90, 3)
	override := int64(12345)
	item.LaborTotalOverride = &override

	// Norm minutes, quantity and rate must all be ignored once an
	// override is present.
	equalCents(t, "subtotal", ItemSubtotal(item, 50000), 12345)
	equalCents(t, "subtotal at rate 0", ItemSubtotal(item, 0), 12345)
}

func TestItemSubtotal_LaborFromNormAndRate(t *testing.T) {
	// 90 minutes at 200.00/h, qty 2 -> 200 * 90 * 2 / 60 = 600.00
	equalCents(t, "subtotal", ItemSubtotal(laborItem(90, 2), 20000), 60000)

	// Rate zero prices labor at exactly zero.
	equalCents(t, "subtotal at rate 0", ItemSubtotal(laborItem(90, 2), 0), 0)

	// Missing norm minutes behaves as zero.
	item := entity.JobItem{ItemType: enum.JobItemTypeLabor, Quantity: 1}
	equalCents(t, "subtotal without norm", ItemSubtotal(item, 20000), 0)
}

func TestItemSubtotal_PartAndOther(t *testing.T) {
	part := entity.JobItem{ItemType: enum.JobItemTypePart, Quantity: 2.5, UnitPrice: 1999}
	equalCents(t, "part subtotal", ItemSubtotal(part, 20000), 4998)

	other := entity.JobItem{ItemType: enum.JobItemTypeOther, Quantity: 1, UnitPrice: 5000}
	equalCents(t, "other subtotal", ItemSubtotal(other, 20000), 5000)
}

func TestGrandTotal_DiscountClampsAtZero(t *testing.T) {
	totals := Totals{Labor: 5000, Parts: 3000, Other: 0, Subtotal: 8000}

	equalCents(t, "no discount", GrandTotal(totals, 0), 8000)
	equalCents(t, "partial discount", GrandTotal(totals, 3000), 5000)
	equalCents(t, "exact discount", GrandTotal(totals, 8000), 0)
	equalCents(t, "excess discount", GrandTotal(totals, 10000), 0)
}

func TestNetPartTotal_UnknownCostIsZero(t *testing.T) {
	item := entity.JobNetItem{
		ItemType:      enum.JobItemTypePart,
		Quantity:      4,
		SaleUnitPrice: 2500,
	}

	// Cost not yet known: conservatively zero, never the full sale price.
	equalCents(t, "net without cost", NetPartTotal(item), 0)
	equalCents(t, "profit without cost", PartProfitPerUnit(item), 0)

	cost := int64(1500)
	item.PurchaseUnitCost = &cost
	equalCents(t, "net with cost", NetPartTotal(item), 4000)
	equalCents(t, "profit with cost", PartProfitPerUnit(item), 1000)
}

func TestNetPartTotal_NegativeMarginStaysNegative(t *testing.T) {
	cost := int64(3000)
	item := entity.JobNetItem{
		ItemType:         enum.JobItemTypePart,
		Quantity:         2,
		SaleUnitPrice:    2500,
		PurchaseUnitCost: &cost,
	}

	// Selling below cost is a real loss; only the unknown-cost case is
	// forced to zero.
	equalCents(t, "net with loss", NetPartTotal(item), -1000)
	equalCents(t, "profit with loss", PartProfitPerUnit(item), -500)
}

func TestComputeNetTotals_SumsStoredTotalsPerBucket(t *testing.T) {
	items := []entity.JobNetItem{
		{ItemType: enum.JobItemTypeLabor, NetTotal: 10000},
		{ItemType: enum.JobItemTypePart, NetTotal: 4000},
		{ItemType: enum.JobItemTypePart, NetTotal: -1000},
		{ItemType: enum.JobItemTypeOther, NetTotal: 500},
	}

	totals := ComputeNetTotals(items)

	equalCents(t, "labor", totals.Labor, 10000)
	equalCents(t, "parts", totals.Parts, 3000)
	equalCents(t, "other", totals.Other, 500)
	equalCents(t, "total", totals.Total, 13500)
}

func TestComputeJobTotals_DevizExample(t *testing.T) {
	// One labor line (60 norm minutes, qty 1) at 100.00/h and one part
	// line (qty 2 at 50.00), with a 20.00 discount.
	items := []entity.JobItem{
		laborItem(60, 1),
		{ItemType: enum.JobItemTypePart, Quantity: 2, UnitPrice: 5000},
	}

	totals := ComputeJobTotals(items, 10000)

	equalCents(t, "labor", totals.Labor, 10000)
	equalCents(t, "parts", totals.Parts, 10000)
	equalCents(t, "other", totals.Other, 0)
	equalCents(t, "subtotal", totals.Subtotal, 20000)
	equalCents(t, "grand", GrandTotal(totals, 2000), 18000)
}
