// Package pricing implements the deviz and net-ledger arithmetic. All money
// values are int64 cents; quantities and norm minutes are float64. Functions
// are pure: the shop's hourly labor rate is always passed in by the caller,
// never read from storage, so a job re-prices with the current rate on every
// read.
package pricing

import (
	"math"

	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
)

// Totals holds per-bucket deviz totals in cents.
type Totals struct {
	Labor    int64
	Parts    int64
	Other    int64
	Subtotal int64
}

// NetTotals holds per-bucket net ledger totals in cents.
type NetTotals struct {
	Labor int64
	Parts int64
	Other int64
	Total int64
}

// ItemSubtotal returns the effective subtotal of one deviz line in cents.
//
// Labor lines use LaborTotalOverride verbatim when set, otherwise
// rate * norm_minutes * quantity / 60. Part and other lines price as
// quantity * unit_price.
func ItemSubtotal(item entity.JobItem, laborRateCents int64) int64 {
	if item.ItemType == enum.JobItemTypeLabor {
		if item.LaborTotalOverride != nil {
			return *item.LaborTotalOverride
		}
		normMinutes := 0.0
		if item.NormMinutes != nil {
			normMinutes = *item.NormMinutes
		}
		return roundCents(float64(laborRateCents) * normMinutes * item.Quantity / 60)
	}
	return roundCents(item.Quantity * float64(item.UnitPrice))
}

// ComputeJobTotals accumulates item subtotals into labor/parts/other buckets.
func ComputeJobTotals(items []entity.JobItem, laborRateCents int64) Totals {
	var t Totals
	for _, item := range items {
		subtotal := ItemSubtotal(item, laborRateCents)
		switch item.ItemType {
		case enum.JobItemTypeLabor:
			t.Labor += subtotal
		case enum.JobItemTypePart:
			t.Parts += subtotal
		default:
			t.Other += subtotal
		}
	}
	t.Subtotal = t.Labor + t.Parts + t.Other
	return t
}

// GrandTotal applies the job discount to the subtotal. The discount is
// clamped so a total never goes negative.
func GrandTotal(t Totals, discountCents int64) int64 {
	grand := t.Subtotal - discountCents
	if grand < 0 {
		return 0
	}
	return grand
}

// PartProfitPerUnit returns the per-unit margin of a net part line in cents.
// A missing purchase cost means the profit is not yet known and reports as
// zero, never as the full sale price.
func PartProfitPerUnit(item entity.JobNetItem) int64 {
	if item.PurchaseUnitCost == nil {
		return 0
	}
	return item.SaleUnitPrice - *item.PurchaseUnitCost
}

// NetPartTotal derives the net total of a part line: per-unit profit times
// quantity, zero while the purchase cost is unknown.
func NetPartTotal(item entity.JobNetItem) int64 {
	if item.PurchaseUnitCost == nil {
		return 0
	}
	return roundCents(float64(item.SaleUnitPrice-*item.PurchaseUnitCost) * item.Quantity)
}

// ComputeNetTotals sums stored net totals into labor/parts/other buckets.
// Part lines persist their derived NetTotal at write time, so summation here
// never recomputes it.
func ComputeNetTotals(items []entity.JobNetItem) NetTotals {
	var t NetTotals
	for _, item := range items {
		switch item.ItemType {
		case enum.JobItemTypeLabor:
			t.Labor += item.NetTotal
		case enum.JobItemTypePart:
			t.Parts += item.NetTotal
		default:
			t.Other += item.NetTotal
		}
	}
	t.Total = t.Labor + t.Parts + t.Other
	return t
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
