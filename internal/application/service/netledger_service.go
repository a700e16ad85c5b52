package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	"github.com/mpopescu/atelier-api/internal/pricing"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/normalize"
)

// NetLedgerService handles the internal profit ledger. Nothing here is ever
// shown to customers; the deviz and the ledger are separate books that only
// meet through the import operations.
type NetLedgerService struct {
	netItemRepo repository.JobNetItemRepository
	jobRepo     repository.JobRepository
	orgRepo     repository.OrganizationRepository
}

// NewNetLedgerService creates a new net ledger service
func NewNetLedgerService(
	netItemRepo repository.JobNetItemRepository,
	jobRepo repository.JobRepository,
	orgRepo repository.OrganizationRepository,
) *NetLedgerService {
	return &NetLedgerService{
		netItemRepo: netItemRepo,
		jobRepo:     jobRepo,
		orgRepo:     orgRepo,
	}
}

// NetLedgerTotals carries per-bucket net profit in currency units
type NetLedgerTotals struct {
	Labor float64 `json:"labor"`
	Parts float64 `json:"parts"`
	Other float64 `json:"other"`
	Total float64 `json:"total"`
}

// NetItemProfit is the computed per-unit margin of one part line
type NetItemProfit struct {
	ItemID        uuid.UUID `json:"item_id"`
	ProfitPerUnit float64   `json:"profit_per_unit"`
}

// NetLedger bundles a job's net lines with their totals
type NetLedger struct {
	Items       []entity.JobNetItem `json:"items"`
	Totals      NetLedgerTotals     `json:"totals"`
	PartProfits []NetItemProfit     `json:"part_profits"`
}

// getJob loads a job through the org scope; net operations all gate on it
func (s *NetLedgerService) getJob(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}
	return job, nil
}

// ListNetItems returns a job's ledger lines with computed totals and the
// per-unit part margins
func (s *NetLedgerService) ListNetItems(ctx context.Context, jobID uuid.UUID) (*NetLedger, error) {
	if _, err := s.getJob(ctx, jobID); err != nil {
		return nil, err
	}

	items, err := s.netItemRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeNetTotals(items)

	partProfits := make([]NetItemProfit, 0)
	for _, item := range items {
		if item.ItemType != enum.JobItemTypePart {
			continue
		}
		partProfits = append(partProfits, NetItemProfit{
			ItemID:        item.ID,
			ProfitPerUnit: fromCents(pricing.PartProfitPerUnit(item)),
		})
	}

	return &NetLedger{
		Items: items,
		Totals: NetLedgerTotals{
			Labor: fromCents(totals.Labor),
			Parts: fromCents(totals.Parts),
			Other: fromCents(totals.Other),
			Total: fromCents(totals.Total),
		},
		PartProfits: partProfits,
	}, nil
}

// AddNetItemInput represents the add net line input. Money comes in as
// currency units. NetTotal applies to labor and other lines only; part lines
// always derive theirs from sale price, purchase cost and quantity.
type AddNetItemInput struct {
	JobID            uuid.UUID
	ItemType         enum.JobItemType
	Title            string
	Quantity         float64
	SaleUnitPrice    float64
	PurchaseUnitCost *float64
	NormMinutes      *float64
	NetTotal         *float64
}

// AddNetItem appends a manual ledger line to a job
func (s *NetLedgerService) AddNetItem(ctx context.Context, input *AddNetItemInput) (*entity.JobNetItem, error) {
	job, err := s.getJob(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	if !input.ItemType.Valid() {
		return nil, apperror.NewFieldError("item_type", "Unknown item type")
	}
	if input.Title == "" {
		return nil, apperror.NewFieldError("title", "Title is required")
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperror.NewFieldError("quantity", "Quantity cannot be negative")
	}
	if input.SaleUnitPrice < 0 {
		return nil, apperror.NewFieldError("sale_unit_price", "Sale price cannot be negative")
	}
	if input.PurchaseUnitCost != nil && *input.PurchaseUnitCost < 0 {
		return nil, apperror.NewFieldError("purchase_unit_cost", "Purchase cost cannot be negative")
	}

	position, err := s.netItemRepo.NextPosition(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	item := &entity.JobNetItem{
		OrganizationID: job.OrganizationID,
		JobID:          input.JobID,
		ItemType:       input.ItemType,
		Title:          input.Title,
		TitleKey:       normalize.TitleKey(input.Title),
		Quantity:       quantity,
		SaleUnitPrice:  toCents(input.SaleUnitPrice),
		NormMinutes:    input.NormMinutes,
		Position:       position,
	}
	if input.PurchaseUnitCost != nil {
		cost := toCents(*input.PurchaseUnitCost)
		item.PurchaseUnitCost = &cost
	}

	if input.ItemType == enum.JobItemTypePart {
		item.NetTotal = pricing.NetPartTotal(*item)
	} else if input.NetTotal != nil {
		item.NetTotal = toCents(*input.NetTotal)
	}

	if err := s.netItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateNetItemInput represents the update net line input. ClearPurchaseCost
// marks a part's cost unknown again, zeroing its derived total.
type UpdateNetItemInput struct {
	JobID             uuid.UUID
	ItemID            uuid.UUID
	Title             *string
	Quantity          *float64
	SaleUnitPrice     *float64
	PurchaseUnitCost  *float64
	ClearPurchaseCost bool
	NormMinutes       *float64
	NetTotal          *float64
}

// UpdateNetItem updates a ledger line. Part totals are rederived on every
// write so sale, cost and quantity edits can never drift from the total.
func (s *NetLedgerService) UpdateNetItem(ctx context.Context, input *UpdateNetItemInput) (*entity.JobNetItem, error) {
	if _, err := s.getJob(ctx, input.JobID); err != nil {
		return nil, err
	}

	item, err := s.netItemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.JobID != input.JobID {
		return nil, apperror.NewNotFoundError("Net item")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperror.NewFieldError("title", "Title is required")
		}
		item.Title = *input.Title
		item.TitleKey = normalize.TitleKey(*input.Title)
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, apperror.NewFieldError("quantity", "Quantity must be positive")
		}
		item.Quantity = *input.Quantity
	}
	if input.SaleUnitPrice != nil {
		if *input.SaleUnitPrice < 0 {
			return nil, apperror.NewFieldError("sale_unit_price", "Sale price cannot be negative")
		}
		item.SaleUnitPrice = toCents(*input.SaleUnitPrice)
	}
	if input.ClearPurchaseCost {
		item.PurchaseUnitCost = nil
	} else if input.PurchaseUnitCost != nil {
		if *input.PurchaseUnitCost < 0 {
			return nil, apperror.NewFieldError("purchase_unit_cost", "Purchase cost cannot be negative")
		}
		cost := toCents(*input.PurchaseUnitCost)
		item.PurchaseUnitCost = &cost
	}
	if input.NormMinutes != nil {
		item.NormMinutes = input.NormMinutes
	}

	if item.ItemType == enum.JobItemTypePart {
		item.NetTotal = pricing.NetPartTotal(*item)
	} else if input.NetTotal != nil {
		item.NetTotal = toCents(*input.NetTotal)
	}

	if err := s.netItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteNetItem deletes a ledger line
func (s *NetLedgerService) DeleteNetItem(ctx context.Context, jobID, itemID uuid.UUID) error {
	if _, err := s.getJob(ctx, jobID); err != nil {
		return err
	}

	item, err := s.netItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil || item.JobID != jobID {
		return apperror.NewNotFoundError("Net item")
	}

	return s.netItemRepo.Delete(ctx, itemID)
}

// ImportResult reports how an import run went. Skipped lines were already
// imported by a previous run.
type ImportResult struct {
	Imported int64 `json:"imported"`
	Skipped  int64 `json:"skipped"`
}

// ImportLabor copies the job's labor deviz lines into the ledger, one net
// line per source item with the computed labor subtotal as its net total.
// Re-running skips lines already imported instead of duplicating them.
func (s *NetLedgerService) ImportLabor(ctx context.Context, jobID uuid.UUID) (*ImportResult, error) {
	job, err := s.jobRepo.GetWithItems(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	org, err := s.orgRepo.GetByID(ctx, job.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.ErrNoOrganization
	}
	rate := org.Settings.LaborRateCents()

	position, err := s.netItemRepo.NextPosition(ctx, jobID)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.JobNetItem, 0)
	for i := range job.Items {
		item := job.Items[i]
		if item.ItemType != enum.JobItemTypeLabor {
			continue
		}

		subtotal := pricing.ItemSubtotal(item, rate)
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		sourceID := item.ID
		lines = append(lines, entity.JobNetItem{
			OrganizationID:  job.OrganizationID,
			JobID:           jobID,
			ItemType:        enum.JobItemTypeLabor,
			Title:           item.Title,
			TitleKey:        normalize.TitleKey(item.Title),
			Quantity:        quantity,
			SaleUnitPrice:   int64(math.Round(float64(subtotal) / quantity)),
			NormMinutes:     item.NormMinutes,
			NetTotal:        subtotal,
			SourceJobItemID: &sourceID,
			Position:        position,
		})
		position++
	}

	if len(lines) == 0 {
		return &ImportResult{}, nil
	}

	imported, err := s.netItemRepo.UpsertIgnoreBySource(ctx, lines)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported: imported,
		Skipped:  int64(len(lines)) - imported,
	}, nil
}

// ImportParts copies the job's part deviz lines into the ledger. The sale
// price comes from the deviz; the purchase cost is pre-filled from the most
// recent ledger line with the same normalized title, and stays unknown when
// the part has never been costed before. Re-running skips existing lines.
func (s *NetLedgerService) ImportParts(ctx context.Context, jobID uuid.UUID) (*ImportResult, error) {
	job, err := s.jobRepo.GetWithItems(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	position, err := s.netItemRepo.NextPosition(ctx, jobID)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.JobNetItem, 0)
	for i := range job.Items {
		item := job.Items[i]
		if item.ItemType != enum.JobItemTypePart {
			continue
		}

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		titleKey := normalize.TitleKey(item.Title)

		sourceID := item.ID
		line := entity.JobNetItem{
			OrganizationID:  job.OrganizationID,
			JobID:           jobID,
			ItemType:        enum.JobItemTypePart,
			Title:           item.Title,
			TitleKey:        titleKey,
			Quantity:        quantity,
			SaleUnitPrice:   item.UnitPrice,
			SourceJobItemID: &sourceID,
			Position:        position,
		}
		position++

		prior, err := s.netItemRepo.LatestPartCostByTitleKey(ctx, titleKey)
		if err != nil {
			return nil, err
		}
		if prior != nil && prior.PurchaseUnitCost != nil {
			cost := *prior.PurchaseUnitCost
			line.PurchaseUnitCost = &cost
		}

		line.NetTotal = pricing.NetPartTotal(line)
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return &ImportResult{}, nil
	}

	imported, err := s.netItemRepo.UpsertIgnoreBySource(ctx, lines)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported: imported,
		Skipped:  int64(len(lines)) - imported,
	}, nil
}
