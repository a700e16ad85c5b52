package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/internal/pricing"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/pagination"
	"github.com/mpopescu/atelier-api/pkg/utils"
)

// toCents converts a currency amount into cents for storage
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// fromCents converts stored cents into currency units for API responses
func fromCents(v int64) float64 {
	return float64(v) / 100
}

// JobService handles work orders and their deviz lines
type JobService struct {
	jobRepo         repository.JobRepository
	jobItemRepo     repository.JobItemRepository
	progressRepo    repository.JobProgressEventRepository
	customerRepo    repository.CustomerRepository
	vehicleRepo     repository.VehicleRepository
	appointmentRepo repository.AppointmentRepository
	operationRepo   repository.OperationRepository
	orgRepo         repository.OrganizationRepository
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo repository.JobRepository,
	jobItemRepo repository.JobItemRepository,
	progressRepo repository.JobProgressEventRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	appointmentRepo repository.AppointmentRepository,
	operationRepo repository.OperationRepository,
	orgRepo repository.OrganizationRepository,
) *JobService {
	return &JobService{
		jobRepo:         jobRepo,
		jobItemRepo:     jobItemRepo,
		progressRepo:    progressRepo,
		customerRepo:    customerRepo,
		vehicleRepo:     vehicleRepo,
		appointmentRepo: appointmentRepo,
		operationRepo:   operationRepo,
		orgRepo:         orgRepo,
	}
}

// orgSettings loads the workshop settings for the organization in context
func (s *JobService) orgSettings(ctx context.Context) (entity.OrgSettings, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return entity.OrgSettings{}, apperror.ErrNoOrganization
	}
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return entity.OrgSettings{}, err
	}
	if org == nil {
		return entity.OrgSettings{}, apperror.ErrNoOrganization
	}
	return org.Settings, nil
}

// JobTotals carries the computed deviz money in currency units. Nothing here
// is stored; it is derived from the items and the current labor rate on
// every read.
type JobTotals struct {
	Labor       float64 `json:"labor"`
	Parts       float64 `json:"parts"`
	Other       float64 `json:"other"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	GrandTotal  float64 `json:"grand_total"`
	AdvancePaid float64 `json:"advance_paid"`
	BalanceDue  float64 `json:"balance_due"`
}

// JobItemTotal is the computed subtotal of one deviz line
type JobItemTotal struct {
	ItemID   uuid.UUID `json:"item_id"`
	Subtotal float64   `json:"subtotal"`
}

// JobDetail bundles a job with its computed totals for API responses
type JobDetail struct {
	Job        *entity.Job    `json:"job"`
	Totals     JobTotals      `json:"totals"`
	ItemTotals []JobItemTotal `json:"item_totals"`
}

// computeDetail prices the job's items with the current labor rate
func (s *JobService) computeDetail(ctx context.Context, job *entity.Job) (*JobDetail, error) {
	settings, err := s.orgSettings(ctx)
	if err != nil {
		return nil, err
	}
	rate := settings.LaborRateCents()

	totals := pricing.ComputeJobTotals(job.Items, rate)
	grand := pricing.GrandTotal(totals, job.DiscountValue)

	balance := grand - job.AdvancePaid
	if balance < 0 {
		balance = 0
	}

	itemTotals := make([]JobItemTotal, 0, len(job.Items))
	for _, item := range job.Items {
		itemTotals = append(itemTotals, JobItemTotal{
			ItemID:   item.ID,
			Subtotal: fromCents(pricing.ItemSubtotal(item, rate)),
		})
	}

	return &JobDetail{
		Job: job,
		Totals: JobTotals{
			Labor:       fromCents(totals.Labor),
			Parts:       fromCents(totals.Parts),
			Other:       fromCents(totals.Other),
			Subtotal:    fromCents(totals.Subtotal),
			Discount:    fromCents(job.DiscountValue),
			GrandTotal:  fromCents(grand),
			AdvancePaid: fromCents(job.AdvancePaid),
			BalanceDue:  fromCents(balance),
		},
		ItemTotals: itemTotals,
	}, nil
}

// JobItemInput describes one deviz line for create and add calls. Money
// comes in as currency units and is stored as cents.
type JobItemInput struct {
	ItemType           enum.JobItemType
	Title              string
	Quantity           float64
	UnitPrice          float64
	OperationID        *uuid.UUID
	NormMinutes        *float64
	LaborTotalOverride *float64
}

// buildJobItem validates one line and resolves its catalog reference. Labor
// lines referencing an operation snapshot the norm minutes at add time.
func (s *JobService) buildJobItem(ctx context.Context, jobID uuid.UUID, position int, input *JobItemInput) (*entity.JobItem, error) {
	if !input.ItemType.Valid() {
		return nil, apperror.NewFieldError("item_type", "Unknown item type")
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperror.NewFieldError("quantity", "Quantity cannot be negative")
	}
	if input.UnitPrice < 0 {
		return nil, apperror.NewFieldError("unit_price", "Unit price cannot be negative")
	}
	if input.NormMinutes != nil && *input.NormMinutes < 0 {
		return nil, apperror.NewFieldError("norm_minutes", "Norm minutes cannot be negative")
	}
	if input.LaborTotalOverride != nil && *input.LaborTotalOverride < 0 {
		return nil, apperror.NewFieldError("labor_total_override", "Labor override cannot be negative")
	}

	item := &entity.JobItem{
		JobID:       jobID,
		ItemType:    input.ItemType,
		Title:       input.Title,
		Quantity:    quantity,
		UnitPrice:   toCents(input.UnitPrice),
		NormMinutes: input.NormMinutes,
		Position:    position,
	}
	if input.LaborTotalOverride != nil {
		override := toCents(*input.LaborTotalOverride)
		item.LaborTotalOverride = &override
	}

	if input.ItemType == enum.JobItemTypeLabor && input.OperationID != nil {
		operation, err := s.operationRepo.GetByID(ctx, *input.OperationID)
		if err != nil {
			return nil, err
		}
		if operation == nil {
			return nil, apperror.NewNotFoundError("Operation")
		}
		item.OperationID = input.OperationID
		if item.Title == "" {
			item.Title = operation.Name
		}
		if item.NormMinutes == nil {
			norm := operation.NormMinutes
			item.NormMinutes = &norm
		}
	}

	if item.Title == "" {
		return nil, apperror.NewFieldError("title", "Title is required")
	}

	return item, nil
}

// CreateJobInput represents the create job input
type CreateJobInput struct {
	CustomerID    *uuid.UUID
	VehicleID     *uuid.UUID
	AppointmentID *uuid.UUID
	Notes         *string
	CreatedByID   uuid.UUID
	Items         []JobItemInput
}

// CreateJob opens a work order, optionally seeded with deviz lines
func (s *JobService) CreateJob(ctx context.Context, input *CreateJobInput) (*JobDetail, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrNoOrganization
	}

	settings, err := s.orgSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	if input.VehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, apperror.NewNotFoundError("Vehicle")
		}
		if input.CustomerID != nil && vehicle.CustomerID != *input.CustomerID {
			return nil, apperror.NewFieldError("vehicle_id", "Vehicle does not belong to this customer")
		}
	}
	if input.AppointmentID != nil {
		appointment, err := s.appointmentRepo.GetWithRelations(ctx, *input.AppointmentID)
		if err != nil {
			return nil, err
		}
		if appointment == nil {
			return nil, apperror.NewNotFoundError("Appointment")
		}
		if appointment.Job != nil {
			return nil, apperror.NewConflictError("Appointment already has a job")
		}
	}

	job := &entity.Job{
		OrganizationID: orgID,
		Number:         utils.GenerateJobNumber(settings.JobNumberPrefix),
		CustomerID:     input.CustomerID,
		VehicleID:      input.VehicleID,
		AppointmentID:  input.AppointmentID,
		Progress:       enum.JobProgressNotStarted,
		Notes:          input.Notes,
		CreatedByID:    input.CreatedByID,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	if len(input.Items) > 0 {
		items := make([]entity.JobItem, 0, len(input.Items))
		for i := range input.Items {
			item, err := s.buildJobItem(ctx, job.ID, i, &input.Items[i])
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
		if err := s.jobItemRepo.CreateBatch(ctx, items); err != nil {
			return nil, err
		}
	}

	created, err := s.jobRepo.GetWithItems(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	return s.computeDetail(ctx, created)
}

// CreateFromAppointment spawns a job off a booked appointment, copying its
// customer and vehicle. The appointment is moved to arrived; a failure of
// that status write never rolls the job back, matching the rest of the
// multi-step flows here.
func (s *JobService) CreateFromAppointment(ctx context.Context, appointmentID, createdByID uuid.UUID) (*JobDetail, error) {
	appointment, err := s.appointmentRepo.GetWithRelations(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}
	if appointment.Job != nil {
		return nil, apperror.NewConflictError("Appointment already has a job")
	}

	detail, err := s.CreateJob(ctx, &CreateJobInput{
		CustomerID:    appointment.CustomerID,
		VehicleID:     appointment.VehicleID,
		AppointmentID: &appointmentID,
		CreatedByID:   createdByID,
	})
	if err != nil {
		return nil, err
	}

	_ = s.appointmentRepo.UpdateStatus(ctx, appointmentID, enum.AppointmentStatusArrived)

	return detail, nil
}

// GetJob returns a job with items and computed totals
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	job, err := s.jobRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}
	return s.computeDetail(ctx, job)
}

// ListJobsInput represents the filters for listing jobs
type ListJobsInput struct {
	Page       int
	PerPage    int
	Search     string
	Progress   *enum.JobProgress
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	IsPaid     *bool
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// ListJobs lists jobs with filters and page-based pagination
func (s *JobService) ListJobs(ctx context.Context, input *ListJobsInput) (*pagination.PaginatedResult[entity.Job], error) {
	params := &pagination.PaginationParams{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	params.Validate()

	filter := &repository.JobFilterParams{
		Pagination: params,
		Search:     input.Search,
		Progress:   input.Progress,
		CustomerID: input.CustomerID,
		VehicleID:  input.VehicleID,
		IsPaid:     input.IsPaid,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}

	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(jobs, pag), nil
}

// ListJobsWithCursorInput represents cursor-based job listing filters
type ListJobsWithCursorInput struct {
	Cursor     string
	Direction  pagination.CursorDirection
	Limit      int
	Search     string
	Progress   *enum.JobProgress
	CustomerID *uuid.UUID
}

// ListJobsWithCursor lists jobs using cursor-based pagination, for the board
// views that scroll instead of page
func (s *JobService) ListJobsWithCursor(ctx context.Context, input *ListJobsWithCursorInput) (*pagination.CursorPaginatedResult[entity.Job], error) {
	params := &pagination.CursorParams{
		Cursor:    input.Cursor,
		Direction: input.Direction,
		Limit:     input.Limit,
	}
	params.Validate()

	jobs, err := s.jobRepo.ListWithCursor(ctx, &repository.JobCursorFilterParams{
		Cursor:     params,
		Search:     input.Search,
		Progress:   input.Progress,
		CustomerID: input.CustomerID,
	})
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(jobs, params.Limit,
		func(j entity.Job) string { return j.ID.String() },
		func(j entity.Job) time.Time { return j.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateJobInput represents the update job input. Discount comes in as
// currency units.
type UpdateJobInput struct {
	ID            uuid.UUID
	CustomerID    *uuid.UUID
	VehicleID     *uuid.UUID
	Notes         *string
	DiscountValue *float64
}

// UpdateJob updates the work order header
func (s *JobService) UpdateJob(ctx context.Context, input *UpdateJobInput) (*JobDetail, error) {
	job, err := s.jobRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		job.CustomerID = input.CustomerID
	}
	if input.VehicleID != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, apperror.NewNotFoundError("Vehicle")
		}
		if job.CustomerID != nil && vehicle.CustomerID != *job.CustomerID {
			return nil, apperror.NewFieldError("vehicle_id", "Vehicle does not belong to this customer")
		}
		job.VehicleID = input.VehicleID
	}
	if input.Notes != nil {
		job.Notes = input.Notes
	}
	if input.DiscountValue != nil {
		if *input.DiscountValue < 0 {
			return nil, apperror.NewFieldError("discount_value", "Discount cannot be negative")
		}
		job.DiscountValue = toCents(*input.DiscountValue)
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	return s.GetJob(ctx, job.ID)
}

// UpdateProgressInput represents a progress transition request
type UpdateProgressInput struct {
	JobID       uuid.UUID
	Progress    enum.JobProgress
	Note        *string
	ChangedByID uuid.UUID
}

// UpdateProgress moves a job through the board. Any transition is allowed —
// including backwards — but every real change lands in the append-only
// history with the user who made it. Same-to-same writes are dropped without
// an event.
func (s *JobService) UpdateProgress(ctx context.Context, input *UpdateProgressInput) (*entity.Job, error) {
	if !input.Progress.Valid() {
		return nil, apperror.NewFieldError("progress", "Unknown progress stage")
	}

	job, err := s.jobRepo.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	if job.Progress == input.Progress {
		return job, nil
	}

	if err := s.jobRepo.UpdateProgress(ctx, input.JobID, input.Progress); err != nil {
		return nil, err
	}

	event := &entity.JobProgressEvent{
		OrganizationID: job.OrganizationID,
		JobID:          job.ID,
		FromProgress:   job.Progress,
		ToProgress:     input.Progress,
		ChangedByID:    input.ChangedByID,
		Note:           input.Note,
	}
	if err := s.progressRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	job.Progress = input.Progress
	return job, nil
}

// GetProgressHistory returns the job's progress trail, oldest first
func (s *JobService) GetProgressHistory(ctx context.Context, jobID uuid.UUID) ([]entity.JobProgressEvent, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	return s.progressRepo.ListByJobID(ctx, jobID)
}

// MarkPaid flips the paid flag. Marking paid also settles the advance at the
// current grand total so the balance reads zero; unmarking touches only the
// flag, leaving whatever was actually collected on record.
func (s *JobService) MarkPaid(ctx context.Context, jobID uuid.UUID, isPaid bool) (*JobDetail, error) {
	job, err := s.jobRepo.GetWithItems(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	if isPaid {
		settings, err := s.orgSettings(ctx)
		if err != nil {
			return nil, err
		}
		totals := pricing.ComputeJobTotals(job.Items, settings.LaborRateCents())
		job.AdvancePaid = pricing.GrandTotal(totals, job.DiscountValue)
	}
	job.IsPaid = isPaid

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	return s.computeDetail(ctx, job)
}

// RecordAdvance registers a partial payment collected up front. The amount
// adds to whatever was already paid; the paid flag is untouched.
func (s *JobService) RecordAdvance(ctx context.Context, jobID uuid.UUID, amount float64) (*JobDetail, error) {
	if amount <= 0 {
		return nil, apperror.NewFieldError("amount", "Advance must be positive")
	}

	job, err := s.jobRepo.GetWithItems(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	job.AdvancePaid += toCents(amount)

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	return s.computeDetail(ctx, job)
}

// DeleteJob soft-deletes a work order. Its net ledger lines disappear from
// reports with it since reporting joins through live jobs only.
func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return apperror.NewNotFoundError("Job")
	}

	return s.jobRepo.Delete(ctx, id)
}

// AddJobItemInput represents the add item input
type AddJobItemInput struct {
	JobID uuid.UUID
	Item  JobItemInput
}

// AddJobItem appends a deviz line to a job
func (s *JobService) AddJobItem(ctx context.Context, input *AddJobItemInput) (*entity.JobItem, error) {
	job, err := s.jobRepo.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	position, err := s.jobItemRepo.NextPosition(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	item, err := s.buildJobItem(ctx, input.JobID, position, &input.Item)
	if err != nil {
		return nil, err
	}

	if err := s.jobItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// getScopedItem loads an item after confirming its job is visible in the
// current organization. Items carry no org column of their own.
func (s *JobService) getScopedItem(ctx context.Context, jobID, itemID uuid.UUID) (*entity.JobItem, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	item, err := s.jobItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.JobID != jobID {
		return nil, apperror.NewNotFoundError("Job item")
	}

	return item, nil
}

// UpdateJobItemInput represents the update item input. ClearLaborOverride
// drops an existing override so the line prices from the norm again.
type UpdateJobItemInput struct {
	JobID              uuid.UUID
	ItemID             uuid.UUID
	Title              *string
	Quantity           *float64
	UnitPrice          *float64
	OperationID        *uuid.UUID
	NormMinutes        *float64
	LaborTotalOverride *float64
	ClearLaborOverride bool
}

// UpdateJobItem updates a deviz line
func (s *JobService) UpdateJobItem(ctx context.Context, input *UpdateJobItemInput) (*entity.JobItem, error) {
	item, err := s.getScopedItem(ctx, input.JobID, input.ItemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperror.NewFieldError("title", "Title is required")
		}
		item.Title = *input.Title
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, apperror.NewFieldError("quantity", "Quantity must be positive")
		}
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperror.NewFieldError("unit_price", "Unit price cannot be negative")
		}
		item.UnitPrice = toCents(*input.UnitPrice)
	}
	if input.OperationID != nil {
		operation, err := s.operationRepo.GetByID(ctx, *input.OperationID)
		if err != nil {
			return nil, err
		}
		if operation == nil {
			return nil, apperror.NewNotFoundError("Operation")
		}
		item.OperationID = input.OperationID
		// Re-snapshot the norm unless the caller pins it in the same request
		if input.NormMinutes == nil {
			norm := operation.NormMinutes
			item.NormMinutes = &norm
		}
	}
	if input.NormMinutes != nil {
		if *input.NormMinutes < 0 {
			return nil, apperror.NewFieldError("norm_minutes", "Norm minutes cannot be negative")
		}
		item.NormMinutes = input.NormMinutes
	}
	if input.ClearLaborOverride {
		item.LaborTotalOverride = nil
	} else if input.LaborTotalOverride != nil {
		if *input.LaborTotalOverride < 0 {
			return nil, apperror.NewFieldError("labor_total_override", "Labor override cannot be negative")
		}
		override := toCents(*input.LaborTotalOverride)
		item.LaborTotalOverride = &override
	}

	if err := s.jobItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveJobItem deletes a deviz line
func (s *JobService) RemoveJobItem(ctx context.Context, jobID, itemID uuid.UUID) error {
	item, err := s.getScopedItem(ctx, jobID, itemID)
	if err != nil {
		return err
	}

	return s.jobItemRepo.Delete(ctx, item.ID)
}

// ReorderJobItems rewrites line positions to match the given ID order. The
// list must contain exactly the job's current items.
func (s *JobService) ReorderJobItems(ctx context.Context, jobID uuid.UUID, itemIDs []uuid.UUID) ([]entity.JobItem, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}

	items, err := s.jobItemRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) != len(items) {
		return nil, apperror.NewBadRequestError("Item list does not match the job's items")
	}

	byID := make(map[uuid.UUID]*entity.JobItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for position, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, apperror.NewBadRequestError("Item list does not match the job's items")
		}
		if item.Position != position {
			item.Position = position
			if err := s.jobItemRepo.Update(ctx, item); err != nil {
				return nil, err
			}
		}
	}

	return s.jobItemRepo.GetByJobID(ctx, jobID)
}
