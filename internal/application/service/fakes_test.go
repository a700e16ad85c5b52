package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
)

// In-memory fakes for service tests. Each fake embeds its interface so only
// the methods a test path actually touches need implementations; anything
// else panics, which is what a test wants.

// newTestOrg returns an org repo holding one workshop with the given hourly
// labor rate, and a context scoped to that organization.
func newTestOrg(laborRatePerHour float64) (*fakeOrgRepo, context.Context) {
	org := &entity.Organization{
		ID:       uuid.New(),
		Name:     "Test Garage",
		Settings: entity.DefaultOrgSettings(),
	}
	org.Settings.LaborRatePerHour = laborRatePerHour
	ctx := infraRepo.WithOrganization(context.Background(), org.ID)
	return &fakeOrgRepo{org: org}, ctx
}

func floatPtr(v float64) *float64 { return &v }

type fakeOrgRepo struct {
	repository.OrganizationRepository
	org *entity.Organization
}

func (f *fakeOrgRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Organization, error) {
	if f.org != nil && f.org.ID == id {
		return f.org, nil
	}
	return nil, nil
}

type fakeJobRepo struct {
	repository.JobRepository
	jobs      map[uuid.UUID]*entity.Job
	createErr error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*entity.Job)}
}

func (f *fakeJobRepo) Create(_ context.Context, job *entity.Job) error {
	if f.createErr != nil {
		return f.createErr
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now()
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	// Return a detached copy, as a real repository scanning a row would;
	// callers must not be able to mutate the store through the result.
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	return f.jobs[id], nil
}

func (f *fakeJobRepo) Update(_ context.Context, job *entity.Job) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) UpdateProgress(_ context.Context, id uuid.UUID, progress enum.JobProgress) error {
	f.jobs[id].Progress = progress
	return nil
}

type fakeJobItemRepo struct {
	repository.JobItemRepository
	items []*entity.JobItem
}

func (f *fakeJobItemRepo) Create(_ context.Context, item *entity.JobItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeJobItemRepo) CreateBatch(_ context.Context, items []entity.JobItem) error {
	for i := range items {
		item := items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		f.items = append(f.items, &item)
	}
	return nil
}

func (f *fakeJobItemRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.JobItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeJobItemRepo) GetByJobID(_ context.Context, jobID uuid.UUID) ([]entity.JobItem, error) {
	out := make([]entity.JobItem, 0)
	for _, item := range f.items {
		if item.JobID == jobID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeJobItemRepo) Update(_ context.Context, item *entity.JobItem) error {
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return nil
}

func (f *fakeJobItemRepo) NextPosition(_ context.Context, jobID uuid.UUID) (int, error) {
	next := 0
	for _, item := range f.items {
		if item.JobID == jobID && item.Position >= next {
			next = item.Position + 1
		}
	}
	return next, nil
}

type fakeProgressRepo struct {
	repository.JobProgressEventRepository
	events []*entity.JobProgressEvent
}

func (f *fakeProgressRepo) Create(_ context.Context, event *entity.JobProgressEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeProgressRepo) ListByJobID(_ context.Context, jobID uuid.UUID) ([]entity.JobProgressEvent, error) {
	out := make([]entity.JobProgressEvent, 0)
	for _, event := range f.events {
		if event.JobID == jobID {
			out = append(out, *event)
		}
	}
	return out, nil
}

type fakeNetItemRepo struct {
	repository.JobNetItemRepository
	items []*entity.JobNetItem
}

func (f *fakeNetItemRepo) Create(_ context.Context, item *entity.JobNetItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	f.items = append(f.items, item)
	return nil
}

// UpsertIgnoreBySource mirrors the conflict-ignore insert: a line whose
// (job_id, source_job_item_id) pair already exists is skipped, not duplicated.
func (f *fakeNetItemRepo) UpsertIgnoreBySource(_ context.Context, items []entity.JobNetItem) (int64, error) {
	var inserted int64
	for i := range items {
		line := items[i]
		if f.hasSource(line.JobID, line.SourceJobItemID) {
			continue
		}
		line.ID = uuid.New()
		line.CreatedAt = time.Now()
		f.items = append(f.items, &line)
		inserted++
	}
	return inserted, nil
}

func (f *fakeNetItemRepo) hasSource(jobID uuid.UUID, sourceID *uuid.UUID) bool {
	if sourceID == nil {
		return false
	}
	for _, item := range f.items {
		if item.JobID == jobID && item.SourceJobItemID != nil && *item.SourceJobItemID == *sourceID {
			return true
		}
	}
	return false
}

func (f *fakeNetItemRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.JobNetItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeNetItemRepo) GetByJobID(_ context.Context, jobID uuid.UUID) ([]entity.JobNetItem, error) {
	out := make([]entity.JobNetItem, 0)
	for _, item := range f.items {
		if item.JobID == jobID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeNetItemRepo) Update(_ context.Context, item *entity.JobNetItem) error {
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return nil
}

func (f *fakeNetItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeNetItemRepo) LatestPartCostByTitleKey(_ context.Context, titleKey string) (*entity.JobNetItem, error) {
	var latest *entity.JobNetItem
	for _, item := range f.items {
		if item.TitleKey != titleKey || item.PurchaseUnitCost == nil {
			continue
		}
		if latest == nil || item.CreatedAt.After(latest.CreatedAt) {
			latest = item
		}
	}
	return latest, nil
}

func (f *fakeNetItemRepo) NextPosition(_ context.Context, jobID uuid.UUID) (int, error) {
	next := 0
	for _, item := range f.items {
		if item.JobID == jobID && item.Position >= next {
			next = item.Position + 1
		}
	}
	return next, nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[uuid.UUID]*entity.Customer
	createErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = time.Now()
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

type fakeVehicleRepo struct {
	repository.VehicleRepository
	vehicles  map[uuid.UUID]*entity.Vehicle
	createErr error
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*entity.Vehicle)}
}

func (f *fakeVehicleRepo) Create(_ context.Context, vehicle *entity.Vehicle) error {
	if f.createErr != nil {
		return f.createErr
	}
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	vehicle.CreatedAt = time.Now()
	f.vehicles[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	return f.vehicles[id], nil
}

func (f *fakeVehicleRepo) GetByPlate(_ context.Context, plateKey string) (*entity.Vehicle, error) {
	for _, vehicle := range f.vehicles {
		if vehicle.PlateKey == plateKey {
			return vehicle, nil
		}
	}
	return nil, nil
}

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	f.appointments[appointment.ID] = appointment
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return f.appointments[id], nil
}

func (f *fakeAppointmentRepo) GetWithRelations(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return f.appointments[id], nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.AppointmentStatus) error {
	f.appointments[id].Status = status
	return nil
}

type fakeOperationRepo struct {
	repository.OperationRepository
	operations map[uuid.UUID]*entity.Operation
}

func (f *fakeOperationRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Operation, error) {
	if f.operations == nil {
		return nil, nil
	}
	return f.operations[id], nil
}

// fakeReportRepo answers aggregate queries from a function and records every
// range it was asked about. The mutex matters: the dashboard fans queries out
// across goroutines.
type fakeReportRepo struct {
	mu      sync.Mutex
	stats   func(from, to time.Time) repository.NetStatsRow
	counts  []repository.ProgressCountRow
	queried [][2]time.Time
}

func (f *fakeReportRepo) RangeNetStats(_ context.Context, from, to time.Time) (repository.NetStatsRow, error) {
	f.mu.Lock()
	f.queried = append(f.queried, [2]time.Time{from, to})
	f.mu.Unlock()
	if f.stats == nil {
		return repository.NetStatsRow{}, nil
	}
	return f.stats(from, to), nil
}

func (f *fakeReportRepo) RangeNetBuckets(_ context.Context, _, _ time.Time) (repository.NetBucketsRow, error) {
	return repository.NetBucketsRow{}, nil
}

func (f *fakeReportRepo) CountJobsByProgress(_ context.Context) ([]repository.ProgressCountRow, error) {
	return f.counts, nil
}
