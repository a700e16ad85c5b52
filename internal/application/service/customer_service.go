package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/repository"
	infraRepo "github.com/mpopescu/atelier-api/internal/infrastructure/repository"
	"github.com/mpopescu/atelier-api/pkg/apperror"
	"github.com/mpopescu/atelier-api/pkg/pagination"
	"github.com/mpopescu/atelier-api/pkg/utils"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name        string
	Email       *string
	Phone       *string
	Address     *string
	CompanyName *string
	TaxID       *string
	Notes       *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrNoOrganization
	}

	customer := &entity.Customer{
		OrganizationID: orgID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
		CompanyName:    input.CompanyName,
		TaxID:          input.TaxID,
		Notes:          input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// GetCustomerWithVehicles retrieves a customer with their vehicle fleet
func (s *CustomerService) GetCustomerWithVehicles(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetWithVehicles(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with page-based pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()

	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers using cursor-based pagination
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, params *pagination.CursorParams, search string) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	params.Validate()

	customers, err := s.customerRepo.ListWithCursor(ctx, params, search)
	if err != nil {
		return nil, err
	}

	// A cursor in the request means we're past the first page
	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(customers, params.Limit,
		func(c entity.Customer) string { return c.ID.String() },
		func(c entity.Customer) time.Time { return c.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID          uuid.UUID
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	CompanyName *string
	TaxID       *string
	Notes       *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.CompanyName != nil {
		customer.CompanyName = input.CompanyName
	}
	if input.TaxID != nil {
		customer.TaxID = input.TaxID
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	return s.customerRepo.Delete(ctx, id)
}

// VehicleService handles vehicle-related operations
type VehicleService struct {
	vehicleRepo  repository.VehicleRepository
	customerRepo repository.CustomerRepository
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicleRepo repository.VehicleRepository, customerRepo repository.CustomerRepository) *VehicleService {
	return &VehicleService{
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
	}
}

// CreateVehicleInput represents the create vehicle input
type CreateVehicleInput struct {
	CustomerID uuid.UUID
	Plate      string
	Make       string
	Model      string
	Year       *int
	VIN        *string
	EngineCode *string
	Mileage    *int
	Notes      *string
}

// CreateVehicle creates a new vehicle for a customer. Plates are stored as
// entered but matched through the normalized plate key, so "B 123 ABC" and
// "b-123-abc" are the same car.
func (s *VehicleService) CreateVehicle(ctx context.Context, input *CreateVehicleInput) (*entity.Vehicle, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.ErrNoOrganization
	}

	plateKey := utils.NormalizePlate(input.Plate)
	if plateKey == "" {
		return nil, apperror.NewFieldError("plate", "Plate cannot be empty")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	existing, err := s.vehicleRepo.GetByPlate(ctx, plateKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A vehicle with this plate already exists")
	}

	vehicle := &entity.Vehicle{
		OrganizationID: orgID,
		CustomerID:     input.CustomerID,
		Plate:          input.Plate,
		PlateKey:       plateKey,
		Make:           input.Make,
		Model:          input.Model,
		Year:           input.Year,
		VIN:            input.VIN,
		EngineCode:     input.EngineCode,
		Mileage:        input.Mileage,
		Notes:          input.Notes,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// GetVehicle retrieves a vehicle by ID
func (s *VehicleService) GetVehicle(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperror.NewNotFoundError("Vehicle")
	}
	return vehicle, nil
}

// GetVehicleByPlate looks a vehicle up by plate, ignoring spacing and case
func (s *VehicleService) GetVehicleByPlate(ctx context.Context, plate string) (*entity.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByPlate(ctx, utils.NormalizePlate(plate))
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperror.NewNotFoundError("Vehicle")
	}
	return vehicle, nil
}

// ListVehicles lists vehicles with pagination; search matches plate, make and model
func (s *VehicleService) ListVehicles(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Vehicle], error) {
	params.Validate()

	vehicles, total, err := s.vehicleRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(vehicles, pag), nil
}

// ListCustomerVehicles returns all vehicles belonging to a customer
func (s *VehicleService) ListCustomerVehicles(ctx context.Context, customerID uuid.UUID) ([]entity.Vehicle, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	return s.vehicleRepo.ListByCustomer(ctx, customerID)
}

// UpdateVehicleInput represents the update vehicle input
type UpdateVehicleInput struct {
	ID         uuid.UUID
	CustomerID *uuid.UUID
	Plate      *string
	Make       *string
	Model      *string
	Year       *int
	VIN        *string
	EngineCode *string
	Mileage    *int
	Notes      *string
}

// UpdateVehicle updates a vehicle. Changing the plate re-derives the plate key.
func (s *VehicleService) UpdateVehicle(ctx context.Context, input *UpdateVehicleInput) (*entity.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperror.NewNotFoundError("Vehicle")
	}

	if input.CustomerID != nil && *input.CustomerID != vehicle.CustomerID {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		vehicle.CustomerID = *input.CustomerID
	}

	if input.Plate != nil {
		plateKey := utils.NormalizePlate(*input.Plate)
		if plateKey == "" {
			return nil, apperror.NewFieldError("plate", "Plate cannot be empty")
		}
		if plateKey != vehicle.PlateKey {
			existing, err := s.vehicleRepo.GetByPlate(ctx, plateKey)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != vehicle.ID {
				return nil, apperror.NewConflictError("A vehicle with this plate already exists")
			}
		}
		vehicle.Plate = *input.Plate
		vehicle.PlateKey = plateKey
	}

	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = input.Year
	}
	if input.VIN != nil {
		vehicle.VIN = input.VIN
	}
	if input.EngineCode != nil {
		vehicle.EngineCode = input.EngineCode
	}
	if input.Mileage != nil {
		vehicle.Mileage = input.Mileage
	}
	if input.Notes != nil {
		vehicle.Notes = input.Notes
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// DeleteVehicle soft-deletes a vehicle
func (s *VehicleService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return apperror.NewNotFoundError("Vehicle")
	}

	return s.vehicleRepo.Delete(ctx, id)
}
