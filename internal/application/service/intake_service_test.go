package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/domain/entity"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intakeFixture struct {
	ctx      context.Context
	svc      *IntakeService
	orgRepo  *fakeOrgRepo
	custRepo *fakeCustomerRepo
	vehRepo  *fakeVehicleRepo
	apptRepo *fakeAppointmentRepo
	jobRepo  *fakeJobRepo
}

func newIntakeFixture() *intakeFixture {
	orgRepo, ctx := newTestOrg(100)
	custRepo := newFakeCustomerRepo()
	vehRepo := newFakeVehicleRepo()
	apptRepo := newFakeAppointmentRepo()
	jobRepo := newFakeJobRepo()
	itemRepo := &fakeJobItemRepo{}
	progressRepo := &fakeProgressRepo{}
	opRepo := &fakeOperationRepo{}

	customers := NewCustomerService(custRepo)
	vehicles := NewVehicleService(vehRepo, custRepo)
	appointments := NewAppointmentService(apptRepo, custRepo, vehRepo, orgRepo, nil)
	jobs := NewJobService(jobRepo, itemRepo, progressRepo, custRepo, vehRepo, apptRepo, opRepo, orgRepo)

	return &intakeFixture{
		ctx:      ctx,
		svc:      NewIntakeService(customers, vehicles, appointments, jobs),
		orgRepo:  orgRepo,
		custRepo: custRepo,
		vehRepo:  vehRepo,
		apptRepo: apptRepo,
		jobRepo:  jobRepo,
	}
}

func walkInInput() *IntakeInput {
	now := time.Now()
	return &IntakeInput{
		Customer: &CreateCustomerInput{Name: "Ion Popescu"},
		Vehicle: IntakeVehicleInput{
			Plate: "B 123 XYZ",
			Make:  "Dacia",
			Model: "Logan",
		},
		Appointment: &IntakeAppointmentInput{
			StartsAt: now,
			EndsAt:   now.Add(time.Hour),
		},
		Job:         &IntakeJobInput{},
		CreatedByID: uuid.New(),
	}
}

func TestIntake_CreatesFullChain(t *testing.T) {
	f := newIntakeFixture()

	result, err := f.svc.Intake(f.ctx, walkInInput())
	require.NoError(t, err)

	require.NotNil(t, result.Customer)
	assert.Equal(t, "Ion Popescu", result.Customer.Name)

	require.NotNil(t, result.Vehicle)
	assert.Equal(t, "B123XYZ", result.Vehicle.PlateKey)
	assert.Equal(t, result.Customer.ID, result.Vehicle.CustomerID)

	require.NotNil(t, result.Appointment)
	// An empty appointment title defaults to the customer's name
	assert.Equal(t, "Ion Popescu", result.Appointment.Title)
	// The car is in the shop, so the slot flips straight to arrived
	assert.Equal(t, enum.AppointmentStatusArrived, result.Appointment.Status)

	require.NotNil(t, result.Job)
	require.NotNil(t, result.Job.Job.AppointmentID)
	assert.Equal(t, result.Appointment.ID, *result.Job.Job.AppointmentID)
	require.NotNil(t, result.Job.Job.CustomerID)
	assert.Equal(t, result.Customer.ID, *result.Job.Job.CustomerID)
}

func TestIntake_VehicleFailureKeepsCustomer(t *testing.T) {
	f := newIntakeFixture()
	f.vehRepo.createErr = errors.New("insert failed")

	result, err := f.svc.Intake(f.ctx, walkInInput())
	require.Error(t, err)

	// No rollback: the customer created before the failing step stays,
	// and the partial result says so.
	require.NotNil(t, result)
	assert.NotNil(t, result.Customer)
	assert.Nil(t, result.Vehicle)
	assert.Nil(t, result.Appointment)
	assert.Nil(t, result.Job)
	assert.Len(t, f.custRepo.customers, 1)
	assert.Empty(t, f.vehRepo.vehicles)
}

func TestIntake_AppointmentFailureKeepsCustomerAndVehicle(t *testing.T) {
	f := newIntakeFixture()
	f.apptRepo.createErr = errors.New("insert failed")

	result, err := f.svc.Intake(f.ctx, walkInInput())
	require.Error(t, err)

	require.NotNil(t, result)
	assert.NotNil(t, result.Customer)
	assert.NotNil(t, result.Vehicle)
	assert.Nil(t, result.Appointment)
	assert.Nil(t, result.Job)
}

func TestIntake_JobFailureKeepsEarlierSteps(t *testing.T) {
	f := newIntakeFixture()
	f.jobRepo.createErr = errors.New("insert failed")

	result, err := f.svc.Intake(f.ctx, walkInInput())
	require.Error(t, err)

	require.NotNil(t, result)
	assert.NotNil(t, result.Customer)
	assert.NotNil(t, result.Vehicle)
	require.NotNil(t, result.Appointment)
	assert.Nil(t, result.Job)

	// The arrived flip only happens after the job opens, so the slot is
	// still merely scheduled.
	assert.Equal(t, enum.AppointmentStatusScheduled, result.Appointment.Status)
}

func TestIntake_ReusesVehicleByPlate(t *testing.T) {
	f := newIntakeFixture()

	// Returning customer whose car is already on file under a different
	// plate spelling.
	customer := &entity.Customer{ID: uuid.New(), OrganizationID: f.orgRepo.org.ID, Name: "Maria Ionescu"}
	f.custRepo.customers[customer.ID] = customer
	vehicle := &entity.Vehicle{
		ID:             uuid.New(),
		OrganizationID: f.orgRepo.org.ID,
		CustomerID:     customer.ID,
		Plate:          "B-123-XYZ",
		PlateKey:       "B123XYZ",
		Make:           "Dacia",
		Model:          "Logan",
	}
	f.vehRepo.vehicles[vehicle.ID] = vehicle

	input := walkInInput()
	input.Customer = nil
	input.CustomerID = &customer.ID
	input.Appointment = nil
	input.Job = nil

	result, err := f.svc.Intake(f.ctx, input)
	require.NoError(t, err)
	require.NotNil(t, result.Vehicle)
	assert.Equal(t, vehicle.ID, result.Vehicle.ID)
	assert.Len(t, f.vehRepo.vehicles, 1)
}

func TestIntake_PlateOwnedByAnotherCustomerConflicts(t *testing.T) {
	f := newIntakeFixture()

	other := &entity.Customer{ID: uuid.New(), OrganizationID: f.orgRepo.org.ID, Name: "Alt Client"}
	f.custRepo.customers[other.ID] = other
	theirs := &entity.Vehicle{
		ID:             uuid.New(),
		OrganizationID: f.orgRepo.org.ID,
		CustomerID:     other.ID,
		Plate:          "B 123 XYZ",
		PlateKey:       "B123XYZ",
	}
	f.vehRepo.vehicles[theirs.ID] = theirs

	result, err := f.svc.Intake(f.ctx, walkInInput())
	require.Error(t, err)

	// The front desk has to sort the ownership out by hand; the freshly
	// created customer remains.
	require.NotNil(t, result)
	assert.NotNil(t, result.Customer)
	assert.Nil(t, result.Vehicle)
}
