package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/repository"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/telemetry"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleNotAvailable = errors.New("vehicle is not available")
	ErrVehicleHasSales     = errors.New("vehicle has sales attached")
)

// VehicleService defines inventory operations
type VehicleService interface {
	Create(ctx context.Context, req *dto.CreateVehicleRequest, createdBy string) (*domain.Vehicle, error)
	Get(ctx context.Context, id string) (*domain.Vehicle, error)
	// List returns vehicles, optionally filtered by status
	List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error)
	Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*domain.Vehicle, error)
	Delete(ctx context.Context, id string) error
	// CountByStatus returns inventory counts for dashboards
	CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error)
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	now         func() time.Time
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		now:         time.Now,
	}
}

// Create adds a vehicle to inventory
func (s *vehicleService) Create(ctx context.Context, req *dto.CreateVehicleRequest, createdBy string) (*domain.Vehicle, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.vehicle.create")
	defer span.End()

	now := s.now()
	vehicle := &domain.Vehicle{
		ID:           uuid.New().String(),
		Brand:        validation.SanitizeString(req.Brand),
		Model:        validation.SanitizeString(req.Model),
		Year:         req.Year,
		Color:        validation.SanitizeString(req.Color),
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Mileage:      req.Mileage,
		Price:        req.Price,
		Status:       domain.VehicleAvailable,
		LicensePlate: validation.SanitizeString(req.LicensePlate),
		VehicleType:  domain.VehicleType(req.VehicleType),
		Description:  validation.SanitizeString(req.Description),
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("vehicle_id", vehicle.ID))
	span.SetStatus(codes.Ok, "")
	return vehicle, nil
}

// Get retrieves one vehicle
func (s *vehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.vehicle.get")
	defer span.End()

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if vehicle == nil {
		span.SetStatus(codes.Error, "vehicle not found")
		return nil, ErrVehicleNotFound
	}

	span.SetStatus(codes.Ok, "")
	return vehicle, nil
}

// List returns vehicles, optionally filtered by status
func (s *vehicleService) List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.vehicle.list")
	defer span.End()

	vehicles, err := s.vehicleRepo.List(ctx, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(vehicles)))
	span.SetStatus(codes.Ok, "")
	return vehicles, nil
}

// Update edits a vehicle; zero-valued request fields are left untouched
func (s *vehicleService) Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*domain.Vehicle, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.vehicle.update")
	defer span.End()

	span.SetAttributes(attribute.String("vehicle_id", id))

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if vehicle == nil {
		span.SetStatus(codes.Error, "vehicle not found")
		return nil, ErrVehicleNotFound
	}

	if req.Brand != "" {
		vehicle.Brand = validation.SanitizeString(req.Brand)
	}
	if req.Model != "" {
		vehicle.Model = validation.SanitizeString(req.Model)
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}
	if req.Color != "" {
		vehicle.Color = validation.SanitizeString(req.Color)
	}
	if req.FuelType != "" {
		vehicle.FuelType = req.FuelType
	}
	if req.Transmission != "" {
		vehicle.Transmission = req.Transmission
	}
	if req.Mileage != 0 {
		vehicle.Mileage = req.Mileage
	}
	if req.Price != 0 {
		vehicle.Price = req.Price
	}
	if req.Status != "" {
		vehicle.Status = domain.VehicleStatus(req.Status)
	}
	if req.LicensePlate != "" {
		vehicle.LicensePlate = validation.SanitizeString(req.LicensePlate)
	}
	if req.Description != "" {
		vehicle.Description = validation.SanitizeString(req.Description)
	}
	vehicle.UpdatedAt = s.now()

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return vehicle, nil
}

// Delete removes a vehicle from inventory
func (s *vehicleService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.vehicle.delete")
	defer span.End()

	span.SetAttributes(attribute.String("vehicle_id", id))

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if vehicle == nil {
		span.SetStatus(codes.Error, "vehicle not found")
		return ErrVehicleNotFound
	}
	if vehicle.Status == domain.VehicleSold {
		span.SetStatus(codes.Error, "vehicle has sales attached")
		return ErrVehicleHasSales
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// CountByStatus returns inventory counts for dashboards
func (s *vehicleService) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.vehicle.count_by_status")
	defer span.End()

	counts, err := s.vehicleRepo.CountByStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return counts, nil
}
