package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/events"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/logger"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/repository"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/telemetry"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var (
	ErrSaleNotFound          = errors.New("sale not found")
	ErrNotSaleOwner          = errors.New("sale belongs to another vendedor")
	ErrSaleAlreadyClosed     = errors.New("sale is already closed")
	ErrInvalidSaleTransition = errors.New("invalid sale status transition")
)

// SaleService defines negotiation and commission operations
type SaleService interface {
	// Create opens a negotiation; the commission is computed from the
	// vendedor's percentage at creation time
	Create(ctx context.Context, req *dto.CreateSaleRequest, vendedor *domain.Profile) (*domain.Sale, error)
	Get(ctx context.Context, id string, actor *domain.Profile) (*domain.Sale, error)
	// List returns the actor's sales; admins see every sale
	List(ctx context.Context, actor *domain.Profile) ([]*domain.Sale, error)
	Update(ctx context.Context, id string, req *dto.UpdateSaleRequest, actor *domain.Profile) (*domain.Sale, error)
	// Stats aggregates the actor's sales; admins get the whole dealership
	Stats(ctx context.Context, actor *domain.Profile) (*domain.SaleStats, error)
}

type saleService struct {
	saleRepo    repository.SaleRepository
	vehicleRepo repository.VehicleRepository
	clientRepo  repository.ClientRepository
	publisher   events.Publisher
	now         func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo repository.SaleRepository,
	vehicleRepo repository.VehicleRepository,
	clientRepo repository.ClientRepository,
	publisher events.Publisher,
) SaleService {
	if publisher == nil {
		publisher = events.NewNoOpPublisher()
	}
	return &saleService{
		saleRepo:    saleRepo,
		vehicleRepo: vehicleRepo,
		clientRepo:  clientRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// Create opens a negotiation for an available vehicle
func (s *saleService) Create(ctx context.Context, req *dto.CreateSaleRequest, vendedor *domain.Profile) (*domain.Sale, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.sale.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("vehicle_id", req.VehicleID),
		attribute.String("vendedor_id", vendedor.AuthUserID),
	)

	client, err := s.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if client == nil {
		span.SetStatus(codes.Error, "client not found")
		return nil, ErrClientNotFound
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if vehicle == nil {
		span.SetStatus(codes.Error, "vehicle not found")
		return nil, ErrVehicleNotFound
	}
	if vehicle.Status != domain.VehicleAvailable {
		span.SetStatus(codes.Error, "vehicle not available")
		return nil, ErrVehicleNotAvailable
	}

	now := s.now()
	sale := &domain.Sale{
		ID:                   uuid.New().String(),
		ClientID:             client.ID,
		VehicleID:            vehicle.ID,
		VendedorID:           vendedor.AuthUserID,
		SaleValue:            req.SaleValue,
		Commission:           roundCents(req.SaleValue * vendedor.CommissionPercentage / 100),
		CommissionPercentage: vendedor.CommissionPercentage,
		Status:               domain.SaleNegotiating,
		Notes:                validation.SanitizeString(req.Notes),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Event delivery is best effort; the sale is already committed
	if err := s.publisher.PublishSaleCreated(ctx, sale); err != nil {
		logger.Get().Warn("failed to publish sale created event",
			zap.String("sale_id", sale.ID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.String("sale_id", sale.ID))
	span.SetStatus(codes.Ok, "")
	return sale, nil
}

// Get retrieves one sale; vendedores only see their own
func (s *saleService) Get(ctx context.Context, id string, actor *domain.Profile) (*domain.Sale, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.sale.get")
	defer span.End()

	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if sale == nil {
		span.SetStatus(codes.Error, "sale not found")
		return nil, ErrSaleNotFound
	}
	if actor.Role != domain.RoleAdmin && sale.VendedorID != actor.AuthUserID {
		span.SetStatus(codes.Error, "not sale owner")
		return nil, ErrNotSaleOwner
	}

	span.SetStatus(codes.Ok, "")
	return sale, nil
}

// List returns the actor's sales; admins see every sale
func (s *saleService) List(ctx context.Context, actor *domain.Profile) ([]*domain.Sale, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.sale.list")
	defer span.End()

	vendedorID := ""
	if actor.Role != domain.RoleAdmin {
		vendedorID = actor.AuthUserID
	}

	sales, err := s.saleRepo.List(ctx, vendedorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(sales)))
	span.SetStatus(codes.Ok, "")
	return sales, nil
}

// Update edits a sale. A transition to "vendido" marks the vehicle as
// sold; leaving "vendido" for "cancelado" releases it again.
func (s *saleService) Update(ctx context.Context, id string, req *dto.UpdateSaleRequest, actor *domain.Profile) (*domain.Sale, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.sale.update")
	defer span.End()

	span.SetAttributes(attribute.String("sale_id", id))

	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if sale == nil {
		span.SetStatus(codes.Error, "sale not found")
		return nil, ErrSaleNotFound
	}
	if actor.Role != domain.RoleAdmin && sale.VendedorID != actor.AuthUserID {
		span.SetStatus(codes.Error, "not sale owner")
		return nil, ErrNotSaleOwner
	}

	oldStatus := sale.Status

	if req.SaleValue != 0 {
		if oldStatus != domain.SaleNegotiating {
			span.SetStatus(codes.Error, "sale already closed")
			return nil, ErrSaleAlreadyClosed
		}
		sale.SaleValue = req.SaleValue
		sale.Commission = roundCents(req.SaleValue * sale.CommissionPercentage / 100)
	}
	if req.Notes != "" {
		sale.Notes = validation.SanitizeString(req.Notes)
	}

	newStatus := domain.SaleStatus(req.Status)
	if req.Status != "" && newStatus != oldStatus {
		if oldStatus != domain.SaleNegotiating {
			span.SetStatus(codes.Error, "invalid transition")
			return nil, ErrInvalidSaleTransition
		}
		sale.Status = newStatus
	}
	sale.UpdatedAt = s.now()

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if sale.Status != oldStatus {
		if sale.Status == domain.SaleSold {
			// The sale row is already updated; a failure here leaves the
			// vehicle still listed as available and needs operator attention
			if err := s.vehicleRepo.UpdateStatus(ctx, sale.VehicleID, domain.VehicleSold); err != nil {
				logger.Get().Error("sale closed but vehicle not marked sold",
					zap.String("sale_id", sale.ID),
					zap.String("vehicle_id", sale.VehicleID),
					zap.Error(err),
				)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, fmt.Errorf("sale %s closed but vehicle status update failed: %w", sale.ID, err)
			}
		}
		if err := s.publisher.PublishSaleStatusChanged(ctx, sale, oldStatus); err != nil {
			logger.Get().Warn("failed to publish sale status event",
				zap.String("sale_id", sale.ID),
				zap.Error(err),
			)
		}
	}

	span.SetStatus(codes.Ok, "")
	return sale, nil
}

// Stats aggregates the actor's sales; admins get the whole dealership
func (s *saleService) Stats(ctx context.Context, actor *domain.Profile) (*domain.SaleStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.sale.stats")
	defer span.End()

	vendedorID := ""
	if actor.Role != domain.RoleAdmin {
		vendedorID = actor.AuthUserID
	}

	stats, err := s.saleRepo.Stats(ctx, vendedorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}

// roundCents rounds a monetary amount to two decimal places
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
