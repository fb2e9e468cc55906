package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/events"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/logger"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/repository"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var (
	ErrContractNotFound    = errors.New("contract not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInvalidDownPayment  = errors.New("down payment exceeds total amount")
	ErrInvalidFirstDueDate = errors.New("invalid first installment date")
	ErrNotContractOwner    = errors.New("contract belongs to another client")
)

// ContractService defines financed purchase operations
type ContractService interface {
	// Create opens a contract and generates its full installment schedule
	// in one transaction. Marking the vehicle sold happens in a follow-up
	// write; a failure there is reported with the contract already
	// committed.
	Create(ctx context.Context, req *dto.CreateContractRequest, sellerID string) (*domain.Contract, error)
	Get(ctx context.Context, id string) (*domain.Contract, error)
	List(ctx context.Context) ([]*domain.Contract, error)
	// ListByClient returns the client's contracts with vehicles joined
	ListByClient(ctx context.Context, clientID string) ([]*domain.Contract, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) error
	ListInstallments(ctx context.Context, contractID string) ([]*domain.Installment, error)
	// ListInstallmentsForClient returns every installment across the
	// client's contracts, refusing contracts of other clients
	ListInstallmentsForClient(ctx context.Context, contractID, clientID string) ([]*domain.Installment, error)
	MarkInstallmentPaid(ctx context.Context, installmentID string) error
	// OverdueCount counts open installments past due for dashboards
	OverdueCount(ctx context.Context) (int, error)
}

type contractService struct {
	contractRepo repository.ContractRepository
	vehicleRepo  repository.VehicleRepository
	clientRepo   repository.ClientRepository
	publisher    events.Publisher
	now          func() time.Time
}

// NewContractService creates a new ContractService
func NewContractService(
	contractRepo repository.ContractRepository,
	vehicleRepo repository.VehicleRepository,
	clientRepo repository.ClientRepository,
	publisher events.Publisher,
) ContractService {
	if publisher == nil {
		publisher = events.NewNoOpPublisher()
	}
	return &contractService{
		contractRepo: contractRepo,
		vehicleRepo:  vehicleRepo,
		clientRepo:   clientRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// Create opens a contract and generates its installment schedule
func (s *contractService) Create(ctx context.Context, req *dto.CreateContractRequest, sellerID string) (*domain.Contract, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("client_id", req.ClientID),
		attribute.String("vehicle_id", req.VehicleID),
	)

	if req.DownPayment > req.TotalAmount {
		span.SetStatus(codes.Error, "down payment exceeds total")
		return nil, ErrInvalidDownPayment
	}

	firstDue, err := time.Parse("2006-01-02", req.FirstInstallmentDate)
	if err != nil {
		span.SetStatus(codes.Error, "invalid first installment date")
		return nil, ErrInvalidFirstDueDate
	}

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
	remaining := roundCents(req.TotalAmount - req.DownPayment)
	perInstallment := roundCents(remaining / float64(req.NumInstallments))

	contract := &domain.Contract{
		ID:                   uuid.New().String(),
		ClientID:             client.ID,
		VehicleID:            vehicle.ID,
		SellerID:             sellerID,
		ContractNumber:       newContractNumber(now),
		ContractDate:         now,
		TotalAmount:          req.TotalAmount,
		DownPayment:          req.DownPayment,
		RemainingAmount:      remaining,
		NumInstallments:      req.NumInstallments,
		InstallmentValue:     perInstallment,
		FirstInstallmentDate: firstDue,
		Status:               domain.ContractActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	installments := buildSchedule(contract, firstDue, now)

	if err := s.contractRepo.Create(ctx, contract, installments); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// The contract transaction has committed; a failure here leaves the
	// vehicle still listed as available and needs operator attention
	if err := s.vehicleRepo.UpdateStatus(ctx, vehicle.ID, domain.VehicleSold); err != nil {
		logger.Get().Error("contract committed but vehicle not marked sold",
			zap.String("contract_id", contract.ID),
			zap.String("vehicle_id", vehicle.ID),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("contract %s created but vehicle status update failed: %w", contract.ID, err)
	}

	// Event delivery is best effort; the contract is already committed
	if err := s.publisher.PublishContractCreated(ctx, contract); err != nil {
		logger.Get().Warn("failed to publish contract created event",
			zap.String("contract_id", contract.ID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.String("contract_id", contract.ID))
	span.SetStatus(codes.Ok, "")
	return contract, nil
}

// Get retrieves one contract
func (s *contractService) Get(ctx context.Context, id string) (*domain.Contract, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.get")
	defer span.End()

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if contract == nil {
		span.SetStatus(codes.Error, "contract not found")
		return nil, ErrContractNotFound
	}

	span.SetStatus(codes.Ok, "")
	return contract, nil
}

// List retrieves all contracts
func (s *contractService) List(ctx context.Context) ([]*domain.Contract, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.list")
	defer span.End()

	contracts, err := s.contractRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(contracts)))
	span.SetStatus(codes.Ok, "")
	return contracts, nil
}

// ListByClient returns the client's contracts with vehicles joined
func (s *contractService) ListByClient(ctx context.Context, clientID string) ([]*domain.Contract, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.list_by_client")
	defer span.End()

	span.SetAttributes(attribute.String("client_id", clientID))

	contracts, err := s.contractRepo.ListByClientID(ctx, clientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(contracts)))
	span.SetStatus(codes.Ok, "")
	return contracts, nil
}

// UpdateStatus changes the contract lifecycle state
func (s *contractService) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.update_status")
	defer span.End()

	span.SetAttributes(attribute.String("contract_id", id))

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if contract == nil {
		span.SetStatus(codes.Error, "contract not found")
		return ErrContractNotFound
	}

	if err := s.contractRepo.UpdateStatus(ctx, id, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// A canceled contract releases the vehicle back to inventory
	if status == domain.ContractCanceled {
		if err := s.vehicleRepo.UpdateStatus(ctx, contract.VehicleID, domain.VehicleAvailable); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListInstallments retrieves the schedule of one contract
func (s *contractService) ListInstallments(ctx context.Context, contractID string) ([]*domain.Installment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.list_installments")
	defer span.End()

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if contract == nil {
		span.SetStatus(codes.Error, "contract not found")
		return nil, ErrContractNotFound
	}

	installments, err := s.contractRepo.ListInstallments(ctx, contractID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return installments, nil
}

// ListInstallmentsForClient retrieves one contract's schedule on behalf
// of a customer, refusing contracts that belong to someone else
func (s *contractService) ListInstallmentsForClient(ctx context.Context, contractID, clientID string) ([]*domain.Installment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.list_installments_for_client")
	defer span.End()

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if contract == nil {
		span.SetStatus(codes.Error, "contract not found")
		return nil, ErrContractNotFound
	}
	if contract.ClientID != clientID {
		span.SetStatus(codes.Error, "not contract owner")
		return nil, ErrNotContractOwner
	}

	installments, err := s.contractRepo.ListInstallments(ctx, contractID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return installments, nil
}

// MarkInstallmentPaid settles one installment
func (s *contractService) MarkInstallmentPaid(ctx context.Context, installmentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.mark_installment_paid")
	defer span.End()

	span.SetAttributes(attribute.String("installment_id", installmentID))

	if err := s.contractRepo.MarkInstallmentPaid(ctx, installmentID, s.now()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// OverdueCount counts open installments past due
func (s *contractService) OverdueCount(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contract.overdue_count")
	defer span.End()

	count, err := s.contractRepo.CountOverdueInstallments(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetStatus(codes.Ok, "")
	return count, nil
}

// buildSchedule generates monthly installments starting at firstDue.
// The last installment absorbs rounding drift so the schedule sums to
// exactly the remaining amount.
func buildSchedule(c *domain.Contract, firstDue, now time.Time) []*domain.Installment {
	installments := make([]*domain.Installment, 0, c.NumInstallments)
	allocated := 0.0
	for i := 0; i < c.NumInstallments; i++ {
		amount := c.InstallmentValue
		if i == c.NumInstallments-1 {
			amount = roundCents(c.RemainingAmount - allocated)
		}
		allocated = roundCents(allocated + amount)
		installments = append(installments, &domain.Installment{
			ID:                uuid.New().String(),
			ContractID:        c.ID,
			InstallmentNumber: i + 1,
			DueDate:           firstDue.AddDate(0, i, 0),
			Amount:            amount,
			Status:            domain.InstallmentOpen,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return installments
}

// newContractNumber builds a human-readable contract identifier
func newContractNumber(now time.Time) string {
	return fmt.Sprintf("CT-%d-%s", now.Year(), uuid.New().String()[:8])
}
