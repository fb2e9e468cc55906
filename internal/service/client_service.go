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
	ErrClientAlreadyExists = errors.New("client already exists")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidPhone        = errors.New("invalid phone")
)

// ClientService defines customer record operations
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest) (*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*domain.Client, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	now        func() time.Time
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// Create registers a customer. CPF check digits and the dd/mm/yyyy
// birth date are validated before anything touches storage.
func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest) (*domain.Client, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.client.create")
	defer span.End()

	cpf := validation.StripCPF(req.CPF)
	if !validation.ValidateCPF(cpf) {
		span.SetStatus(codes.Error, "invalid cpf")
		return nil, ErrInvalidCPF
	}
	if !validation.ValidateBirthDate(req.BirthDate, s.now()) {
		span.SetStatus(codes.Error, "invalid birth date")
		return nil, ErrInvalidBirthDate
	}
	email := validation.NormalizeEmail(req.Email)
	if email != "" && !validation.ValidateEmail(email) {
		span.SetStatus(codes.Error, "invalid email")
		return nil, ErrInvalidEmail
	}
	if req.Phone != "" && !validation.ValidatePhone(req.Phone) {
		span.SetStatus(codes.Error, "invalid phone")
		return nil, ErrInvalidPhone
	}

	existing, err := s.clientRepo.GetByCPF(ctx, cpf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "client already exists")
		return nil, ErrClientAlreadyExists
	}

	now := s.now()
	client := &domain.Client{
		ID:            uuid.New().String(),
		CPF:           cpf,
		FullName:      validation.SanitizeString(req.FullName),
		Email:         email,
		Phone:         req.Phone,
		BirthDate:     validation.BirthDateToISO(req.BirthDate),
		Address:       validation.SanitizeString(req.Address),
		City:          validation.SanitizeString(req.City),
		State:         validation.SanitizeString(req.State),
		ZipCode:       validation.SanitizeString(req.ZipCode),
		Nationality:   validation.SanitizeString(req.Nationality),
		Profession:    validation.SanitizeString(req.Profession),
		MaritalStatus: validation.SanitizeString(req.MaritalStatus),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("client_id", client.ID))
	span.SetStatus(codes.Ok, "")
	return client, nil
}

// Get retrieves one client
func (s *clientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.client.get")
	defer span.End()

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if client == nil {
		span.SetStatus(codes.Error, "client not found")
		return nil, ErrClientNotFound
	}

	span.SetStatus(codes.Ok, "")
	return client, nil
}

// GetByCPF retrieves one client by CPF
func (s *clientService) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.client.get_by_cpf")
	defer span.End()

	stripped := validation.StripCPF(cpf)
	if !validation.ValidateCPF(stripped) {
		span.SetStatus(codes.Error, "invalid cpf")
		return nil, ErrInvalidCPF
	}

	client, err := s.clientRepo.GetByCPF(ctx, stripped)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if client == nil {
		span.SetStatus(codes.Error, "client not found")
		return nil, ErrClientNotFound
	}

	span.SetStatus(codes.Ok, "")
	return client, nil
}

// List retrieves all clients
func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.client.list")
	defer span.End()

	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(clients)))
	span.SetStatus(codes.Ok, "")
	return clients, nil
}

// Update edits a client record; empty request fields are left untouched
func (s *clientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*domain.Client, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.client.update")
	defer span.End()

	span.SetAttributes(attribute.String("client_id", id))

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if client == nil {
		span.SetStatus(codes.Error, "client not found")
		return nil, ErrClientNotFound
	}

	if req.FullName != "" {
		client.FullName = validation.SanitizeString(req.FullName)
	}
	if req.Email != "" {
		email := validation.NormalizeEmail(req.Email)
		if !validation.ValidateEmail(email) {
			span.SetStatus(codes.Error, "invalid email")
			return nil, ErrInvalidEmail
		}
		client.Email = email
	}
	if req.Phone != "" {
		if !validation.ValidatePhone(req.Phone) {
			span.SetStatus(codes.Error, "invalid phone")
			return nil, ErrInvalidPhone
		}
		client.Phone = req.Phone
	}
	if req.Address != "" {
		client.Address = validation.SanitizeString(req.Address)
	}
	if req.City != "" {
		client.City = validation.SanitizeString(req.City)
	}
	if req.State != "" {
		client.State = validation.SanitizeString(req.State)
	}
	if req.ZipCode != "" {
		client.ZipCode = validation.SanitizeString(req.ZipCode)
	}
	if req.Nationality != "" {
		client.Nationality = validation.SanitizeString(req.Nationality)
	}
	if req.Profession != "" {
		client.Profession = validation.SanitizeString(req.Profession)
	}
	if req.MaritalStatus != "" {
		client.MaritalStatus = validation.SanitizeString(req.MaritalStatus)
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	client.UpdatedAt = s.now()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return client, nil
}
