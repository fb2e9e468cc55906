package repository

import (
	"context"
	"time"

	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
)

// ProfileRepository defines data access for staff authorization records
type ProfileRepository interface {
	// Create creates a new staff profile
	Create(ctx context.Context, p *domain.Profile) error
	// GetByID retrieves a profile by its own id
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	// GetByAuthUserID retrieves a profile by the durable auth user id.
	// This is the role-claim lookup: callers must not cache the result.
	GetByAuthUserID(ctx context.Context, authUserID string) (*domain.Profile, error)
	// GetByEmail retrieves a profile by email
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// List retrieves all profiles
	List(ctx context.Context) ([]*domain.Profile, error)
	// Update updates a profile
	Update(ctx context.Context, p *domain.Profile) error
}

// SessionRepository defines data access for staff sessions
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}

// ClientRepository defines data access for customer records
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
}

// VehicleRepository defines data access for inventory
type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error)
}

// ContractRepository defines data access for contracts and their installments
type ContractRepository interface {
	// Create persists a contract and its installment schedule atomically
	Create(ctx context.Context, c *domain.Contract, installments []*domain.Installment) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	List(ctx context.Context) ([]*domain.Contract, error)
	// ListByClientID returns the client's contracts with vehicles joined
	ListByClientID(ctx context.Context, clientID string) ([]*domain.Contract, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) error

	ListInstallments(ctx context.Context, contractID string) ([]*domain.Installment, error)
	ListInstallmentsByClient(ctx context.Context, clientID string) ([]*domain.Installment, error)
	MarkInstallmentPaid(ctx context.Context, installmentID string, paidAt time.Time) error
	CountOverdueInstallments(ctx context.Context, asOf time.Time) (int, error)
}

// SaleRepository defines data access for sales and commissions
type SaleRepository interface {
	Create(ctx context.Context, s *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	// List returns sales, optionally filtered by vendedor; joined reads
	// include client and vehicle summaries
	List(ctx context.Context, vendedorID string) ([]*domain.Sale, error)
	Update(ctx context.Context, s *domain.Sale) error
	Stats(ctx context.Context, vendedorID string) (*domain.SaleStats, error)
}
