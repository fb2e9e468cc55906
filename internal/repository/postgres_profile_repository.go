package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
)

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

const profileColumns = `id, auth_user_id, role, full_name, email, password_hash,
	phone, commission_percentage, is_active, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.ID,
		&p.AuthUserID,
		&p.Role,
		&p.FullName,
		&p.Email,
		&p.PasswordHash,
		&p.Phone,
		&p.CommissionPercentage,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Create creates a new staff profile
func (r *PostgresProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO users_profile (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.AuthUserID, p.Role, p.FullName, p.Email, p.PasswordHash,
		p.Phone, p.CommissionPercentage, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its own id
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users_profile WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetByAuthUserID retrieves a profile by durable auth user id
func (r *PostgresProfileRepository) GetByAuthUserID(ctx context.Context, authUserID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users_profile WHERE auth_user_id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, authUserID))
}

// GetByEmail retrieves a profile by email
func (r *PostgresProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users_profile WHERE email = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, email))
}

// List retrieves all profiles ordered by name
func (r *PostgresProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users_profile ORDER BY full_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update updates a profile
func (r *PostgresProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE users_profile
		SET role = $2, full_name = $3, email = $4, password_hash = $5,
			phone = $6, commission_percentage = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Role, p.FullName, p.Email, p.PasswordHash,
		p.Phone, p.CommissionPercentage, p.IsActive, p.UpdatedAt,
	)
	return err
}
