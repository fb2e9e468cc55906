package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
)

// PostgresClientRepository implements ClientRepository using PostgreSQL
type PostgresClientRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresClientRepository creates a new PostgresClientRepository
func NewPostgresClientRepository(pool *pgxpool.Pool) *PostgresClientRepository {
	return &PostgresClientRepository{pool: pool}
}

const clientColumns = `id, cpf, full_name, email, phone, birth_date, address,
	city, state, zip_code, nationality, profession, marital_status,
	is_active, created_at, updated_at`

func scanClient(row pgx.Row) (*domain.Client, error) {
	c := &domain.Client{}
	err := row.Scan(
		&c.ID, &c.CPF, &c.FullName, &c.Email, &c.Phone, &c.BirthDate,
		&c.Address, &c.City, &c.State, &c.ZipCode, &c.Nationality,
		&c.Profession, &c.MaritalStatus, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Create creates a new client record
func (r *PostgresClientRepository) Create(ctx context.Context, c *domain.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.CPF, c.FullName, c.Email, c.Phone, c.BirthDate, c.Address,
		c.City, c.State, c.ZipCode, c.Nationality, c.Profession,
		c.MaritalStatus, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetByID retrieves a client by id
func (r *PostgresClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(r.pool.QueryRow(ctx, query, id))
}

// GetByCPF retrieves a client by CPF (digits only)
func (r *PostgresClientRepository) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE cpf = $1`
	return scanClient(r.pool.QueryRow(ctx, query, cpf))
}

// List retrieves all clients ordered by name
func (r *PostgresClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY full_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Update updates a client record
func (r *PostgresClientRepository) Update(ctx context.Context, c *domain.Client) error {
	query := `
		UPDATE clients
		SET full_name = $2, email = $3, phone = $4, birth_date = $5,
			address = $6, city = $7, state = $8, zip_code = $9,
			nationality = $10, profession = $11, marital_status = $12,
			is_active = $13, updated_at = $14
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.FullName, c.Email, c.Phone, c.BirthDate, c.Address, c.City,
		c.State, c.ZipCode, c.Nationality, c.Profession, c.MaritalStatus,
		c.IsActive, c.UpdatedAt,
	)
	return err
}
