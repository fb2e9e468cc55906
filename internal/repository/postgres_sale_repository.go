package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
)

// PostgresSaleRepository implements SaleRepository using PostgreSQL
type PostgresSaleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSaleRepository creates a new PostgresSaleRepository
func NewPostgresSaleRepository(pool *pgxpool.Pool) *PostgresSaleRepository {
	return &PostgresSaleRepository{pool: pool}
}

const saleColumns = `id, client_id, vehicle_id, vendedor_id, sale_value,
	commission, commission_percentage, status, notes, created_at, updated_at`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	s := &domain.Sale{}
	err := row.Scan(
		&s.ID, &s.ClientID, &s.VehicleID, &s.VendedorID, &s.SaleValue,
		&s.Commission, &s.CommissionPercentage, &s.Status, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create creates a new sale
func (r *PostgresSaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.ClientID, s.VehicleID, s.VendedorID, s.SaleValue,
		s.Commission, s.CommissionPercentage, s.Status, s.Notes,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID retrieves a sale by id
func (r *PostgresSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.pool.QueryRow(ctx, query, id))
}

// List retrieves sales with client and vehicle joined, newest first.
// An empty vendedorID returns every sale.
func (r *PostgresSaleRepository) List(ctx context.Context, vendedorID string) ([]*domain.Sale, error) {
	query := `
		SELECT s.id, s.client_id, s.vehicle_id, s.vendedor_id, s.sale_value,
			s.commission, s.commission_percentage, s.status, s.notes,
			s.created_at, s.updated_at,
			c.id, c.full_name, c.cpf, c.phone,
			v.id, v.brand, v.model, v.year, v.license_plate
		FROM sales s
		JOIN clients c ON c.id = s.client_id
		JOIN vehicles v ON v.id = s.vehicle_id
	`
	args := []interface{}{}
	if vendedorID != "" {
		query += ` WHERE s.vendedor_id = $1`
		args = append(args, vendedorID)
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		s := &domain.Sale{Client: &domain.Client{}, Vehicle: &domain.Vehicle{}}
		err := rows.Scan(
			&s.ID, &s.ClientID, &s.VehicleID, &s.VendedorID, &s.SaleValue,
			&s.Commission, &s.CommissionPercentage, &s.Status, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
			&s.Client.ID, &s.Client.FullName, &s.Client.CPF, &s.Client.Phone,
			&s.Vehicle.ID, &s.Vehicle.Brand, &s.Vehicle.Model, &s.Vehicle.Year,
			&s.Vehicle.LicensePlate,
		)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// Update updates a sale
func (r *PostgresSaleRepository) Update(ctx context.Context, s *domain.Sale) error {
	query := `
		UPDATE sales
		SET sale_value = $2, commission = $3, commission_percentage = $4,
			status = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.SaleValue, s.Commission, s.CommissionPercentage,
		s.Status, s.Notes, s.UpdatedAt,
	)
	return err
}

// Stats aggregates sales figures, optionally scoped to one vendedor
func (r *PostgresSaleRepository) Stats(ctx context.Context, vendedorID string) (*domain.SaleStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'vendido'),
			COUNT(*) FILTER (WHERE status = 'em negociacao'),
			COUNT(*) FILTER (WHERE status = 'cancelado'),
			COALESCE(SUM(sale_value) FILTER (WHERE status = 'vendido'), 0),
			COALESCE(SUM(commission) FILTER (WHERE status = 'vendido'), 0)
		FROM sales
	`
	args := []interface{}{}
	if vendedorID != "" {
		query += ` WHERE vendedor_id = $1`
		args = append(args, vendedorID)
	}

	stats := &domain.SaleStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalSales,
		&stats.SoldCount,
		&stats.NegotiatingCount,
		&stats.CanceledCount,
		&stats.TotalValue,
		&stats.TotalCommission,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
