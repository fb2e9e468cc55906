package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
)

// PostgresVehicleRepository implements VehicleRepository using PostgreSQL
type PostgresVehicleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVehicleRepository creates a new PostgresVehicleRepository
func NewPostgresVehicleRepository(pool *pgxpool.Pool) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{pool: pool}
}

const vehicleColumns = `id, brand, model, year, color, fuel_type, transmission,
	mileage, price, status, license_plate, vehicle_type, description,
	created_by, created_at, updated_at`

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(
		&v.ID, &v.Brand, &v.Model, &v.Year, &v.Color, &v.FuelType,
		&v.Transmission, &v.Mileage, &v.Price, &v.Status, &v.LicensePlate,
		&v.VehicleType, &v.Description, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// Create creates a new vehicle
func (r *PostgresVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID, v.Brand, v.Model, v.Year, v.Color, v.FuelType, v.Transmission,
		v.Mileage, v.Price, v.Status, v.LicensePlate, v.VehicleType,
		v.Description, v.CreatedBy, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

// GetByID retrieves a vehicle by id
func (r *PostgresVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return scanVehicle(r.pool.QueryRow(ctx, query, id))
}

// List retrieves vehicles, optionally filtered by status
func (r *PostgresVehicleRepository) List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Update updates a vehicle
func (r *PostgresVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET brand = $2, model = $3, year = $4, color = $5, fuel_type = $6,
			transmission = $7, mileage = $8, price = $9, status = $10,
			license_plate = $11, vehicle_type = $12, description = $13,
			updated_at = $14
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID, v.Brand, v.Model, v.Year, v.Color, v.FuelType, v.Transmission,
		v.Mileage, v.Price, v.Status, v.LicensePlate, v.VehicleType,
		v.Description, v.UpdatedAt,
	)
	return err
}

// UpdateStatus updates only the availability status
func (r *PostgresVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

// Delete deletes a vehicle
func (r *PostgresVehicleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	return err
}

// CountByStatus returns vehicle counts grouped by status
func (r *PostgresVehicleRepository) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM vehicles GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.VehicleStatus]int)
	for rows.Next() {
		var status domain.VehicleStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
