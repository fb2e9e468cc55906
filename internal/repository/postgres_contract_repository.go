package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
)

// PostgresContractRepository implements ContractRepository using PostgreSQL
type PostgresContractRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresContractRepository creates a new PostgresContractRepository
func NewPostgresContractRepository(pool *pgxpool.Pool) *PostgresContractRepository {
	return &PostgresContractRepository{pool: pool}
}

const contractColumns = `id, client_id, vehicle_id, seller_id, contract_number,
	contract_date, total_amount, down_payment, remaining_amount,
	num_installments, installment_value, first_installment_date,
	contract_pdf_url, status, created_at, updated_at`

const installmentColumns = `id, contract_id, installment_number, due_date,
	amount, status, boleto_url, created_at, updated_at`

func scanContract(row pgx.Row) (*domain.Contract, error) {
	c := &domain.Contract{}
	err := row.Scan(
		&c.ID, &c.ClientID, &c.VehicleID, &c.SellerID, &c.ContractNumber,
		&c.ContractDate, &c.TotalAmount, &c.DownPayment, &c.RemainingAmount,
		&c.NumInstallments, &c.InstallmentValue, &c.FirstInstallmentDate,
		&c.ContractPDFURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanInstallment(row pgx.Row) (*domain.Installment, error) {
	i := &domain.Installment{}
	err := row.Scan(
		&i.ID, &i.ContractID, &i.InstallmentNumber, &i.DueDate,
		&i.Amount, &i.Status, &i.BoletoURL, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return i, nil
}

// Create persists a contract and its installment schedule in one transaction
func (r *PostgresContractRepository) Create(ctx context.Context, c *domain.Contract, installments []*domain.Installment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	contractQuery := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.Exec(ctx, contractQuery,
		c.ID, c.ClientID, c.VehicleID, c.SellerID, c.ContractNumber,
		c.ContractDate, c.TotalAmount, c.DownPayment, c.RemainingAmount,
		c.NumInstallments, c.InstallmentValue, c.FirstInstallmentDate,
		c.ContractPDFURL, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}

	installmentQuery := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, i := range installments {
		_, err = tx.Exec(ctx, installmentQuery,
			i.ID, i.ContractID, i.InstallmentNumber, i.DueDate,
			i.Amount, i.Status, i.BoletoURL, i.CreatedAt, i.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a contract by id
func (r *PostgresContractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	return scanContract(r.pool.QueryRow(ctx, query, id))
}

// List retrieves all contracts ordered by date
func (r *PostgresContractRepository) List(ctx context.Context) ([]*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts ORDER BY contract_date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// ListByClientID returns the client's contracts with the vehicle joined
func (r *PostgresContractRepository) ListByClientID(ctx context.Context, clientID string) ([]*domain.Contract, error) {
	query := `
		SELECT c.id, c.client_id, c.vehicle_id, c.seller_id, c.contract_number,
			c.contract_date, c.total_amount, c.down_payment, c.remaining_amount,
			c.num_installments, c.installment_value, c.first_installment_date,
			c.contract_pdf_url, c.status, c.created_at, c.updated_at,
			v.id, v.brand, v.model, v.year, v.color, v.fuel_type, v.transmission,
			v.mileage, v.price, v.status, v.license_plate, v.vehicle_type,
			v.description, v.created_by, v.created_at, v.updated_at
		FROM contracts c
		JOIN vehicles v ON v.id = c.vehicle_id
		WHERE c.client_id = $1
		ORDER BY c.contract_date DESC
	`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		c := &domain.Contract{Vehicle: &domain.Vehicle{}}
		v := c.Vehicle
		err := rows.Scan(
			&c.ID, &c.ClientID, &c.VehicleID, &c.SellerID, &c.ContractNumber,
			&c.ContractDate, &c.TotalAmount, &c.DownPayment, &c.RemainingAmount,
			&c.NumInstallments, &c.InstallmentValue, &c.FirstInstallmentDate,
			&c.ContractPDFURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			&v.ID, &v.Brand, &v.Model, &v.Year, &v.Color, &v.FuelType,
			&v.Transmission, &v.Mileage, &v.Price, &v.Status, &v.LicensePlate,
			&v.VehicleType, &v.Description, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// UpdateStatus updates the contract lifecycle status
func (r *PostgresContractRepository) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) error {
	query := `UPDATE contracts SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

// ListInstallments retrieves the installment schedule of a contract
func (r *PostgresContractRepository) ListInstallments(ctx context.Context, contractID string) ([]*domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE contract_id = $1
		ORDER BY installment_number
	`
	return r.queryInstallments(ctx, query, contractID)
}

// ListInstallmentsByClient retrieves all installments across the client's contracts
func (r *PostgresContractRepository) ListInstallmentsByClient(ctx context.Context, clientID string) ([]*domain.Installment, error) {
	query := `
		SELECT i.id, i.contract_id, i.installment_number, i.due_date,
			i.amount, i.status, i.boleto_url, i.created_at, i.updated_at
		FROM installments i
		JOIN contracts c ON c.id = i.contract_id
		WHERE c.client_id = $1
		ORDER BY i.due_date
	`
	return r.queryInstallments(ctx, query, clientID)
}

func (r *PostgresContractRepository) queryInstallments(ctx context.Context, query string, args ...interface{}) ([]*domain.Installment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*domain.Installment
	for rows.Next() {
		i, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, i)
	}
	return installments, rows.Err()
}

// MarkInstallmentPaid settles one installment
func (r *PostgresContractRepository) MarkInstallmentPaid(ctx context.Context, installmentID string, paidAt time.Time) error {
	query := `UPDATE installments SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, installmentID, domain.InstallmentPaid, paidAt)
	return err
}

// CountOverdueInstallments counts open installments past due at the given instant
func (r *PostgresContractRepository) CountOverdueInstallments(ctx context.Context, asOf time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM installments WHERE status = $1 AND due_date < $2`
	var count int
	err := r.pool.QueryRow(ctx, query, domain.InstallmentOpen, asOf).Scan(&count)
	return count, err
}
