package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
)

// mockVehicleRepository is a mock implementation of VehicleRepository
type mockVehicleRepository struct {
	vehicles        map[string]*domain.Vehicle
	updateStatusErr error
}

func newMockVehicleRepository() *mockVehicleRepository {
	return &mockVehicleRepository{vehicles: make(map[string]*domain.Vehicle)}
}

func (r *mockVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	r.vehicles[v.ID] = v
	return nil
}

func (r *mockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	return r.vehicles[id], nil
}

func (r *mockVehicleRepository) List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	var out []*domain.Vehicle
	for _, v := range r.vehicles {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *mockVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	r.vehicles[v.ID] = v
	return nil
}

func (r *mockVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	if v := r.vehicles[id]; v != nil {
		v.Status = status
	}
	return nil
}

func (r *mockVehicleRepository) Delete(ctx context.Context, id string) error {
	delete(r.vehicles, id)
	return nil
}

func (r *mockVehicleRepository) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	counts := make(map[domain.VehicleStatus]int)
	for _, v := range r.vehicles {
		counts[v.Status]++
	}
	return counts, nil
}

// mockSaleRepository is a mock implementation of SaleRepository
type mockSaleRepository struct {
	sales map[string]*domain.Sale
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{sales: make(map[string]*domain.Sale)}
}

func (r *mockSaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *mockSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	return r.sales[id], nil
}

func (r *mockSaleRepository) List(ctx context.Context, vendedorID string) ([]*domain.Sale, error) {
	var out []*domain.Sale
	for _, s := range r.sales {
		if vendedorID == "" || s.VendedorID == vendedorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mockSaleRepository) Update(ctx context.Context, s *domain.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *mockSaleRepository) Stats(ctx context.Context, vendedorID string) (*domain.SaleStats, error) {
	stats := &domain.SaleStats{}
	for _, s := range r.sales {
		if vendedorID != "" && s.VendedorID != vendedorID {
			continue
		}
		stats.TotalSales++
		switch s.Status {
		case domain.SaleSold:
			stats.SoldCount++
			stats.TotalValue += s.SaleValue
			stats.TotalCommission += s.Commission
		case domain.SaleNegotiating:
			stats.NegotiatingCount++
		case domain.SaleCanceled:
			stats.CanceledCount++
		}
	}
	return stats, nil
}

// recordingPublisher records published events for assertions
type recordingPublisher struct {
	created       []*domain.Sale
	statusChanges []*domain.Sale
	contracts     []*domain.Contract
}

func (p *recordingPublisher) PublishSaleCreated(ctx context.Context, sale *domain.Sale) error {
	p.created = append(p.created, sale)
	return nil
}

func (p *recordingPublisher) PublishSaleStatusChanged(ctx context.Context, sale *domain.Sale, oldStatus domain.SaleStatus) error {
	p.statusChanges = append(p.statusChanges, sale)
	return nil
}

func (p *recordingPublisher) PublishContractCreated(ctx context.Context, contract *domain.Contract) error {
	p.contracts = append(p.contracts, contract)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func seedSaleFixtures(t *testing.T, vehicleRepo *mockVehicleRepository, clientRepo *mockClientRepository) {
	t.Helper()
	vehicle := &domain.Vehicle{
		ID:     "vehicle-1",
		Brand:  "Fiat",
		Model:  "Argo",
		Year:   2022,
		Price:  65000,
		Status: domain.VehicleAvailable,
	}
	if err := vehicleRepo.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("failed to seed vehicle: %v", err)
	}
	client := &domain.Client{
		ID:       "client-1",
		CPF:      "52998224725",
		FullName: "Joana Pereira",
		IsActive: true,
	}
	if err := clientRepo.Create(context.Background(), client); err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
}

func TestSaleService_Create(t *testing.T) {
	vendedor := &domain.Profile{
		AuthUserID:           "auth-user-1",
		Role:                 domain.RoleVendedor,
		CommissionPercentage: 2.5,
	}

	t.Run("commission from vendedor percentage", func(t *testing.T) {
		saleRepo := newMockSaleRepository()
		vehicleRepo := newMockVehicleRepository()
		clientRepo := newMockClientRepository()
		publisher := &recordingPublisher{}
		seedSaleFixtures(t, vehicleRepo, clientRepo)
		svc := NewSaleService(saleRepo, vehicleRepo, clientRepo, publisher)

		sale, err := svc.Create(context.Background(), &dto.CreateSaleRequest{
			ClientID:  "client-1",
			VehicleID: "vehicle-1",
			SaleValue: 63500,
		}, vendedor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sale.Status != domain.SaleNegotiating {
			t.Errorf("expected em negociacao, got %s", sale.Status)
		}
		if sale.Commission != 1587.50 {
			t.Errorf("expected commission 1587.50, got %.2f", sale.Commission)
		}
		if len(publisher.created) != 1 {
			t.Errorf("expected one created event, got %d", len(publisher.created))
		}
	})

	t.Run("vehicle must be available", func(t *testing.T) {
		saleRepo := newMockSaleRepository()
		vehicleRepo := newMockVehicleRepository()
		clientRepo := newMockClientRepository()
		seedSaleFixtures(t, vehicleRepo, clientRepo)
		vehicleRepo.vehicles["vehicle-1"].Status = domain.VehicleSold
		svc := NewSaleService(saleRepo, vehicleRepo, clientRepo, nil)

		_, err := svc.Create(context.Background(), &dto.CreateSaleRequest{
			ClientID:  "client-1",
			VehicleID: "vehicle-1",
			SaleValue: 63500,
		}, vendedor)
		if !errors.Is(err, ErrVehicleNotAvailable) {
			t.Errorf("expected ErrVehicleNotAvailable, got %v", err)
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		saleRepo := newMockSaleRepository()
		vehicleRepo := newMockVehicleRepository()
		clientRepo := newMockClientRepository()
		seedSaleFixtures(t, vehicleRepo, clientRepo)
		svc := NewSaleService(saleRepo, vehicleRepo, clientRepo, nil)

		_, err := svc.Create(context.Background(), &dto.CreateSaleRequest{
			ClientID:  "client-9",
			VehicleID: "vehicle-1",
			SaleValue: 63500,
		}, vendedor)
		if !errors.Is(err, ErrClientNotFound) {
			t.Errorf("expected ErrClientNotFound, got %v", err)
		}
	})
}

func TestSaleService_Update(t *testing.T) {
	vendedor := &domain.Profile{
		AuthUserID:           "auth-user-1",
		Role:                 domain.RoleVendedor,
		CommissionPercentage: 2.5,
	}
	otherVendedor := &domain.Profile{
		AuthUserID: "auth-user-2",
		Role:       domain.RoleVendedor,
	}
	admin := &domain.Profile{
		AuthUserID: "auth-admin",
		Role:       domain.RoleAdmin,
	}

	setup := func(t *testing.T) (SaleService, *mockSaleRepository, *mockVehicleRepository, *recordingPublisher, *domain.Sale) {
		t.Helper()
		saleRepo := newMockSaleRepository()
		vehicleRepo := newMockVehicleRepository()
		clientRepo := newMockClientRepository()
		publisher := &recordingPublisher{}
		seedSaleFixtures(t, vehicleRepo, clientRepo)
		svc := NewSaleService(saleRepo, vehicleRepo, clientRepo, publisher)
		sale, err := svc.Create(context.Background(), &dto.CreateSaleRequest{
			ClientID:  "client-1",
			VehicleID: "vehicle-1",
			SaleValue: 63500,
		}, vendedor)
		if err != nil {
			t.Fatalf("failed to create sale: %v", err)
		}
		return svc, saleRepo, vehicleRepo, publisher, sale
	}

	t.Run("vendido marks the vehicle sold", func(t *testing.T) {
		svc, _, vehicleRepo, publisher, sale := setup(t)

		updated, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Status: string(domain.SaleSold),
		}, vendedor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.Status != domain.SaleSold {
			t.Errorf("expected vendido, got %s", updated.Status)
		}
		if vehicleRepo.vehicles["vehicle-1"].Status != domain.VehicleSold {
			t.Error("expected vehicle to be marked sold")
		}
		if len(publisher.statusChanges) != 1 {
			t.Errorf("expected one status event, got %d", len(publisher.statusChanges))
		}
	})

	t.Run("vehicle write failure after close is surfaced", func(t *testing.T) {
		svc, saleRepo, vehicleRepo, _, sale := setup(t)
		repoErr := errors.New("connection reset")
		vehicleRepo.updateStatusErr = repoErr

		_, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Status: string(domain.SaleSold),
		}, vendedor)
		if !errors.Is(err, repoErr) {
			t.Fatalf("expected the repository error, got %v", err)
		}
		// The sale row committed before the vehicle write failed
		if saleRepo.sales[sale.ID].Status != domain.SaleSold {
			t.Error("expected sale to stay closed after the vehicle write failed")
		}
	})

	t.Run("cancelado leaves the vehicle untouched", func(t *testing.T) {
		svc, _, vehicleRepo, _, sale := setup(t)

		_, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Status: string(domain.SaleCanceled),
		}, vendedor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if vehicleRepo.vehicles["vehicle-1"].Status != domain.VehicleAvailable {
			t.Error("expected vehicle to stay available")
		}
	})

	t.Run("closed sale cannot transition again", func(t *testing.T) {
		svc, _, _, _, sale := setup(t)

		if _, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Status: string(domain.SaleSold),
		}, vendedor); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		_, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Status: string(domain.SaleCanceled),
		}, vendedor)
		if !errors.Is(err, ErrInvalidSaleTransition) {
			t.Errorf("expected ErrInvalidSaleTransition, got %v", err)
		}
	})

	t.Run("value change recomputes the commission", func(t *testing.T) {
		svc, _, _, _, sale := setup(t)

		updated, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			SaleValue: 60000,
		}, vendedor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.Commission != 1500 {
			t.Errorf("expected commission 1500, got %.2f", updated.Commission)
		}
	})

	t.Run("other vendedor cannot touch the sale", func(t *testing.T) {
		svc, _, _, _, sale := setup(t)

		_, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Notes: "mine now",
		}, otherVendedor)
		if !errors.Is(err, ErrNotSaleOwner) {
			t.Errorf("expected ErrNotSaleOwner, got %v", err)
		}
	})

	t.Run("admin can touch any sale", func(t *testing.T) {
		svc, _, _, _, sale := setup(t)

		if _, err := svc.Update(context.Background(), sale.ID, &dto.UpdateSaleRequest{
			Notes: "reviewed",
		}, admin); err != nil {
			t.Errorf("expected no error for admin, got %v", err)
		}
	})
}

func TestSaleService_ListAndStats(t *testing.T) {
	vendedor := &domain.Profile{AuthUserID: "auth-user-1", Role: domain.RoleVendedor, CommissionPercentage: 2}
	admin := &domain.Profile{AuthUserID: "auth-admin", Role: domain.RoleAdmin}

	saleRepo := newMockSaleRepository()
	vehicleRepo := newMockVehicleRepository()
	clientRepo := newMockClientRepository()
	svc := NewSaleService(saleRepo, vehicleRepo, clientRepo, nil)

	saleRepo.sales["s1"] = &domain.Sale{ID: "s1", VendedorID: "auth-user-1", Status: domain.SaleSold, SaleValue: 50000, Commission: 1000}
	saleRepo.sales["s2"] = &domain.Sale{ID: "s2", VendedorID: "auth-user-2", Status: domain.SaleSold, SaleValue: 80000, Commission: 1600}
	saleRepo.sales["s3"] = &domain.Sale{ID: "s3", VendedorID: "auth-user-1", Status: domain.SaleNegotiating, SaleValue: 30000}

	t.Run("vendedor sees only own sales", func(t *testing.T) {
		sales, err := svc.List(context.Background(), vendedor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sales) != 2 {
			t.Errorf("expected 2 sales, got %d", len(sales))
		}
	})

	t.Run("admin sees everything", func(t *testing.T) {
		sales, err := svc.List(context.Background(), admin)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sales) != 3 {
			t.Errorf("expected 3 sales, got %d", len(sales))
		}
	})

	t.Run("stats are scoped to the vendedor", func(t *testing.T) {
		stats, err := svc.Stats(context.Background(), vendedor)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if stats.TotalSales != 2 || stats.SoldCount != 1 || stats.NegotiatingCount != 1 {
			t.Errorf("unexpected stats: %+v", stats)
		}
		if stats.TotalCommission != 1000 {
			t.Errorf("expected commission 1000, got %.2f", stats.TotalCommission)
		}
	})
}

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1587.499999, 1587.50},
		{1666.666666, 1666.67},
		{0.004, 0},
		{2500, 2500},
	}
	for _, tc := range cases {
		if got := roundCents(tc.in); got != tc.want {
			t.Errorf("roundCents(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
