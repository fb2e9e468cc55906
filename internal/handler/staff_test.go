package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/middleware"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// MockVehicleService is a minimal inventory service for handler tests
type MockVehicleService struct {
	vehicles map[string]*domain.Vehicle
}

func NewMockVehicleService() *MockVehicleService {
	return &MockVehicleService{vehicles: make(map[string]*domain.Vehicle)}
}

func (m *MockVehicleService) Create(ctx context.Context, req *dto.CreateVehicleRequest, createdBy string) (*domain.Vehicle, error) {
	return nil, nil
}

func (m *MockVehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, service.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (m *MockVehicleService) List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	var vehicles []*domain.Vehicle
	for _, v := range m.vehicles {
		if status == "" || v.Status == status {
			vehicles = append(vehicles, v)
		}
	}
	return vehicles, nil
}

func (m *MockVehicleService) Update(ctx context.Context, id string, req *dto.UpdateVehicleRequest) (*domain.Vehicle, error) {
	return nil, service.ErrVehicleNotFound
}

func (m *MockVehicleService) Delete(ctx context.Context, id string) error {
	return service.ErrVehicleNotFound
}

func (m *MockVehicleService) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	return map[domain.VehicleStatus]int{}, nil
}

func staffProfile(authUserID string, role domain.Role) *domain.Profile {
	return &domain.Profile{
		ID:         "profile-" + authUserID,
		AuthUserID: authUserID,
		Role:       role,
		FullName:   "Carlos Vendedor",
		Email:      "carlos@carros.com",
		IsActive:   true,
	}
}

// setupStaffRouter deposits the given profile the way the edge gate does
// before handing the request to the handler under test
func setupStaffRouter(gateProfile *domain.Profile, register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if gateProfile != nil {
			c.Set(middleware.ProfileKey, gateProfile)
		}
		c.Next()
	})
	register(&router.RouterGroup)
	return router
}

// Handlers re-resolve the caller from storage instead of trusting the
// profile the gate deposited. A user deactivated or removed after the
// gate ran is refused even though the request carries a live session.
func TestStaffHandlers_RevalidateCaller(t *testing.T) {
	tests := []struct {
		name       string
		gate       *domain.Profile
		stored     *domain.Profile
		wantStatus int
	}{
		{
			name:       "active caller passes",
			gate:       staffProfile("auth-user-1", domain.RoleVendedor),
			stored:     staffProfile("auth-user-1", domain.RoleVendedor),
			wantStatus: http.StatusOK,
		},
		{
			name: "caller deactivated after the gate ran",
			gate: staffProfile("auth-user-1", domain.RoleVendedor),
			stored: func() *domain.Profile {
				p := staffProfile("auth-user-1", domain.RoleVendedor)
				p.IsActive = false
				return p
			}(),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "caller profile removed after the gate ran",
			gate:       staffProfile("auth-user-1", domain.RoleVendedor),
			stored:     nil,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no gate profile at all",
			gate:       nil,
			stored:     staffProfile("auth-user-1", domain.RoleVendedor),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := NewMockAuthService()
			if tt.stored != nil {
				mockAuth.AddProfile(tt.stored)
			}

			handler := NewVehicleHandler(NewMockVehicleService(), mockAuth)
			router := setupStaffRouter(tt.gate, func(g *gin.RouterGroup) {
				g.GET("/vendedor/api/veiculos", handler.List)
			})

			req, _ := http.NewRequest(http.MethodGet, "/vendedor/api/veiculos", nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.Code)
			}
		})
	}
}
