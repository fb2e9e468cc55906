package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/response"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// DashboardHandler aggregates figures for the admin dashboard
type DashboardHandler struct {
	vehicleService  service.VehicleService
	saleService     service.SaleService
	contractService service.ContractService
	authService     service.AuthService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	vehicleService service.VehicleService,
	saleService service.SaleService,
	contractService service.ContractService,
	authService service.AuthService,
) *DashboardHandler {
	return &DashboardHandler{
		vehicleService:  vehicleService,
		saleService:     saleService,
		contractService: contractService,
		authService:     authService,
	}
}

// Summary returns inventory counts, sale stats and overdue installments
// GET /admin/api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	vehicles, err := h.vehicleService.CountByStatus(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	sales, err := h.saleService.Stats(ctx, profile)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	overdue, err := h.contractService.OverdueCount(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{
		"vehicles":             vehicles,
		"sales":                sales,
		"overdue_installments": overdue,
	})
}
