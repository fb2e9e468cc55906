package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/response"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// SaleHandler handles negotiation HTTP requests
type SaleHandler struct {
	saleService service.SaleService
	authService service.AuthService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, authService service.AuthService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		authService: authService,
	}
}

// Create opens a negotiation
// POST /vendedor/api/vendas, /admin/api/vendas
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), &req, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			response.NotFound(c, "Client not found")
		case errors.Is(err, service.ErrVehicleNotFound):
			response.NotFound(c, "Vehicle not found")
		case errors.Is(err, service.ErrVehicleNotAvailable):
			response.Error(c, http.StatusConflict, "VEHICLE_UNAVAILABLE", "Vehicle is not available for sale", "")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, sale)
}

// List returns the caller's sales; admins see every sale
// GET /vendedor/api/vendas, /admin/api/vendas
func (h *SaleHandler) List(c *gin.Context) {
	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	sales, err := h.saleService.List(c.Request.Context(), profile)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, sales)
}

// Get returns one sale
// GET /vendedor/api/vendas/:id, /admin/api/vendas/:id
func (h *SaleHandler) Get(c *gin.Context) {
	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	sale, err := h.saleService.Get(c.Request.Context(), c.Param("id"), profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSaleNotFound):
			response.NotFound(c, "Sale not found")
		case errors.Is(err, service.ErrNotSaleOwner):
			response.Forbidden(c, "Access denied")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, sale)
}

// Update edits a sale
// PUT /vendedor/api/vendas/:id, /admin/api/vendas/:id
func (h *SaleHandler) Update(c *gin.Context) {
	var req dto.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	sale, err := h.saleService.Update(c.Request.Context(), c.Param("id"), &req, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSaleNotFound):
			response.NotFound(c, "Sale not found")
		case errors.Is(err, service.ErrNotSaleOwner):
			response.Forbidden(c, "Access denied")
		case errors.Is(err, service.ErrSaleAlreadyClosed):
			response.Error(c, http.StatusConflict, "SALE_CLOSED", "Closed sales cannot change value", "")
		case errors.Is(err, service.ErrInvalidSaleTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Closed sales cannot change status", "")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, sale)
}

// Stats returns the caller's aggregated figures
// GET /vendedor/api/vendas/stats, /admin/api/vendas/stats
func (h *SaleHandler) Stats(c *gin.Context) {
	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	stats, err := h.saleService.Stats(c.Request.Context(), profile)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}
