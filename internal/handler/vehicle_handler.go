package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/response"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// VehicleHandler handles inventory HTTP requests
type VehicleHandler struct {
	vehicleService service.VehicleService
	authService    service.AuthService
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleService service.VehicleService, authService service.AuthService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		authService:    authService,
	}
}

// Create adds a vehicle to inventory
// POST /admin/api/veiculos
func (h *VehicleHandler) Create(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), &req, profile.AuthUserID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, vehicle)
}

// List returns vehicles, optionally filtered by status
// GET /admin/api/veiculos, /vendedor/api/veiculos
func (h *VehicleHandler) List(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	status := domain.VehicleStatus(c.Query("status"))
	vehicles, err := h.vehicleService.List(c.Request.Context(), status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, vehicles)
}

// ListAvailable returns only vehicles open for sale
// GET /vendedor/api/veiculos/disponiveis
func (h *VehicleHandler) ListAvailable(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), domain.VehicleAvailable)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, vehicles)
}

// Get returns one vehicle
// GET /admin/api/veiculos/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			response.NotFound(c, "Vehicle not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// Update edits a vehicle
// PUT /admin/api/veiculos/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	vehicle, err := h.vehicleService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			response.NotFound(c, "Vehicle not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// Delete removes a vehicle
// DELETE /admin/api/veiculos/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	err := h.vehicleService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleNotFound):
			response.NotFound(c, "Vehicle not found")
		case errors.Is(err, service.ErrVehicleHasSales):
			response.Error(c, http.StatusConflict, "VEHICLE_SOLD", "Sold vehicles cannot be removed", "")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
