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

// ContractHandler handles financed purchase HTTP requests
type ContractHandler struct {
	contractService service.ContractService
	authService     service.AuthService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService service.ContractService, authService service.AuthService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		authService:     authService,
	}
}

// Create opens a contract with its installment schedule
// POST /admin/api/contratos
func (h *ContractHandler) Create(c *gin.Context) {
	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), &req, profile.AuthUserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			response.NotFound(c, "Client not found")
		case errors.Is(err, service.ErrVehicleNotFound):
			response.NotFound(c, "Vehicle not found")
		case errors.Is(err, service.ErrVehicleNotAvailable):
			response.Error(c, http.StatusConflict, "VEHICLE_UNAVAILABLE", "Vehicle is not available", "")
		case errors.Is(err, service.ErrInvalidDownPayment):
			response.Error(c, http.StatusBadRequest, "INVALID_DOWN_PAYMENT", "Down payment exceeds total amount", "")
		case errors.Is(err, service.ErrInvalidFirstDueDate):
			response.Error(c, http.StatusBadRequest, "INVALID_DUE_DATE", "First installment date must be yyyy-mm-dd", "")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, contract)
}

// List returns all contracts
// GET /admin/api/contratos
func (h *ContractHandler) List(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	contracts, err := h.contractService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, contracts)
}

// Get returns one contract
// GET /admin/api/contratos/:id
func (h *ContractHandler) Get(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	contract, err := h.contractService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			response.NotFound(c, "Contract not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, contract)
}

// UpdateStatus changes the contract lifecycle state
// PATCH /admin/api/contratos/:id/status
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateContractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	err := h.contractService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.ContractStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			response.NotFound(c, "Contract not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"status": req.Status})
}

// Installments returns the schedule of one contract
// GET /admin/api/contratos/:id/parcelas
func (h *ContractHandler) Installments(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	installments, err := h.contractService.ListInstallments(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			response.NotFound(c, "Contract not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, installments)
}

// MarkInstallmentPaid settles one installment
// POST /admin/api/parcelas/:id/pagamento
func (h *ContractHandler) MarkInstallmentPaid(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	if err := h.contractService.MarkInstallmentPaid(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrInstallmentNotFound) {
			response.NotFound(c, "Installment not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"paid": true})
}
