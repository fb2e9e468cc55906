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

// SessionTokenHeader carries the customer session artifact
const SessionTokenHeader = "X-Session-Token"

// CustomerHandler handles the customer self-service area
type CustomerHandler struct {
	authService     service.AuthService
	contractService service.ContractService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(authService service.AuthService, contractService service.ContractService) *CustomerHandler {
	return &CustomerHandler{
		authService:     authService,
		contractService: contractService,
	}
}

// Login handles customer login by CPF and birth date
// POST /cliente/api/login
func (h *CustomerHandler) Login(c *gin.Context) {
	var req dto.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.CustomerLogin(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTooManyAttempts):
			response.TooManyRequests(c, "Too many login attempts, try again later")
		case errors.Is(err, service.ErrInvalidCPF):
			response.Error(c, http.StatusBadRequest, "INVALID_CPF", "CPF is not valid", "")
		case errors.Is(err, service.ErrInvalidBirthDate):
			response.Error(c, http.StatusBadRequest, "INVALID_BIRTH_DATE", "Birth date must be a real dd/mm/yyyy date", "")
		case errors.Is(err, service.ErrClientNotFound):
			response.Error(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "No client registered with this CPF", "")
		case errors.Is(err, service.ErrClientInactive):
			response.Error(c, http.StatusForbidden, "CLIENT_INACTIVE", "This registration is inactive", "")
		case errors.Is(err, service.ErrBirthDateMismatch):
			response.Error(c, http.StatusUnauthorized, "BIRTH_DATE_MISMATCH", "Birth date does not match our records", "")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, result)
}

// session resolves the artifact on a customer-area request.
// Expiry is checked against the clock on every call.
func (h *CustomerHandler) session(c *gin.Context) (*domain.CustomerSession, *domain.Client, bool) {
	token := c.GetHeader(SessionTokenHeader)
	artifact, client, err := h.authService.ValidateCustomerSession(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerSessionExpired):
			response.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired, log in again", "")
		case errors.Is(err, service.ErrInvalidToken):
			response.Unauthorized(c, "Authentication required")
		case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrClientInactive):
			response.Forbidden(c, "Access denied")
		default:
			response.InternalError(c, err)
		}
		return nil, nil, false
	}
	return artifact, client, true
}

// Me returns the client's own record
// GET /cliente/api/me
func (h *CustomerHandler) Me(c *gin.Context) {
	_, client, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, client)
}

// Contracts lists the client's contracts with vehicles joined
// GET /cliente/api/contratos
func (h *CustomerHandler) Contracts(c *gin.Context) {
	_, client, ok := h.session(c)
	if !ok {
		return
	}

	contracts, err := h.contractService.ListByClient(c.Request.Context(), client.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, contracts)
}

// Installments lists the schedule of one of the client's contracts
// GET /cliente/api/contratos/:id/parcelas
func (h *CustomerHandler) Installments(c *gin.Context) {
	_, client, ok := h.session(c)
	if !ok {
		return
	}

	installments, err := h.contractService.ListInstallmentsForClient(c.Request.Context(), c.Param("id"), client.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContractNotFound):
			response.NotFound(c, "Contract not found")
		case errors.Is(err, service.ErrNotContractOwner):
			response.Forbidden(c, "Access denied")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, installments)
}
