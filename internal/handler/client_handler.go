package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/response"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// ClientHandler handles customer record HTTP requests for staff
type ClientHandler struct {
	clientService service.ClientService
	authService   service.AuthService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, authService service.AuthService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		authService:   authService,
	}
}

// Create registers a customer
// POST /admin/api/clientes, /vendedor/api/clientes
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCPF):
			response.Error(c, http.StatusBadRequest, "INVALID_CPF", "CPF is not valid", "")
		case errors.Is(err, service.ErrInvalidBirthDate):
			response.Error(c, http.StatusBadRequest, "INVALID_BIRTH_DATE", "Birth date must be a real dd/mm/yyyy date", "")
		case errors.Is(err, service.ErrInvalidEmail):
			response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", "Email is not valid", "")
		case errors.Is(err, service.ErrInvalidPhone):
			response.Error(c, http.StatusBadRequest, "INVALID_PHONE", "Phone is not valid", "")
		case errors.Is(err, service.ErrClientAlreadyExists):
			response.Error(c, http.StatusConflict, "CLIENT_EXISTS", "A client with this CPF already exists", "")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, client)
}

// List returns all clients
// GET /admin/api/clientes, /vendedor/api/clientes
func (h *ClientHandler) List(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, clients)
}

// Get returns one client
// GET /admin/api/clientes/:id
func (h *ClientHandler) Get(c *gin.Context) {
	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			response.NotFound(c, "Client not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, client)
}

// Update edits a client record
// PUT /admin/api/clientes/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, ok := resolveStaff(c, h.authService); !ok {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			response.NotFound(c, "Client not found")
		case errors.Is(err, service.ErrInvalidEmail):
			response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", "Email is not valid", "")
		case errors.Is(err, service.ErrInvalidPhone):
			response.Error(c, http.StatusBadRequest, "INVALID_PHONE", "Phone is not valid", "")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, client)
}
