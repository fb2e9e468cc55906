package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/response"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// AuthHandler handles staff authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
	cookieName  string
	sessionTTL  time.Duration
	secure      bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookieName string, sessionTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieName:  cookieName,
		sessionTTL:  sessionTTL,
		secure:      secure,
	}
}

// Login handles staff login
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// An optional surface restricts which role this login page accepts
	surface := domain.Role(c.Query("surface"))
	if surface != "" && !surface.Valid() {
		response.BadRequest(c, "unknown login surface")
		return
	}

	userAgent := c.GetHeader("User-Agent")
	ip := c.ClientIP()

	result, session, err := h.authService.StaffLogin(c.Request.Context(), &req, surface, userAgent, ip)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTooManyAttempts):
			response.TooManyRequests(c, "Too many login attempts, try again later")
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, service.ErrUserInactive):
			response.Forbidden(c, "Account is disabled")
		case errors.Is(err, service.ErrRoleNotAllowed):
			response.Forbidden(c, "Access denied")
		default:
			response.InternalError(c, err)
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, session.Token, int(h.sessionTTL.Seconds()), "/", "", h.secure, true)

	result.RedirectTo = loginRedirectTarget(c.Query("redirect"), result.Profile.HomePath)
	response.Success(c, result)
}

// Logout handles staff logout
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookieName)
	if token == "" {
		auth := c.GetHeader("Authorization")
		token = strings.TrimPrefix(auth, "Bearer ")
	}

	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			response.InternalError(c, err)
			return
		}
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	response.Success(c, gin.H{"logged_out": true})
}

// LogoutAll terminates every session of the calling user
// POST /vendedor/api/logout-all, /admin/api/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}

	if err := h.authService.LogoutAll(c.Request.Context(), profile.AuthUserID); err != nil {
		response.InternalError(c, err)
		return
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	response.Success(c, gin.H{"logged_out": true})
}

// Me returns the freshly resolved profile of the calling user
// GET /vendedor/api/me, /admin/api/me
func (h *AuthHandler) Me(c *gin.Context) {
	profile, ok := resolveStaff(c, h.authService)
	if !ok {
		return
	}
	response.Success(c, profile)
}

// loginRedirectTarget keeps the one-shot redirect param when it is an
// internal path, otherwise falls back to the role home
func loginRedirectTarget(redirect, home string) string {
	if strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
		return redirect
	}
	return home
}
