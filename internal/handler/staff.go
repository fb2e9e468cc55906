package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/middleware"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/response"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

// resolveStaff re-resolves the calling user's role and active flag from
// storage. The gate already checked them; handlers check again on their
// own so a profile deactivated or demoted since the gate ran is still
// refused. The fresh profile is the one handlers act on.
func resolveStaff(c *gin.Context, auth service.AuthService) (*domain.Profile, bool) {
	gateProfile := middleware.ProfileFromContext(c)
	if gateProfile == nil {
		response.Unauthorized(c, "Authentication required")
		return nil, false
	}

	profile, err := auth.ResolveRole(c.Request.Context(), gateProfile.AuthUserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound),
			errors.Is(err, service.ErrUserInactive),
			errors.Is(err, service.ErrRoleNotAllowed):
			response.Forbidden(c, "Access denied")
		default:
			response.InternalError(c, err)
		}
		return nil, false
	}
	return profile, true
}
