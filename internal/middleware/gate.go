package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/config"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/logger"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Error reasons carried on the login redirect
const (
	ReasonConfigMissing = "configuracao-ausente"
	ReasonNoSession     = "sessao-invalida"
	ReasonAccessDenied  = "acesso-negado"
	ReasonCheckFailed   = "falha-verificacao"
)

// ProfileKey is the context key under which the gate stores the
// resolved staff profile for downstream handlers
const ProfileKey = "gate_profile"

// Gate is the edge request gate: it classifies every path, stamps
// security headers, and enforces session + role on protected prefixes.
// Evaluation is strictly ordered (session, then profile, then role) and
// nothing is cached across requests.
type Gate struct {
	cfg  *config.GateConfig
	auth service.AuthService
}

// NewGate creates a new Gate
func NewGate(cfg *config.GateConfig, auth service.AuthService) *Gate {
	return &Gate{cfg: cfg, auth: auth}
}

// Handler returns the gin middleware
func (g *Gate) Handler(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if g.excluded(path) {
			c.Next()
			return
		}

		// Headers go on every non-excluded response, success or failure
		g.stampHeaders(c)

		switch g.classify(path) {
		case routePublic:
			c.Next()
		case routeAdmin:
			g.protect(c, cookieName, domain.RoleAdmin)
		case routeVendedor:
			g.protect(c, cookieName, domain.RoleVendedor)
		default:
			// Unclassified paths pass with headers only
			c.Next()
		}
	}
}

type routeClass int

const (
	routePublic routeClass = iota
	routeAdmin
	routeVendedor
	routeOther
)

// classify is a pure function of the path
func (g *Gate) classify(path string) routeClass {
	if path == "/" {
		return routePublic
	}
	if strings.HasPrefix(path, g.cfg.AdminPrefix) {
		return routeAdmin
	}
	if strings.HasPrefix(path, g.cfg.VendedorPrefix) {
		return routeVendedor
	}
	for _, prefix := range g.cfg.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return routePublic
		}
	}
	return routeOther
}

func (g *Gate) excluded(path string) bool {
	for _, prefix := range g.cfg.SkipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range g.cfg.SkipSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// stampHeaders sets the base security headers on every non-excluded
// response; only the Permissions-Policy lockdown is configurable
func (g *Gate) stampHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	if g.cfg.HardenedHeaders {
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
	}
}

// protect runs the session, profile, role chain for a protected prefix.
// Every failure path ends in a redirect to the login page; panics are
// recovered and treated as a failed check.
func (g *Gate) protect(c *gin.Context, cookieName string, required domain.Role) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "gate.protect")
	defer span.End()

	path := c.Request.URL.Path
	span.SetAttributes(
		attribute.String("path", path),
		attribute.String("required_role", string(required)),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("gate check panicked",
				zap.String("path", path),
				zap.Any("panic", r),
			)
			span.SetStatus(codes.Error, "panic during gate check")
			g.redirectToLogin(c, path, ReasonCheckFailed)
		}
	}()

	if g.auth == nil {
		span.SetStatus(codes.Error, "resolver missing")
		g.redirectToLogin(c, path, ReasonConfigMissing)
		return
	}

	token := sessionToken(c, cookieName)
	if token == "" {
		span.SetStatus(codes.Error, "no session")
		g.redirectToLogin(c, path, ReasonNoSession)
		return
	}

	profile, err := g.auth.ValidateSession(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			span.SetStatus(codes.Error, "session invalid")
			g.redirectToLogin(c, path, ReasonNoSession)
		case errors.Is(err, service.ErrProfileNotFound),
			errors.Is(err, service.ErrUserInactive),
			errors.Is(err, service.ErrRoleNotAllowed):
			// Role-layer denials carry no redirect target and do not
			// reveal which check failed
			span.SetStatus(codes.Error, "access denied")
			g.redirectToLogin(c, "", ReasonAccessDenied)
		default:
			logger.Get().Error("gate session check failed",
				zap.String("path", path),
				zap.Error(err),
			)
			span.SetStatus(codes.Error, err.Error())
			g.redirectToLogin(c, path, ReasonCheckFailed)
		}
		return
	}

	if !roleAllowed(profile.Role, required) {
		span.SetStatus(codes.Error, "access denied")
		g.redirectToLogin(c, "", ReasonAccessDenied)
		return
	}

	span.SetAttributes(attribute.String("role", string(profile.Role)))
	span.SetStatus(codes.Ok, "")

	c.Set(ProfileKey, profile)
	c.Next()
}

// roleAllowed: the admin prefix takes admins only; the vendedor prefix
// takes vendedores and admins
func roleAllowed(have, required domain.Role) bool {
	if have == required {
		return true
	}
	return required == domain.RoleVendedor && have == domain.RoleAdmin
}

// sessionToken pulls the session token from the cookie, falling back to
// a bearer header
func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (g *Gate) redirectToLogin(c *gin.Context, redirect, reason string) {
	q := url.Values{}
	if redirect != "" {
		q.Set("redirect", redirect)
	}
	q.Set("error", reason)
	c.Redirect(http.StatusFound, g.cfg.LoginPath+"?"+q.Encode())
	c.Abort()
}

// ProfileFromContext returns the profile the gate resolved for this request
func ProfileFromContext(c *gin.Context) *domain.Profile {
	if v, exists := c.Get(ProfileKey); exists {
		if p, ok := v.(*domain.Profile); ok {
			return p
		}
	}
	return nil
}
