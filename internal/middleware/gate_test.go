package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/config"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/service"
)

const testCookie = "seminovo_session"

// stubAuthService fakes session resolution for gate tests
type stubAuthService struct {
	profile *domain.Profile
	err     error
	panics  bool
}

func (s *stubAuthService) ValidateSession(ctx context.Context, token string) (*domain.Profile, error) {
	if s.panics {
		panic("resolver blew up")
	}
	return s.profile, s.err
}

func (s *stubAuthService) StaffLogin(ctx context.Context, req *dto.StaffLoginRequest, surface domain.Role, userAgent, ip string) (*dto.StaffLoginResponse, *domain.Session, error) {
	return nil, nil, nil
}

func (s *stubAuthService) CustomerLogin(ctx context.Context, req *dto.CustomerLoginRequest) (*dto.CustomerLoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) ValidateAccessToken(ctx context.Context, token string) (*domain.Claims, error) {
	return nil, nil
}

func (s *stubAuthService) ResolveRole(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profile, s.err
}

func (s *stubAuthService) ValidateCustomerSession(ctx context.Context, token string) (*domain.CustomerSession, *domain.Client, error) {
	return nil, nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error { return nil }

func (s *stubAuthService) LogoutAll(ctx context.Context, userID string) error { return nil }

func gateConfig() *config.GateConfig {
	return &config.GateConfig{
		LoginPath:       "/login",
		PublicPrefixes:  []string{"/login", "/cliente"},
		SkipPrefixes:    []string{"/health", "/static/"},
		SkipSuffixes:    []string{".png", ".css"},
		AdminPrefix:     "/admin",
		VendedorPrefix:  "/vendedor",
		HardenedHeaders: true,
	}
}

func newGateRouter(auth service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewGate(gateConfig(), auth).Handler(testCookie))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/login", ok)
	r.GET("/cliente/painel", ok)
	r.GET("/admin/dashboard", ok)
	r.GET("/vendedor/vendas", ok)
	r.GET("/outros", ok)
	r.GET("/health", ok)
	r.GET("/static/app.css", ok)
	return r
}

func doGet(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertSecurityHeaders(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Permissions-Policy":     "camera=(), microphone=(), geolocation=()",
	}
	for k, v := range want {
		if got := w.Header().Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func loginRedirect(t *testing.T, w *httptest.ResponseRecorder) url.Values {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect location: %v", err)
	}
	if loc.Path != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc.Path)
	}
	return loc.Query()
}

func activeProfile(role domain.Role) *domain.Profile {
	return &domain.Profile{
		ID:         "profile-1",
		AuthUserID: "auth-user-1",
		Role:       role,
		FullName:   "Carlos Silva",
		IsActive:   true,
	}
}

func TestGate_SecurityHeaders(t *testing.T) {
	r := newGateRouter(&stubAuthService{err: service.ErrSessionNotFound})

	t.Run("on public responses", func(t *testing.T) {
		w := doGet(r, "/", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		assertSecurityHeaders(t, w)
	})

	t.Run("on redirects too", func(t *testing.T) {
		w := doGet(r, "/admin/dashboard", "")
		if w.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", w.Code)
		}
		assertSecurityHeaders(t, w)
	})

	t.Run("on unclassified paths", func(t *testing.T) {
		w := doGet(r, "/outros", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		assertSecurityHeaders(t, w)
	})

	t.Run("base headers stay without hardened lockdown", func(t *testing.T) {
		cfg := gateConfig()
		cfg.HardenedHeaders = false
		gin.SetMode(gin.TestMode)
		soft := gin.New()
		soft.Use(NewGate(cfg, &stubAuthService{}).Handler(testCookie))
		soft.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		w := doGet(soft, "/", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		base := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "DENY",
			"X-XSS-Protection":       "1; mode=block",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
		}
		for k, v := range base {
			if got := w.Header().Get(k); got != v {
				t.Errorf("header %s = %q, want %q", k, got, v)
			}
		}
		if got := w.Header().Get("Permissions-Policy"); got != "" {
			t.Errorf("expected no Permissions-Policy header, got %q", got)
		}
	})

	t.Run("excluded paths are skipped entirely", func(t *testing.T) {
		for _, path := range []string{"/health", "/static/app.css"} {
			w := doGet(r, path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", path, w.Code)
			}
			if w.Header().Get("X-Frame-Options") != "" {
				t.Errorf("%s: expected no security headers", path)
			}
		}
	})
}

func TestGate_PublicPaths(t *testing.T) {
	// Public paths never touch the resolver
	r := newGateRouter(&stubAuthService{panics: true})

	for _, path := range []string{"/", "/login", "/cliente/painel"} {
		w := doGet(r, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestGate_ProtectedPaths(t *testing.T) {
	t.Run("no session redirects with redirect and error params", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{err: service.ErrSessionNotFound})
		w := doGet(r, "/admin/dashboard", "")

		q := loginRedirect(t, w)
		if q.Get("redirect") != "/admin/dashboard" {
			t.Errorf("expected redirect param, got %q", q.Get("redirect"))
		}
		if q.Get("error") != ReasonNoSession {
			t.Errorf("expected error %q, got %q", ReasonNoSession, q.Get("error"))
		}
	})

	t.Run("invalid session", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{err: service.ErrSessionNotFound})
		w := doGet(r, "/vendedor/vendas", "stale-token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonNoSession {
			t.Errorf("expected error %q, got %q", ReasonNoSession, q.Get("error"))
		}
	})

	t.Run("admin passes the admin prefix", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{profile: activeProfile(domain.RoleAdmin)})
		w := doGet(r, "/admin/dashboard", "token")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("vendedor is denied the admin prefix", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{profile: activeProfile(domain.RoleVendedor)})
		w := doGet(r, "/admin/dashboard", "token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonAccessDenied {
			t.Errorf("expected error %q, got %q", ReasonAccessDenied, q.Get("error"))
		}
		// Role denials carry no redirect target
		if q.Get("redirect") != "" {
			t.Errorf("expected no redirect param, got %q", q.Get("redirect"))
		}
	})

	t.Run("vendedor passes the vendedor prefix", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{profile: activeProfile(domain.RoleVendedor)})
		w := doGet(r, "/vendedor/vendas", "token")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("admin passes the vendedor prefix", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{profile: activeProfile(domain.RoleAdmin)})
		w := doGet(r, "/vendedor/vendas", "token")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("inactive profile is a generic denial", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{err: service.ErrUserInactive})
		w := doGet(r, "/admin/dashboard", "token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonAccessDenied {
			t.Errorf("expected error %q, got %q", ReasonAccessDenied, q.Get("error"))
		}
		if q.Get("redirect") != "" {
			t.Errorf("expected no redirect param, got %q", q.Get("redirect"))
		}
	})

	t.Run("missing profile is the same generic denial", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{err: service.ErrProfileNotFound})
		w := doGet(r, "/admin/dashboard", "token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonAccessDenied {
			t.Errorf("expected error %q, got %q", ReasonAccessDenied, q.Get("error"))
		}
	})

	t.Run("bearer header works without a cookie", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{profile: activeProfile(domain.RoleAdmin)})
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}

func TestGate_FailClosed(t *testing.T) {
	t.Run("resolver panic redirects to login", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{panics: true})
		w := doGet(r, "/admin/dashboard", "token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonCheckFailed {
			t.Errorf("expected error %q, got %q", ReasonCheckFailed, q.Get("error"))
		}
		assertSecurityHeaders(t, w)
	})

	t.Run("missing resolver redirects to login", func(t *testing.T) {
		r := newGateRouter(nil)
		w := doGet(r, "/admin/dashboard", "token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonConfigMissing {
			t.Errorf("expected error %q, got %q", ReasonConfigMissing, q.Get("error"))
		}
	})

	t.Run("unexpected resolver error", func(t *testing.T) {
		r := newGateRouter(&stubAuthService{err: context.DeadlineExceeded})
		w := doGet(r, "/admin/dashboard", "token")

		q := loginRedirect(t, w)
		if q.Get("error") != ReasonCheckFailed {
			t.Errorf("expected error %q, got %q", ReasonCheckFailed, q.Get("error"))
		}
	})
}

func TestGate_Classify(t *testing.T) {
	g := NewGate(gateConfig(), nil)

	cases := []struct {
		path string
		want routeClass
	}{
		{"/", routePublic},
		{"/login", routePublic},
		{"/cliente/painel", routePublic},
		{"/admin", routeAdmin},
		{"/admin/usuarios", routeAdmin},
		{"/vendedor", routeVendedor},
		{"/vendedor/clientes", routeVendedor},
		{"/outros", routeOther},
	}
	for _, tc := range cases {
		if got := g.classify(tc.path); got != tc.want {
			t.Errorf("classify(%q) = %d, want %d", tc.path, got, tc.want)
		}
	}
}
