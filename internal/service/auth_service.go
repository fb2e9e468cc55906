package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/dto"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/logger"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/ratelimit"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/repository"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/telemetry"
	"github.com/pantoflas21/CARROS-E-CIA-PRO/internal/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTooManyAttempts        = errors.New("too many attempts")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrUserInactive           = errors.New("user is inactive")
	ErrRoleNotAllowed         = errors.New("role not allowed on this surface")
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidToken           = errors.New("invalid token")
	ErrTokenExpired           = errors.New("token expired")
	ErrInvalidCPF             = errors.New("invalid cpf")
	ErrInvalidBirthDate       = errors.New("invalid birth date")
	ErrClientNotFound         = errors.New("client not found")
	ErrBirthDateMismatch      = errors.New("birth date does not match")
	ErrClientInactive         = errors.New("client is inactive")
	ErrCustomerSessionExpired = errors.New("customer session expired")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	JWTSecret          string
	AccessTokenTTL     time.Duration
	SessionTTL         time.Duration
	CustomerSessionTTL time.Duration
	BcryptCost         int
	Now                func() time.Time
}

// AuthService defines authentication and role resolution operations
type AuthService interface {
	// StaffLogin authenticates a staff member with email and password.
	// surface restricts which role may log in through the calling surface;
	// an empty surface accepts any staff role.
	StaffLogin(ctx context.Context, req *dto.StaffLoginRequest, surface domain.Role, userAgent, ip string) (*dto.StaffLoginResponse, *domain.Session, error)
	// CustomerLogin authenticates a customer with CPF and birth date and
	// issues a client-held session artifact
	CustomerLogin(ctx context.Context, req *dto.CustomerLoginRequest) (*dto.CustomerLoginResponse, error)
	// ValidateSession resolves a staff session by its opaque token and
	// re-fetches the profile behind it
	ValidateSession(ctx context.Context, token string) (*domain.Profile, error)
	// ValidateAccessToken validates a signed access token and returns its claims
	ValidateAccessToken(ctx context.Context, token string) (*domain.Claims, error)
	// ResolveRole fetches the current {role, is_active} for a staff user.
	// Results are never cached; callers get a fresh read every time.
	ResolveRole(ctx context.Context, userID string) (*domain.Profile, error)
	// ValidateCustomerSession checks a customer artifact and re-fetches the client
	ValidateCustomerSession(ctx context.Context, token string) (*domain.CustomerSession, *domain.Client, error)
	// Logout deletes the session behind the given token
	Logout(ctx context.Context, token string) error
	// LogoutAll deletes every session of a user
	LogoutAll(ctx context.Context, userID string) error
}

// authService implements AuthService
type authService struct {
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	clientRepo  repository.ClientRepository
	limiter     ratelimit.Limiter
	config      *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	clientRepo repository.ClientRepository,
	limiter ratelimit.Limiter,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.SessionTTL == 0 {
		config.SessionTTL = 24 * time.Hour
	}
	if config.CustomerSessionTTL == 0 {
		config.CustomerSessionTTL = time.Hour
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &authService{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		clientRepo:  clientRepo,
		limiter:     limiter,
		config:      config,
	}
}

// StaffLogin authenticates a staff member with email and password
func (s *authService) StaffLogin(ctx context.Context, req *dto.StaffLoginRequest, surface domain.Role, userAgent, ip string) (*dto.StaffLoginResponse, *domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.staff_login")
	defer span.End()

	email := validation.NormalizeEmail(req.Email)
	span.SetAttributes(attribute.String("email", email))

	if !validation.ValidateEmail(email) {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}

	// Rate cap before any backend contact. The limiter fails open: a
	// backend error permits the attempt instead of blocking all logins.
	allowed, err := s.limiter.Allow(ctx, "login-"+email)
	if err != nil {
		logger.Get().Warn("rate limiter unavailable, allowing attempt", zap.Error(err))
		span.RecordError(err)
	}
	if !allowed {
		span.SetStatus(codes.Error, "rate limited")
		return nil, nil, ErrTooManyAttempts
	}

	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}

	if !profile.IsActive {
		span.SetStatus(codes.Error, "user inactive")
		return nil, nil, ErrUserInactive
	}

	if surface != "" && profile.Role != surface {
		span.SetStatus(codes.Error, "role not allowed")
		return nil, nil, ErrRoleNotAllowed
	}

	accessToken, err := s.generateAccessToken(profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	sessionToken, err := generateSessionToken()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	now := s.config.Now()
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    profile.AuthUserID,
		Token:     sessionToken,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: now.Add(s.config.SessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(attribute.String("user_id", profile.AuthUserID))
	span.SetStatus(codes.Ok, "")

	return &dto.StaffLoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.AccessTokenTTL.Seconds()),
		Profile:     toProfileResponse(profile),
	}, session, nil
}

// CustomerLogin authenticates a customer with CPF and birth date
func (s *authService) CustomerLogin(ctx context.Context, req *dto.CustomerLoginRequest) (*dto.CustomerLoginResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.customer_login")
	defer span.End()

	cpf := validation.StripCPF(req.CPF)
	if !validation.ValidateCPF(cpf) {
		span.SetStatus(codes.Error, "invalid cpf")
		return nil, ErrInvalidCPF
	}

	now := s.config.Now()
	if !validation.ValidateBirthDate(req.BirthDate, now) {
		span.SetStatus(codes.Error, "invalid birth date")
		return nil, ErrInvalidBirthDate
	}

	// Rate cap before any backend contact. The limiter fails open on a
	// backend error, matching the staff path.
	allowed, err := s.limiter.Allow(ctx, "cliente-login-"+cpf)
	if err != nil {
		logger.Get().Warn("rate limiter unavailable, allowing attempt", zap.Error(err))
		span.RecordError(err)
	}
	if !allowed {
		span.SetStatus(codes.Error, "rate limited")
		return nil, ErrTooManyAttempts
	}

	client, err := s.clientRepo.GetByCPF(ctx, cpf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if client == nil {
		span.SetStatus(codes.Error, "client not found")
		return nil, ErrClientNotFound
	}
	if !client.IsActive {
		span.SetStatus(codes.Error, "client inactive")
		return nil, ErrClientInactive
	}

	if client.BirthDate != validation.BirthDateToISO(req.BirthDate) {
		span.SetStatus(codes.Error, "birth date mismatch")
		return nil, ErrBirthDateMismatch
	}

	artifact := s.newCustomerSession(client.ID, now)

	span.SetAttributes(attribute.String("client_id", client.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.CustomerLoginResponse{
		Session:  *artifact,
		ClientID: client.ID,
		FullName: client.FullName,
	}, nil
}

// ValidateSession resolves a staff session by its opaque token
func (s *authService) ValidateSession(ctx context.Context, token string) (*domain.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.validate_session")
	defer span.End()

	if token == "" {
		span.SetStatus(codes.Error, "session not found")
		return nil, ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if session == nil || session.Expired(s.config.Now()) {
		span.SetStatus(codes.Error, "session not found")
		return nil, ErrSessionNotFound
	}

	profile, err := s.ResolveRole(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserInactive) {
			// Inactive users lose every session immediately
			_ = s.sessionRepo.DeleteByUserID(ctx, session.UserID)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", session.UserID))
	span.SetStatus(codes.Ok, "")
	return profile, nil
}

// ValidateAccessToken validates a signed access token and returns its claims
func (s *authService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.validate_access_token")
	defer span.End()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithTimeFunc(s.config.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, ErrInvalidToken
	}

	span.SetAttributes(attribute.String("user_id", userID))
	span.SetStatus(codes.Ok, "")
	return &domain.Claims{
		UserID: userID,
		Email:  email,
		Role:   domain.Role(role),
	}, nil
}

// ResolveRole fetches the current role and active flag for a staff user.
// The read goes to storage every time; nothing here may be cached.
func (s *authService) ResolveRole(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.resolve_role")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	profile, err := s.profileRepo.GetByAuthUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, ErrProfileNotFound
	}
	if !profile.IsActive {
		span.SetStatus(codes.Error, "user inactive")
		return nil, ErrUserInactive
	}
	if !profile.Role.Valid() {
		span.SetStatus(codes.Error, "unknown role")
		return nil, ErrRoleNotAllowed
	}

	span.SetStatus(codes.Ok, "")
	return profile, nil
}

// ValidateCustomerSession checks a customer artifact and re-fetches the client
func (s *authService) ValidateCustomerSession(ctx context.Context, token string) (*domain.CustomerSession, *domain.Client, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.validate_customer_session")
	defer span.End()

	artifact, err := s.parseCustomerSession(token)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if artifact.Expired(s.config.Now()) {
		span.SetStatus(codes.Error, "customer session expired")
		return nil, nil, ErrCustomerSessionExpired
	}

	client, err := s.clientRepo.GetByID(ctx, artifact.ClientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if client == nil {
		span.SetStatus(codes.Error, "client not found")
		return nil, nil, ErrClientNotFound
	}
	if !client.IsActive {
		span.SetStatus(codes.Error, "client inactive")
		return nil, nil, ErrClientInactive
	}

	span.SetAttributes(attribute.String("client_id", client.ID))
	span.SetStatus(codes.Ok, "")
	return artifact, client, nil
}

// Logout deletes the session behind the given token
func (s *authService) Logout(ctx context.Context, token string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if session == nil {
		span.SetStatus(codes.Ok, "already logged out")
		return nil
	}

	span.SetAttributes(attribute.String("user_id", session.UserID))

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// LogoutAll deletes every session of a user
func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout_all")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// generateAccessToken signs a short-lived access token for a staff profile
func (s *authService) generateAccessToken(profile *domain.Profile) (string, error) {
	now := s.config.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     profile.AuthUserID,
		"user_id": profile.AuthUserID,
		"email":   profile.Email,
		"role":    string(profile.Role),
		"exp":     now.Add(s.config.AccessTokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	return token.SignedString([]byte(s.config.JWTSecret))
}

// newCustomerSession builds the client-held artifact.
// The token is a reversible encoding of "<client_id>-<issued_at_ms>";
// expiry is absolute and enforced on every customer-area request.
func (s *authService) newCustomerSession(clientID string, now time.Time) *domain.CustomerSession {
	raw := fmt.Sprintf("%s-%d", clientID, now.UnixMilli())
	return &domain.CustomerSession{
		ClientID:  clientID,
		Token:     base64.StdEncoding.EncodeToString([]byte(raw)),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.config.CustomerSessionTTL),
	}
}

func (s *authService) parseCustomerSession(token string) (*domain.CustomerSession, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	// Client IDs contain dashes; the timestamp follows the last one
	idx := strings.LastIndex(string(raw), "-")
	if idx <= 0 || idx == len(raw)-1 {
		return nil, ErrInvalidToken
	}
	clientID := string(raw[:idx])
	ms, err := strconv.ParseInt(string(raw[idx+1:]), 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	issuedAt := time.UnixMilli(ms)
	return &domain.CustomerSession{
		ClientID:  clientID,
		Token:     token,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.config.CustomerSessionTTL),
	}, nil
}

// generateSessionToken returns an opaque random token for a staff session
func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

// toProfileResponse converts a Profile to its response shape
func toProfileResponse(p *domain.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:       p.ID,
		FullName: p.FullName,
		Email:    p.Email,
		Role:     string(p.Role),
		HomePath: p.Role.HomePath(),
	}
}
