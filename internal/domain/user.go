package domain

import (
	"time"
)

// Role represents a staff role
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendedor Role = "vendedor"
)

// Valid reports whether the role is one of the known staff roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleVendedor
}

// HomePath returns the dashboard route for the role
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleVendedor:
		return "/vendedor"
	}
	return "/login"
}

// Profile is the authorization record for a staff principal.
// Role and IsActive are re-read from storage on every protected access,
// never cached in a session.
type Profile struct {
	ID                   string    `json:"id"`
	AuthUserID           string    `json:"auth_user_id"`
	Role                 Role      `json:"role"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	Phone                string    `json:"phone,omitempty"`
	CommissionPercentage float64   `json:"commission_percentage,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Session is a staff session backed by a database row.
// The opaque Token travels in a cookie; everything else stays server-side.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Claims are the JWT claims issued alongside a staff session
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// CustomerSession is the client-held artifact issued on customer login.
// It is never stored server-side; expiry is checked against the clock on
// every customer-area request.
type CustomerSession struct {
	ClientID  string    `json:"client_id"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the artifact is past its absolute expiry
func (s *CustomerSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
