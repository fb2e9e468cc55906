package dto

import "github.com/pantoflas21/CARROS-E-CIA-PRO/internal/domain"

// StaffLoginRequest is the email/password login payload
type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CustomerLoginRequest is the CPF/birth-date login payload.
// BirthDate is dd/mm/yyyy as typed by the customer.
type CustomerLoginRequest struct {
	CPF       string `json:"cpf" binding:"required"`
	BirthDate string `json:"data_nascimento" binding:"required"`
}

// ProfileResponse is the staff profile shape returned to clients
type ProfileResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	HomePath string `json:"home_path"`
}

// StaffLoginResponse bundles tokens with the authenticated profile.
// RedirectTo is the one-shot redirect target or the role home.
type StaffLoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	Profile     ProfileResponse `json:"profile"`
	RedirectTo  string          `json:"redirect_to,omitempty"`
}

// CustomerLoginResponse carries the client-held session artifact
type CustomerLoginResponse struct {
	Session  domain.CustomerSession `json:"session"`
	ClientID string                 `json:"client_id"`
	FullName string                 `json:"full_name"`
}
