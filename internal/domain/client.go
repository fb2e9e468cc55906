package domain

import "time"

// Client is a customer principal. There is no password: customer
// authentication is a lookup-and-compare on CPF + birth date.
type Client struct {
	ID            string    `json:"id"`
	CPF           string    `json:"cpf"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	BirthDate     string    `json:"birth_date,omitempty"` // YYYY-MM-DD
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	ZipCode       string    `json:"zip_code,omitempty"`
	Nationality   string    `json:"nationality,omitempty"`
	Profession    string    `json:"profession,omitempty"`
	MaritalStatus string    `json:"marital_status,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
