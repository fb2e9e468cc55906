package dto

// CreateClientRequest is the payload for registering a customer.
// BirthDate is dd/mm/yyyy and is normalized before storage.
type CreateClientRequest struct {
	CPF           string `json:"cpf" binding:"required"`
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	BirthDate     string `json:"data_nascimento" binding:"required"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Nationality   string `json:"nationality"`
	Profession    string `json:"profession"`
	MaritalStatus string `json:"marital_status"`
}

// UpdateClientRequest is the payload for editing a customer record
type UpdateClientRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Nationality   string `json:"nationality"`
	Profession    string `json:"profession"`
	MaritalStatus string `json:"marital_status"`
	IsActive      *bool  `json:"is_active"`
}
