package domain

import "time"

// ContractStatus represents the contract lifecycle
type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCanceled  ContractStatus = "canceled"
)

// Contract binds a client, a vehicle and a seller to a financed purchase
type Contract struct {
	ID                   string         `json:"id"`
	ClientID             string         `json:"client_id"`
	VehicleID            string         `json:"vehicle_id"`
	SellerID             string         `json:"seller_id"`
	ContractNumber       string         `json:"contract_number"`
	ContractDate         time.Time      `json:"contract_date"`
	TotalAmount          float64        `json:"total_amount"`
	DownPayment          float64        `json:"down_payment"`
	RemainingAmount      float64        `json:"remaining_amount"`
	NumInstallments      int            `json:"num_installments"`
	InstallmentValue     float64        `json:"installment_value"`
	FirstInstallmentDate time.Time      `json:"first_installment_date"`
	ContractPDFURL       string         `json:"contract_pdf_url,omitempty"`
	Status               ContractStatus `json:"status"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	// Populated on joined reads
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// InstallmentStatus represents the billing state of one installment
type InstallmentStatus string

const (
	InstallmentOpen    InstallmentStatus = "open"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// Installment is one scheduled payment of a contract
type Installment struct {
	ID                string            `json:"id"`
	ContractID        string            `json:"contract_id"`
	InstallmentNumber int               `json:"installment_number"`
	DueDate           time.Time         `json:"due_date"`
	Amount            float64           `json:"amount"`
	Status            InstallmentStatus `json:"status"`
	BoletoURL         string            `json:"boleto_url,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Overdue reports whether an open installment is past due at the given instant
func (i *Installment) Overdue(now time.Time) bool {
	return i.Status == InstallmentOpen && now.After(i.DueDate)
}
