package dto

// CreateContractRequest is the payload for opening a financed purchase.
// FirstInstallmentDate is yyyy-mm-dd.
type CreateContractRequest struct {
	ClientID             string  `json:"client_id" binding:"required,uuid"`
	VehicleID            string  `json:"vehicle_id" binding:"required,uuid"`
	TotalAmount          float64 `json:"total_amount" binding:"required,gt=0"`
	DownPayment          float64 `json:"down_payment" binding:"min=0"`
	NumInstallments      int     `json:"num_installments" binding:"required,min=1,max=72"`
	FirstInstallmentDate string  `json:"first_installment_date" binding:"required"`
}

// UpdateContractStatusRequest changes the contract lifecycle state
type UpdateContractStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed canceled"`
}
