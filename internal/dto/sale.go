package dto

// CreateSaleRequest opens a negotiation for a vehicle
type CreateSaleRequest struct {
	ClientID  string  `json:"client_id" binding:"required,uuid"`
	VehicleID string  `json:"vehicle_id" binding:"required,uuid"`
	SaleValue float64 `json:"valor_venda" binding:"required,gt=0"`
	Notes     string  `json:"observacoes"`
}

// UpdateSaleRequest edits an in-progress sale.
// Status transitions to "vendido" mark the vehicle as sold.
type UpdateSaleRequest struct {
	SaleValue float64 `json:"valor_venda"`
	Status    string  `json:"status" binding:"omitempty,oneof='em negociacao' vendido cancelado"`
	Notes     string  `json:"observacoes"`
}
