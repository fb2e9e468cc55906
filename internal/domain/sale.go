package domain

import "time"

// SaleStatus represents the negotiation state of a sale
type SaleStatus string

const (
	SaleNegotiating SaleStatus = "em negociacao"
	SaleSold        SaleStatus = "vendido"
	SaleCanceled    SaleStatus = "cancelado"
)

// Sale tracks one vehicle negotiation and the seller's commission
type Sale struct {
	ID                   string     `json:"id"`
	ClientID             string     `json:"client_id"`
	VehicleID            string     `json:"vehicle_id"`
	VendedorID           string     `json:"vendedor_id"`
	SaleValue            float64    `json:"valor_venda"`
	Commission           float64    `json:"comissao"`
	CommissionPercentage float64    `json:"comissao_percentual"`
	Status               SaleStatus `json:"status"`
	Notes                string     `json:"observacoes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Populated on joined reads
	Client  *Client  `json:"client,omitempty"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// SaleStats aggregates sales figures for dashboards
type SaleStats struct {
	TotalSales       int     `json:"total_sales"`
	SoldCount        int     `json:"sold_count"`
	NegotiatingCount int     `json:"negotiating_count"`
	CanceledCount    int     `json:"canceled_count"`
	TotalValue       float64 `json:"total_value"`
	TotalCommission  float64 `json:"total_commission"`
}
