package domain

import "time"

// VehicleStatus represents vehicle availability
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleSold        VehicleStatus = "sold"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// VehicleType distinguishes cars from motorcycles
type VehicleType string

const (
	VehicleCarro VehicleType = "carro"
	VehicleMoto  VehicleType = "moto"
)

// Vehicle represents an inventory entry
type Vehicle struct {
	ID           string        `json:"id"`
	Brand        string        `json:"brand"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	Color        string        `json:"color"`
	FuelType     string        `json:"fuel_type"`
	Transmission string        `json:"transmission"`
	Mileage      int           `json:"mileage"`
	Price        float64       `json:"price"`
	Status       VehicleStatus `json:"status"`
	LicensePlate string        `json:"license_plate,omitempty"`
	VehicleType  VehicleType   `json:"vehicle_type"`
	Description  string        `json:"description,omitempty"`
	CreatedBy    string        `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
