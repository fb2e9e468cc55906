package dto

// CreateVehicleRequest is the payload for adding a vehicle to inventory
type CreateVehicleRequest struct {
	Brand        string  `json:"brand" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	Year         int     `json:"year" binding:"required,min=1950"`
	Color        string  `json:"color"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	Mileage      int     `json:"mileage" binding:"min=0"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	LicensePlate string  `json:"license_plate"`
	VehicleType  string  `json:"vehicle_type" binding:"required,oneof=carro moto"`
	Description  string  `json:"description"`
}

// UpdateVehicleRequest is the payload for editing a vehicle.
// Zero values leave the stored field untouched.
type UpdateVehicleRequest struct {
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Color        string  `json:"color"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	Mileage      int     `json:"mileage"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	LicensePlate string  `json:"license_plate"`
	Description  string  `json:"description"`
}
