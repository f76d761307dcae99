package domain

import "time"

// VehicleStatus is the lifecycle state of an inventory vehicle.
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleInService VehicleStatus = "in_service"
	VehicleSold      VehicleStatus = "sold"
)

// Valid reports whether s is a known vehicle status.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleInService, VehicleSold:
		return true
	}
	return false
}

// Vehicle is one inventory unit. The VIN is unique per company.
type Vehicle struct {
	ID            string
	CompanyID     string
	Make          string
	Model         string
	Year          int
	Price         int64 // cents
	Mileage       int
	VIN           string
	ExteriorColor string
	InteriorColor string
	Transmission  string
	FuelType      string
	Description   string
	Status        VehicleStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
