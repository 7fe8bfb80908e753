package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Vehicle represents a fleet vehicle available for lease.
type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	Plate     string    `gorm:"uniqueIndex;not null" json:"plate"`
	Make      string    `gorm:"not null" json:"make"`
	Model     string    `gorm:"not null" json:"model"`
	Year      int       `json:"year"`
	Status    string    `gorm:"default:available;not null;index" json:"status"`
	Odometer  int       `json:"odometer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Vehicle
func (Vehicle) TableName() string {
	return "vehicles"
}

// Vehicle status constants
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusLeased      = "leased"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusRetired     = "retired"
)

var vehicleStatuses = map[string]bool{
	VehicleStatusAvailable:   true,
	VehicleStatusLeased:      true,
	VehicleStatusMaintenance: true,
	VehicleStatusRetired:     true,
}

// ValidVehicleStatus reports whether s belongs to the closed status set.
func ValidVehicleStatus(s string) bool {
	return vehicleStatuses[s]
}

// IsAvailable returns true if the vehicle can be assigned to a new lease
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// DisplayName returns "make model (year)" for listings
func (v *Vehicle) DisplayName() string {
	return fmt.Sprintf("%s %s (%d)", v.Make, v.Model, v.Year)
}
