package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a rental customer.
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Reference     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	FullName      string    `gorm:"not null" json:"full_name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string    `json:"phone"`
	LicenseNumber string    `gorm:"index" json:"license_number"`
	Address       *string   `json:"address"`
	Active        bool      `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Leases []Lease `gorm:"foreignKey:CustomerID" json:"leases,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}
