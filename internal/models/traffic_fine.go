package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrafficFine represents a traffic fine issued against a leased vehicle.
type TrafficFine struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Reference  uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	LeaseID    uint            `gorm:"not null;index" json:"lease_id"`
	FineNumber string          `gorm:"uniqueIndex;not null" json:"fine_number"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	IssuedAt   time.Time       `gorm:"type:date;not null" json:"issued_at"`
	Status     string          `gorm:"default:pending;not null;index" json:"status"`
	Location   *string         `json:"location"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Associations
	Lease Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
}

// TableName specifies the table name for TrafficFine
func (TrafficFine) TableName() string {
	return "traffic_fines"
}

// Traffic fine status constants
const (
	FineStatusPending     = "pending"
	FineStatusTransferred = "transferred"
	FineStatusPaid        = "paid"
	FineStatusDisputed    = "disputed"
	FineStatusClosed      = "closed"
)

var fineStatuses = map[string]bool{
	FineStatusPending:     true,
	FineStatusTransferred: true,
	FineStatusPaid:        true,
	FineStatusDisputed:    true,
	FineStatusClosed:      true,
}

// ValidFineStatus reports whether s belongs to the closed status set.
func ValidFineStatus(s string) bool {
	return fineStatuses[s]
}
