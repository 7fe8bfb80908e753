package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetora/rental-api/internal/billing"
)

// Payment represents a recorded payment against a lease.
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Reference   uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	LeaseID     uint            `gorm:"not null;index" json:"lease_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentType string          `gorm:"default:rent;not null;index" json:"payment_type"`
	Status      string          `gorm:"default:pending;not null;index" json:"status"`
	Note        *string         `gorm:"type:text" json:"note"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Associations
	Lease Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusCancelled = "cancelled"
)

// Payment type constants
const (
	PaymentTypeRent    = "rent"
	PaymentTypeDeposit = "deposit"
	PaymentTypeLateFee = "late_fee"
	PaymentTypeOther   = "other"
)

var paymentStatuses = map[string]bool{
	PaymentStatusPending:   true,
	PaymentStatusCompleted: true,
	PaymentStatusCancelled: true,
}

var paymentTypes = map[string]bool{
	PaymentTypeRent:    true,
	PaymentTypeDeposit: true,
	PaymentTypeLateFee: true,
	PaymentTypeOther:   true,
}

// ValidPaymentStatus reports whether s belongs to the closed status set.
func ValidPaymentStatus(s string) bool {
	return paymentStatuses[s]
}

// ValidPaymentType reports whether s belongs to the closed type set.
func ValidPaymentType(s string) bool {
	return paymentTypes[s]
}

// MayCancel returns true if the payment can be cancelled
func (p *Payment) MayCancel() bool {
	return p.Status != PaymentStatusCancelled
}

// MayComplete returns true if the payment can be marked completed
func (p *Payment) MayComplete() bool {
	return p.Status == PaymentStatusPending
}

// BillingRecord maps the payment onto the billing engine's record shape.
func (p *Payment) BillingRecord() billing.PaymentRecord {
	return billing.PaymentRecord{
		ID:          p.Reference.String(),
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Type:        billing.PaymentType(p.PaymentType),
		Status:      billing.PaymentStatus(p.Status),
	}
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID          uint            `json:"id"`
	Reference   uuid.UUID       `json:"reference"`
	LeaseID     uint            `json:"lease_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	PaymentType string          `json:"payment_type"`
	Status      string          `json:"status"`
	Note        *string         `json:"note"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Reference:   p.Reference,
		LeaseID:     p.LeaseID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		PaymentType: p.PaymentType,
		Status:      p.Status,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt,
	}
}
