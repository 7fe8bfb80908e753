package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetora/rental-api/internal/billing"
)

// Lease represents a rental agreement between a customer and a vehicle.
type Lease struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Reference        uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	CustomerID       uint             `gorm:"not null;index" json:"customer_id"`
	VehicleID        uint             `gorm:"not null;index" json:"vehicle_id"`
	Status           string           `gorm:"default:draft;not null;index" json:"status"`
	StartDate        time.Time        `gorm:"type:date;not null" json:"start_date"`
	EndDate          *time.Time       `gorm:"type:date" json:"end_date"`
	MonthlyRent      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"monthly_rent"`
	DueDayOfMonth    int              `gorm:"default:1;not null" json:"due_day_of_month"`
	DailyLateFeeRate decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"daily_late_fee_rate"`
	LateFeeCap       decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"late_fee_cap"`
	DepositAmount    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"deposit_amount"`
	ActivatedAt      *time.Time       `gorm:"index" json:"activated_at"`
	ClosedAt         *time.Time       `json:"closed_at"`
	Note             *string          `gorm:"type:text" json:"note"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Associations
	Customer Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle  Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Payments []Payment `gorm:"foreignKey:LeaseID" json:"payments,omitempty"`
}

// TableName specifies the table name for Lease
func (Lease) TableName() string {
	return "leases"
}

// Lease status constants
const (
	LeaseStatusDraft          = "draft"
	LeaseStatusPending        = "pending"
	LeaseStatusPendingPayment = "pending_payment"
	LeaseStatusPendingDeposit = "pending_deposit"
	LeaseStatusActive         = "active"
	LeaseStatusCancelled      = "cancelled"
	LeaseStatusClosed         = "closed"
	LeaseStatusCompleted      = "completed"
	LeaseStatusTerminated     = "terminated"
	LeaseStatusArchived       = "archived"
)

// leaseStatuses is the closed set accepted at the persistence boundary.
// "archived" exists only as a stored legacy status; no transition produces it.
var leaseStatuses = map[string]bool{
	LeaseStatusDraft:          true,
	LeaseStatusPending:        true,
	LeaseStatusPendingPayment: true,
	LeaseStatusPendingDeposit: true,
	LeaseStatusActive:         true,
	LeaseStatusCancelled:      true,
	LeaseStatusClosed:         true,
	LeaseStatusCompleted:      true,
	LeaseStatusTerminated:     true,
	LeaseStatusArchived:       true,
}

var leaseTerminalStatuses = map[string]bool{
	LeaseStatusCancelled:  true,
	LeaseStatusClosed:     true,
	LeaseStatusCompleted:  true,
	LeaseStatusTerminated: true,
	LeaseStatusArchived:   true,
}

// ValidLeaseStatus reports whether s belongs to the closed status set.
func ValidLeaseStatus(s string) bool {
	return leaseStatuses[s]
}

// IsTerminal reports whether the lease is in a state with no outgoing
// transitions.
func (l *Lease) IsTerminal() bool {
	return leaseTerminalStatuses[l.Status]
}

// MayActivate returns true if the lease can transition to active
func (l *Lease) MayActivate() bool {
	return !l.IsTerminal() && l.Status != LeaseStatusActive
}

// MayCancel returns true if the lease can be cancelled
func (l *Lease) MayCancel() bool {
	return !l.IsTerminal()
}

// MayClose returns true if the lease can be closed
func (l *Lease) MayClose() bool {
	return l.Status == LeaseStatusActive
}

// MayComplete returns true if the lease can be completed
func (l *Lease) MayComplete() bool {
	return l.Status == LeaseStatusActive
}

// MayTerminate returns true if the lease can be terminated early
func (l *Lease) MayTerminate() bool {
	return l.Status == LeaseStatusActive
}

// HasBillingTerms reports whether the lease carries the fields required for
// activation and reconciliation.
func (l *Lease) HasBillingTerms() bool {
	return l.MonthlyRent != nil
}

// BillingTerm maps the lease onto the billing engine's term. It fails with
// MissingTermsError when the monthly rent has not been set.
func (l *Lease) BillingTerm() (billing.LeaseTerm, error) {
	if !l.HasBillingTerms() {
		return billing.LeaseTerm{}, &billing.MissingTermsError{
			LeaseID: l.Reference.String(),
			Field:   "monthly_rent",
		}
	}
	return billing.LeaseTerm{
		LeaseID:          l.Reference.String(),
		StartDate:        l.StartDate,
		EndDate:          l.EndDate,
		MonthlyRent:      *l.MonthlyRent,
		DueDayOfMonth:    l.DueDayOfMonth,
		DailyLateFeeRate: l.DailyLateFeeRate,
		LateFeeCap:       l.LateFeeCap,
	}, nil
}

// LeaseResponse is the JSON response format for leases
type LeaseResponse struct {
	ID               uint             `json:"id"`
	Reference        uuid.UUID        `json:"reference"`
	CustomerID       uint             `json:"customer_id"`
	CustomerName     string           `json:"customer_name,omitempty"`
	VehicleID        uint             `json:"vehicle_id"`
	VehiclePlate     string           `json:"vehicle_plate,omitempty"`
	Status           string           `json:"status"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
	MonthlyRent      *decimal.Decimal `json:"monthly_rent"`
	DueDayOfMonth    int              `json:"due_day_of_month"`
	DailyLateFeeRate decimal.Decimal  `json:"daily_late_fee_rate"`
	LateFeeCap       decimal.Decimal  `json:"late_fee_cap"`
	DepositAmount    *decimal.Decimal `json:"deposit_amount"`
	ActivatedAt      *time.Time       `json:"activated_at"`
	ClosedAt         *time.Time       `json:"closed_at"`
	Note             *string          `json:"note"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Payments []PaymentResponse `json:"payments,omitempty"`
}

// ToResponse converts Lease to LeaseResponse
func (l *Lease) ToResponse() LeaseResponse {
	resp := LeaseResponse{
		ID:               l.ID,
		Reference:        l.Reference,
		CustomerID:       l.CustomerID,
		VehicleID:        l.VehicleID,
		Status:           l.Status,
		StartDate:        l.StartDate,
		EndDate:          l.EndDate,
		MonthlyRent:      l.MonthlyRent,
		DueDayOfMonth:    l.DueDayOfMonth,
		DailyLateFeeRate: l.DailyLateFeeRate,
		LateFeeCap:       l.LateFeeCap,
		DepositAmount:    l.DepositAmount,
		ActivatedAt:      l.ActivatedAt,
		ClosedAt:         l.ClosedAt,
		Note:             l.Note,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}

	if l.Customer.ID != 0 {
		resp.CustomerName = l.Customer.FullName
	}
	if l.Vehicle.ID != 0 {
		resp.VehiclePlate = l.Vehicle.Plate
	}
	for _, p := range l.Payments {
		resp.Payments = append(resp.Payments, p.ToResponse())
	}

	return resp
}
