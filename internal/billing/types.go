package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType classifies a recorded payment.
type PaymentType string

const (
	PaymentTypeRent    PaymentType = "rent"
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeLateFee PaymentType = "late_fee"
	PaymentTypeOther   PaymentType = "other"
)

// PaymentStatus is the lifecycle state of a recorded payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PeriodStatus classifies how well an obligation period is covered by
// recorded payments.
type PeriodStatus string

const (
	PeriodSatisfied PeriodStatus = "satisfied"
	PeriodPartial   PeriodStatus = "partial"
	PeriodMissing   PeriodStatus = "missing"
)

// LeaseTerm is the immutable description of a lease's billing terms. All
// reconciliation is derived from it; it carries no persistence concerns.
type LeaseTerm struct {
	LeaseID          string
	StartDate        time.Time
	EndDate          *time.Time // nil for open-ended leases
	MonthlyRent      decimal.Decimal
	DueDayOfMonth    int // 1-31, clamped to the last day of short months
	DailyLateFeeRate decimal.Decimal
	LateFeeCap       decimal.Decimal
}

// Validate checks the term invariants. It returns *InvalidTermError so
// callers can surface the exact reason before reconciliation proceeds.
func (t LeaseTerm) Validate() error {
	if t.MonthlyRent.IsNegative() {
		return &InvalidTermError{LeaseID: t.LeaseID, Reason: "monthly rent must not be negative"}
	}
	if t.DueDayOfMonth < 1 || t.DueDayOfMonth > 31 {
		return &InvalidTermError{LeaseID: t.LeaseID, Reason: fmt.Sprintf("due day %d outside 1-31", t.DueDayOfMonth)}
	}
	if t.DailyLateFeeRate.IsNegative() {
		return &InvalidTermError{LeaseID: t.LeaseID, Reason: "daily late fee rate must not be negative"}
	}
	if t.LateFeeCap.IsNegative() {
		return &InvalidTermError{LeaseID: t.LeaseID, Reason: "late fee cap must not be negative"}
	}
	if t.EndDate != nil && DateOnly(*t.EndDate).Before(DateOnly(t.StartDate)) {
		return &InvalidTermError{LeaseID: t.LeaseID, Reason: "end date precedes start date"}
	}
	return nil
}

// PaymentRecord is a recorded payment against a lease. Only rent payments
// that are not cancelled count toward satisfying an obligation period.
type PaymentRecord struct {
	ID          string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Type        PaymentType
	Status      PaymentStatus
}

// Qualifies reports whether the record counts toward rent obligations.
func (p PaymentRecord) Qualifies() bool {
	return p.Type == PaymentTypeRent && p.Status != PaymentStatusCancelled
}

// ObligationPeriod is one calendar month's rent obligation, clamped to the
// lease bounds. Periods are derived on every reconciliation and never stored.
type ObligationPeriod struct {
	Start     time.Time
	End       time.Time
	DueDate   time.Time
	AmountDue decimal.Decimal
}

// PeriodMatch pairs an obligation period with the payments bucketed into it.
type PeriodMatch struct {
	Period     ObligationPeriod
	Status     PeriodStatus
	PaidAmount decimal.Decimal
}

// DateOnly normalizes a timestamp to a UTC calendar date. All billing math
// works on dates, never wall-clock instants.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole calendar days from a to b.
// Both arguments must already be normalized with DateOnly.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
