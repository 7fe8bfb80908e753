package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeLateFee returns the days overdue and the capped late fee for an
// obligation period. Satisfied periods never accrue a fee. Overdue days
// count both the due date and the as-of date, so a payment due on the 1st
// checked on the 5th is five days overdue; a payment due today is not yet
// overdue. The fee is daysOverdue * dailyRate, capped, rounded to two
// decimal places half-up.
func ComputeLateFee(match PeriodMatch, dailyRate, cap decimal.Decimal, asOf time.Time) (int, decimal.Decimal) {
	if match.Status == PeriodSatisfied {
		return 0, decimal.Zero
	}

	due := DateOnly(match.Period.DueDate)
	ref := DateOnly(asOf)
	if !ref.After(due) {
		return 0, decimal.Zero
	}

	days := daysBetween(due, ref) + 1
	fee := dailyRate.Mul(decimal.NewFromInt(int64(days)))
	if fee.GreaterThan(cap) {
		fee = cap
	}
	return days, fee.Round(2)
}
