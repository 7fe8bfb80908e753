package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodResult is one line of a reconciliation report.
type PeriodResult struct {
	Period      ObligationPeriod `json:"period"`
	Status      PeriodStatus     `json:"status"`
	PaidAmount  decimal.Decimal  `json:"paid_amount"`
	DaysOverdue int              `json:"days_overdue"`
	LateFee     decimal.Decimal  `json:"late_fee"`
}

// Report is the full reconciliation of a lease's obligations against its
// recorded payments as of a reference date.
type Report struct {
	LeaseID          string          `json:"lease_id"`
	AsOf             time.Time       `json:"as_of"`
	Periods          []PeriodResult  `json:"periods"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	SuggestedPayment decimal.Decimal `json:"suggested_payment"`
}

// Reconcile produces the reconciliation report for one lease: which periods
// are satisfied, partially paid or missing, the late fee accrued on each,
// the total outstanding balance, and the suggested next payment (the
// earliest uncovered period's shortfall plus its fee).
//
// It is a pure function of its inputs. Identical inputs always yield an
// identical report; an empty payment list yields an all-missing report, not
// an error. The only failure mode is a malformed term.
func Reconcile(term LeaseTerm, payments []PaymentRecord, asOf time.Time) (*Report, error) {
	periods, err := GenerateCalendar(term, asOf)
	if err != nil {
		return nil, err
	}
	matches := MatchPayments(periods, payments)

	report := &Report{
		LeaseID:          term.LeaseID,
		AsOf:             DateOnly(asOf),
		TotalOutstanding: decimal.Zero,
		SuggestedPayment: decimal.Zero,
	}

	suggested := false
	for _, m := range matches {
		days, fee := ComputeLateFee(m, term.DailyLateFeeRate, term.LateFeeCap, asOf)
		report.Periods = append(report.Periods, PeriodResult{
			Period:      m.Period,
			Status:      m.Status,
			PaidAmount:  m.PaidAmount,
			DaysOverdue: days,
			LateFee:     fee,
		})

		if m.Status == PeriodSatisfied {
			continue
		}
		shortfall := m.Period.AmountDue.Sub(m.PaidAmount)
		if shortfall.IsNegative() {
			shortfall = decimal.Zero
		}
		report.TotalOutstanding = report.TotalOutstanding.Add(shortfall).Add(fee)
		if !suggested {
			report.SuggestedPayment = shortfall.Add(fee)
			suggested = true
		}
	}
	return report, nil
}
