package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateCalendar derives the ordered sequence of monthly rent obligation
// periods that have come due for a lease, one per calendar month from the
// month of the start date through min(asOf, endDate). A lease that has not
// yet begun yields an empty calendar.
func GenerateCalendar(term LeaseTerm, asOf time.Time) ([]ObligationPeriod, error) {
	if err := term.Validate(); err != nil {
		return nil, err
	}

	start := DateOnly(term.StartDate)
	limit := DateOnly(asOf)
	if start.After(limit) {
		return nil, nil
	}
	if term.EndDate != nil {
		if end := DateOnly(*term.EndDate); end.Before(limit) {
			limit = end
		}
	}

	var periods []ObligationPeriod
	for month := startOfMonth(start); !month.After(limit); month = month.AddDate(0, 1, 0) {
		periods = append(periods, buildPeriod(term, month))
	}
	return periods, nil
}

// buildPeriod constructs the obligation for one calendar month, clamping the
// period to the lease bounds and pro-rating partial boundary months.
func buildPeriod(term LeaseTerm, month time.Time) ObligationPeriod {
	monthEnd := month.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	periodStart := month
	if s := DateOnly(term.StartDate); s.After(periodStart) {
		periodStart = s
	}
	periodEnd := monthEnd
	if term.EndDate != nil {
		if e := DateOnly(*term.EndDate); e.Before(periodEnd) {
			periodEnd = e
		}
	}

	// Due day beyond the month's length clamps to the last day (e.g. day 31
	// in February becomes Feb 28/29).
	dueDay := term.DueDayOfMonth
	if dueDay > daysInMonth {
		dueDay = daysInMonth
	}
	dueDate := time.Date(month.Year(), month.Month(), dueDay, 0, 0, 0, 0, time.UTC)

	amount := term.MonthlyRent
	if covered := daysBetween(periodStart, periodEnd) + 1; covered < daysInMonth {
		amount = term.MonthlyRent.
			Mul(decimal.NewFromInt(int64(covered))).
			Div(decimal.NewFromInt(int64(daysInMonth))).
			Round(2)
	}

	return ObligationPeriod{
		Start:     periodStart,
		End:       periodEnd,
		DueDate:   dueDate,
		AmountDue: amount,
	}
}
