package billing

import "github.com/shopspring/decimal"

// MatchPayments buckets qualifying rent payments into obligation periods by
// the calendar month of their payment date and classifies each period as
// satisfied, partial or missing. Payments falling outside every period's
// month are ignored. The result depends only on the inputs; ordering of the
// payments slice does not affect classification.
func MatchPayments(periods []ObligationPeriod, payments []PaymentRecord) []PeriodMatch {
	matches := make([]PeriodMatch, len(periods))
	for i, p := range periods {
		matches[i] = PeriodMatch{Period: p, Status: PeriodMissing, PaidAmount: decimal.Zero}
	}

	for _, pay := range payments {
		if !pay.Qualifies() {
			continue
		}
		date := DateOnly(pay.PaymentDate)
		for i := range matches {
			if sameMonth(matches[i].Period.Start, date) {
				matches[i].PaidAmount = matches[i].PaidAmount.Add(pay.Amount)
				break
			}
		}
	}

	for i := range matches {
		switch {
		case matches[i].PaidAmount.GreaterThanOrEqual(matches[i].Period.AmountDue):
			matches[i].Status = PeriodSatisfied
		case matches[i].PaidAmount.IsPositive():
			matches[i].Status = PeriodPartial
		}
	}
	return matches
}
