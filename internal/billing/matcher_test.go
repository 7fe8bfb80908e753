package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rentPayment(amount int64, y int, m time.Month, d int) PaymentRecord {
	return PaymentRecord{
		ID:          "p",
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: date(y, m, d),
		Type:        PaymentTypeRent,
		Status:      PaymentStatusCompleted,
	}
}

func TestMatchPayments_BucketsByMonth(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.March, 1))
	require.NoError(t, err)
	require.Len(t, periods, 3)

	matches := MatchPayments(periods, []PaymentRecord{
		rentPayment(3000, 2024, time.January, 3),
		rentPayment(1500, 2024, time.March, 28),
	})

	assert.Equal(t, PeriodSatisfied, matches[0].Status)
	assert.Equal(t, PeriodMissing, matches[1].Status)
	assert.True(t, matches[1].PaidAmount.IsZero())
	assert.Equal(t, PeriodPartial, matches[2].Status)
	assert.True(t, matches[2].PaidAmount.Equal(decimal.NewFromInt(1500)))
}

func TestMatchPayments_SumsMultiplePaymentsInOneMonth(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.January, 31))
	require.NoError(t, err)

	matches := MatchPayments(periods, []PaymentRecord{
		rentPayment(1000, 2024, time.January, 2),
		rentPayment(2000, 2024, time.January, 20),
	})
	assert.Equal(t, PeriodSatisfied, matches[0].Status)
	assert.True(t, matches[0].PaidAmount.Equal(decimal.NewFromInt(3000)))
}

func TestMatchPayments_IgnoresNonQualifyingRecords(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.January, 31))
	require.NoError(t, err)

	deposit := rentPayment(3000, 2024, time.January, 2)
	deposit.Type = PaymentTypeDeposit
	cancelled := rentPayment(3000, 2024, time.January, 5)
	cancelled.Status = PaymentStatusCancelled
	fee := rentPayment(3000, 2024, time.January, 6)
	fee.Type = PaymentTypeLateFee

	matches := MatchPayments(periods, []PaymentRecord{deposit, cancelled, fee})
	assert.Equal(t, PeriodMissing, matches[0].Status)
}

func TestMatchPayments_PendingRentStillCounts(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.January, 31))
	require.NoError(t, err)

	pending := rentPayment(3000, 2024, time.January, 2)
	pending.Status = PaymentStatusPending

	matches := MatchPayments(periods, []PaymentRecord{pending})
	assert.Equal(t, PeriodSatisfied, matches[0].Status)
}

func TestMatchPayments_OrphanPaymentsAreDropped(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.January, 31))
	require.NoError(t, err)

	// A payment dated outside every period's month attaches nowhere.
	matches := MatchPayments(periods, []PaymentRecord{
		rentPayment(3000, 2023, time.December, 28),
	})
	assert.Equal(t, PeriodMissing, matches[0].Status)
}

func TestMatchPayments_OrderIndependent(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.February, 15))
	require.NoError(t, err)

	a := rentPayment(1000, 2024, time.January, 2)
	b := rentPayment(2000, 2024, time.January, 25)
	c := rentPayment(3000, 2024, time.February, 1)

	forward := MatchPayments(periods, []PaymentRecord{a, b, c})
	reversed := MatchPayments(periods, []PaymentRecord{c, b, a})
	assert.Equal(t, forward, reversed)
}
