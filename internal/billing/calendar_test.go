package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func testTerm() LeaseTerm {
	return LeaseTerm{
		LeaseID:          "L-1",
		StartDate:        date(2024, time.January, 1),
		EndDate:          datePtr(2024, time.December, 31),
		MonthlyRent:      decimal.NewFromInt(3000),
		DueDayOfMonth:    1,
		DailyLateFeeRate: decimal.NewFromInt(120),
		LateFeeCap:       decimal.NewFromInt(3000),
	}
}

func TestGenerateCalendar_OnePeriodPerElapsedMonth(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2024, time.March, 15))
	require.NoError(t, err)
	require.Len(t, periods, 3)

	assert.Equal(t, date(2024, time.January, 1), periods[0].Start)
	assert.Equal(t, date(2024, time.January, 31), periods[0].End)
	assert.Equal(t, date(2024, time.February, 1), periods[1].Start)
	assert.Equal(t, date(2024, time.March, 1), periods[2].Start)
	for _, p := range periods {
		assert.True(t, p.AmountDue.Equal(decimal.NewFromInt(3000)))
	}
}

func TestGenerateCalendar_EmptyBeforeLeaseStart(t *testing.T) {
	term := testTerm()
	term.StartDate = date(2024, time.June, 1)

	periods, err := GenerateCalendar(term, date(2024, time.May, 31))
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestGenerateCalendar_ProRatesFirstPartialMonth(t *testing.T) {
	// Lease starting on the 15th of a 30-day month owes 16/30 of the rent
	// for that month (start day inclusive).
	term := testTerm()
	term.StartDate = date(2024, time.April, 15)

	periods, err := GenerateCalendar(term, date(2024, time.April, 30))
	require.NoError(t, err)
	require.Len(t, periods, 1)

	want := decimal.NewFromInt(3000).
		Mul(decimal.NewFromInt(16)).
		Div(decimal.NewFromInt(30)).
		Round(2)
	assert.True(t, periods[0].AmountDue.Equal(want), "got %s want %s", periods[0].AmountDue, want)
	assert.Equal(t, date(2024, time.April, 15), periods[0].Start)
	assert.Equal(t, date(2024, time.April, 30), periods[0].End)
}

func TestGenerateCalendar_ProRatesFinalPartialMonth(t *testing.T) {
	term := testTerm()
	term.EndDate = datePtr(2024, time.February, 10)

	periods, err := GenerateCalendar(term, date(2024, time.March, 1))
	require.NoError(t, err)
	require.Len(t, periods, 2)

	// February 2024 has 29 days; the lease covers 10 of them.
	want := decimal.NewFromInt(3000).
		Mul(decimal.NewFromInt(10)).
		Div(decimal.NewFromInt(29)).
		Round(2)
	assert.True(t, periods[1].AmountDue.Equal(want))
	assert.Equal(t, date(2024, time.February, 10), periods[1].End)
}

func TestGenerateCalendar_ClampsDueDayToShortMonths(t *testing.T) {
	term := testTerm()
	term.DueDayOfMonth = 31

	periods, err := GenerateCalendar(term, date(2024, time.February, 15))
	require.NoError(t, err)
	require.Len(t, periods, 2)

	assert.Equal(t, date(2024, time.January, 31), periods[0].DueDate)
	// 2024 is a leap year.
	assert.Equal(t, date(2024, time.February, 29), periods[1].DueDate)

	term.StartDate = date(2023, time.February, 1)
	term.EndDate = nil
	periods, err = GenerateCalendar(term, date(2023, time.February, 15))
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, date(2023, time.February, 28), periods[0].DueDate)
}

func TestGenerateCalendar_StopsAtEndDate(t *testing.T) {
	periods, err := GenerateCalendar(testTerm(), date(2025, time.June, 1))
	require.NoError(t, err)
	assert.Len(t, periods, 12)
	assert.Equal(t, date(2024, time.December, 31), periods[11].End)
}

func TestGenerateCalendar_RejectsMalformedTerms(t *testing.T) {
	term := testTerm()
	term.MonthlyRent = decimal.NewFromInt(-1)
	_, err := GenerateCalendar(term, date(2024, time.June, 1))
	var invalid *InvalidTermError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "L-1", invalid.LeaseID)

	term = testTerm()
	term.DueDayOfMonth = 0
	_, err = GenerateCalendar(term, date(2024, time.June, 1))
	require.ErrorAs(t, err, &invalid)

	term = testTerm()
	term.DueDayOfMonth = 32
	_, err = GenerateCalendar(term, date(2024, time.June, 1))
	require.ErrorAs(t, err, &invalid)

	term = testTerm()
	term.EndDate = datePtr(2023, time.June, 1)
	_, err = GenerateCalendar(term, date(2024, time.June, 1))
	require.ErrorAs(t, err, &invalid)
}
