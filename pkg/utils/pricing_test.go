package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRentalDays(t *testing.T) {
	t.Run("WholeDayDifference", func(t *testing.T) {
		assert.Equal(t, 3, RentalDays(date(2024, 1, 10), date(2024, 1, 13)))
		assert.Equal(t, 1, RentalDays(date(2024, 1, 10), date(2024, 1, 11)))
		assert.Equal(t, 30, RentalDays(date(2024, 1, 1), date(2024, 1, 31)))
	})

	t.Run("SameDayCountsAsOne", func(t *testing.T) {
		assert.Equal(t, 1, RentalDays(date(2024, 1, 10), date(2024, 1, 10)))
	})

	t.Run("InvertedRangeCountsAsOne", func(t *testing.T) {
		assert.Equal(t, 1, RentalDays(date(2024, 1, 13), date(2024, 1, 10)))
	})

	t.Run("TimeOfDayIgnored", func(t *testing.T) {
		pickup := time.Date(2024, 1, 10, 23, 59, 0, 0, time.Local)
		ret := time.Date(2024, 1, 13, 0, 1, 0, 0, time.Local)
		assert.Equal(t, 3, RentalDays(pickup, ret))
	})

	t.Run("SpringForwardDoesNotShaveADay", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skip("tzdata not available")
		}

		// DST starts 2024-03-10 in this zone; the range is 71 wall-clock
		// hours but still three calendar days.
		pickup := time.Date(2024, 3, 8, 0, 0, 0, 0, loc)
		ret := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
		assert.Equal(t, 3, RentalDays(pickup, ret))
	})

	t.Run("FallBackDoesNotAddADay", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skip("tzdata not available")
		}

		pickup := time.Date(2024, 11, 1, 0, 0, 0, 0, loc)
		ret := time.Date(2024, 11, 4, 0, 0, 0, 0, loc)
		assert.Equal(t, 3, RentalDays(pickup, ret))
	})
}

func TestCalculateQuote(t *testing.T) {
	t.Run("ThreeDayRental", func(t *testing.T) {
		quote := CalculateQuote(2500, date(2024, 1, 10), date(2024, 1, 13))

		assert.Equal(t, 3, quote.RentalDays)
		assert.Equal(t, 2500.0, quote.PricePerDay)
		assert.Equal(t, 7500.0, quote.TotalPrice)
		assert.Equal(t, 500.0, quote.ReservationFee)
		assert.Equal(t, 7000.0, quote.RemainingBalance)
	})

	t.Run("BalancePlusFeeEqualsTotal", func(t *testing.T) {
		quote := CalculateQuote(1899.50, date(2024, 3, 1), date(2024, 3, 8))
		assert.Equal(t, quote.TotalPrice, quote.RemainingBalance+quote.ReservationFee)
	})

	t.Run("MinimumOneDayCharge", func(t *testing.T) {
		quote := CalculateQuote(1000, date(2024, 1, 10), date(2024, 1, 10))
		assert.Equal(t, 1, quote.RentalDays)
		assert.Equal(t, 1000.0, quote.TotalPrice)
		assert.Equal(t, 500.0, quote.RemainingBalance)
	})
}

func TestParseDateOrDefault(t *testing.T) {
	def := date(2024, 6, 15)

	t.Run("ValidDate", func(t *testing.T) {
		parsed := ParseDateOrDefault("2024-01-10", def)
		assert.Equal(t, date(2024, 1, 10), parsed)
	})

	t.Run("EmptyFallsBack", func(t *testing.T) {
		assert.Equal(t, def, ParseDateOrDefault("", def))
	})

	t.Run("MalformedFallsBack", func(t *testing.T) {
		assert.Equal(t, def, ParseDateOrDefault("10/01/2024", def))
		assert.Equal(t, def, ParseDateOrDefault("not-a-date", def))
		assert.Equal(t, def, ParseDateOrDefault("2024-13-45", def))
	})
}
