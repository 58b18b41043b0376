package utils

import (
	"math"
	"time"
)

const (
	// ReservationFee is the fixed upfront amount in PHP, deducted from the
	// total at booking time.
	ReservationFee = 500.0

	// DefaultRentalSpanDays is the return-date offset used when a deep link
	// carries no (or an unparsable) return date.
	DefaultRentalSpanDays = 3

	// DateLayout is the wire format for pickup/return dates on deep links
	// and query strings.
	DateLayout = "2006-01-02"
)

// PriceQuote contains the derived totals for a rental period. Quotes are
// recomputed on demand and never persisted outside the final booking row.
type PriceQuote struct {
	RentalDays       int     `json:"rentalDays"`
	PricePerDay      float64 `json:"pricePerDay"`
	TotalPrice       float64 `json:"totalPrice"`
	ReservationFee   float64 `json:"reservationFee"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// RentalDays returns the whole-day difference between the pickup and return
// calendar dates, floored at 1. A same-day or inverted range counts as a
// single rental day rather than an error. Dates are compared as UTC
// midnights so DST transitions in the server zone cannot shave a day off.
func RentalDays(pickup, ret time.Time) int {
	days := int(calendarDay(ret).Sub(calendarDay(pickup)).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// CalculateQuote derives the rental totals for a car priced at pricePerDay.
func CalculateQuote(pricePerDay float64, pickup, ret time.Time) PriceQuote {
	days := RentalDays(pickup, ret)
	total := roundCurrency(pricePerDay * float64(days))
	return PriceQuote{
		RentalDays:       days,
		PricePerDay:      pricePerDay,
		TotalPrice:       total,
		ReservationFee:   ReservationFee,
		RemainingBalance: roundCurrency(total - ReservationFee),
	}
}

// ParseDateOrDefault parses a yyyy-mm-dd date string, falling back to def
// when the string is empty or malformed. Deep links with broken dates get
// defaults instead of an error screen.
func ParseDateOrDefault(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return def
	}
	return t
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
