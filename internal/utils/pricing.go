package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// DefaultTimeOfDay is used when a pickup or return time is not supplied
	DefaultTimeOfDay = "10:00"

	hoursPerDay = 24
)

// ErrInvalidPrice is returned when a computed price is not a positive finite number
var ErrInvalidPrice = errors.New("invalid price computation")

// ParseDate converts a yyyy-mm-dd formatted string into a UTC midnight time
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %w", err)
	}
	return d, nil
}

// CombineDateTime joins a yyyy-mm-dd date and an HH:MM time into a UTC instant.
// An empty time falls back to DefaultTimeOfDay.
func CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}

	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		timeStr = DefaultTimeOfDay
	}
	t, err := time.Parse(timeLayout, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format, expected HH:MM: %w", err)
	}

	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// DateOf returns UTC midnight of t's calendar date
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RentalDays returns the number of billable days between the pickup and
// return dates. Times of day are ignored and a same-day rental bills one day.
func RentalDays(pickup, ret time.Time) int64 {
	hours := DateOf(ret).Sub(DateOf(pickup)).Hours()
	days := int64(math.Ceil(hours / hoursPerDay))
	if days < 1 {
		days = 1
	}
	return days
}

// ComputePrice returns pricePerDay multiplied by the billable day count
func ComputePrice(pricePerDay float64, pickup, ret time.Time) (float64, error) {
	price := pricePerDay * float64(RentalDays(pickup, ret))
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidPrice
	}
	return price, nil
}

// ToMinorUnits converts a price with two decimal digits into the gateway's
// integer minor unit, rounding to the nearest unit.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
