package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 2024, date.Year())
		assert.Equal(t, time.January, date.Month())
		assert.Equal(t, 15, date.Day())
		assert.Equal(t, time.UTC, date.Location())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
	})
}

func TestCombineDateTime(t *testing.T) {
	t.Run("Default time", func(t *testing.T) {
		ts, err := CombineDateTime("2024-01-01", "")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), ts)
	})

	t.Run("Explicit time", func(t *testing.T) {
		ts, err := CombineDateTime("2024-01-01", "18:30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), ts)
	})

	t.Run("Invalid time", func(t *testing.T) {
		_, err := CombineDateTime("2024-01-01", "6pm")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid time format")
	})
}

func TestRentalDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      time.Time
		expected int64
	}{
		{"Same instant", start, 1},
		{"Later the same day", time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), 1},
		{"Next day, later hour", time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC), 1},
		{"Next day, earlier hour", time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC), 1},
		{"Two dates later", time.Date(2024, 1, 3, 0, 30, 0, 0, time.UTC), 2},
		{"One week", start.Add(7 * 24 * time.Hour), 7},
		{"Negative span", start.Add(-48 * time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RentalDays(start, tt.end))
		})
	}
}

func TestDateOf(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DateOf(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), DateOf(time.Date(2024, 1, 1, 2, 0, 0, 0, ist)))
}

func TestComputePrice(t *testing.T) {
	d1, _ := ParseDate("2024-01-01")
	d2, _ := ParseDate("2024-01-02")
	d5, _ := ParseDate("2024-01-05")

	t.Run("One day", func(t *testing.T) {
		price, err := ComputePrice(1000, d1, d2)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, price)
	})

	t.Run("Same day bills minimum one day", func(t *testing.T) {
		price, err := ComputePrice(1000, d1, d1)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, price)
	})

	t.Run("Times of day do not add a day", func(t *testing.T) {
		pickup := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		ret := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
		price, err := ComputePrice(1000, pickup, ret)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, price)
	})

	t.Run("Multiple days", func(t *testing.T) {
		price, err := ComputePrice(1499.5, d1, d5)
		assert.NoError(t, err)
		assert.Equal(t, 5998.0, price)
	})

	t.Run("Zero rate", func(t *testing.T) {
		_, err := ComputePrice(0, d1, d2)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("Negative rate", func(t *testing.T) {
		_, err := ComputePrice(-10, d1, d2)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("Non-finite rate", func(t *testing.T) {
		_, err := ComputePrice(math.Inf(1), d1, d2)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		_, err = ComputePrice(math.NaN(), d1, d2)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(100000), ToMinorUnits(1000))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(250), ToMinorUnits(2.5))
}
