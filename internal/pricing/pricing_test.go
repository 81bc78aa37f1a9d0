package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationHours(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		start string
		end   string
		want  float64
	}{
		{"same day afternoon", "2024-01-01", "14:00", "18:00", 4.0},
		{"overnight wraps to next day", "2024-01-01", "22:00", "02:00", 4.0},
		{"half hour granularity", "2024-06-15", "09:30", "12:00", 2.5},
		{"full day when start equals end", "2024-01-01", "10:00", "10:00", 24.0},
		{"ends exactly at midnight", "2024-03-10", "20:00", "00:00", 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DurationHours(tt.date, tt.start, tt.end)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDurationHoursRejectsMalformedInput(t *testing.T) {
	_, err := DurationHours("01/02/2024", "14:00", "18:00")
	assert.Error(t, err)

	_, err = DurationHours("2024-01-01", "2pm", "18:00")
	assert.Error(t, err)

	_, err = DurationHours("2024-01-01", "14:00", "25:61")
	assert.Error(t, err)
}

func TestQuoteChangeExtension(t *testing.T) {
	q := QuoteChange(4, 6, 100)

	assert.InDelta(t, 2.0, q.HoursDifference, 1e-9)
	assert.InDelta(t, 200.0, q.AdditionalPrice, 1e-9)
	assert.InDelta(t, 5.0, q.PlatformFee, 1e-9)
	assert.InDelta(t, 205.0, q.AdditionalCost, 1e-9)
	assert.True(t, q.RequiresPayment())
}

func TestQuoteChangeReduction(t *testing.T) {
	q := QuoteChange(6, 4, 100)

	assert.InDelta(t, -2.0, q.HoursDifference, 1e-9)
	assert.Zero(t, q.AdditionalPrice)
	assert.Zero(t, q.PlatformFee)
	assert.Zero(t, q.AdditionalCost)
	assert.False(t, q.RequiresPayment())
}

func TestQuoteChangeNoChange(t *testing.T) {
	q := QuoteChange(4, 4, 100)

	assert.Zero(t, q.HoursDifference)
	assert.Zero(t, q.AdditionalCost)
	assert.False(t, q.RequiresPayment())
}

func TestQuoteChangeIsPure(t *testing.T) {
	first := QuoteChange(3.5, 5.25, 80)
	second := QuoteChange(3.5, 5.25, 80)
	assert.Equal(t, first, second)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(20500), ToMinorUnits(205.0))
	assert.Equal(t, int64(10250), ToMinorUnits(102.499999999))
	assert.Equal(t, int64(1), ToMinorUnits(0.005))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestClockMinutes(t *testing.T) {
	m, err := ClockMinutes("22:15")
	require.NoError(t, err)
	assert.Equal(t, 22*60+15, m)

	_, err = ClockMinutes("9:00am")
	assert.Error(t, err)
}
