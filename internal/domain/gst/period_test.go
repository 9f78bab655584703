package gst

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilingPeriod(t *testing.T) {
	t.Run("parses MMYYYY", func(t *testing.T) {
		period, err := ParseFilingPeriod("082024")
		require.NoError(t, err)
		assert.Equal(t, 8, period.Month)
		assert.Equal(t, 2024, period.Year)
		assert.Equal(t, "082024", period.String())
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, raw := range []string{"", "82024", "132024", "002024", "081016", "ab2024"} {
			_, err := ParseFilingPeriod(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestFilingPeriod_DateRange(t *testing.T) {
	period := FilingPeriod{Month: 12, Year: 2024}
	start, end := period.DateRange()
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)

	assert.True(t, period.Contains(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, period.Contains(end))
}

func TestFilingPeriod_NextPrevious(t *testing.T) {
	dec := FilingPeriod{Month: 12, Year: 2024}
	assert.Equal(t, FilingPeriod{Month: 1, Year: 2025}, dec.Next())
	assert.Equal(t, FilingPeriod{Month: 11, Year: 2024}, dec.Previous())

	jan := FilingPeriod{Month: 1, Year: 2025}
	assert.Equal(t, dec, jan.Previous())
}

func TestNewFilingPeriod(t *testing.T) {
	period := NewFilingPeriod(time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "082024", period.String())
}
