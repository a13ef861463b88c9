package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_Next(t *testing.T) {
	tests := []struct {
		name     string
		period   Period
		expected Period
	}{
		{name: "mid year", period: Period{Month: 5, Year: 2024}, expected: Period{Month: 6, Year: 2024}},
		{name: "december wraps", period: Period{Month: 12, Year: 2024}, expected: Period{Month: 1, Year: 2025}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.period.Next())
		})
	}
}

func TestPeriod_MonthsUntil(t *testing.T) {
	jan := Period{Month: 1, Year: 2024}

	assert.Equal(t, 0, jan.MonthsUntil(jan))
	assert.Equal(t, 3, jan.MonthsUntil(Period{Month: 4, Year: 2024}))
	assert.Equal(t, 13, jan.MonthsUntil(Period{Month: 2, Year: 2025}))
	assert.Equal(t, -1, jan.MonthsUntil(Period{Month: 12, Year: 2023}))
}

func TestPeriod_Valid(t *testing.T) {
	assert.True(t, Period{Month: 1, Year: 2024}.Valid())
	assert.True(t, Period{Month: 12, Year: 2024}.Valid())
	assert.False(t, Period{Month: 0, Year: 2024}.Valid())
	assert.False(t, Period{Month: 13, Year: 2024}.Valid())
	assert.False(t, Period{Month: 6, Year: 1800}.Valid())
}

func TestPeriod_Label(t *testing.T) {
	assert.Equal(t, "January 2024", Period{Month: 1, Year: 2024}.Label())
	assert.Equal(t, "December 1999", Period{Month: 12, Year: 1999}.Label())
	assert.Equal(t, "2024-03", Period{Month: 3, Year: 2024}.String())
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2023-11")
	require.NoError(t, err)
	assert.Equal(t, Period{Month: 11, Year: 2023}, p)

	_, err = ParsePeriod("2023/11")
	assert.Error(t, err)
}

func TestExpandRange(t *testing.T) {
	t.Run("same year", func(t *testing.T) {
		got := ExpandRange(Period{Month: 3, Year: 2024}, Period{Month: 5, Year: 2024})
		assert.Equal(t, []Period{{3, 2024}, {4, 2024}, {5, 2024}}, got)
	})

	t.Run("wraps december into january", func(t *testing.T) {
		got := ExpandRange(Period{Month: 11, Year: 2023}, Period{Month: 2, Year: 2024})
		assert.Equal(t, []Period{{11, 2023}, {12, 2023}, {1, 2024}, {2, 2024}}, got)
	})

	t.Run("single month", func(t *testing.T) {
		got := ExpandRange(Period{Month: 7, Year: 2024}, Period{Month: 7, Year: 2024})
		assert.Len(t, got, 1)
	})

	t.Run("reversed range is empty", func(t *testing.T) {
		assert.Nil(t, ExpandRange(Period{Month: 5, Year: 2024}, Period{Month: 3, Year: 2024}))
	})
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, Period{Month: 4, Year: 2024}, PeriodOf(time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)))
}
