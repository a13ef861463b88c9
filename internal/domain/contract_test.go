package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContract_LastAccruingPeriod(t *testing.T) {
	asOf := Period{Month: 6, Year: 2024}
	end := date(2024, 3, 15)
	deactivated := date(2024, 2, 10)

	tests := []struct {
		name     string
		contract Contract
		expected Period
	}{
		{
			name:     "active without end date runs to as-of",
			contract: Contract{Active: true, StartDate: date(2024, 1, 1)},
			expected: asOf,
		},
		{
			name:     "end date caps the window",
			contract: Contract{Active: true, StartDate: date(2024, 1, 1), EndDate: &end},
			expected: Period{Month: 3, Year: 2024},
		},
		{
			name:     "inactive stops at deactivation month",
			contract: Contract{Active: false, StartDate: date(2024, 1, 1), DeactivatedAt: &deactivated},
			expected: Period{Month: 2, Year: 2024},
		},
		{
			name:     "inactive without deactivation time uses last update",
			contract: Contract{Active: false, StartDate: date(2024, 1, 1), UpdatedAt: date(2024, 4, 2)},
			expected: Period{Month: 4, Year: 2024},
		},
		{
			name:     "end date after as-of is ignored",
			contract: Contract{Active: true, StartDate: date(2024, 1, 1), EndDate: ptrTime(date(2026, 1, 1))},
			expected: asOf,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.contract.LastAccruingPeriod(asOf))
		})
	}
}

func TestContract_AccruingPeriods(t *testing.T) {
	c := Contract{Active: true, StartDate: date(2024, 11, 20)}

	got := c.AccruingPeriods(Period{Month: 1, Year: 2024}, Period{Month: 2, Year: 2025})
	assert.Equal(t, []Period{{11, 2024}, {12, 2024}, {1, 2025}, {2, 2025}}, got)

	assert.Empty(t, c.AccruingPeriods(Period{Month: 1, Year: 2024}, Period{Month: 10, Year: 2024}))
}

func TestContract_PrimaryTenant(t *testing.T) {
	c := Contract{Tenants: []ContractTenant{
		{Tenant: Tenant{FullName: "Second"}},
		{Tenant: Tenant{FullName: "Titular"}, IsPrimary: true},
	}}
	assert.Equal(t, "Titular", c.PrimaryTenant().FullName)

	c.Tenants[1].IsPrimary = false
	assert.Equal(t, "Second", c.PrimaryTenant().FullName)

	assert.Nil(t, (&Contract{}).PrimaryTenant())
}

func ptrTime(t time.Time) *time.Time { return &t }
