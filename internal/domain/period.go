package domain

import (
	"fmt"
	"time"
)

// Calendar bounds accepted for a settlement period.
const (
	MinYear = 1900
	MaxYear = 2200
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Period identifies one calendar month.
type Period struct {
	Month int `json:"month" db:"month"`
	Year  int `json:"year" db:"year"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Valid reports whether the month is in [1,12] and the year is plausible.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= MinYear && p.Year <= MaxYear
}

// index is the number of months since year 0, used for ordering and distance.
func (p Period) index() int {
	return p.Year*12 + p.Month - 1
}

func (p Period) Before(other Period) bool {
	return p.index() < other.index()
}

func (p Period) After(other Period) bool {
	return p.index() > other.index()
}

// Next steps one calendar month forward, wrapping December into January.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// MonthsUntil returns the number of whole calendar months from p to other.
// It is negative when other precedes p.
func (p Period) MonthsUntil(other Period) int {
	return other.index() - p.index()
}

// MonthName returns the English month name, or "" for an invalid month.
func (p Period) MonthName() string {
	if p.Month < 1 || p.Month > 12 {
		return ""
	}
	return monthNames[p.Month-1]
}

// Label formats the period as "January 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParsePeriod parses the "YYYY-MM" form produced by String.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// ExpandRange lists every period from from to to inclusive in chronological
// order. It returns nil when from is after to.
func ExpandRange(from, to Period) []Period {
	if from.After(to) {
		return nil
	}
	periods := make([]Period, 0, from.MonthsUntil(to)+1)
	for p := from; !p.After(to); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}

// MaxPeriod returns the later of a and b.
func MaxPeriod(a, b Period) Period {
	if a.After(b) {
		return a
	}
	return b
}

// MinPeriod returns the earlier of a and b.
func MinPeriod(a, b Period) Period {
	if a.Before(b) {
		return a
	}
	return b
}
