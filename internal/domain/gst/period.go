package gst

import (
	"fmt"
	"time"

	"github.com/jewelerp/backend/internal/domain/shared"
)

// FilingPeriod is a GST return period in MMYYYY form, e.g. "082024"
// for August 2024. This matches the ret_period field on portal data.
type FilingPeriod struct {
	Month int
	Year  int
}

// ParseFilingPeriod parses an MMYYYY period string
func ParseFilingPeriod(raw string) (FilingPeriod, error) {
	if len(raw) != 6 {
		return FilingPeriod{}, shared.NewValidationError("Filing period must be in MMYYYY format: " + raw)
	}
	var month, year int
	if _, err := fmt.Sscanf(raw, "%02d%04d", &month, &year); err != nil {
		return FilingPeriod{}, shared.NewValidationError("Filing period must be in MMYYYY format: " + raw)
	}
	if month < 1 || month > 12 {
		return FilingPeriod{}, shared.NewValidationError("Filing period month must be between 01 and 12")
	}
	if year < 2017 || year > 2099 {
		return FilingPeriod{}, shared.NewValidationError("Filing period year out of range")
	}
	return FilingPeriod{Month: month, Year: year}, nil
}

// NewFilingPeriod builds a period from a calendar date
func NewFilingPeriod(t time.Time) FilingPeriod {
	return FilingPeriod{Month: int(t.Month()), Year: t.Year()}
}

// String returns the MMYYYY representation
func (p FilingPeriod) String() string {
	return fmt.Sprintf("%02d%04d", p.Month, p.Year)
}

// IsZero reports whether the period is unset
func (p FilingPeriod) IsZero() bool {
	return p.Month == 0 && p.Year == 0
}

// DateRange returns the first instant of the period and the first
// instant of the next period. Queries use [start, end).
func (p FilingPeriod) DateRange() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether the instant falls inside the period
func (p FilingPeriod) Contains(t time.Time) bool {
	start, end := p.DateRange()
	u := t.UTC()
	return !u.Before(start) && u.Before(end)
}

// Next returns the following filing period
func (p FilingPeriod) Next() FilingPeriod {
	if p.Month == 12 {
		return FilingPeriod{Month: 1, Year: p.Year + 1}
	}
	return FilingPeriod{Month: p.Month + 1, Year: p.Year}
}

// Previous returns the preceding filing period
func (p FilingPeriod) Previous() FilingPeriod {
	if p.Month == 1 {
		return FilingPeriod{Month: 12, Year: p.Year - 1}
	}
	return FilingPeriod{Month: p.Month - 1, Year: p.Year}
}
