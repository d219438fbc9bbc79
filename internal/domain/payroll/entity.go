package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period - one calendar month
type Period struct {
	Month int
	Year  int
}

func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if !p.IsValid() {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

func (p Period) IsValid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 2000 && p.Year <= 9999
}

// Start returns the first day of the period at midnight UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period at midnight UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Contains compares calendar dates only.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Bonus - append-only period addition
type Bonus struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int
	Amount     decimal.Decimal
	Reason     string
	CreatedAt  time.Time
}

// DebtStatus enum
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "active"
	DebtStatusCleared DebtStatus = "cleared"
)

// Debt - outstanding employee debt, consumed FIFO by creation order
type Debt struct {
	ID              string
	EmployeeID      string
	OriginalAmount  decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          DebtStatus
	Description     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DebtAllocation - planned consumption of one debt
type DebtAllocation struct {
	DebtID            string
	Consumed          decimal.Decimal
	PreviousRemaining decimal.Decimal
	NewRemaining      decimal.Decimal
	NewStatus         DebtStatus
}

// Payslip - immutable settlement snapshot, unique per (employee, month, year)
type Payslip struct {
	ID                     string
	EmployeeID             string
	Month                  int
	Year                   int
	BaseSalarySnapshot     decimal.Decimal
	TransportAllowancePaid decimal.Decimal
	AbsencesDeduction      decimal.Decimal
	BonusesTotal           decimal.Decimal
	DebtDeduction          decimal.Decimal
	NetPaid                decimal.Decimal
	TransportPenaltyDays   int
	SettledBy              *string
	CreatedAt              time.Time

	// Joined fields
	EmployeeName *string
}
