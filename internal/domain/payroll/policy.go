package payroll

import "github.com/shopspring/decimal"

const (
	// PayrollBasis is the fixed monthly divisor, independent of days-in-month.
	PayrollBasis = 26
	// HoursPerDay converts a daily rate into an hourly rate.
	HoursPerDay = 8

	DefaultLateThresholdHour = 9
	DefaultShiftStartHour    = 8
)

var (
	payrollBasisDecimal = decimal.NewFromInt(PayrollBasis)
	hoursPerDayDecimal  = decimal.NewFromInt(HoursPerDay)

	// DefaultPartialPayDeductionRate - sick and circumstantial leave are paid at 30%.
	DefaultPartialPayDeductionRate = decimal.NewFromFloat(0.70)
)

// Policy holds the business rules that still await product confirmation.
// A late check-in at or after LateThresholdHour deducts
// (hour - ShiftStartHour) hours. A late record without a check-in deducts nothing.
type Policy struct {
	LateThresholdHour       int
	ShiftStartHour          int
	PartialPayDeductionRate decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		LateThresholdHour:       DefaultLateThresholdHour,
		ShiftStartHour:          DefaultShiftStartHour,
		PartialPayDeductionRate: DefaultPartialPayDeductionRate,
	}
}

// Rates - daily and hourly pay derived from base salary
type Rates struct {
	Daily  decimal.Decimal
	Hourly decimal.Decimal
}

// ResolveRates derives rates on the fixed basis. No rounding is applied.
func ResolveRates(baseSalary decimal.Decimal) Rates {
	daily := baseSalary.Div(payrollBasisDecimal)
	return Rates{
		Daily:  daily,
		Hourly: daily.Div(hoursPerDayDecimal),
	}
}
