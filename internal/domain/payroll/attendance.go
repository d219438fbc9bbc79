package payroll

import (
	"time"

	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// Classification - pay impact of a single attendance day
type Classification struct {
	SalaryDeduction  decimal.Decimal
	TransportPenalty bool
	Recognized       bool
}

// Classify maps one (non-Sunday) attendance record to its pay impact.
func Classify(record attendance.Record, rates Rates, policy Policy) Classification {
	switch attendance.EffectiveStatus(record) {
	case attendance.StatusPresent, attendance.StatusRestDay:
		return Classification{SalaryDeduction: decimal.Zero, Recognized: true}

	case attendance.StatusLate:
		deduction := decimal.Zero
		if hour, ok := checkInHour(record.CheckIn); ok && hour >= policy.LateThresholdHour {
			deduction = decimal.NewFromInt(int64(hour - policy.ShiftStartHour)).Mul(rates.Hourly)
		}
		return Classification{SalaryDeduction: deduction, Recognized: true}

	case attendance.StatusSick, attendance.StatusCircumstantialLeave:
		return Classification{
			SalaryDeduction:  rates.Daily.Mul(policy.PartialPayDeductionRate),
			TransportPenalty: true,
			Recognized:       true,
		}

	case attendance.StatusAbsent, attendance.StatusNonCircumstantialLeave, attendance.StatusSuspension:
		return Classification{
			SalaryDeduction:  rates.Daily,
			TransportPenalty: true,
			Recognized:       true,
		}
	}

	return Classification{SalaryDeduction: decimal.Zero}
}

var checkInLayouts = []string{"15:04", "15:04:05"}

// checkInHour returns false when the check-in is missing or unreadable.
func checkInHour(checkIn *string) (int, bool) {
	if checkIn == nil || *checkIn == "" {
		return 0, false
	}
	for _, layout := range checkInLayouts {
		if t, err := time.Parse(layout, *checkIn); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}
