package payroll

import (
	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// AttendanceAggregate - one employee's attendance folded over a period
type AttendanceAggregate struct {
	SalaryDeduction      decimal.Decimal
	TransportPenaltyDays int
	CountedDays          int
	SundaysSkipped       int
	OutOfPeriodSkipped   int
	StatusDays           map[attendance.Status]int
	UnrecognizedDays     int
}

// AggregateAttendance folds the period's records through Classify.
// Sunday records and records outside the period are skipped whatever their status.
func AggregateAttendance(period Period, records []attendance.Record, rates Rates, policy Policy) AttendanceAggregate {
	agg := AttendanceAggregate{
		SalaryDeduction: decimal.Zero,
		StatusDays:      make(map[attendance.Status]int),
	}

	for _, record := range records {
		if !period.Contains(record.Date) {
			agg.OutOfPeriodSkipped++
			continue
		}
		if record.IsSunday() {
			agg.SundaysSkipped++
			continue
		}

		c := Classify(record, rates, policy)
		agg.CountedDays++
		agg.StatusDays[attendance.EffectiveStatus(record)]++
		if !c.Recognized {
			agg.UnrecognizedDays++
			continue
		}

		agg.SalaryDeduction = agg.SalaryDeduction.Add(c.SalaryDeduction)
		if c.TransportPenalty {
			agg.TransportPenaltyDays++
		}
	}

	return agg
}
