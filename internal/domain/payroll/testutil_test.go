package payroll

import (
	"time"

	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func statusPtr(s attendance.Status) *attendance.Status {
	return &s
}

// workingDays returns every non-Sunday date of the period.
func workingDays(p Period) []time.Time {
	var days []time.Time
	for d := p.Start(); !d.After(p.End()); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

func record(date time.Time, status attendance.Status) attendance.Record {
	return attendance.Record{
		ID:         date.Format("2006-01-02"),
		EmployeeID: "emp-1",
		Date:       date,
		Status:     status,
	}
}
