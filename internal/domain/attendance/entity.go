package attendance

import (
	"time"
)

// Status is the daily attendance status recorded by the capture workflow.
type Status string

const (
	StatusPresent                Status = "present"
	StatusAbsent                 Status = "absent"
	StatusLate                   Status = "late"
	StatusRestDay                Status = "rest_day"
	StatusSick                   Status = "sick"
	StatusCircumstantialLeave    Status = "circumstantial_leave"
	StatusNonCircumstantialLeave Status = "non_circumstantial_leave"
	StatusSuspension             Status = "suspension"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusRestDay, StatusSick,
		StatusCircumstantialLeave, StatusNonCircumstantialLeave, StatusSuspension:
		return true
	}
	return false
}

// Record is one employee-day of attendance. It is read-only for payroll.
type Record struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	Status          Status
	CheckIn         *string // "HH:MM", only meaningful for late
	ValidatedStatus *Status // operator override
	CreatedAt       time.Time
}

// EffectiveStatus resolves the operator override: ValidatedStatus wins over Status.
func EffectiveStatus(r Record) Status {
	if r.ValidatedStatus != nil && *r.ValidatedStatus != "" {
		return *r.ValidatedStatus
	}
	return r.Status
}

// IsSunday reports whether the record falls on a Sunday. Sunday records never count for pay.
func (r Record) IsSunday() bool {
	return r.Date.Weekday() == time.Sunday
}
