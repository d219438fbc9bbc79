package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the read side of the attendance capture workflow.
type AttendanceRepository interface {
	// ListByEmployeeAndRange returns records with start <= date <= end, ordered by date.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)
}
