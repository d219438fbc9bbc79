package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	if end.Before(start) {
		return nil, attendance.ErrInvalidDateRange
	}

	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, date, status, to_char(check_in, 'HH24:MI'), validated_status, created_at
		FROM attendance_records
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var (
			rec             attendance.Record
			status          string
			validatedStatus *string
		)
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &status, &rec.CheckIn, &validatedStatus, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.Status = attendance.Status(status)
		if validatedStatus != nil {
			vs := attendance.Status(*validatedStatus)
			rec.ValidatedStatus = &vs
		}
		if !attendance.EffectiveStatus(rec).IsValid() {
			slog.Debug("unknown attendance status", "record_id", rec.ID, "status", attendance.EffectiveStatus(rec))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}
