package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/retail-backoffice/payroll-engine/internal/domain/auth"
	"github.com/retail-backoffice/payroll-engine/internal/domain/employee"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrOperatorMissing):
		Unauthorized(w, "Token does not identify an operator")
	case errors.Is(err, auth.ErrPermissionRequired):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, "Invalid attendance date range", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidDeductionRequest):
		BadRequest(w, "Debt deduction must not be negative", map[string]string{"debt_deduction": "must not be negative"})
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrAlreadySettled):
		Conflict(w, "ALREADY_SETTLED", "Payroll for this employee and period is already settled")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrDebtNotFound):
		NotFound(w, "Debt not found")
	case errors.Is(err, payroll.ErrPersistenceFailure):
		slog.Error("settlement persistence failure", "error", err)
		ServiceUnavailable(w, "Settlement could not be saved, nothing was changed. Please retry")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
