package payroll

import "errors"

var (
	ErrAlreadySettled          = errors.New("payslip already exists for this employee and period")
	ErrInvalidDeductionRequest = errors.New("requested debt deduction must not be negative")
	ErrPersistenceFailure      = errors.New("settlement could not be committed")
	ErrPayslipNotFound         = errors.New("payslip not found")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
	ErrDebtNotFound            = errors.New("debt not found")
)
