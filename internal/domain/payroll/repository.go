package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access methods for settlement.
// Write methods pick up the transaction carried by ctx, if any.
type PayrollRepository interface {
	// Payslips
	GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (Payslip, error)
	ListPayslipsByPeriod(ctx context.Context, month, year int) ([]Payslip, error)
	// CreatePayslip returns ErrAlreadySettled when (employee, month, year) already has a payslip.
	CreatePayslip(ctx context.Context, payslip Payslip) (Payslip, error)

	// Bonuses
	ListBonusesByPeriod(ctx context.Context, employeeID string, month, year int) ([]Bonus, error)

	// Debts, oldest first
	ListActiveDebts(ctx context.Context, employeeID string) ([]Debt, error)
	// ListActiveDebtsForUpdate locks the rows until the surrounding transaction ends.
	ListActiveDebtsForUpdate(ctx context.Context, employeeID string) ([]Debt, error)
	UpdateDebt(ctx context.Context, debtID string, remaining decimal.Decimal, status DebtStatus) error
}
