package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/database"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const payslipUniqueConstraint = "uk_payslip_employee_period"

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PAYSLIPS ==========

const payslipColumns = `
	ps.id, ps.employee_id, ps.period_month, ps.period_year, ps.base_salary_snapshot,
	ps.transport_allowance_paid, ps.absences_deduction, ps.bonuses_total,
	ps.debt_deduction, ps.net_paid, ps.transport_penalty_days, ps.settled_by, ps.created_at`

func scanPayslip(row pgx.Row, extra ...any) (payroll.Payslip, error) {
	var p payroll.Payslip
	dest := []any{
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BaseSalarySnapshot,
		&p.TransportAllowancePaid, &p.AbsencesDeduction, &p.BonusesTotal,
		&p.DebtDeduction, &p.NetPaid, &p.TransportPenaltyDays, &p.SettledBy, &p.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

func (r *payrollRepository) GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payslip, error) {
	if !validator.IsValidUUID(employeeID) {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `, e.full_name
		FROM payslips ps
		JOIN employees e ON ps.employee_id = e.id
		WHERE ps.employee_id = $1 AND ps.period_month = $2 AND ps.period_year = $3
	`

	var name *string
	p, err := scanPayslip(q.QueryRow(ctx, query, employeeID, month, year), &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidInput(err) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	p.EmployeeName = name

	return p, nil
}

func (r *payrollRepository) ListPayslipsByPeriod(ctx context.Context, month, year int) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `, e.full_name
		FROM payslips ps
		JOIN employees e ON ps.employee_id = e.id
		WHERE ps.period_month = $1 AND ps.period_year = $2
		ORDER BY e.full_name, ps.employee_id
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		var name *string
		p, err := scanPayslip(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		p.EmployeeName = name
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return payslips, nil
}

func (r *payrollRepository) CreatePayslip(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	if payslip.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to generate payslip id: %w", err)
		}
		payslip.ID = id.String()
	}

	query := `
		INSERT INTO payslips AS ps (
			id, employee_id, period_month, period_year, base_salary_snapshot,
			transport_allowance_paid, absences_deduction, bonuses_total,
			debt_deduction, net_paid, transport_penalty_days, settled_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + payslipColumns

	created, err := scanPayslip(q.QueryRow(ctx, query,
		payslip.ID, payslip.EmployeeID, payslip.Month, payslip.Year, payslip.BaseSalarySnapshot,
		payslip.TransportAllowancePaid, payslip.AbsencesDeduction, payslip.BonusesTotal,
		payslip.DebtDeduction, payslip.NetPaid, payslip.TransportPenaltyDays, payslip.SettledBy,
	))
	if err != nil {
		if isUniqueViolation(err, payslipUniqueConstraint) {
			return payroll.Payslip{}, payroll.ErrAlreadySettled
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	created.EmployeeName = payslip.EmployeeName

	return created, nil
}

// ========== BONUSES ==========

func (r *payrollRepository) ListBonusesByPeriod(ctx context.Context, employeeID string, month, year int) ([]payroll.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_month, period_year, amount, reason, created_at
		FROM bonuses
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []payroll.Bonus
	for rows.Next() {
		var b payroll.Bonus
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.Month, &b.Year, &b.Amount, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bonuses: %w", err)
	}

	return bonuses, nil
}

// ========== DEBTS ==========

func (r *payrollRepository) ListActiveDebts(ctx context.Context, employeeID string) ([]payroll.Debt, error) {
	return r.listActiveDebts(ctx, employeeID, false)
}

func (r *payrollRepository) ListActiveDebtsForUpdate(ctx context.Context, employeeID string) ([]payroll.Debt, error) {
	return r.listActiveDebts(ctx, employeeID, true)
}

func (r *payrollRepository) listActiveDebts(ctx context.Context, employeeID string, forUpdate bool) ([]payroll.Debt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, original_amount, remaining_amount, status, description, created_at, updated_at
		FROM debts
		WHERE employee_id = $1 AND status = $2
		ORDER BY created_at, id
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(ctx, query, employeeID, string(payroll.DebtStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list active debts: %w", err)
	}
	defer rows.Close()

	var debts []payroll.Debt
	for rows.Next() {
		var d payroll.Debt
		var status string
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.OriginalAmount, &d.RemainingAmount, &status, &d.Description, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		d.Status = payroll.DebtStatus(status)
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	return debts, nil
}

func (r *payrollRepository) UpdateDebt(ctx context.Context, debtID string, remaining decimal.Decimal, status payroll.DebtStatus) error {
	q := GetQuerier(ctx, r.db)

	// cleared never goes back to active
	query := `
		UPDATE debts
		SET remaining_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'active'
	`

	tag, err := q.Exec(ctx, query, remaining, string(status), debtID)
	if err != nil {
		return fmt.Errorf("failed to update debt %s: %w", debtID, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrDebtNotFound
	}

	return nil
}
