package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/retail-backoffice/payroll-engine/internal/domain/employee"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// memStore backs every repository the service needs. Transactions are
// serialized and roll back by restoring a snapshot.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	employees  map[string]employee.Employee
	attendance map[string][]attendance.Record
	bonuses    []payroll.Bonus
	debts      []payroll.Debt
	payslips   []payroll.Payslip
	seq        int

	failUpdateDebt error
	failCreate     error
}

func newMemStore() *memStore {
	return &memStore{
		employees:  make(map[string]employee.Employee),
		attendance: make(map[string][]attendance.Record),
	}
}

// WithinTransaction implements database.Transactor.
func (m *memStore) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	debts := append([]payroll.Debt(nil), m.debts...)
	payslips := append([]payroll.Payslip(nil), m.payslips...)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.debts = debts
		m.payslips = payslips
		m.mu.Unlock()
		return err
	}
	return nil
}

// ========== employee.EmployeeRepository ==========

func (m *memStore) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// ========== attendance.AttendanceRepository ==========

func (m *memStore) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Record
	for _, r := range m.attendance[employeeID] {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ========== payroll.PayrollRepository ==========

func (m *memStore) GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payslips {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return p, nil
		}
	}
	return payroll.Payslip{}, payroll.ErrPayslipNotFound
}

func (m *memStore) ListPayslipsByPeriod(ctx context.Context, month, year int) ([]payroll.Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.Payslip
	for _, p := range m.payslips {
		if p.Month == month && p.Year == year {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *memStore) CreatePayslip(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return payroll.Payslip{}, m.failCreate
	}
	for _, p := range m.payslips {
		if p.EmployeeID == slip.EmployeeID && p.Month == slip.Month && p.Year == slip.Year {
			return payroll.Payslip{}, payroll.ErrAlreadySettled
		}
	}
	m.seq++
	slip.ID = fmt.Sprintf("slip-%d", m.seq)
	slip.CreatedAt = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	m.payslips = append(m.payslips, slip)
	return slip, nil
}

func (m *memStore) ListBonusesByPeriod(ctx context.Context, employeeID string, month, year int) ([]payroll.Bonus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.Bonus
	for _, b := range m.bonuses {
		if b.EmployeeID == employeeID && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListActiveDebts(ctx context.Context, employeeID string) ([]payroll.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.Debt
	for _, d := range m.debts {
		if d.EmployeeID == employeeID && d.Status == payroll.DebtStatusActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) ListActiveDebtsForUpdate(ctx context.Context, employeeID string) ([]payroll.Debt, error) {
	return m.ListActiveDebts(ctx, employeeID)
}

func (m *memStore) UpdateDebt(ctx context.Context, debtID string, remaining decimal.Decimal, status payroll.DebtStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateDebt != nil {
		return m.failUpdateDebt
	}
	for i, d := range m.debts {
		if d.ID == debtID && d.Status == payroll.DebtStatusActive {
			m.debts[i].RemainingAmount = remaining
			m.debts[i].Status = status
			return nil
		}
	}
	return payroll.ErrDebtNotFound
}

// ========== helpers ==========

func (m *memStore) debt(id string) payroll.Debt {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.debts {
		if d.ID == id {
			return d
		}
	}
	return payroll.Debt{}
}

func (m *memStore) payslipCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payslips)
}

var errDiskFull = errors.New("disk full")
