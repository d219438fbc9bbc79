package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/retail-backoffice/payroll-engine/internal/domain/employee"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/database"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

type PayrollServiceImpl struct {
	tx               database.Transactor
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	policy           payroll.Policy
	logger           *slog.Logger
	batchConcurrency int
}

type Option func(*PayrollServiceImpl)

func WithPolicy(policy payroll.Policy) Option {
	return func(s *PayrollServiceImpl) { s.policy = policy }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *PayrollServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBatchConcurrency bounds the number of settlements a batch runs at once.
func WithBatchConcurrency(n int) Option {
	return func(s *PayrollServiceImpl) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	opts ...Option,
) payroll.PayrollService {
	s := &PayrollServiceImpl{
		tx:               tx,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		policy:           payroll.DefaultPolicy(),
		logger:           slog.Default(),
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ========== SETTLEMENT ==========

// Settle computes and persists one employee's payslip for a period. The payslip
// insert and every debt update commit together or not at all.
func (s *PayrollServiceImpl) Settle(ctx context.Context, req payroll.SettleRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}
	period := req.Period()

	log := s.logger.With(
		"employee_id", req.EmployeeID,
		"period_month", period.Month,
		"period_year", period.Year,
	)

	// Fast path. The unique constraint still decides under concurrency.
	if _, err := s.payrollRepo.GetPayslipByEmployeePeriod(ctx, req.EmployeeID, period.Month, period.Year); err == nil {
		return payroll.PayslipResponse{}, payroll.ErrAlreadySettled
	} else if !errors.Is(err, payroll.ErrPayslipNotFound) {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to check existing payslip: %w", err)
	}

	in, err := s.loadInput(ctx, req, period)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	earnings := payroll.ComputeEarnings(in)
	s.warnUnrecognized(log, earnings)

	var settledBy *string
	if req.OperatorID != "" {
		operator := req.OperatorID
		settledBy = &operator
	}

	var created payroll.Payslip
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		debts, err := s.payrollRepo.ListActiveDebtsForUpdate(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}

		settlement := earnings.WithDebt(payroll.AllocateDebts(debts, req.DebtDeduction))

		slip := settlement.Payslip(settledBy)
		slip.EmployeeName = &in.Employee.FullName
		created, err = s.payrollRepo.CreatePayslip(txCtx, slip)
		if err != nil {
			return err
		}

		for _, alloc := range settlement.Debt.Allocations {
			if !alloc.Changed() {
				continue
			}
			if err := s.payrollRepo.UpdateDebt(txCtx, alloc.DebtID, alloc.NewRemaining, alloc.NewStatus); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, payroll.ErrAlreadySettled) {
			log.Info("settlement skipped, period already settled")
			return payroll.PayslipResponse{}, payroll.ErrAlreadySettled
		}
		log.Error("settlement rolled back", "error", err)
		return payroll.PayslipResponse{}, fmt.Errorf("%w: %w", payroll.ErrPersistenceFailure, err)
	}

	log.Info("payslip settled",
		"payslip_id", created.ID,
		"net_paid", created.NetPaid.String(),
		"debt_requested", req.DebtDeduction.String(),
		"debt_deducted", created.DebtDeduction.String(),
		"transport_penalty_days", created.TransportPenaltyDays,
	)

	return toPayslipResponse(created), nil
}

// Preview runs the same computation as Settle against unlocked debts and writes nothing.
func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.SettleRequest) (payroll.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PreviewResponse{}, err
	}
	period := req.Period()

	alreadySettled := false
	if _, err := s.payrollRepo.GetPayslipByEmployeePeriod(ctx, req.EmployeeID, period.Month, period.Year); err == nil {
		alreadySettled = true
	} else if !errors.Is(err, payroll.ErrPayslipNotFound) {
		return payroll.PreviewResponse{}, fmt.Errorf("failed to check existing payslip: %w", err)
	}

	in, err := s.loadInput(ctx, req, period)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	debts, err := s.payrollRepo.ListActiveDebts(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PreviewResponse{}, fmt.Errorf("failed to list active debts: %w", err)
	}
	in.ActiveDebts = debts

	settlement := payroll.Compose(in)
	s.warnUnrecognized(s.logger.With("employee_id", req.EmployeeID), settlement)
	slip := settlement.Payslip(nil)

	statusDays := make(map[string]int, len(settlement.Attendance.StatusDays))
	for status, days := range settlement.Attendance.StatusDays {
		statusDays[string(status)] = days
	}

	allocations := make([]payroll.DebtAllocationResponse, 0, len(settlement.Debt.Allocations))
	for _, a := range settlement.Debt.Allocations {
		allocations = append(allocations, payroll.DebtAllocationResponse{
			DebtID:            a.DebtID,
			Consumed:          a.Consumed.Round(2),
			PreviousRemaining: a.PreviousRemaining.Round(2),
			NewRemaining:      a.NewRemaining.Round(2),
			NewStatus:         string(a.NewStatus),
		})
	}

	return payroll.PreviewResponse{
		EmployeeID:             req.EmployeeID,
		PeriodMonth:            period.Month,
		PeriodYear:             period.Year,
		AlreadySettled:         alreadySettled,
		DailyRate:              settlement.Rates.Daily.Round(2),
		HourlyRate:             settlement.Rates.Hourly.Round(2),
		CountedDays:            settlement.Attendance.CountedDays,
		SundaysSkipped:         settlement.Attendance.SundaysSkipped,
		StatusDays:             statusDays,
		AbsencesDeduction:      slip.AbsencesDeduction,
		TransportPenaltyDays:   settlement.Attendance.TransportPenaltyDays,
		TransportEligibleDays:  settlement.Transport.EligibleDays,
		TransportAllowancePaid: slip.TransportAllowancePaid,
		BonusesTotal:           slip.BonusesTotal,
		BaseSalary:             slip.BaseSalarySnapshot,
		NetBeforeDebt:          slip.NetPaid.Add(slip.DebtDeduction),
		RequestedDebtDeduction: req.DebtDeduction,
		DebtDeduction:          slip.DebtDeduction,
		DebtAllocations:        allocations,
		NetPaid:                slip.NetPaid,
	}, nil
}

// SettleBatch settles every item independently. One item failing never rolls back another.
func (s *PayrollServiceImpl) SettleBatch(ctx context.Context, req payroll.BatchSettleRequest) (payroll.BatchSettleResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchSettleResponse{}, err
	}

	results := make([]payroll.BatchSettleResult, len(req.Items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			slip, err := s.Settle(gCtx, payroll.SettleRequest{
				EmployeeID:    item.EmployeeID,
				PeriodMonth:   req.PeriodMonth,
				PeriodYear:    req.PeriodYear,
				DebtDeduction: item.DebtDeduction,
				OperatorID:    req.OperatorID,
			})
			results[i] = batchResult(item.EmployeeID, slip, err)
			return nil
		})
	}
	_ = g.Wait()

	resp := payroll.BatchSettleResponse{
		PeriodMonth:    req.PeriodMonth,
		PeriodYear:     req.PeriodYear,
		Results:        results,
		TotalNetPaid:   decimal.Zero,
		TotalDebtTaken: decimal.Zero,
	}
	for _, r := range results {
		switch r.Outcome {
		case payroll.BatchOutcomeSettled:
			resp.SettledCount++
			resp.TotalNetPaid = resp.TotalNetPaid.Add(r.Payslip.NetPaid)
			resp.TotalDebtTaken = resp.TotalDebtTaken.Add(r.Payslip.DebtDeduction)
		case payroll.BatchOutcomeAlreadySettled:
			resp.SkippedCount++
		default:
			resp.FailedCount++
		}
	}

	s.logger.Info("batch settlement finished",
		"period_month", req.PeriodMonth,
		"period_year", req.PeriodYear,
		"settled", resp.SettledCount,
		"skipped", resp.SkippedCount,
		"failed", resp.FailedCount,
	)

	return resp, nil
}

func batchResult(employeeID string, slip payroll.PayslipResponse, err error) payroll.BatchSettleResult {
	result := payroll.BatchSettleResult{EmployeeID: employeeID}
	if err == nil {
		result.Outcome = payroll.BatchOutcomeSettled
		result.Payslip = &slip
		return result
	}

	msg := err.Error()
	result.Error = &msg

	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, payroll.ErrAlreadySettled):
		result.Outcome = payroll.BatchOutcomeAlreadySettled
	case errors.Is(err, payroll.ErrInvalidDeductionRequest),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.As(err, &verrs):
		result.Outcome = payroll.BatchOutcomeRejected
	default:
		result.Outcome = payroll.BatchOutcomeFailed
	}
	return result
}

// loadInput reads everything the computation needs outside of any transaction.
func (s *PayrollServiceImpl) loadInput(ctx context.Context, req payroll.SettleRequest, period payroll.Period) (payroll.SettlementInput, error) {
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.SettlementInput{}, err
		}
		return payroll.SettlementInput{}, fmt.Errorf("failed to get employee: %w", err)
	}

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, req.EmployeeID, period.Start(), period.End())
	if err != nil {
		return payroll.SettlementInput{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	bonuses, err := s.payrollRepo.ListBonusesByPeriod(ctx, req.EmployeeID, period.Month, period.Year)
	if err != nil {
		return payroll.SettlementInput{}, fmt.Errorf("failed to list bonuses: %w", err)
	}

	return payroll.SettlementInput{
		Employee:      emp,
		Period:        period,
		Attendance:    records,
		Bonuses:       bonuses,
		DebtDeduction: req.DebtDeduction,
		Policy:        s.policy,
	}, nil
}

func (s *PayrollServiceImpl) warnUnrecognized(log *slog.Logger, settlement payroll.Settlement) {
	if settlement.Attendance.UnrecognizedDays > 0 {
		log.Warn("attendance records with unrecognized status contribute nothing",
			"days", settlement.Attendance.UnrecognizedDays,
		)
	}
}

// ========== READ PATH ==========

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, employeeID string, month, year int) (payroll.PayslipResponse, error) {
	if _, err := payroll.NewPeriod(month, year); err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, err := s.payrollRepo.GetPayslipByEmployeePeriod(ctx, employeeID, month, year)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return toPayslipResponse(slip), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, month, year int) (payroll.PayslipListResponse, error) {
	if _, err := payroll.NewPeriod(month, year); err != nil {
		return payroll.PayslipListResponse{}, err
	}

	slips, err := s.payrollRepo.ListPayslipsByPeriod(ctx, month, year)
	if err != nil {
		return payroll.PayslipListResponse{}, err
	}

	resp := payroll.PayslipListResponse{
		PeriodMonth:        month,
		PeriodYear:         year,
		Data:               make([]payroll.PayslipResponse, 0, len(slips)),
		TotalEmployees:     len(slips),
		TotalNetPaid:       decimal.Zero,
		TotalDebtDeduction: decimal.Zero,
	}
	for _, p := range slips {
		resp.Data = append(resp.Data, toPayslipResponse(p))
		resp.TotalNetPaid = resp.TotalNetPaid.Add(p.NetPaid)
		resp.TotalDebtDeduction = resp.TotalDebtDeduction.Add(p.DebtDeduction)
	}
	return resp, nil
}

func (s *PayrollServiceImpl) ListActiveDebts(ctx context.Context, employeeID string) (payroll.ListDebtResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return payroll.ListDebtResponse{}, err
	}

	debts, err := s.payrollRepo.ListActiveDebts(ctx, employeeID)
	if err != nil {
		return payroll.ListDebtResponse{}, err
	}

	resp := payroll.ListDebtResponse{
		EmployeeID:     employeeID,
		Data:           make([]payroll.DebtResponse, 0, len(debts)),
		TotalRemaining: decimal.Zero,
	}
	for _, d := range debts {
		resp.Data = append(resp.Data, payroll.DebtResponse{
			ID:              d.ID,
			EmployeeID:      d.EmployeeID,
			OriginalAmount:  d.OriginalAmount,
			RemainingAmount: d.RemainingAmount,
			Status:          string(d.Status),
			Description:     d.Description,
			CreatedAt:       d.CreatedAt.Format(time.RFC3339),
		})
		resp.TotalRemaining = resp.TotalRemaining.Add(d.RemainingAmount)
	}
	return resp, nil
}

// ========== HELPERS ==========

func toPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	return payroll.PayslipResponse{
		ID:                     p.ID,
		EmployeeID:             p.EmployeeID,
		EmployeeName:           p.EmployeeName,
		PeriodMonth:            p.Month,
		PeriodYear:             p.Year,
		BaseSalarySnapshot:     p.BaseSalarySnapshot,
		TransportAllowancePaid: p.TransportAllowancePaid,
		AbsencesDeduction:      p.AbsencesDeduction,
		BonusesTotal:           p.BonusesTotal,
		DebtDeduction:          p.DebtDeduction,
		NetPaid:                p.NetPaid,
		TransportPenaltyDays:   p.TransportPenaltyDays,
		SettledBy:              p.SettledBy,
		CreatedAt:              p.CreatedAt.Format(time.RFC3339),
	}
}
