package payroll

import (
	"github.com/retail-backoffice/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTLEMENT DTOs ==========

type SettleRequest struct {
	EmployeeID    string          `json:"employee_id"`
	PeriodMonth   int             `json:"period_month"`
	PeriodYear    int             `json:"period_year"`
	DebtDeduction decimal.Decimal `json:"debt_deduction"`
	OperatorID    string          `json:"-"`
}

// Validate rejects a negative or sub-cent deduction with ErrInvalidDeductionRequest
// before looking at anything else.
func (r *SettleRequest) Validate() error {
	if !validator.IsNonNegative(r.DebtDeduction) || !validator.HasMaxDecimalPlaces(r.DebtDeduction, moneyScale) {
		return ErrInvalidDeductionRequest
	}

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodMonth, r.PeriodYear)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *SettleRequest) Period() Period {
	return Period{Month: r.PeriodMonth, Year: r.PeriodYear}
}

type BatchSettleItem struct {
	EmployeeID    string          `json:"employee_id"`
	DebtDeduction decimal.Decimal `json:"debt_deduction"`
}

type BatchSettleRequest struct {
	PeriodMonth int               `json:"period_month"`
	PeriodYear  int               `json:"period_year"`
	Items       []BatchSettleItem `json:"items"`
	OperatorID  string            `json:"-"`
}

func (r *BatchSettleRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePeriod(r.PeriodMonth, r.PeriodYear)...)
	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{Field: "items", Message: "at least one employee is required"})
	}

	seen := make(map[string]bool, len(r.Items))
	for _, item := range r.Items {
		if seen[item.EmployeeID] {
			errs = append(errs, validator.ValidationError{Field: "items", Message: "duplicate employee_id " + item.EmployeeID})
			break
		}
		seen[item.EmployeeID] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 9999"})
	}
	return errs
}

// BatchSettleOutcome enum
type BatchSettleOutcome string

const (
	BatchOutcomeSettled        BatchSettleOutcome = "settled"
	BatchOutcomeAlreadySettled BatchSettleOutcome = "already_settled"
	BatchOutcomeRejected       BatchSettleOutcome = "rejected"
	BatchOutcomeFailed         BatchSettleOutcome = "failed"
)

type BatchSettleResult struct {
	EmployeeID string             `json:"employee_id"`
	Outcome    BatchSettleOutcome `json:"outcome"`
	Payslip    *PayslipResponse   `json:"payslip,omitempty"`
	Error      *string            `json:"error,omitempty"`
}

type BatchSettleResponse struct {
	PeriodMonth    int                 `json:"period_month"`
	PeriodYear     int                 `json:"period_year"`
	Results        []BatchSettleResult `json:"results"`
	SettledCount   int                 `json:"settled_count"`
	SkippedCount   int                 `json:"skipped_count"`
	FailedCount    int                 `json:"failed_count"`
	TotalNetPaid   decimal.Decimal     `json:"total_net_paid"`
	TotalDebtTaken decimal.Decimal     `json:"total_debt_deduction"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	EmployeeName           *string         `json:"employee_name,omitempty"`
	PeriodMonth            int             `json:"period_month"`
	PeriodYear             int             `json:"period_year"`
	BaseSalarySnapshot     decimal.Decimal `json:"base_salary_snapshot"`
	TransportAllowancePaid decimal.Decimal `json:"transport_allowance_paid"`
	AbsencesDeduction      decimal.Decimal `json:"absences_deduction"`
	BonusesTotal           decimal.Decimal `json:"bonuses_total"`
	DebtDeduction          decimal.Decimal `json:"debt_deduction"`
	NetPaid                decimal.Decimal `json:"net_paid"`
	TransportPenaltyDays   int             `json:"transport_penalty_days"`
	SettledBy              *string         `json:"settled_by,omitempty"`
	CreatedAt              string          `json:"created_at"`
}

type PayslipListResponse struct {
	PeriodMonth        int               `json:"period_month"`
	PeriodYear         int               `json:"period_year"`
	Data               []PayslipResponse `json:"data"`
	TotalEmployees     int               `json:"total_employees"`
	TotalNetPaid       decimal.Decimal   `json:"total_net_paid"`
	TotalDebtDeduction decimal.Decimal   `json:"total_debt_deduction"`
}

// ========== PREVIEW DTOs ==========

type DebtAllocationResponse struct {
	DebtID            string          `json:"debt_id"`
	Consumed          decimal.Decimal `json:"consumed"`
	PreviousRemaining decimal.Decimal `json:"previous_remaining"`
	NewRemaining      decimal.Decimal `json:"new_remaining"`
	NewStatus         string          `json:"new_status"`
}

type PreviewResponse struct {
	EmployeeID             string                   `json:"employee_id"`
	PeriodMonth            int                      `json:"period_month"`
	PeriodYear             int                      `json:"period_year"`
	AlreadySettled         bool                     `json:"already_settled"`
	DailyRate              decimal.Decimal          `json:"daily_rate"`
	HourlyRate             decimal.Decimal          `json:"hourly_rate"`
	CountedDays            int                      `json:"counted_days"`
	SundaysSkipped         int                      `json:"sundays_skipped"`
	StatusDays             map[string]int           `json:"status_days"`
	AbsencesDeduction      decimal.Decimal          `json:"absences_deduction"`
	TransportPenaltyDays   int                      `json:"transport_penalty_days"`
	TransportEligibleDays  int                      `json:"transport_eligible_days"`
	TransportAllowancePaid decimal.Decimal          `json:"transport_allowance_paid"`
	BonusesTotal           decimal.Decimal          `json:"bonuses_total"`
	BaseSalary             decimal.Decimal          `json:"base_salary"`
	NetBeforeDebt          decimal.Decimal          `json:"net_before_debt"`
	RequestedDebtDeduction decimal.Decimal          `json:"requested_debt_deduction"`
	DebtDeduction          decimal.Decimal          `json:"debt_deduction"`
	DebtAllocations        []DebtAllocationResponse `json:"debt_allocations"`
	NetPaid                decimal.Decimal          `json:"net_paid"`
}

// ========== DEBT DTOs ==========

type DebtResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	Description     *string         `json:"description,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type ListDebtResponse struct {
	EmployeeID     string          `json:"employee_id"`
	Data           []DebtResponse  `json:"data"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}
