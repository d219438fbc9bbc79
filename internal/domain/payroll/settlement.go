package payroll

import (
	"github.com/retail-backoffice/payroll-engine/internal/domain/attendance"
	"github.com/retail-backoffice/payroll-engine/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Settlement - every intermediate figure of one employee-period computation
type Settlement struct {
	EmployeeID    string
	Period        Period
	Rates         Rates
	Attendance    AttendanceAggregate
	Transport     TransportProration
	BaseSalary    decimal.Decimal
	BonusesTotal  decimal.Decimal
	NetBeforeDebt decimal.Decimal
	Debt          DebtLedgerAllocation
	NetPaid       decimal.Decimal
}

// SettlementInput - everything the composer reads, already loaded
type SettlementInput struct {
	Employee      employee.Employee
	Period        Period
	Attendance    []attendance.Record
	Bonuses       []Bonus
	ActiveDebts   []Debt
	DebtDeduction decimal.Decimal
	Policy        Policy
}

// ComputeEarnings runs every step before debt allocation.
func ComputeEarnings(in SettlementInput) Settlement {
	rates := ResolveRates(in.Employee.BaseSalary)
	agg := AggregateAttendance(in.Period, in.Attendance, rates, in.Policy)
	transport := ProrateTransport(in.Employee.TransportAllowance, agg.TransportPenaltyDays)
	bonuses := SumBonuses(in.Bonuses)

	netBeforeDebt := in.Employee.BaseSalary.
		Sub(agg.SalaryDeduction).
		Add(transport.NetTransport).
		Add(bonuses)

	return Settlement{
		EmployeeID:    in.Employee.ID,
		Period:        in.Period,
		Rates:         rates,
		Attendance:    agg,
		Transport:     transport,
		BaseSalary:    in.Employee.BaseSalary,
		BonusesTotal:  bonuses,
		NetBeforeDebt: netBeforeDebt,
		NetPaid:       netBeforeDebt,
		Debt:          DebtLedgerAllocation{Requested: in.DebtDeduction, Consumed: decimal.Zero},
	}
}

// WithDebt applies a debt allocation to computed earnings.
func (s Settlement) WithDebt(debt DebtLedgerAllocation) Settlement {
	s.Debt = debt
	s.NetPaid = s.NetBeforeDebt.Sub(debt.Consumed)
	return s
}

// Compose runs the full computation, allocating against in.ActiveDebts.
func Compose(in SettlementInput) Settlement {
	return ComputeEarnings(in).WithDebt(AllocateDebts(in.ActiveDebts, in.DebtDeduction))
}

// moneyScale is the number of decimal places every stored amount carries.
const moneyScale = 2

// Payslip freezes the settlement figures, rounded to cents. NetPaid is derived
// from the rounded components so the stored row always adds up.
func (s Settlement) Payslip(settledBy *string) Payslip {
	base := s.BaseSalary.Round(moneyScale)
	transport := s.Transport.NetTransport.Round(moneyScale)
	absences := s.Attendance.SalaryDeduction.Round(moneyScale)
	bonuses := s.BonusesTotal.Round(moneyScale)
	debt := s.Debt.Consumed.Round(moneyScale)

	return Payslip{
		EmployeeID:             s.EmployeeID,
		Month:                  s.Period.Month,
		Year:                   s.Period.Year,
		BaseSalarySnapshot:     base,
		TransportAllowancePaid: transport,
		AbsencesDeduction:      absences,
		BonusesTotal:           bonuses,
		DebtDeduction:          debt,
		NetPaid:                base.Sub(absences).Add(transport).Add(bonuses).Sub(debt),
		TransportPenaltyDays:   s.Attendance.TransportPenaltyDays,
		SettledBy:              settledBy,
	}
}

func SumBonuses(bonuses []Bonus) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bonuses {
		total = total.Add(b.Amount)
	}
	return total
}
