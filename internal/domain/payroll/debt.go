package payroll

import "github.com/shopspring/decimal"

// DebtLedgerAllocation - result of a FIFO allocation run
type DebtLedgerAllocation struct {
	Requested   decimal.Decimal
	Consumed    decimal.Decimal
	Allocations []DebtAllocation
}

// AllocateDebts consumes requested against debts in the given (oldest-first) order.
// It does not mutate its input. A negative request consumes nothing; callers
// reject it with ErrInvalidDeductionRequest before getting here. Only whole cents
// are allocated, matching the stored NUMERIC(14,2) balances.
func AllocateDebts(debts []Debt, requested decimal.Decimal) DebtLedgerAllocation {
	result := DebtLedgerAllocation{
		Requested: requested,
		Consumed:  decimal.Zero,
	}

	remainingToDeduct := requested.Truncate(moneyScale)
	for _, debt := range debts {
		if !remainingToDeduct.IsPositive() {
			break
		}

		consumed := decimal.Min(debt.RemainingAmount, remainingToDeduct)
		if consumed.IsNegative() {
			consumed = decimal.Zero
		}

		newRemaining := debt.RemainingAmount.Sub(consumed)
		newStatus := DebtStatusActive
		if !newRemaining.IsPositive() {
			newStatus = DebtStatusCleared
		}

		result.Allocations = append(result.Allocations, DebtAllocation{
			DebtID:            debt.ID,
			Consumed:          consumed,
			PreviousRemaining: debt.RemainingAmount,
			NewRemaining:      newRemaining,
			NewStatus:         newStatus,
		})
		result.Consumed = result.Consumed.Add(consumed)
		remainingToDeduct = remainingToDeduct.Sub(consumed)
	}

	return result
}

// Changed reports whether applying the allocation alters the stored debt.
func (a DebtAllocation) Changed() bool {
	return a.Consumed.IsPositive() || a.NewStatus == DebtStatusCleared
}
