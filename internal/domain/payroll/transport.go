package payroll

import "github.com/shopspring/decimal"

// TransportProration - net transport after penalty days
type TransportProration struct {
	EligibleDays int
	NetTransport decimal.Decimal
}

// ProrateTransport pays allowance/26 per eligible day. Penalty days beyond the
// basis saturate eligibility at zero.
func ProrateTransport(allowance decimal.Decimal, penaltyDays int) TransportProration {
	eligible := PayrollBasis - penaltyDays
	if eligible < 0 {
		eligible = 0
	}
	if eligible > PayrollBasis {
		eligible = PayrollBasis
	}

	// multiply before dividing so a full month returns the allowance exactly
	net := allowance.Mul(decimal.NewFromInt(int64(eligible))).Div(payrollBasisDecimal)
	if net.GreaterThan(allowance) {
		net = allowance
	}
	if net.IsNegative() {
		net = decimal.Zero
	}

	return TransportProration{EligibleDays: eligible, NetTransport: net}
}
