package payroll

import "context"

type PayrollService interface {
	// Settlement
	Settle(ctx context.Context, req SettleRequest) (PayslipResponse, error)
	SettleBatch(ctx context.Context, req BatchSettleRequest) (BatchSettleResponse, error)
	Preview(ctx context.Context, req SettleRequest) (PreviewResponse, error)

	// Read path
	GetPayslip(ctx context.Context, employeeID string, month, year int) (PayslipResponse, error)
	ListPayslips(ctx context.Context, month, year int) (PayslipListResponse, error)
	ListActiveDebts(ctx context.Context, employeeID string) (ListDebtResponse, error)
}
