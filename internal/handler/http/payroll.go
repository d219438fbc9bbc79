package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/retail-backoffice/payroll-engine/internal/handler/http/response"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/jwt"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/validator"
)

type PayrollHandler interface {
	// Settlement
	Settle(w http.ResponseWriter, r *http.Request)
	SettleBatch(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)

	// Payslips
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)

	// Debts
	ListActiveDebts(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== SETTLEMENT ==========

func (h *payrollHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSettleRequest(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.Settle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll settled", result)
}

func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSettleRequest(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SettleBatch(w http.ResponseWriter, r *http.Request) {
	operator, err := jwt.OperatorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.BatchSettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.OperatorID = operator.UserID

	result, err := h.payrollService.SettleBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// decodeSettleRequest writes the error response itself and reports false on failure.
func (h *payrollHandlerImpl) decodeSettleRequest(w http.ResponseWriter, r *http.Request) (payroll.SettleRequest, bool) {
	operator, err := jwt.OperatorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return payroll.SettleRequest{}, false
	}

	var req payroll.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return payroll.SettleRequest{}, false
	}
	req.OperatorID = operator.UserID

	return req, true
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	year, okYear := validator.ParseIntInRange(chi.URLParam(r, "year"), 2000, 9999)
	month, okMonth := validator.ParseIntInRange(chi.URLParam(r, "month"), 1, 12)
	if !okYear || !okMonth {
		response.BadRequest(w, "Invalid payroll period", nil)
		return
	}

	result, err := h.payrollService.GetPayslip(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	month, okMonth := validator.ParseIntInRange(r.URL.Query().Get("month"), 1, 12)
	year, okYear := validator.ParseIntInRange(r.URL.Query().Get("year"), 2000, 9999)
	if !okMonth || !okYear {
		response.BadRequest(w, "month and year query parameters are required", map[string]string{
			"month": "must be between 1 and 12",
			"year":  "must be between 2000 and 9999",
		})
		return
	}

	result, err := h.payrollService.ListPayslips(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== DEBTS ==========

func (h *payrollHandlerImpl) ListActiveDebts(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := h.payrollService.ListActiveDebts(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
