package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retail-backoffice/payroll-engine/internal/domain/auth"
	"github.com/retail-backoffice/payroll-engine/internal/domain/employee"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testEmployeeID    = "0199a0b2-7c3d-7e4f-8a1b-2c3d4e5f6a7b"
	testOperatorID    = "0199a0b2-7c3d-7e4f-8a1b-000000000001"
)

// stubPayrollService records the last request and returns canned results.
type stubPayrollService struct {
	settleReq  payroll.SettleRequest
	batchReq   payroll.BatchSettleRequest
	settleErr  error
	getErr     error
	gotMonth   int
	gotYear    int
	gotEmpID   string
	settleResp payroll.PayslipResponse
}

func (s *stubPayrollService) Settle(ctx context.Context, req payroll.SettleRequest) (payroll.PayslipResponse, error) {
	s.settleReq = req
	if s.settleErr != nil {
		return payroll.PayslipResponse{}, s.settleErr
	}
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}
	return s.settleResp, nil
}

func (s *stubPayrollService) SettleBatch(ctx context.Context, req payroll.BatchSettleRequest) (payroll.BatchSettleResponse, error) {
	s.batchReq = req
	return payroll.BatchSettleResponse{PeriodMonth: req.PeriodMonth, PeriodYear: req.PeriodYear}, nil
}

func (s *stubPayrollService) Preview(ctx context.Context, req payroll.SettleRequest) (payroll.PreviewResponse, error) {
	s.settleReq = req
	return payroll.PreviewResponse{EmployeeID: req.EmployeeID, NetPaid: decimal.RequireFromString("620")}, nil
}

func (s *stubPayrollService) GetPayslip(ctx context.Context, employeeID string, month, year int) (payroll.PayslipResponse, error) {
	s.gotEmpID, s.gotMonth, s.gotYear = employeeID, month, year
	if s.getErr != nil {
		return payroll.PayslipResponse{}, s.getErr
	}
	return payroll.PayslipResponse{EmployeeID: employeeID, PeriodMonth: month, PeriodYear: year}, nil
}

func (s *stubPayrollService) ListPayslips(ctx context.Context, month, year int) (payroll.PayslipListResponse, error) {
	s.gotMonth, s.gotYear = month, year
	return payroll.PayslipListResponse{PeriodMonth: month, PeriodYear: year, Data: []payroll.PayslipResponse{}}, nil
}

func (s *stubPayrollService) ListActiveDebts(ctx context.Context, employeeID string) (payroll.ListDebtResponse, error) {
	s.gotEmpID = employeeID
	return payroll.ListDebtResponse{}, employee.ErrEmployeeNotFound
}

func newTestRouter(t *testing.T, svc payroll.PayrollService) (http.Handler, jwt.Service) {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret)
	router := NewRouter(jwtService, NewPayrollHandler(svc), RouterOptions{
		Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return router, jwtService
}

func tokenFor(t *testing.T, jwtService jwt.Service, role auth.Role) string {
	t.Helper()
	token, _, err := jwtService.GenerateAccessToken(auth.Operator{UserID: testOperatorID, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestPayrollHandler_Settle_Created(t *testing.T) {
	svc := &stubPayrollService{settleResp: payroll.PayslipResponse{ID: "slip-1", NetPaid: decimal.RequireFromString("620")}}
	router, jwtService := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements", tokenFor(t, jwtService, auth.RoleManager), map[string]interface{}{
		"employee_id":    testEmployeeID,
		"period_month":   3,
		"period_year":    2026,
		"debt_deduction": "40",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, testOperatorID, svc.settleReq.OperatorID)
	assert.True(t, svc.settleReq.DebtDeduction.Equal(decimal.RequireFromString("40")))

	var body struct {
		Success bool                    `json:"success"`
		Data    payroll.PayslipResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "slip-1", body.Data.ID)
}

func TestPayrollHandler_Settle_OperatorIDNotTakenFromBody(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)

	doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements", tokenFor(t, jwtService, auth.RoleOwner), map[string]interface{}{
		"employee_id":  testEmployeeID,
		"period_month": 3,
		"period_year":  2026,
		"OperatorID":   "someone-else",
	})

	assert.Equal(t, testOperatorID, svc.settleReq.OperatorID)
}

func TestPayrollHandler_Settle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"already settled", payroll.ErrAlreadySettled, nil, http.StatusConflict, "ALREADY_SETTLED"},
		{"persistence failure", payroll.ErrPersistenceFailure, nil, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"negative deduction", nil, map[string]interface{}{"employee_id": testEmployeeID, "period_month": 3, "period_year": 2026, "debt_deduction": "-1"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid period", nil, map[string]interface{}{"employee_id": testEmployeeID, "period_month": 14, "period_year": 2026}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jwtService := newTestRouter(t, &stubPayrollService{settleErr: tt.err})
			body := tt.body
			if body == nil {
				body = map[string]interface{}{"employee_id": testEmployeeID, "period_month": 3, "period_year": 2026}
			}

			rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements", tokenFor(t, jwtService, auth.RoleManager), body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, rec))
		})
	}
}

func TestPayrollHandler_Settle_InvalidBody(t *testing.T) {
	router, jwtService := newTestRouter(t, &stubPayrollService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/settlements", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, auth.RoleManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubPayrollService{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips?month=3&year=2026", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayrollHandler_RejectsForeignToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubPayrollService{})
	foreign := tokenFor(t, jwt.NewJWTService("some-other-secret"), auth.RoleOwner)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips?month=3&year=2026", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayrollHandler_EmployeeRoleForbidden(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements", tokenFor(t, jwtService, auth.RoleEmployee), map[string]interface{}{
		"employee_id":  testEmployeeID,
		"period_month": 3,
		"period_year":  2026,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.settleReq.EmployeeID)
}

func TestPayrollHandler_SettleBatch(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements/batch", tokenFor(t, jwtService, auth.RoleOwner), map[string]interface{}{
		"period_month": 3,
		"period_year":  2026,
		"items": []map[string]interface{}{
			{"employee_id": testEmployeeID, "debt_deduction": "10"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, testOperatorID, svc.batchReq.OperatorID)
	require.Len(t, svc.batchReq.Items, 1)
	assert.Equal(t, testEmployeeID, svc.batchReq.Items[0].EmployeeID)
}

func TestPayrollHandler_Preview(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/settlements/preview", tokenFor(t, jwtService, auth.RoleManager), map[string]interface{}{
		"employee_id":  testEmployeeID,
		"period_month": 3,
		"period_year":  2026,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, testEmployeeID, svc.settleReq.EmployeeID)
}

func TestPayrollHandler_GetPayslip(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)
	token := tokenFor(t, jwtService, auth.RoleManager)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/"+testEmployeeID+"/2026/3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, testEmployeeID, svc.gotEmpID)
	assert.Equal(t, 3, svc.gotMonth)
	assert.Equal(t, 2026, svc.gotYear)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/not-a-uuid/2026/3", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/"+testEmployeeID+"/2026/13", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.getErr = payroll.ErrPayslipNotFound
	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/"+testEmployeeID+"/2026/4", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayrollHandler_ListPayslips(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)
	token := tokenFor(t, jwtService, auth.RoleOwner)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips?month=3&year=2026", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, svc.gotMonth)
	assert.Equal(t, 2026, svc.gotYear)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips?month=3", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayrollHandler_ListActiveDebts_NotFound(t *testing.T) {
	svc := &stubPayrollService{}
	router, jwtService := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/payroll/employees/"+testEmployeeID+"/debts", tokenFor(t, jwtService, auth.RoleManager), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, testEmployeeID, svc.gotEmpID)
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(t, &stubPayrollService{})

	rec := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
