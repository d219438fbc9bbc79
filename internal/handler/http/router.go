package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/retail-backoffice/payroll-engine/internal/domain/auth"
	"github.com/retail-backoffice/payroll-engine/internal/handler/http/middleware"
	"github.com/retail-backoffice/payroll-engine/internal/handler/http/response"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/settlements", func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionPayrollSettle))
					r.Post("/", payrollHandler.Settle)
					r.Post("/batch", payrollHandler.SettleBatch)
					r.Post("/preview", payrollHandler.Preview)
				})

				r.Route("/payslips", func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionPayrollView))
					r.Get("/", payrollHandler.ListPayslips)
					r.Get("/{employeeID}/{year}/{month}", payrollHandler.GetPayslip)
				})

				r.With(middleware.RequirePermission(auth.PermissionDebtView)).
					Get("/employees/{employeeID}/debts", payrollHandler.ListActiveDebts)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
