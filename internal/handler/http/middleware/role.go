package middleware

import (
	"fmt"
	"net/http"

	"github.com/retail-backoffice/payroll-engine/internal/domain/auth"
	"github.com/retail-backoffice/payroll-engine/internal/handler/http/response"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/jwt"
)

// RequirePermission checks if the operator's role has a specific permission
func RequirePermission(permission auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator, err := jwt.OperatorFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !auth.HasPermission(operator.Role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but role is '%s'", auth.ErrPermissionRequired, permission, operator.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
