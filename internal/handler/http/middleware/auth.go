package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/retail-backoffice/payroll-engine/internal/domain/auth"
	"github.com/retail-backoffice/payroll-engine/internal/handler/http/response"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token is missing or is not an access token.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !jwt.IsAccessToken(claims) {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
