package jwt

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/retail-backoffice/payroll-engine/internal/domain/auth"
)

const tokenTypeAccess = "access"

type Service interface {
	// GenerateAccessToken issues an access token for an operator. Production tokens
	// come from the identity service; this is used for tooling and tests.
	GenerateAccessToken(operator auth.Operator, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(operator auth.Operator, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": operator.UserID,
		"role":    string(operator.Role),
		"type":    tokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// IsAccessToken reports whether verified claims belong to an access token.
func IsAccessToken(claims map[string]interface{}) bool {
	tokenType, ok := claims["type"].(string)
	return ok && tokenType == tokenTypeAccess
}

// OperatorFromContext reads the operator from the token jwtauth.Verifier stored in ctx.
func OperatorFromContext(ctx context.Context) (auth.Operator, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return auth.Operator{}, auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.Operator{}, auth.ErrOperatorMissing
	}
	role, _ := claims["role"].(string)

	return auth.Operator{UserID: userID, Role: auth.Role(role)}, nil
}
