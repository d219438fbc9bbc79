package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrOperatorMissing    = errors.New("operator identity missing from token")
	ErrPermissionRequired = errors.New("insufficient permissions")
)
