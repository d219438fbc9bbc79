package auth

type Role string

const (
	RoleOwner    Role = "owner"    // Shop owner - full access
	RoleManager  Role = "manager"  // Runs payroll for the shop
	RoleEmployee Role = "employee" // Regular employee
)

// Operator is the authenticated user acting on a request, taken from the access token.
type Operator struct {
	UserID string
	Role   Role
}
