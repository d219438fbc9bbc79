package auth

type Permission string

const (
	// Payroll
	PermissionPayrollSettle Permission = "payroll.settle"
	PermissionPayrollView   Permission = "payroll.view"

	// Debts
	PermissionDebtView Permission = "debt.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPayrollSettle,
		PermissionPayrollView,
		PermissionDebtView,
	},
	RoleManager: {
		PermissionPayrollSettle,
		PermissionPayrollView,
		PermissionDebtView,
	},
	RoleEmployee: {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
