package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

// actionPermissions is what the caller must hold to apply each action.
var actionPermissions = map[payroll.Action]user.Permission{
	payroll.ActionSubmit:          user.PermissionPayrollEdit,
	payroll.ActionCancel:          user.PermissionPayrollEdit,
	payroll.ActionArchive:         user.PermissionPayrollEdit,
	payroll.ActionApprove:         user.PermissionPayrollApprove,
	payroll.ActionReject:          user.PermissionPayrollApprove,
	payroll.ActionInitiatePayment: user.PermissionPayrollProcess,
	payroll.ActionMarkPaid:        user.PermissionPayrollProcess,
	payroll.ActionMarkFailed:      user.PermissionPayrollProcess,
	payroll.ActionRetryPayment:    user.PermissionPayrollProcess,
}

// requirePermission returns the caller's claims when they hold p.
func requirePermission(ctx context.Context, p user.Permission) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	if !user.NewPermissionSet(claims.Permissions...).Has(p) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// requirePaymentProcessing gates actions that move money to SUPER_ADMIN,
// whatever permissions an admin has been granted.
func requirePaymentProcessing(claims jwt.Claims) error {
	if claims.Role != user.RoleSuperAdmin {
		return user.ErrInsufficientPermissions
	}
	return nil
}
