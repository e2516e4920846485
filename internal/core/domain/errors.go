package domain

import "errors"

// Sentinel errors for the core. The HTTP layer maps these to status codes in
// one place; services wrap them with context via fmt.Errorf and %w.
//
// ErrSiteAccessDenied (cross-tenant access) is kept distinct from
// ErrForbidden (role gate) even though both read as "denied": cross-tenant
// denials are surfaced to callers as 404 so that resource existence is never
// confirmed across tenants, while role-gate denials stay 403.
var (
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrSiteNotFound       = errors.New("site not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrSiteAccessDenied   = errors.New("site access denied")
	ErrForbidden          = errors.New("operation forbidden for role")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoAttachment       = errors.New("no invoice attached")
)
