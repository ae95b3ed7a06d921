package core

import "context"

type contextKey string

const (
	ctxKeyRole      contextKey = "session_role"
	ctxKeyIPAddress contextKey = "audit_ip"
)

// Role is the caller's authorization role as reported by the session layer.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// ParseRole maps a configured role name to a Role. Unknown names are staff.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleStaff
}

// ContextWithRole stores the caller's role.
func ContextWithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

// RoleFromContext returns the caller's role, or "" when none was set.
func RoleFromContext(ctx context.Context) Role {
	if v, ok := ctx.Value(ctxKeyRole).(Role); ok {
		return v
	}
	return ""
}

// RequireRole returns ErrForbidden unless the context carries want.
func RequireRole(ctx context.Context, want Role) error {
	if RoleFromContext(ctx) != want {
		return ErrForbidden
	}
	return nil
}

// ContextWithIPAddress adds the client IP for logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetIPAddressFromContext extracts the client IP.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
