package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewAuditEntry(t *testing.T) {
	ctx := ContextWithRole(context.Background(), RoleAdmin)
	ctx = ContextWithIPAddress(ctx, "192.0.2.1")
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, KST)

	e := NewAuditEntry(ctx, AuditLogParams{
		Action:    ActionOrderRefund,
		EntityKey: "ORD-250315-001",
		OldValue:  "SHIPPED",
		NewValue:  "REFUNDED",
		Reason:    "damaged",
	}, now)

	if e.ID == "" {
		t.Error("ID is empty")
	}
	if e.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want %v", e.Severity, SeverityHigh)
	}
	if e.Role != RoleAdmin {
		t.Errorf("Role = %v, want %v", e.Role, RoleAdmin)
	}
	if e.IPAddress != "192.0.2.1" {
		t.Errorf("IPAddress = %q, want %q", e.IPAddress, "192.0.2.1")
	}
	if !e.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, now)
	}
}

func TestDetermineSeverity(t *testing.T) {
	tests := map[AuditAction]AuditSeverity{
		ActionOrderCreate:   SeverityLow,
		ActionProductCreate: SeverityLow,
		ActionOrderShip:     SeverityMedium,
		ActionStockAdjust:   SeverityMedium,
		ActionOrderRefund:   SeverityHigh,
		ActionRateRecord:    SeverityHigh,
	}
	for action, want := range tests {
		if got := determineSeverity(action); got != want {
			t.Errorf("determineSeverity(%s) = %v, want %v", action, got, want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"no role", ctx, ErrForbidden},
		{"staff", ContextWithRole(ctx, RoleStaff), ErrForbidden},
		{"admin", ContextWithRole(ctx, RoleAdmin), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RequireRole(tt.ctx, RoleAdmin); !errors.Is(err, tt.want) {
				t.Errorf("RequireRole() = %v, want %v", err, tt.want)
			}
		})
	}

	if got := ParseRole("admin"); got != RoleAdmin {
		t.Errorf("ParseRole(admin) = %v, want %v", got, RoleAdmin)
	}
	if got := ParseRole("root"); got != RoleStaff {
		t.Errorf("ParseRole(root) = %v, want %v", got, RoleStaff)
	}
}
