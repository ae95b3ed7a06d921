package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionOrderCreate   AuditAction = "order_create"
	ActionOrderShip     AuditAction = "order_ship"
	ActionOrderComplete AuditAction = "order_complete"
	ActionOrderRefund   AuditAction = "order_refund"
	ActionProductCreate AuditAction = "product_create"
	ActionStockAdjust   AuditAction = "stock_adjust"
	ActionRateRecord    AuditAction = "rate_record"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry records one state change. EntityKey is the order number, SKU
// or rate date the change applied to.
type AuditEntry struct {
	ID        string        `json:"id"`
	Action    AuditAction   `json:"action"`
	Severity  AuditSeverity `json:"severity"`
	EntityKey string        `json:"entityKey"`
	Role      Role          `json:"role,omitempty"`
	IPAddress string        `json:"ipAddress,omitempty"`
	OldValue  string        `json:"oldValue,omitempty"`
	NewValue  string        `json:"newValue,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
type AuditLogParams struct {
	Action    AuditAction
	EntityKey string
	OldValue  string
	NewValue  string
	Reason    string
}

// AuditLog persists audit entries. Append is expected to join any transaction
// carried by ctx.
type AuditLog interface {
	Append(ctx context.Context, e AuditEntry) error
	ListByEntity(ctx context.Context, entityKey string, limit int) ([]AuditEntry, error)
}

// determineSeverity returns the appropriate severity for an action.
// Anything that moves money is high.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionOrderRefund, ActionRateRecord:
		return SeverityHigh
	case ActionStockAdjust, ActionOrderShip, ActionOrderComplete:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// NewAuditEntry builds an entry stamped at now, taking the caller's role and
// IP address from ctx.
func NewAuditEntry(ctx context.Context, p AuditLogParams, now time.Time) AuditEntry {
	return AuditEntry{
		ID:        uuid.NewString(),
		Action:    p.Action,
		Severity:  determineSeverity(p.Action),
		EntityKey: p.EntityKey,
		Role:      RoleFromContext(ctx),
		IPAddress: GetIPAddressFromContext(ctx),
		OldValue:  p.OldValue,
		NewValue:  p.NewValue,
		Reason:    p.Reason,
		CreatedAt: now,
	}
}
