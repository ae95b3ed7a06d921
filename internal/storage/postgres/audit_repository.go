package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// AuditRepository implements core.AuditLog.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Append(ctx context.Context, e core.AuditEntry) error {
	const stmt = `
INSERT INTO audit_log (id, action, severity, entity_key, role, ip_address, old_value, new_value, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		e.ID, string(e.Action), string(e.Severity), e.EntityKey,
		toPgText(string(e.Role)), toPgText(e.IPAddress),
		toPgText(e.OldValue), toPgText(e.NewValue), toPgText(e.Reason),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByEntity returns the newest entries for entityKey first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityKey string, limit int) ([]core.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `
SELECT id, action, severity, entity_key, role, ip_address, old_value, new_value, reason, created_at
FROM audit_log
WHERE entity_key = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := conn(ctx, r.pool).Query(ctx, query, entityKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	out := make([]core.AuditEntry, 0)
	for rows.Next() {
		var (
			e                                core.AuditEntry
			action, severity                 string
			role, ip, oldVal, newVal, reason pgtype.Text
		)
		if err := rows.Scan(&e.ID, &action, &severity, &e.EntityKey, &role, &ip, &oldVal, &newVal, &reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = core.AuditAction(action)
		e.Severity = core.AuditSeverity(severity)
		e.Role = core.Role(fromPgText(role))
		e.IPAddress = fromPgText(ip)
		e.OldValue = fromPgText(oldVal)
		e.NewValue = fromPgText(newVal)
		e.Reason = fromPgText(reason)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return out, nil
}
