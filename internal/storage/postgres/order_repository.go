package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/backoffice/internal/core"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NextSequence returns the per-day order count plus one for the KST day
// containing day.
func (r *OrderRepository) NextSequence(ctx context.Context, day time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM orders WHERE order_date = $1`

	var n int
	if err := conn(ctx, r.pool).QueryRow(ctx, query, toPgDate(day)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n + 1, nil
}

// Create inserts a new order. A taken order number yields core.ErrDuplicateOrder.
func (r *OrderRepository) Create(ctx context.Context, s core.OrderSnapshot) error {
	const stmt = `
INSERT INTO orders (
	id, order_number, order_date, status, customer_name, customer_phone, pccc,
	shipping_address, items, courier_company, tracking_number, refund_reason,
	refunded_at, created_at, updated_at, version
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := conn(ctx, r.pool).Exec(ctx, stmt,
		s.ID, s.OrderNumber, toPgDate(s.CreatedAt), string(s.Status),
		s.CustomerName, s.CustomerPhone, s.PCCC, s.ShippingAddress, s.Items,
		toPgText(s.CourierCompany), toPgText(s.TrackingNumber), toPgText(s.RefundReason),
		toPgTimestamptz(s.RefundedAt), s.CreatedAt, s.UpdatedAt, s.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateOrder
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

const orderColumns = `
	id, order_number, status, customer_name, customer_phone, pccc,
	shipping_address, items, courier_company, tracking_number, refund_reason,
	refunded_at, created_at, updated_at, version`

// Get loads an order by number. Missing orders yield core.ErrOrderNotFound.
func (r *OrderRepository) Get(ctx context.Context, orderNumber string) (core.OrderSnapshot, error) {
	query := `SELECT` + orderColumns + ` FROM orders WHERE order_number = $1`

	s, err := scanOrder(conn(ctx, r.pool).QueryRow(ctx, query, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.OrderSnapshot{}, core.ErrOrderNotFound
		}
		return core.OrderSnapshot{}, fmt.Errorf("get order: %w", err)
	}
	return s, nil
}

// List returns the most recent orders first.
func (r *OrderRepository) List(ctx context.Context, f core.OrderFilter) ([]core.OrderSnapshot, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `SELECT` + orderColumns + `
FROM orders
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC, order_number DESC
LIMIT $2`

	rows, err := conn(ctx, r.pool).Query(ctx, query, string(f.Status), limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]core.OrderSnapshot, 0)
	for rows.Next() {
		s, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// Update writes the mutable order fields if the stored version still equals
// s.Version, and returns the snapshot with its version bumped. A stale
// version yields core.ErrConcurrentUpdate.
func (r *OrderRepository) Update(ctx context.Context, s core.OrderSnapshot) (core.OrderSnapshot, error) {
	const stmt = `
UPDATE orders SET
	status = $2,
	courier_company = $3,
	tracking_number = $4,
	refund_reason = $5,
	refunded_at = $6,
	updated_at = $7,
	version = version + 1
WHERE id = $1 AND version = $8`

	q := conn(ctx, r.pool)
	tag, err := q.Exec(ctx, stmt,
		s.ID, string(s.Status),
		toPgText(s.CourierCompany), toPgText(s.TrackingNumber), toPgText(s.RefundReason),
		toPgTimestamptz(s.RefundedAt), s.UpdatedAt, s.Version,
	)
	if err != nil {
		return core.OrderSnapshot{}, fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, s.ID).Scan(&exists); err != nil {
			return core.OrderSnapshot{}, fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return core.OrderSnapshot{}, core.ErrOrderNotFound
		}
		return core.OrderSnapshot{}, core.ErrConcurrentUpdate
	}
	s.Version++
	return s, nil
}

func scanOrder(row pgx.Row) (core.OrderSnapshot, error) {
	var (
		s                         core.OrderSnapshot
		status                    string
		courier, tracking, reason pgtype.Text
		refundedAt                pgtype.Timestamptz
	)
	err := row.Scan(
		&s.ID, &s.OrderNumber, &status, &s.CustomerName, &s.CustomerPhone, &s.PCCC,
		&s.ShippingAddress, &s.Items, &courier, &tracking, &reason,
		&refundedAt, &s.CreatedAt, &s.UpdatedAt, &s.Version,
	)
	if err != nil {
		return core.OrderSnapshot{}, err
	}
	s.Status = core.OrderStatus(status)
	s.CourierCompany = fromPgText(courier)
	s.TrackingNumber = fromPgText(tracking)
	s.RefundReason = fromPgText(reason)
	s.RefundedAt = fromPgTimestamptz(refundedAt)
	return s, nil
}
