package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/metrics"
)

const defaultNumberRetries = 5

// OrderService creates orders and drives them through the lifecycle.
type OrderService struct {
	orders  OrderStore
	audit   core.AuditLog
	tx      Transactor
	clock   clock.Clock
	metrics *metrics.Metrics
	retries int
}

// NewOrderService builds the service. retries bounds how many order numbers
// Create tries when a concurrent insert takes the sequence first.
func NewOrderService(orders OrderStore, audit core.AuditLog, tx Transactor, clk clock.Clock, m *metrics.Metrics, retries int) *OrderService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if retries <= 0 {
		retries = defaultNumberRetries
	}
	return &OrderService{
		orders:  orders,
		audit:   audit,
		tx:      orNoTx(tx),
		clock:   clk,
		metrics: m,
		retries: retries,
	}
}

// Create validates in, allocates the next order number for today and stores
// the order as PAID.
func (s *OrderService) Create(ctx context.Context, in core.OrderInput) (*core.Order, error) {
	if res := core.ValidateOrder(in); !res.IsValid {
		return nil, &core.InvalidInputError{Result: res}
	}

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		var order *core.Order
		err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
			now := s.clock.Now()
			seq, err := s.orders.NextSequence(txCtx, now)
			if err != nil {
				return err
			}
			order, err = core.NewOrderAt(seq, in, now, s.clock)
			if err != nil {
				return err
			}
			if err := s.orders.Create(txCtx, order.Snapshot()); err != nil {
				return err
			}
			return s.audit.Append(txCtx, core.NewAuditEntry(txCtx, core.AuditLogParams{
				Action:    core.ActionOrderCreate,
				EntityKey: order.OrderNumber(),
				NewValue:  order.Status().String(),
			}, now))
		})
		if err == nil {
			if s.metrics != nil {
				s.metrics.Minted("order_number")
			}
			return order, nil
		}
		if !errors.Is(err, core.ErrDuplicateOrder) {
			return nil, err
		}
		lastErr = err
		slog.Warn("order number taken, retrying", "attempt", attempt)
	}
	return nil, fmt.Errorf("allocate order number after %d attempts: %w", s.retries, lastErr)
}

// Get loads an order by number.
func (s *OrderService) Get(ctx context.Context, orderNumber string) (*core.Order, error) {
	if _, ok := core.ParseOrderNumber(orderNumber); !ok {
		return nil, core.ErrOrderNotFound
	}
	snap, err := s.orders.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return core.RestoreOrder(snap, s.clock), nil
}

// List returns recent orders, newest first.
func (s *OrderService) List(ctx context.Context, f core.OrderFilter) ([]*core.Order, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", core.ErrInvalidArgument, f.Status)
	}
	snaps, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Order, len(snaps))
	for i, snap := range snaps {
		out[i] = core.RestoreOrder(snap, s.clock)
	}
	return out, nil
}

// Ship moves a PAID order to SHIPPED.
func (s *OrderService) Ship(ctx context.Context, orderNumber, courier, trackingNumber string) (*core.Order, error) {
	return s.transition(ctx, orderNumber, core.ActionOrderShip, "ship", "", func(o *core.Order) error {
		return o.Ship(courier, trackingNumber)
	})
}

// Complete moves a SHIPPED order to DONE.
func (s *OrderService) Complete(ctx context.Context, orderNumber string) (*core.Order, error) {
	return s.transition(ctx, orderNumber, core.ActionOrderComplete, "complete", "", func(o *core.Order) error {
		return o.Complete()
	})
}

// Refund moves a SHIPPED or DONE order to REFUNDED. Admin only.
func (s *OrderService) Refund(ctx context.Context, orderNumber, reason string) (*core.Order, error) {
	if err := core.RequireRole(ctx, core.RoleAdmin); err != nil {
		return nil, err
	}
	return s.transition(ctx, orderNumber, core.ActionOrderRefund, "refund", reason, func(o *core.Order) error {
		return o.Refund(reason)
	})
}

// History returns the audit trail of an order, newest first.
func (s *OrderService) History(ctx context.Context, orderNumber string, limit int) ([]core.AuditEntry, error) {
	if _, err := s.Get(ctx, orderNumber); err != nil {
		return nil, err
	}
	return s.audit.ListByEntity(ctx, orderNumber, limit)
}

func (s *OrderService) transition(ctx context.Context, orderNumber string, action core.AuditAction, name, reason string, apply func(*core.Order) error) (*core.Order, error) {
	order, err := s.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	from := order.Status()
	err = apply(order)
	if err == nil {
		err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
			updated, err := s.orders.Update(txCtx, order.Snapshot())
			if err != nil {
				return err
			}
			order = core.RestoreOrder(updated, s.clock)
			return s.audit.Append(txCtx, core.NewAuditEntry(txCtx, core.AuditLogParams{
				Action:    action,
				EntityKey: orderNumber,
				OldValue:  from.String(),
				NewValue:  order.Status().String(),
				Reason:    reason,
			}, s.clock.Now()))
		})
	}
	if s.metrics != nil {
		s.metrics.ObserveTransition(name, err)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
