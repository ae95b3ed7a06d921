package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/app/apptest"
	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/locale"
	"github.com/JonMunkholm/backoffice/internal/metrics"
)

type orderFixture struct {
	svc     *OrderService
	orders  *apptest.Orders
	audit   *apptest.Audit
	tx      *apptest.Tx
	clock   *clock.Fixed
	metrics *metrics.Metrics
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:  apptest.NewOrders(),
		audit:   &apptest.Audit{},
		tx:      &apptest.Tx{},
		clock:   clock.NewFixed(time.Date(2025, 3, 15, 10, 0, 0, 0, clock.KST)),
		metrics: metrics.New(nil),
	}
	f.svc = NewOrderService(f.orders, f.audit, f.tx, f.clock, f.metrics, 3)
	return f
}

func orderInput() core.OrderInput {
	return core.OrderInput{
		CustomerName:    "김민지",
		CustomerPhone:   "01012345678",
		PCCC:            "P123456789012",
		ShippingAddress: "서울특별시 강남구 테헤란로 1",
		Items: []core.OrderItemInput{
			{ProductID: "p1", Quantity: 2, Price: 5000},
			{ProductID: "p2", Quantity: 1, Price: 2000},
		},
	}
}

func TestOrderService_Create(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, orderInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-250315-001", first.OrderNumber())
	assert.Equal(t, core.StatusPaid, first.Status())

	second, err := f.svc.Create(ctx, orderInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-250315-002", second.OrderNumber())

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.IdentifiersMinted.WithLabelValues("order_number")))
	require.Len(t, f.audit.Entries, 2)
	assert.Equal(t, core.ActionOrderCreate, f.audit.Entries[0].Action)
	assert.Equal(t, "ORD-250315-001", f.audit.Entries[0].EntityKey)
}

// tickingClock moves forward by step on every read.
type tickingClock struct {
	now  time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestOrderService_CreateAcrossMidnight(t *testing.T) {
	orders := apptest.NewOrders()
	audit := &apptest.Audit{}
	clk := &tickingClock{now: time.Date(2025, 3, 15, 23, 59, 59, 0, clock.KST), step: time.Second}
	svc := NewOrderService(orders, audit, &apptest.Tx{}, clk, nil, 3)

	order, err := svc.Create(context.Background(), orderInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD-250315-001", order.OrderNumber())
	assert.True(t, clock.Day(order.CreatedAt()).Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, clock.KST)),
		"created %v", order.CreatedAt())
	require.Len(t, audit.Entries, 1)
	assert.Equal(t, order.CreatedAt(), audit.Entries[0].CreatedAt)
}

func TestOrderService_CreateValidation(t *testing.T) {
	f := newOrderFixture(t)
	in := orderInput()
	in.CustomerName = ""
	in.PCCC = "bad"

	_, err := f.svc.Create(context.Background(), in)
	var ie *core.InvalidInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{core.MsgCustomerNameRequired, core.MsgInvalidPCCC}, ie.Result.Errors)
	assert.Zero(t, f.tx.Calls)
}

func TestOrderService_CreateRetriesTakenNumber(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.Taken["ORD-250315-001"] = true

	o, err := f.svc.Create(context.Background(), orderInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-250315-002", o.OrderNumber())
	assert.Equal(t, 2, f.tx.Calls)
}

func TestOrderService_CreateGivesUp(t *testing.T) {
	f := newOrderFixture(t)
	for _, n := range []string{"ORD-250315-001", "ORD-250315-002", "ORD-250315-003"} {
		f.orders.Taken[n] = true
	}

	_, err := f.svc.Create(context.Background(), orderInput())
	assert.ErrorIs(t, err, core.ErrDuplicateOrder)
	assert.Equal(t, 3, f.tx.Calls)
}

func TestOrderService_CreateStoreError(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.SeqErr = apptest.ErrStore

	_, err := f.svc.Create(context.Background(), orderInput())
	assert.ErrorIs(t, err, apptest.ErrStore)
	assert.Equal(t, 1, f.tx.Calls)
}

func TestOrderService_Lifecycle(t *testing.T) {
	f := newOrderFixture(t)
	ctx := apptest.AdminCtx()

	o, err := f.svc.Create(ctx, orderInput())
	require.NoError(t, err)
	num := o.OrderNumber()

	_, err = f.svc.Complete(ctx, num)
	var te *core.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "PAID")

	o, err = f.svc.Ship(ctx, num, "CJ대한통운", "123456789")
	require.NoError(t, err)
	assert.Equal(t, core.StatusShipped, o.Status())
	assert.Equal(t, 2, o.Version())

	o, err = f.svc.Complete(ctx, num)
	require.NoError(t, err)
	assert.Equal(t, core.StatusDone, o.Status())

	_, err = f.svc.Ship(ctx, num, "CJ", "1")
	assert.ErrorIs(t, err, core.ErrIllegalTransition)
	assert.Contains(t, err.Error(), "DONE")

	o, err = f.svc.Refund(ctx, num, "damaged on arrival")
	require.NoError(t, err)
	assert.Equal(t, core.StatusRefunded, o.Status())
	assert.Equal(t, f.clock.Now(), o.RefundedAt())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("complete", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("complete", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("refund", "ok")))

	history, err := f.svc.History(ctx, num, 10)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, core.ActionOrderRefund, history[0].Action)
	assert.Equal(t, "DONE", history[0].OldValue)
	assert.Equal(t, "damaged on arrival", history[0].Reason)
	assert.Equal(t, core.RoleAdmin, history[0].Role)
	assert.Equal(t, core.ActionOrderCreate, history[3].Action)
}

func TestOrderService_RefundRequiresAdmin(t *testing.T) {
	f := newOrderFixture(t)
	o, err := f.svc.Create(context.Background(), orderInput())
	require.NoError(t, err)
	_, err = f.svc.Ship(context.Background(), o.OrderNumber(), "hanjin", "1")
	require.NoError(t, err)

	_, err = f.svc.Refund(apptest.StaffCtx(), o.OrderNumber(), "changed mind")
	assert.ErrorIs(t, err, core.ErrForbidden)

	got, err := f.svc.Get(context.Background(), o.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, core.StatusShipped, got.Status())
}

func TestOrderService_ShipRequiresTracking(t *testing.T) {
	f := newOrderFixture(t)
	o, err := f.svc.Create(context.Background(), orderInput())
	require.NoError(t, err)

	_, err = f.svc.Ship(context.Background(), o.OrderNumber(), "CJ", " ")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("ship", "error")))
}

func TestOrderService_ConcurrentUpdate(t *testing.T) {
	f := newOrderFixture(t)
	o, err := f.svc.Create(context.Background(), orderInput())
	require.NoError(t, err)

	// Another writer bumps the row between our read and write.
	stale := &bumpingOrders{Orders: f.orders}
	svc := NewOrderService(stale, f.audit, f.tx, f.clock, f.metrics, 3)

	_, err = svc.Ship(context.Background(), o.OrderNumber(), "CJ", "1")
	assert.ErrorIs(t, err, core.ErrConcurrentUpdate)
}

type bumpingOrders struct {
	*apptest.Orders
}

func (b *bumpingOrders) Update(ctx context.Context, s core.OrderSnapshot) (core.OrderSnapshot, error) {
	b.Bump(s.OrderNumber)
	return b.Orders.Update(ctx, s)
}

func TestOrderService_AuditFailureFailsTransition(t *testing.T) {
	f := newOrderFixture(t)
	o, err := f.svc.Create(context.Background(), orderInput())
	require.NoError(t, err)

	f.audit.Err = errors.New("audit down")
	_, err = f.svc.Ship(context.Background(), o.OrderNumber(), "CJ", "1")
	assert.EqualError(t, err, "audit down")
}

func TestOrderService_Get(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Get(context.Background(), "not-an-order")
	assert.ErrorIs(t, err, core.ErrOrderNotFound)

	_, err = f.svc.Get(context.Background(), "ORD-250315-009")
	assert.ErrorIs(t, err, core.ErrOrderNotFound)
}

func TestOrderService_List(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, orderInput())
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, orderInput())
	require.NoError(t, err)
	_, err = f.svc.Ship(ctx, a.OrderNumber(), "CJ", "1")
	require.NoError(t, err)

	all, err := f.svc.List(ctx, core.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	shipped, err := f.svc.List(ctx, core.OrderFilter{Status: core.StatusShipped})
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, a.OrderNumber(), shipped[0].OrderNumber())

	_, err = f.svc.List(ctx, core.OrderFilter{Status: "LOST"})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestOrderService_View(t *testing.T) {
	f := newOrderFixture(t)
	o, err := f.svc.Create(context.Background(), orderInput())
	require.NoError(t, err)
	o, err = f.svc.Ship(context.Background(), o.OrderNumber(), "대한통운", "5555")
	require.NoError(t, err)
	f.clock.Advance(5 * time.Minute)

	ko := f.svc.View(o, locale.Korean, 200)
	assert.Equal(t, "배송중", ko.StatusLabel)
	assert.Equal(t, "010-1234-5678", ko.CustomerPhone)
	assert.Equal(t, "₩12,000", ko.Total)
	assert.Equal(t, "¥60.00", ko.TotalCNY)
	assert.Equal(t, 3, ko.TotalItems)
	assert.Equal(t, "CJ대한통운", ko.Courier)
	assert.Contains(t, ko.TrackingURL, "5555")
	assert.Equal(t, "5분 전", ko.CreatedAgo)
	require.Len(t, ko.Items, 2)
	assert.Equal(t, "₩10,000", ko.Items[0].Subtotal)

	zh := f.svc.View(o, locale.SimplifiedChinese, 0)
	assert.Equal(t, "已发货", zh.StatusLabel)
	assert.Equal(t, "01012345678", zh.CustomerPhone)
	assert.Empty(t, zh.TotalCNY)
	assert.Equal(t, "5分钟前", zh.CreatedAgo)
}
