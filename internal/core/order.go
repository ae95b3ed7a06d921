package core

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/backoffice/internal/clock"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPaid     OrderStatus = "PAID"
	StatusShipped  OrderStatus = "SHIPPED"
	StatusDone     OrderStatus = "DONE"
	StatusRefunded OrderStatus = "REFUNDED"
)

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPaid, StatusShipped, StatusDone, StatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusPaid:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDone || target == StatusRefunded
	case StatusDone:
		return target == StatusRefunded
	case StatusRefunded:
		return false // terminal
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusRefunded
}

func (s OrderStatus) String() string { return string(s) }

// OrderFilter narrows an order listing. Zero values mean "any".
type OrderFilter struct {
	Status OrderStatus
	Limit  int
}

// OrderItem is one order line.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is the order aggregate. Its state changes only through Ship,
// Complete and Refund.
type Order struct {
	id              string
	orderNumber     string
	status          OrderStatus
	customerName    string
	customerPhone   string
	pccc            string
	shippingAddress string
	items           []OrderItem
	courierCompany  string
	trackingNumber  string
	refundReason    string
	refundedAt      time.Time
	createdAt       time.Time
	updatedAt       time.Time
	version         int

	clock clock.Clock
}

// NewOrder validates in and creates a PAID order numbered with sequence on
// the clock's current KST day.
func NewOrder(sequence int, in OrderInput, clk clock.Clock) (*Order, error) {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return NewOrderAt(sequence, in, clk.Now(), clk)
}

// NewOrderAt is NewOrder with the creation instant supplied by the caller, so
// the order date matches the day the sequence was counted for. clk stamps
// later transitions.
func NewOrderAt(sequence int, in OrderInput, now time.Time, clk clock.Clock) (*Order, error) {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if res := ValidateOrder(in); !res.IsValid {
		return nil, &InvalidInputError{Result: res}
	}

	number, err := GenerateOrderNumber(sequence, now)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}

	return &Order{
		id:              uuid.NewString(),
		orderNumber:     number,
		status:          StatusPaid,
		customerName:    strings.TrimSpace(in.CustomerName),
		customerPhone:   strings.TrimSpace(in.CustomerPhone),
		pccc:            strings.TrimSpace(in.PCCC),
		shippingAddress: strings.TrimSpace(in.ShippingAddress),
		items:           items,
		createdAt:       now,
		updatedAt:       now,
		version:         1,
		clock:           clk,
	}, nil
}

func (o *Order) ID() string              { return o.id }
func (o *Order) OrderNumber() string     { return o.orderNumber }
func (o *Order) Status() OrderStatus     { return o.status }
func (o *Order) CustomerName() string    { return o.customerName }
func (o *Order) CustomerPhone() string   { return o.customerPhone }
func (o *Order) PCCC() string            { return o.pccc }
func (o *Order) ShippingAddress() string { return o.shippingAddress }
func (o *Order) CourierCompany() string  { return o.courierCompany }
func (o *Order) TrackingNumber() string  { return o.trackingNumber }
func (o *Order) RefundReason() string    { return o.refundReason }
func (o *Order) RefundedAt() time.Time   { return o.refundedAt }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time    { return o.updatedAt }
func (o *Order) Version() int            { return o.version }

// Items returns a copy of the order lines.
func (o *Order) Items() []OrderItem {
	out := make([]OrderItem, len(o.items))
	copy(out, o.items)
	return out
}

// TotalAmount is Σ quantity × price.
func (o *Order) TotalAmount() float64 {
	var total float64
	for _, it := range o.items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}

// TotalItems is Σ quantity.
func (o *Order) TotalItems() int {
	var n int
	for _, it := range o.items {
		n += it.Quantity
	}
	return n
}

// Ship moves a PAID order to SHIPPED and records the carrier and tracking number.
func (o *Order) Ship(courier, trackingNumber string) error {
	if o.status != StatusPaid {
		return &TransitionError{Action: "ship", From: o.status}
	}
	courier, trackingNumber = strings.TrimSpace(courier), strings.TrimSpace(trackingNumber)
	if courier == "" || trackingNumber == "" {
		return invalidArg("courier and tracking number are required to ship")
	}
	o.status = StatusShipped
	o.courierCompany = courier
	o.trackingNumber = trackingNumber
	o.touch()
	return nil
}

// Complete moves a SHIPPED order to DONE.
func (o *Order) Complete() error {
	if o.status != StatusShipped {
		return &TransitionError{Action: "complete", From: o.status}
	}
	o.status = StatusDone
	o.touch()
	return nil
}

// Refund moves a SHIPPED or DONE order to REFUNDED.
func (o *Order) Refund(reason string) error {
	if !o.status.CanTransitionTo(StatusRefunded) {
		return &TransitionError{Action: "refund", From: o.status}
	}
	o.status = StatusRefunded
	o.refundReason = strings.TrimSpace(reason)
	o.refundedAt = o.clock.Now()
	o.touch()
	return nil
}

// TrackingURL returns the carrier tracking link. It reports false when the
// order has no tracking data or the carrier is unknown.
func (o *Order) TrackingURL() (string, bool) {
	if o.trackingNumber == "" {
		return "", false
	}
	c, ok := LookupCarrier(o.courierCompany)
	if !ok {
		return "", false
	}
	return c.TrackingURL(o.trackingNumber), true
}

func (o *Order) touch() {
	o.updatedAt = o.clock.Now()
}

// OrderSnapshot is the flat, persistable form of an Order.
type OrderSnapshot struct {
	ID              string
	OrderNumber     string
	Status          OrderStatus
	CustomerName    string
	CustomerPhone   string
	PCCC            string
	ShippingAddress string
	Items           []OrderItem
	CourierCompany  string
	TrackingNumber  string
	RefundReason    string
	RefundedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

// Snapshot copies the aggregate state for persistence.
func (o *Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		ID:              o.id,
		OrderNumber:     o.orderNumber,
		Status:          o.status,
		CustomerName:    o.customerName,
		CustomerPhone:   o.customerPhone,
		PCCC:            o.pccc,
		ShippingAddress: o.shippingAddress,
		Items:           o.Items(),
		CourierCompany:  o.courierCompany,
		TrackingNumber:  o.trackingNumber,
		RefundReason:    o.refundReason,
		RefundedAt:      o.refundedAt,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
		Version:         o.version,
	}
}

// RestoreOrder rebuilds an aggregate from a persisted snapshot.
func RestoreOrder(s OrderSnapshot, clk clock.Clock) *Order {
	if clk == nil {
		clk = clock.NewSystem()
	}
	items := make([]OrderItem, len(s.Items))
	copy(items, s.Items)
	return &Order{
		id:              s.ID,
		orderNumber:     s.OrderNumber,
		status:          s.Status,
		customerName:    s.CustomerName,
		customerPhone:   s.CustomerPhone,
		pccc:            s.PCCC,
		shippingAddress: s.ShippingAddress,
		items:           items,
		courierCompany:  s.CourierCompany,
		trackingNumber:  s.TrackingNumber,
		refundReason:    s.RefundReason,
		refundedAt:      s.RefundedAt,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		version:         s.Version,
		clock:           clk,
	}
}
