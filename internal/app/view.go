package app

import (
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/locale"
)

// OrderView is an order rendered for display in one locale.
type OrderView struct {
	OrderNumber    string          `json:"orderNumber"`
	Status         string          `json:"status"`
	StatusLabel    string          `json:"statusLabel"`
	CustomerName   string          `json:"customerName"`
	CustomerPhone  string          `json:"customerPhone"`
	Address        string          `json:"shippingAddress"`
	Items          []OrderItemView `json:"items"`
	TotalItems     int             `json:"totalItems"`
	Total          string          `json:"total"`
	TotalCNY       string          `json:"totalCny,omitempty"`
	Courier        string          `json:"courier,omitempty"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	TrackingURL    string          `json:"trackingUrl,omitempty"`
	RefundReason   string          `json:"refundReason,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	CreatedAgo     string          `json:"createdAgo"`
}

// OrderItemView is one formatted order line.
type OrderItemView struct {
	ProductID string `json:"productId"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	Subtotal  string `json:"subtotal"`
}

// View formats o for loc. rate is the KRW-per-CNY rate used for the CNY
// total; a non-positive rate omits it.
func (s *OrderService) View(o *core.Order, loc locale.Locale, rate float64) OrderView {
	v := OrderView{
		OrderNumber:    o.OrderNumber(),
		Status:         o.Status().String(),
		StatusLabel:    locale.StatusLabel(o.Status().String(), loc),
		CustomerName:   o.CustomerName(),
		CustomerPhone:  locale.FormatPhoneNumber(o.CustomerPhone(), loc),
		Address:        o.ShippingAddress(),
		TotalItems:     o.TotalItems(),
		Total:          locale.FormatCurrency(o.TotalAmount(), string(core.KRW), loc),
		TrackingNumber: o.TrackingNumber(),
		RefundReason:   o.RefundReason(),
		CreatedAt:      locale.FormatDate(o.CreatedAt(), loc),
		CreatedAgo:     locale.FormatRelativeTime(o.CreatedAt(), loc, s.clock.Now()),
	}

	for _, it := range o.Items() {
		v.Items = append(v.Items, OrderItemView{
			ProductID: it.ProductID,
			Quantity:  locale.FormatNumber(float64(it.Quantity), loc),
			Price:     locale.FormatCurrency(it.Price, string(core.KRW), loc),
			Subtotal:  locale.FormatCurrency(float64(it.Quantity)*it.Price, string(core.KRW), loc),
		})
	}

	if rate > 0 {
		if conv, err := core.Convert(o.TotalAmount(), core.KRW, rate); err == nil {
			v.TotalCNY = locale.FormatCurrency(conv.CNY, string(core.CNY), loc)
		}
	}

	if o.CourierCompany() != "" {
		v.Courier = o.CourierCompany()
		if c, ok := core.LookupCarrier(o.CourierCompany()); ok {
			v.Courier = c.Name
		}
	}
	if u, ok := o.TrackingURL(); ok {
		v.TrackingURL = u
	}
	return v
}
