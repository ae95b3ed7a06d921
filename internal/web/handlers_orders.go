package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/backoffice/internal/app"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/web/templates"
)

// handleCreateOrder validates and stores a new PAID order.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in core.OrderInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	order, err := s.deps.Orders.Create(ctx, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(ctx).Info("order created", "order_number", order.OrderNumber())
	w.Header().Set("Location", "/api/orders/"+order.OrderNumber())
	writeJSONStatus(w, http.StatusCreated, s.orderView(r, order))
}

// handleValidateOrder runs the order validators without creating anything.
func (s *Server) handleValidateOrder(w http.ResponseWriter, r *http.Request) {
	var in core.OrderInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}
	writeJSON(w, core.ValidateOrder(in))
}

// handleListOrders lists recent orders, optionally filtered by ?status=.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter := core.OrderFilter{
		Status: core.OrderStatus(r.URL.Query().Get("status")),
		Limit:  parseIntParam(r, "limit", 50),
	}
	orders, err := s.deps.Orders.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rate := s.displayRate(r)
	views := make([]app.OrderView, len(orders))
	for i, o := range orders {
		views[i] = s.deps.Orders.View(o, requestLocale(r), rate)
	}
	writeJSON(w, map[string]any{"orders": views, "count": len(views)})
}

// handleGetOrder returns one order formatted for the request locale.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.deps.Orders.Get(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.orderView(r, order))
}

// handleOrderSummary renders the order card fragment.
func (s *Server) handleOrderSummary(w http.ResponseWriter, r *http.Request) {
	order, err := s.deps.Orders.Get(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	v := s.orderView(r, order)
	data := templates.OrderSummaryData{
		Lang:           requestLocale(r).String(),
		OrderNumber:    v.OrderNumber,
		Status:         v.Status,
		StatusLabel:    v.StatusLabel,
		CustomerName:   v.CustomerName,
		CustomerPhone:  v.CustomerPhone,
		Address:        v.Address,
		Total:          v.Total,
		TotalCNY:       v.TotalCNY,
		Courier:        v.Courier,
		TrackingNumber: v.TrackingNumber,
		TrackingURL:    v.TrackingURL,
		CreatedAt:      v.CreatedAt,
		CreatedAgo:     v.CreatedAgo,
	}
	for _, it := range v.Items {
		data.Lines = append(data.Lines, templates.OrderLine(it))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.OrderSummary(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render order summary", "error", err)
	}
}

// handleOrderHistory returns the audit trail of an order.
func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Orders.History(r.Context(), chi.URLParam(r, "orderNumber"), parseIntParam(r, "limit", 50))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"entries": entries, "count": len(entries)})
}

func (s *Server) handleShipOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourierCompany string `json:"courierCompany"`
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	order, err := s.deps.Orders.Ship(ctx, chi.URLParam(r, "orderNumber"), req.CourierCompany, req.TrackingNumber)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.orderView(r, order))
}

func (s *Server) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	order, err := s.deps.Orders.Complete(ctx, chi.URLParam(r, "orderNumber"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.orderView(r, order))
}

func (s *Server) handleRefundOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	order, err := s.deps.Orders.Refund(ctx, chi.URLParam(r, "orderNumber"), req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.WithFields(ctx, "order_number", order.OrderNumber()).Info("order refunded", "reason", req.Reason)
	writeJSON(w, s.orderView(r, order))
}

func (s *Server) orderView(r *http.Request, o *core.Order) app.OrderView {
	return s.deps.Orders.View(o, requestLocale(r), s.displayRate(r))
}

// displayRate is today's rate for CNY totals. A lookup failure only drops the
// CNY total from the response.
func (s *Server) displayRate(r *http.Request) float64 {
	if s.deps.Rates == nil {
		return 0
	}
	rate, err := s.deps.Rates.Today(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("exchange rate unavailable for display", "error", err)
		return 0
	}
	return rate.Rate
}
