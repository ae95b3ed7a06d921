package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/locale"
)

type rateResponse struct {
	Rate    float64 `json:"rate"`
	AsOf    string  `json:"asOfDate"`
	Source  string  `json:"source"`
	Display string  `json:"display"`
}

func newRateResponse(rate core.ExchangeRate, l locale.Locale) rateResponse {
	return rateResponse{
		Rate:    rate.Rate,
		AsOf:    rate.AsOf.In(core.KST).Format(time.DateOnly),
		Source:  string(rate.Source),
		Display: locale.FormatCurrency(1, string(core.CNY), l) + " = " + locale.FormatCurrency(rate.Rate, string(core.KRW), l),
	}
}

func (s *Server) handleTodayRate(w http.ResponseWriter, r *http.Request) {
	rate, err := s.deps.Rates.Today(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, newRateResponse(rate, requestLocale(r)))
}

// handleRecordRate stores today's rate. Admin only.
func (s *Server) handleRecordRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate float64 `json:"rate"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	rate, err := s.deps.Rates.Record(ctx, req.Rate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newRateResponse(rate, requestLocale(r)))
}

func (s *Server) handleRecentRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.deps.Rates.Recent(r.Context(), parseIntParam(r, "limit", 30))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := make([]rateResponse, len(rates))
	for i, rate := range rates {
		out[i] = newRateResponse(rate, requestLocale(r))
	}
	writeJSON(w, map[string]any{"rates": out, "count": len(out)})
}

// handleConvert converts an amount with today's rate. The amount is a string
// so pasted values such as "₩12,000" are accepted.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string        `json:"amount"`
		From   core.Currency `json:"from"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	conv, rate, err := s.deps.Rates.Convert(r.Context(), amount, req.From)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	l := requestLocale(r)
	writeJSON(w, map[string]any{
		"krw":        conv.KRW,
		"cny":        conv.CNY,
		"rate":       conv.Rate,
		"rateSource": rate.Source,
		"krwDisplay": locale.FormatCurrency(conv.KRW, string(core.KRW), l),
		"cnyDisplay": locale.FormatCurrency(conv.CNY, string(core.CNY), l),
	})
}

func (s *Server) handleListCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, core.Carriers())
}

// handleFormatPhone re-inserts dashes into ?number= for the request locale.
func (s *Server) handleFormatPhone(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	writeJSON(w, map[string]any{
		"input":     number,
		"formatted": locale.FormatPhoneNumber(number, requestLocale(r)),
		"valid":     core.ValidatePhone(number),
	})
}
