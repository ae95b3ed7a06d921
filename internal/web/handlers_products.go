package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/locale"
)

// productResponse is a product with its display values for the request locale.
type productResponse struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Model        string  `json:"model"`
	Color        string  `json:"color"`
	Brand        string  `json:"brand"`
	CostCNY      float64 `json:"costCny"`
	OnHand       int     `json:"onHand"`
	TotalValue   float64 `json:"totalValue"`
	CostDisplay  string  `json:"costDisplay"`
	ValueDisplay string  `json:"valueDisplay"`
	Version      int     `json:"version"`
}

func newProductResponse(p *core.Product, l locale.Locale) productResponse {
	return productResponse{
		SKU:          p.SKU(),
		Name:         p.Name(),
		Category:     p.Category(),
		Model:        p.Model(),
		Color:        p.Color(),
		Brand:        p.Brand(),
		CostCNY:      p.CostCNY(),
		OnHand:       p.OnHand(),
		TotalValue:   p.TotalValue(),
		CostDisplay:  locale.FormatCurrency(p.CostCNY(), string(core.CNY), l),
		ValueDisplay: locale.FormatCurrency(p.TotalValue(), string(core.CNY), l),
		Version:      p.Version(),
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in core.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	p, err := s.deps.Products.Create(ctx, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/products/"+p.SKU())
	writeJSONStatus(w, http.StatusCreated, newProductResponse(p, requestLocale(r)))
}

func (s *Server) handleValidateProduct(w http.ResponseWriter, r *http.Request) {
	var in core.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}
	writeJSON(w, core.ValidateProduct(in))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Products.Get(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, newProductResponse(p, requestLocale(r)))
}

// handleProductVariants lists products sharing the SKU's attribute prefix.
func (s *Server) handleProductVariants(w http.ResponseWriter, r *http.Request) {
	products, err := s.deps.Products.Variants(r.Context(), chi.URLParam(r, "sku"), parseIntParam(r, "limit", 50))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = newProductResponse(p, requestLocale(r))
	}
	writeJSON(w, map[string]any{"products": out, "count": len(out)})
}

// handleAdjustStock applies a signed stock delta. Admin only.
func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err.Error())
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	p, err := s.deps.Products.AdjustStock(ctx, chi.URLParam(r, "sku"), req.Delta, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, newProductResponse(p, requestLocale(r)))
}

// handleParseSKU splits a SKU into its segments. Malformed input is not an
// error; the response reports valid=false.
func (s *Server) handleParseSKU(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	parts, ok := core.ParseSKU(sku)
	if !ok {
		writeJSON(w, map[string]any{"sku": sku, "valid": false})
		return
	}
	writeJSON(w, map[string]any{"sku": sku, "valid": true, "parts": parts, "prefix": core.SKUPrefix(sku)})
}
