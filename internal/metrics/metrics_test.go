package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.ObserveRateSource("cache")
	m.ObserveRateSource("cache")
	m.ObserveRateSource("default")
	m.ObserveTransition("ship", nil)
	m.ObserveTransition("ship", errors.New("Cannot ship order in DONE status"))
	m.ObserveStockAdjustment(nil)
	m.Minted("sku")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateResolutions.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateResolutions.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ship", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ship", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockAdjustments.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdentifiersMinted.WithLabelValues("sku")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(nil)
	m.Minted("order_number")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `backoffice_identifiers_minted_total{kind="order_number"} 1`)
}
