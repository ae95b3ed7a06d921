package app

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/backoffice/internal/app/apptest"
	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/metrics"
)

func productInput() core.ProductInput {
	return core.ProductInput{
		Name:     "Neverfull MM",
		Category: "bag",
		Model:    "Neverfull MM",
		Color:    "beige",
		Brand:    "LV",
		CostCNY:  1200,
		OnHand:   15,
	}
}

func newProductService(t *testing.T) (*ProductService, *apptest.Products, *apptest.Audit, *metrics.Metrics) {
	t.Helper()
	products := apptest.NewProducts()
	audit := &apptest.Audit{}
	m := metrics.New(nil)
	clk := clock.NewFixed(time.Date(2025, 3, 15, 10, 0, 0, 0, clock.KST))
	return NewProductService(products, audit, &apptest.Tx{}, clk, m), products, audit, m
}

func TestProductService_Create(t *testing.T) {
	svc, _, audit, m := newProductService(t)

	p, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)
	assert.True(t, core.ValidateSKU(p.SKU()))
	assert.Equal(t, 15, p.OnHand())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdentifiersMinted.WithLabelValues("sku")))
	require.Len(t, audit.Entries, 1)
	assert.Equal(t, p.SKU(), audit.Entries[0].EntityKey)

	got, err := svc.Get(context.Background(), p.SKU())
	require.NoError(t, err)
	assert.Equal(t, p.SKU(), got.SKU())
}

func TestProductService_LocalScriptCodes(t *testing.T) {
	svc, _, _, _ := newProductService(t)
	ctx := apptest.AdminCtx()
	in := productInput()
	in.Category = "가방"
	in.Color = "검정"

	p, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "가방X-NeverfullMM-검정X-LVX", core.SKUPrefix(p.SKU()))

	got, err := svc.Get(ctx, p.SKU())
	require.NoError(t, err)
	assert.Equal(t, p.SKU(), got.SKU())

	adjusted, err := svc.AdjustStock(ctx, p.SKU(), -3, "sold")
	require.NoError(t, err)
	assert.Equal(t, 12, adjusted.OnHand())

	variants, err := svc.Variants(ctx, p.SKU(), 10)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, p.SKU(), variants[0].SKU())
}

func TestProductService_CreateRetriesCollision(t *testing.T) {
	svc, products, _, _ := newProductService(t)
	products.Dupes = 2

	p, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)
	assert.NotEmpty(t, p.SKU())

	products.Dupes = skuRetries
	_, err = svc.Create(context.Background(), productInput())
	assert.ErrorIs(t, err, core.ErrDuplicateSKU)
}

func TestProductService_CreateInvalid(t *testing.T) {
	svc, _, _, _ := newProductService(t)
	in := productInput()
	in.CostCNY = 0

	_, err := svc.Create(context.Background(), in)
	var ie *core.InvalidInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{core.MsgCostPositive}, ie.Result.Errors)
}

func TestProductService_AdjustStock(t *testing.T) {
	svc, _, audit, m := newProductService(t)
	p, err := svc.Create(context.Background(), productInput())
	require.NoError(t, err)

	_, err = svc.AdjustStock(apptest.StaffCtx(), p.SKU(), -3, "sold")
	assert.ErrorIs(t, err, core.ErrForbidden)

	p, err = svc.AdjustStock(apptest.AdminCtx(), p.SKU(), -3, "sold")
	require.NoError(t, err)
	assert.Equal(t, 12, p.OnHand())
	assert.Equal(t, 2, p.Version())

	_, err = svc.AdjustStock(apptest.AdminCtx(), p.SKU(), -20, "oversold")
	assert.ErrorIs(t, err, core.ErrInsufficientStock)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	got, err := svc.Get(context.Background(), p.SKU())
	require.NoError(t, err)
	assert.Equal(t, 12, got.OnHand())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockAdjustments.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockAdjustments.WithLabelValues("error")))

	last := audit.Entries[len(audit.Entries)-1]
	assert.Equal(t, core.ActionStockAdjust, last.Action)
	assert.Equal(t, "15", last.OldValue)
	assert.Equal(t, "12", last.NewValue)
	assert.Equal(t, "sold", last.Reason)
}

func TestProductService_GetAndVariants(t *testing.T) {
	svc, _, _, _ := newProductService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "garbage")
	assert.ErrorIs(t, err, core.ErrProductNotFound)

	a, err := svc.Create(ctx, productInput())
	require.NoError(t, err)
	b, err := svc.Create(ctx, productInput())
	require.NoError(t, err)
	other := productInput()
	other.Color = "black"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	variants, err := svc.Variants(ctx, a.SKU(), 10)
	require.NoError(t, err)
	skus := []string{}
	for _, v := range variants {
		skus = append(skus, v.SKU())
	}
	assert.ElementsMatch(t, []string{a.SKU(), b.SKU()}, skus)

	_, err = svc.Variants(ctx, "garbage", 10)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
