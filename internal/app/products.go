package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/metrics"
)

const skuRetries = 3

// ProductService manages the product catalog and stock levels.
type ProductService struct {
	products ProductStore
	audit    core.AuditLog
	tx       Transactor
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func NewProductService(products ProductStore, audit core.AuditLog, tx Transactor, clk clock.Clock, m *metrics.Metrics) *ProductService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ProductService{products: products, audit: audit, tx: orNoTx(tx), clock: clk, metrics: m}
}

// Create validates in and stores a product under a fresh SKU. A hash
// collision on the SKU is retried with a new hash.
func (s *ProductService) Create(ctx context.Context, in core.ProductInput) (*core.Product, error) {
	var lastErr error
	for attempt := 0; attempt < skuRetries; attempt++ {
		p, err := core.NewProduct(in, s.clock)
		if err != nil {
			return nil, err
		}
		err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
			if err := s.products.Create(txCtx, p.Snapshot()); err != nil {
				return err
			}
			return s.audit.Append(txCtx, core.NewAuditEntry(txCtx, core.AuditLogParams{
				Action:    core.ActionProductCreate,
				EntityKey: p.SKU(),
				NewValue:  strconv.Itoa(p.OnHand()),
			}, s.clock.Now()))
		})
		if err == nil {
			if s.metrics != nil {
				s.metrics.Minted("sku")
			}
			return p, nil
		}
		if !errors.Is(err, core.ErrDuplicateSKU) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("allocate sku after %d attempts: %w", skuRetries, lastErr)
}

// Get loads a product by SKU.
func (s *ProductService) Get(ctx context.Context, sku string) (*core.Product, error) {
	if !core.ValidateSKU(sku) {
		return nil, core.ErrProductNotFound
	}
	snap, err := s.products.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	return core.RestoreProduct(snap, s.clock), nil
}

// Variants lists every product sharing the SKU's category-model-color-brand
// prefix.
func (s *ProductService) Variants(ctx context.Context, sku string, limit int) ([]*core.Product, error) {
	if !core.ValidateSKU(sku) {
		return nil, fmt.Errorf("%w: malformed sku %q", core.ErrInvalidArgument, sku)
	}
	snaps, err := s.products.ListByPrefix(ctx, core.SKUPrefix(sku), limit)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Product, len(snaps))
	for i, snap := range snaps {
		out[i] = core.RestoreProduct(snap, s.clock)
	}
	return out, nil
}

// AdjustStock adds delta to the product's on-hand count. Admin only.
func (s *ProductService) AdjustStock(ctx context.Context, sku string, delta int, reason string) (*core.Product, error) {
	if err := core.RequireRole(ctx, core.RoleAdmin); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, sku)
	if err != nil {
		return nil, err
	}

	before := p.OnHand()
	err = p.AdjustStock(delta)
	if err == nil {
		err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
			updated, err := s.products.UpdateStock(txCtx, p.Snapshot())
			if err != nil {
				return err
			}
			p = core.RestoreProduct(updated, s.clock)
			return s.audit.Append(txCtx, core.NewAuditEntry(txCtx, core.AuditLogParams{
				Action:    core.ActionStockAdjust,
				EntityKey: sku,
				OldValue:  strconv.Itoa(before),
				NewValue:  strconv.Itoa(p.OnHand()),
				Reason:    reason,
			}, s.clock.Now()))
		})
	}
	if s.metrics != nil {
		s.metrics.ObserveStockAdjustment(err)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
