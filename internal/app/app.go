// Package app wires the core aggregates to storage, auditing and metrics.
// Every mutation runs inside one transaction together with its audit entry.
package app

import (
	"context"
	"time"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// Transactor runs fn in a transaction; repositories called with the ctx
// passed to fn join it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderStore persists order snapshots.
type OrderStore interface {
	NextSequence(ctx context.Context, day time.Time) (int, error)
	Create(ctx context.Context, s core.OrderSnapshot) error
	Get(ctx context.Context, orderNumber string) (core.OrderSnapshot, error)
	List(ctx context.Context, f core.OrderFilter) ([]core.OrderSnapshot, error)
	Update(ctx context.Context, s core.OrderSnapshot) (core.OrderSnapshot, error)
}

// ProductStore persists product snapshots.
type ProductStore interface {
	Create(ctx context.Context, s core.ProductSnapshot) error
	Get(ctx context.Context, sku string) (core.ProductSnapshot, error)
	ListByPrefix(ctx context.Context, prefix string, limit int) ([]core.ProductSnapshot, error)
	UpdateStock(ctx context.Context, s core.ProductSnapshot) (core.ProductSnapshot, error)
}

// RateStore is the exchange-rate history plus a recent listing.
type RateStore interface {
	core.RateHistory
	Recent(ctx context.Context, limit int) ([]core.ExchangeRate, error)
}

// noTx runs fn directly. Used when no Transactor is configured.
type noTx struct{}

func (noTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func orNoTx(tx Transactor) Transactor {
	if tx == nil {
		return noTx{}
	}
	return tx
}
