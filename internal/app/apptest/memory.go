// Package apptest provides in-memory stores for service and handler tests.
// They mirror the Postgres repositories: unique keys, per-day order counts
// and version compare-and-swap.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
)

// Orders mimics the Postgres order repository: unique order numbers,
// per-day counts and version compare-and-swap.
type Orders struct {
	mu     sync.Mutex
	byNum  map[string]core.OrderSnapshot
	Taken  map[string]bool // numbers claimed by a concurrent writer
	SeqErr error
}

func NewOrders() *Orders {
	return &Orders{byNum: map[string]core.OrderSnapshot{}, Taken: map[string]bool{}}
}

func (m *Orders) NextSequence(_ context.Context, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeqErr != nil {
		return 0, m.SeqErr
	}
	n := 0
	for _, s := range m.byNum {
		if clock.Day(s.CreatedAt).Equal(clock.Day(day)) {
			n++
		}
	}
	return n + 1, nil
}

func (m *Orders) Create(_ context.Context, s core.OrderSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Taken[s.OrderNumber] {
		// The concurrent writer commits first.
		delete(m.Taken, s.OrderNumber)
		m.byNum[s.OrderNumber] = core.OrderSnapshot{OrderNumber: s.OrderNumber, Status: core.StatusPaid, CreatedAt: s.CreatedAt, Version: 1}
		return core.ErrDuplicateOrder
	}
	if _, ok := m.byNum[s.OrderNumber]; ok {
		return core.ErrDuplicateOrder
	}
	m.byNum[s.OrderNumber] = s
	return nil
}

func (m *Orders) Get(_ context.Context, number string) (core.OrderSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byNum[number]
	if !ok {
		return core.OrderSnapshot{}, core.ErrOrderNotFound
	}
	return s, nil
}

func (m *Orders) List(_ context.Context, f core.OrderFilter) ([]core.OrderSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.OrderSnapshot
	for _, s := range m.byNum {
		if f.Status == "" || s.Status == f.Status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return out, nil
}

func (m *Orders) Update(_ context.Context, s core.OrderSnapshot) (core.OrderSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byNum[s.OrderNumber]
	if !ok {
		return core.OrderSnapshot{}, core.ErrOrderNotFound
	}
	if cur.Version != s.Version {
		return core.OrderSnapshot{}, core.ErrConcurrentUpdate
	}
	s.Version++
	m.byNum[s.OrderNumber] = s
	return s, nil
}

// Bump simulates another writer updating the stored order.
func (m *Orders) Bump(number string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byNum[number]
	s.Version++
	m.byNum[number] = s
}

// Products mimics the Postgres product repository.
type Products struct {
	mu    sync.Mutex
	bySKU map[string]core.ProductSnapshot
	// Dupes makes the next n creates fail with a SKU collision.
	Dupes int
}

func NewProducts() *Products {
	return &Products{bySKU: map[string]core.ProductSnapshot{}}
}

func (m *Products) Create(_ context.Context, s core.ProductSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dupes > 0 {
		m.Dupes--
		return core.ErrDuplicateSKU
	}
	if _, ok := m.bySKU[s.SKU]; ok {
		return core.ErrDuplicateSKU
	}
	m.bySKU[s.SKU] = s
	return nil
}

func (m *Products) Get(_ context.Context, sku string) (core.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.bySKU[sku]
	if !ok {
		return core.ProductSnapshot{}, core.ErrProductNotFound
	}
	return s, nil
}

func (m *Products) ListByPrefix(_ context.Context, prefix string, _ int) ([]core.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.ProductSnapshot
	for sku, s := range m.bySKU {
		if core.SKUPrefix(sku) == prefix {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Products) UpdateStock(_ context.Context, s core.ProductSnapshot) (core.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.bySKU[s.SKU]
	if !ok {
		return core.ProductSnapshot{}, core.ErrProductNotFound
	}
	if cur.Version != s.Version {
		return core.ProductSnapshot{}, core.ErrConcurrentUpdate
	}
	s.Version++
	m.bySKU[s.SKU] = s
	return s, nil
}

// Rates mimics the exchange-rate history.
type Rates struct {
	mu    sync.Mutex
	rates []core.ExchangeRate
	Err   error
}

func (m *Rates) LatestRate(_ context.Context, onOrBefore time.Time) (core.ExchangeRate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return core.ExchangeRate{}, false, m.Err
	}
	var best core.ExchangeRate
	found := false
	for _, r := range m.rates {
		if !r.AsOf.After(onOrBefore) && (!found || r.AsOf.After(best.AsOf)) {
			best, found = r, true
		}
	}
	return best, found, nil
}

func (m *Rates) SaveRate(_ context.Context, rate core.ExchangeRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rates {
		if r.AsOf.Equal(rate.AsOf) {
			m.rates[i] = rate
			return nil
		}
	}
	m.rates = append(m.rates, rate)
	return nil
}

func (m *Rates) Recent(_ context.Context, limit int) ([]core.ExchangeRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]core.ExchangeRate(nil), m.rates...)
	sort.Slice(out, func(i, j int) bool { return out[i].AsOf.After(out[j].AsOf) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Audit records entries in memory.
type Audit struct {
	mu      sync.Mutex
	Entries []core.AuditEntry
	Err     error
}

func (m *Audit) Append(_ context.Context, e core.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *Audit) ListByEntity(_ context.Context, key string, limit int) ([]core.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.AuditEntry
	for i := len(m.Entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.Entries[i].EntityKey == key {
			out = append(out, m.Entries[i])
		}
	}
	return out, nil
}

// Tx counts transactions and rolls back nothing; tests check that
// failures inside fn surface unchanged.
type Tx struct {
	Calls int
}

func (r *Tx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.Calls++
	return fn(ctx)
}

// ErrStore is a stand-in infrastructure failure.
var ErrStore = errors.New("store unavailable")

// AdminCtx is a background context carrying the admin role.
func AdminCtx() context.Context {
	return core.ContextWithRole(context.Background(), core.RoleAdmin)
}

func StaffCtx() context.Context {
	return core.ContextWithRole(context.Background(), core.RoleStaff)
}
