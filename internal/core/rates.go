package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/backoffice/internal/clock"
)

// DefaultExchangeRate is the KRW-per-CNY rate used when no rate has ever been
// recorded. Downstream financial totals depend on this exact value.
const DefaultExchangeRate = 178.50

// RateSource records which step of the resolution chain produced a rate.
type RateSource string

const (
	RateSourceCache   RateSource = "cache"
	RateSourceHistory RateSource = "history"
	RateSourceDefault RateSource = "default"
	RateSourceManual  RateSource = "manual"
)

// ExchangeRate is a CNY→KRW rate snapshot for a KST calendar day.
type ExchangeRate struct {
	Rate   float64    `json:"rate"`
	AsOf   time.Time  `json:"asOfDate"`
	Source RateSource `json:"source"`
}

// RateCache holds the rate for a single day. Misses report found=false.
type RateCache interface {
	GetRate(ctx context.Context, day time.Time) (rate ExchangeRate, found bool, err error)
	SetRate(ctx context.Context, rate ExchangeRate) error
}

// RateHistory is the durable record of daily rates.
type RateHistory interface {
	LatestRate(ctx context.Context, onOrBefore time.Time) (rate ExchangeRate, found bool, err error)
	SaveRate(ctx context.Context, rate ExchangeRate) error
}

// RateObserver is notified of the source of every resolved rate.
type RateObserver func(RateSource)

// RateResolver answers "what is today's rate" using, in order: a cached
// same-day rate, the most recent recorded rate on or before today, and
// finally DefaultExchangeRate.
type RateResolver struct {
	cache    RateCache
	history  RateHistory
	clock    clock.Clock
	observer RateObserver
}

// NewRateResolver wires a resolver. cache may be nil.
func NewRateResolver(cache RateCache, history RateHistory, clk clock.Clock) *RateResolver {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &RateResolver{cache: cache, history: history, clock: clk}
}

// OnResolve registers an observer for resolution sources.
func (r *RateResolver) OnResolve(fn RateObserver) {
	r.observer = fn
}

// Resolve returns today's rate. Cache failures are logged and skipped;
// history failures are returned because falling back to the default would
// silently change financial totals.
func (r *RateResolver) Resolve(ctx context.Context) (ExchangeRate, error) {
	today := OrderDay(r.clock.Now())

	if r.cache != nil {
		rate, ok, err := r.cache.GetRate(ctx, today)
		if err != nil {
			slog.Warn("exchange rate cache read failed", "error", err, "day", today.Format(time.DateOnly))
		} else if ok {
			rate.Source = RateSourceCache
			return r.done(rate), nil
		}
	}

	rate, ok, err := r.history.LatestRate(ctx, today)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("load exchange rate history: %w", err)
	}
	if ok {
		rate.Source = RateSourceHistory
		if r.cache != nil && OrderDay(rate.AsOf).Equal(today) {
			if err := r.cache.SetRate(ctx, rate); err != nil {
				slog.Warn("exchange rate cache write failed", "error", err)
			}
		}
		return r.done(rate), nil
	}

	return r.done(ExchangeRate{Rate: DefaultExchangeRate, AsOf: today, Source: RateSourceDefault}), nil
}

// Record stores rate as today's rate and refreshes the cache.
func (r *RateResolver) Record(ctx context.Context, rate float64) (ExchangeRate, error) {
	if err := checkRate(rate); err != nil {
		return ExchangeRate{}, err
	}
	er := ExchangeRate{Rate: rate, AsOf: OrderDay(r.clock.Now()), Source: RateSourceManual}
	if err := r.history.SaveRate(ctx, er); err != nil {
		return ExchangeRate{}, fmt.Errorf("save exchange rate: %w", err)
	}
	if r.cache != nil {
		if err := r.cache.SetRate(ctx, er); err != nil {
			slog.Warn("exchange rate cache write failed", "error", err)
		}
	}
	return er, nil
}

func (r *RateResolver) done(rate ExchangeRate) ExchangeRate {
	if r.observer != nil {
		r.observer(rate.Source)
	}
	return rate
}
