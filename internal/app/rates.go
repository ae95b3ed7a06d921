package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/JonMunkholm/backoffice/internal/clock"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/metrics"
)

// RateService resolves, records and applies the daily KRW/CNY rate.
type RateService struct {
	resolver *core.RateResolver
	rates    RateStore
	audit    core.AuditLog
	tx       Transactor
	clock    clock.Clock
	maxRate  float64
}

// NewRateService builds the service. cache may be nil; maxRate <= 0 disables
// the upper bound on recorded rates.
func NewRateService(rates RateStore, cache core.RateCache, audit core.AuditLog, tx Transactor, clk clock.Clock, m *metrics.Metrics, maxRate float64) *RateService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	resolver := core.NewRateResolver(cache, rates, clk)
	if m != nil {
		resolver.OnResolve(func(src core.RateSource) { m.ObserveRateSource(string(src)) })
	}
	return &RateService{
		resolver: resolver,
		rates:    rates,
		audit:    audit,
		tx:       orNoTx(tx),
		clock:    clk,
		maxRate:  maxRate,
	}
}

// Today returns the rate in effect for the current KST day.
func (s *RateService) Today(ctx context.Context) (core.ExchangeRate, error) {
	return s.resolver.Resolve(ctx)
}

// Record stores rate as today's rate. Admin only.
func (s *RateService) Record(ctx context.Context, rate float64) (core.ExchangeRate, error) {
	if err := core.RequireRole(ctx, core.RoleAdmin); err != nil {
		return core.ExchangeRate{}, err
	}
	if s.maxRate > 0 && rate > s.maxRate {
		return core.ExchangeRate{}, fmt.Errorf("%w: rate %v exceeds the configured maximum %v", core.ErrInvalidArgument, rate, s.maxRate)
	}

	var recorded core.ExchangeRate
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		recorded, err = s.resolver.Record(txCtx, rate)
		if err != nil {
			return err
		}
		return s.audit.Append(txCtx, core.NewAuditEntry(txCtx, core.AuditLogParams{
			Action:    core.ActionRateRecord,
			EntityKey: recorded.AsOf.Format(time.DateOnly),
			NewValue:  strconv.FormatFloat(rate, 'f', -1, 64),
		}, s.clock.Now()))
	})
	if err != nil {
		return core.ExchangeRate{}, err
	}
	return recorded, nil
}

// Convert converts amount with today's rate.
func (s *RateService) Convert(ctx context.Context, amount float64, from core.Currency) (core.Conversion, core.ExchangeRate, error) {
	rate, err := s.Today(ctx)
	if err != nil {
		return core.Conversion{}, core.ExchangeRate{}, err
	}
	conv, err := core.Convert(amount, from, rate.Rate)
	if err != nil {
		return core.Conversion{}, core.ExchangeRate{}, err
	}
	return conv, rate, nil
}

// Recent lists recorded rates, newest first.
func (s *RateService) Recent(ctx context.Context, limit int) ([]core.ExchangeRate, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return s.rates.Recent(ctx, limit)
}
