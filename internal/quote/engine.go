// Package quote asks the exchange for estimates and turns every failure into
// "no quote", so callers never have to branch on errors.
package quote

import (
	"context"
	"fmt"
	"time"

	"fxswap/internal/adapters"
	"fxswap/internal/adapters/cache"
	"fxswap/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultCacheTTL   = 5 * time.Second
	perRequestTimeout = 10 * time.Second
)

// Estimator is the part of the exchange client the engine needs.
type Estimator interface {
	Estimate(ctx context.Context, fromSymbol, toSymbol, amountFrom string, fixedRate bool) (adapters.EstimateResponse, error)
}

// Reporter receives absorbed estimate failures, e.g. for metrics.
type Reporter func(err error, fromSymbol, toSymbol string, mode domain.RateMode)

type Option func(*Engine)

func WithCache(c adapters.QuoteCache, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.report = r }
}

type Engine struct {
	client   Estimator
	cache    adapters.QuoteCache
	cacheTTL time.Duration
	report   Reporter
}

func NewEngine(client Estimator, opts ...Option) *Engine {
	e := &Engine{client: client, cacheTTL: defaultCacheTTL}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the converted amount of amount fromSymbol in toSymbol.
// An empty amount yields an empty result without calling the exchange; any
// failure yields an empty result and is reported instead of returned.
func (e *Engine) Estimate(ctx context.Context, fromSymbol, toSymbol, amount string, mode domain.RateMode) domain.QuoteResult {
	if amount == "" {
		return domain.QuoteResult{}
	}
	if _, err := domain.ParseDecimal(amount); err != nil {
		e.fail(fmt.Errorf("%w: %q", domain.ErrInvalidAmount, amount), fromSymbol, toSymbol, mode)
		return domain.QuoteResult{}
	}

	key := cache.QuoteKey(fromSymbol, toSymbol, amount, mode)
	if e.cache != nil {
		if q, ok := e.cache.Get(key); ok {
			return q
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
	defer cancel()

	res, err := e.client.Estimate(reqCtx, fromSymbol, toSymbol, amount, mode == domain.RateFixed)
	if err != nil {
		e.fail(err, fromSymbol, toSymbol, mode)
		return domain.QuoteResult{}
	}
	if res.AmountTo == "" {
		return domain.QuoteResult{}
	}

	q := domain.QuoteResult{ConvertedAmount: res.AmountTo}
	if res.Rate != "" {
		rate, err := domain.ParseDecimal(res.Rate)
		if err != nil {
			e.fail(fmt.Errorf("malformed rate %q: %w", res.Rate, err), fromSymbol, toSymbol, mode)
			return domain.QuoteResult{}
		}
		q.Rate = decimal.NewNullDecimal(rate)
	}

	if e.cache != nil {
		e.cache.Set(key, q, e.cacheTTL)
	}
	return q
}

func (e *Engine) fail(err error, fromSymbol, toSymbol string, mode domain.RateMode) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"from": fromSymbol,
		"to":   toSymbol,
		"mode": mode,
	}).Warn("estimate unavailable")
	if e.report != nil {
		e.report(err, fromSymbol, toSymbol, mode)
	}
}
