package adapters

import (
	"context"
	"time"

	"fxswap/internal/domain"
)

// EstimateResponse is the raw answer of the estimate endpoint. Empty AmountTo means no quote.
type EstimateResponse struct {
	Rate     string
	AmountTo string
}

type ExchangeClient interface {
	ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error)
	Estimate(ctx context.Context, fromSymbol, toSymbol, amountFrom string, fixedRate bool) (EstimateResponse, error)
	CreateSwap(ctx context.Context, req domain.SwapRequest) error
}

// CatalogStore keeps the last currency list fetched from the exchange.
type CatalogStore interface {
	ReplaceAll(ctx context.Context, list []domain.CurrencyInfo) error
	List(ctx context.Context) ([]domain.CurrencyInfo, error)
}

type QuoteCache interface {
	Get(key string) (domain.QuoteResult, bool)
	Set(key string, quote domain.QuoteResult, ttl time.Duration)
}
