package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxswap/internal/adapters"
	"fxswap/internal/domain"

	"github.com/sirupsen/logrus"
)

const perRequestTimeout = 10 * time.Second

var ErrEmptyCatalog = errors.New("no supported currencies available")

// CurrencyLister is the part of the exchange client the refresher needs.
type CurrencyLister interface {
	ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error)
}

// Refresher pulls the currency list from the exchange into a Catalog and mirrors
// it into an optional store, which is used as a fallback on start-up.
type Refresher struct {
	catalog *Catalog
	client  CurrencyLister
	store   adapters.CatalogStore
}

func NewRefresher(catalog *Catalog, client CurrencyLister, store adapters.CatalogStore) *Refresher {
	return &Refresher{catalog: catalog, client: client, store: store}
}

// Refresh fetches the currency list and replaces the catalog contents.
// An empty list is treated as an error and the current contents are kept.
func (r *Refresher) Refresh(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
	defer cancel()

	list, err := r.client.ListCurrencies(reqCtx)
	if err != nil {
		return fmt.Errorf("failed to fetch currencies: %w", err)
	}
	if len(list) == 0 {
		return ErrEmptyCatalog
	}
	r.catalog.Load(list)
	logrus.Infof("%d currencies loaded into catalog", r.catalog.Len())

	if r.store != nil {
		if err = r.store.ReplaceAll(ctx, list); err != nil {
			// the catalog is already up to date, only the fallback copy is stale
			logrus.WithError(err).Warn("Failed to persist currency catalog snapshot")
		}
	}
	return nil
}

// Bootstrap loads the catalog from the exchange, or from the stored snapshot
// when the exchange is not reachable.
func (r *Refresher) Bootstrap(ctx context.Context) error {
	refreshErr := r.Refresh(ctx)
	if refreshErr == nil {
		return nil
	}
	if r.store == nil {
		return refreshErr
	}
	logrus.WithError(refreshErr).Warn("Exchange currency list unavailable, falling back to stored snapshot")

	list, err := r.store.List(ctx)
	if err != nil {
		return errors.Join(refreshErr, fmt.Errorf("failed to load stored currencies: %w", err))
	}
	if len(list) == 0 {
		return errors.Join(refreshErr, ErrEmptyCatalog)
	}
	r.catalog.Load(list)
	return nil
}
