package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fxswap/internal/adapters"
	"fxswap/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ adapters.CatalogStore = (*CatalogRepository)(nil)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

type currencyRow struct {
	Symbol           string `json:"symbol"`
	FixedRateEnabled bool   `json:"fixed_rate_enabled"`
}

// ReplaceAll swaps the stored currency list for list in a single transaction.
func (r *CatalogRepository) ReplaceAll(ctx context.Context, list []domain.CurrencyInfo) error {
	// later duplicates win, like in catalog.Load
	index := make(map[string]int, len(list))
	rows := make([]currencyRow, 0, len(list))
	for _, ci := range list {
		sym := domain.NormalizeSymbol(ci.Symbol)
		if sym == "" {
			continue
		}
		if i, ok := index[sym]; ok {
			rows[i].FixedRateEnabled = ci.FixedRateEligible
			continue
		}
		index[sym] = len(rows)
		rows = append(rows, currencyRow{Symbol: sym, FixedRateEnabled: ci.FixedRateEligible})
	}
	payloadJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal currencies: %w", err)
	}

	const q = `
		with
		-- step 1: parsing input
		input_rows as (select * from json_to_recordset($1::json) as r(symbol text, fixed_rate_enabled boolean)),

		-- step 2: dropping currencies that are gone
		deleted as (
		  delete from currencies c
		  where not exists (select 1 from input_rows ir where ir.symbol = c.symbol)
		)

		-- step 3: upserting the rest
		insert into currencies(symbol, fixed_rate_enabled, updated_at)
		select symbol, fixed_rate_enabled, now() from input_rows
		on conflict (symbol) do update
		set fixed_rate_enabled = excluded.fixed_rate_enabled, updated_at = now();
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, q, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.CurrencyInfo, error) {
	const q = `select symbol, fixed_rate_enabled from currencies order by symbol`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	list := make([]domain.CurrencyInfo, 0, 64)
	for rows.Next() {
		var ci domain.CurrencyInfo
		if err = rows.Scan(&ci.Symbol, &ci.FixedRateEligible); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		list = append(list, ci)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return list, nil
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}
