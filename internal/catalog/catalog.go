// Package catalog keeps the currencies supported by the exchange and answers
// fixed-rate eligibility questions.
package catalog

import (
	"slices"
	"strings"
	"sync"

	"fxswap/internal/domain"
)

// Catalog is safe for concurrent use: sessions read it while the refresh job loads it.
type Catalog struct {
	mu       sync.RWMutex
	bySymbol map[string]domain.CurrencyInfo
	fixed    []domain.CurrencyInfo
	floating []domain.CurrencyInfo
}

func New() *Catalog {
	return &Catalog{bySymbol: map[string]domain.CurrencyInfo{}}
}

// Load replaces the catalog contents. Symbols are normalized, later duplicates win.
func (c *Catalog) Load(list []domain.CurrencyInfo) {
	bySymbol := make(map[string]domain.CurrencyInfo, len(list))
	for _, ci := range list {
		sym := domain.NormalizeSymbol(ci.Symbol)
		if sym == "" {
			continue
		}
		bySymbol[sym] = domain.CurrencyInfo{Symbol: sym, FixedRateEligible: ci.FixedRateEligible}
	}

	fixed := make([]domain.CurrencyInfo, 0, len(bySymbol))
	floating := make([]domain.CurrencyInfo, 0, len(bySymbol))
	for _, ci := range bySymbol {
		if ci.FixedRateEligible {
			fixed = append(fixed, ci)
		} else {
			floating = append(floating, ci)
		}
	}
	slices.SortFunc(fixed, bySymbolAsc)
	slices.SortFunc(floating, bySymbolAsc)

	c.mu.Lock()
	c.bySymbol, c.fixed, c.floating = bySymbol, fixed, floating
	c.mu.Unlock()
}

func (c *Catalog) IsFixedEligible(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bySymbol[domain.NormalizeSymbol(symbol)].FixedRateEligible
}

// PairEligible is true only when both legs support fixed pricing.
func (c *Catalog) PairEligible(from, to string) bool {
	return c.IsFixedEligible(from) && c.IsFixedEligible(to)
}

func (c *Catalog) Contains(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bySymbol[domain.NormalizeSymbol(symbol)]
	return ok
}

// Currencies lists fixed-eligible currencies first, then floating-only ones.
func (c *Catalog) Currencies() []domain.CurrencyInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CurrencyInfo, 0, len(c.fixed)+len(c.floating))
	out = append(out, c.fixed...)
	return append(out, c.floating...)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bySymbol)
}

func bySymbolAsc(a, b domain.CurrencyInfo) int {
	return strings.Compare(a.Symbol, b.Symbol)
}
