package domain

import "strings"

// CurrencyInfo describes a currency supported by the exchange.
type CurrencyInfo struct {
	Symbol            string `json:"symbol"`
	FixedRateEligible bool   `json:"fixed_rate_eligible"`
}

// NormalizeSymbol trims and upper-cases a currency symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
