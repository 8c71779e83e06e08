package handler

import (
	"net/http"

	"fxswap/internal/domain"
)

type CurrencyResponse struct {
	Symbol            string `json:"symbol" example:"BTC"`
	FixedRateEligible bool   `json:"fixed_rate_eligible" example:"true"`
}

type ListCurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
}

// ListCurrencies godoc
// @Summary List supported currencies
// @Description Currencies offered by the exchange, fixed-rate eligible ones first.
// @Description With source set, lists destinations for that source: the source itself is left out
// @Description and a currency is marked fixed-rate eligible only when the pair supports a fixed rate.
// @Tags Currencies
// @Produce json
// @Param source query string false "Source currency"
// @Success 200 {object} ListCurrenciesResponse
// @Failure 400 {object} errorResponse
// @Router /currencies [get]
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	source := domain.NormalizeSymbol(r.URL.Query().Get("source"))
	if source != "" && !h.catalog.Contains(source) {
		writeError(w, http.StatusBadRequest, domain.ErrSourceUnsupported.Error())
		return
	}
	sourceFixed := source == "" || h.catalog.IsFixedEligible(source)

	list := h.catalog.Currencies()
	res := ListCurrenciesResponse{Currencies: make([]CurrencyResponse, 0, len(list))}
	for _, c := range list {
		if c.Symbol == source {
			continue
		}
		res.Currencies = append(res.Currencies, CurrencyResponse{
			Symbol:            c.Symbol,
			FixedRateEligible: sourceFixed && c.FixedRateEligible,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
