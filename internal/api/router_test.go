package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fxswap/internal/catalog"
	"fxswap/internal/domain"
	"fxswap/internal/swap"
	"fxswap/internal/swap/handler"

	"github.com/stretchr/testify/require"
)

type fixedQuoter struct{}

func (fixedQuoter) Estimate(_ context.Context, _, _, amount string, _ domain.RateMode) domain.QuoteResult {
	return domain.QuoteResult{ConvertedAmount: amount}
}

type acceptingSwapper struct{}

func (acceptingSwapper) CreateSwap(context.Context, domain.SwapRequest) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := catalog.New()
	c.Load([]domain.CurrencyInfo{{Symbol: "BTC", FixedRateEligible: true}, {Symbol: "ETH", FixedRateEligible: true}})
	manager := swap.NewManager(c, fixedQuoter{}, acceptingSwapper{}, swap.ManagerConfig{Debounce: 10 * time.Millisecond})
	t.Cleanup(manager.Shutdown)

	srv := httptest.NewServer(NewRouter(handler.NewSwapHandler(manager, c)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, handler.SessionResponse) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	var s handler.SessionResponse
	if res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&s))
	}
	return res, s
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)
	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRouter_SwapFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/swaps"

	res, s := do(t, http.MethodPost, base, `{"source":"btc","destination":"eth"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	sessionURL := base + "/" + s.ID

	res, _ = do(t, http.MethodPut, sessionURL+"/amount", `{"field":"from","value":"2"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.Eventually(t, func() bool {
		_, s = do(t, http.MethodGet, sessionURL, "")
		return s.To.Value == "2" && s.CanSubmit
	}, 2*time.Second, 20*time.Millisecond)

	res, _ = do(t, http.MethodPost, sessionURL+"/submit", "")
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	require.Eventually(t, func() bool {
		_, s = do(t, http.MethodGet, sessionURL, "")
		return s.Submitted
	}, 2*time.Second, 20*time.Millisecond)

	res, _ = do(t, http.MethodPut, sessionURL+"/rate-mode", `{"mode":"fixed"}`)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	res, _ = do(t, http.MethodDelete, sessionURL, "")
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	res, _ = do(t, http.MethodGet, sessionURL, "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRouter_CurrenciesForSource(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/api/v1/currencies?source=btc")
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body handler.ListCurrenciesResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, []handler.CurrencyResponse{{Symbol: "ETH", FixedRateEligible: true}}, body.Currencies)
}
