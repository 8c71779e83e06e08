package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fxswap/internal/adapters"
	"fxswap/internal/domain"
)

const maxResponseBytes = 1 << 20

// ExchangeClient talks to the exchange HTTP API. Every endpoint is a JSON POST.
type ExchangeClient struct {
	http      *http.Client
	baseURL   string
	authToken string
}

var _ adapters.ExchangeClient = (*ExchangeClient)(nil)

func NewExchangeClient(httpClient *http.Client, baseURL, authToken string) *ExchangeClient {
	return &ExchangeClient{http: httpClient, baseURL: baseURL, authToken: authToken}
}

type currenciesRequest struct {
	Filter string `json:"filter"`
}

type currencyItem struct {
	CurrencySymbol   string `json:"currencySymbol"`
	FixedRateEnabled bool   `json:"fixedRateEnabled"`
}

type estimateRequest struct {
	FromSymbol string `json:"fromSymbol"`
	ToSymbol   string `json:"toSymbol"`
	AmountFrom string `json:"amountFrom"`
	FixedRate  bool   `json:"fixedRate"`
}

type estimateResponse struct {
	Rate     json.RawMessage `json:"rate"`
	AmountTo json.RawMessage `json:"amountTo"`
}

type swapRequest struct {
	AuthToken  string `json:"authToken"`
	FromSymbol string `json:"fromSymbol"`
	ToSymbol   string `json:"toSymbol"`
	Amount     string `json:"amount"`
	FixedRate  bool   `json:"fixedRate"`
}

func (c *ExchangeClient) ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error) {
	var items []currencyItem
	if err := c.post(ctx, "currencies", currenciesRequest{Filter: "ALL"}, &items); err != nil {
		return nil, err
	}

	list := make([]domain.CurrencyInfo, 0, len(items))
	for _, it := range items {
		list = append(list, domain.CurrencyInfo{
			Symbol:            domain.NormalizeSymbol(it.CurrencySymbol),
			FixedRateEligible: it.FixedRateEnabled,
		})
	}
	return list, nil
}

func (c *ExchangeClient) Estimate(ctx context.Context, fromSymbol, toSymbol, amountFrom string, fixedRate bool) (adapters.EstimateResponse, error) {
	body := estimateRequest{FromSymbol: fromSymbol, ToSymbol: toSymbol, AmountFrom: amountFrom, FixedRate: fixedRate}

	var res estimateResponse
	if err := c.post(ctx, "estimate", body, &res); err != nil {
		return adapters.EstimateResponse{}, err
	}

	rate, err := numberText(res.Rate)
	if err != nil {
		return adapters.EstimateResponse{}, fmt.Errorf("malformed rate for %s/%s: %w", fromSymbol, toSymbol, err)
	}
	amountTo, err := numberText(res.AmountTo)
	if err != nil {
		return adapters.EstimateResponse{}, fmt.Errorf("malformed amountTo for %s/%s: %w", fromSymbol, toSymbol, err)
	}
	return adapters.EstimateResponse{Rate: rate, AmountTo: amountTo}, nil
}

func (c *ExchangeClient) CreateSwap(ctx context.Context, req domain.SwapRequest) error {
	body := swapRequest{
		AuthToken:  c.authToken,
		FromSymbol: strings.ToLower(req.FromSymbol),
		ToSymbol:   strings.ToLower(req.ToSymbol),
		Amount:     req.Amount,
		FixedRate:  req.FixedRate,
	}

	var res json.RawMessage
	if err := c.post(ctx, "accountswap", body, &res); err != nil {
		return err
	}
	if len(res) == 0 || string(res) == "null" {
		return domain.ErrNoSwapConfirmation
	}
	return nil
}

// post is the single request function all endpoints go through: any transport
// error, non-2xx status or undecodable body is returned as an error.
func (c *ExchangeClient) post(ctx context.Context, endpoint string, body any, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + endpoint

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d for %s: %s", resp.StatusCode, endpoint, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("null")
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// numberText accepts a JSON number, a numeric string or null and returns its text.
func numberText(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return "", err
		}
		return strings.TrimSpace(str), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
