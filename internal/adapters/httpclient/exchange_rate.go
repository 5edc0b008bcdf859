package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RatesCache holds provider quotes per base code.
type RatesCache interface {
	Get(base string) (map[string]decimal.Decimal, bool)
	Set(base string, rates map[string]decimal.Decimal)
}

type ExchangeRateClient struct {
	http    *http.Client
	baseURL string
	cache   RatesCache
	now     func() time.Time
}

type apiResponse struct {
	Result          string                 `json:"result"`
	ErrorType       string                 `json:"error-type"`
	BaseCode        string                 `json:"base_code"`
	ConversionRates map[string]json.Number `json:"conversion_rates"`
}

// Provider error types that mean the account itself cannot be served.
var rejectedErrorTypes = map[string]struct{}{
	"invalid-key":      {},
	"inactive-account": {},
	"quota-reached":    {},
}

// FetchRate returns the spot rate for one unit of from expressed in to.
func (c *ExchangeRateClient) FetchRate(ctx context.Context, fromCode, toCode string) (domain.FetchedRate, error) {
	from := domain.NormalizeCode(fromCode)
	to := domain.NormalizeCode(toCode)
	asOf := domain.RateDate(c.now())
	if from == to {
		return domain.FetchedRate{From: from, To: to, Rate: decimal.NewFromInt(1), AsOf: asOf}, nil
	}

	rates, err := c.latest(ctx, from)
	if err != nil {
		return domain.FetchedRate{}, err
	}
	rate, ok := rates[to]
	if !ok {
		return domain.FetchedRate{}, fmt.Errorf("%w: no rate for %q in response for base %q", domain.ErrInvalidResponse, to, from)
	}
	return domain.FetchedRate{From: from, To: to, Rate: rate, AsOf: asOf}, nil
}

// FetchBasket returns the rates of base against targetCodes. Codes the provider
// does not quote are left out. An empty target list returns every quoted code.
func (c *ExchangeRateClient) FetchBasket(ctx context.Context, baseCode string, targetCodes []string) (map[string]decimal.Decimal, error) {
	base := domain.NormalizeCode(baseCode)
	rates, err := c.latest(ctx, base)
	if err != nil {
		return nil, err
	}
	if len(targetCodes) == 0 {
		return rates, nil
	}

	basket := make(map[string]decimal.Decimal, len(targetCodes))
	for _, code := range targetCodes {
		code = domain.NormalizeCode(code)
		if v, ok := rates[code]; ok {
			basket[code] = v
		}
	}
	return basket, nil
}

func (c *ExchangeRateClient) latest(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	if c.cache != nil {
		if rates, ok := c.cache.Get(base); ok {
			return rates, nil
		}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request for currency %q failed: %v", domain.ErrFetchUnavailable, base, stripURL(err))
	}
	defer resp.Body.Close()

	var body apiResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: unexpected status code %d for currency %q", domain.ErrProviderRejected, resp.StatusCode, base)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: unexpected status code %d for currency %q", domain.ErrFetchUnavailable, resp.StatusCode, base)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response for currency %q: %v", domain.ErrInvalidResponse, base, decodeErr)
	}
	if body.Result != "success" {
		if _, ok := rejectedErrorTypes[body.ErrorType]; ok {
			return nil, fmt.Errorf("%w: api returned %q for currency %q", domain.ErrProviderRejected, body.ErrorType, base)
		}
		return nil, fmt.Errorf("%w: api returned non-success result for currency %q: %s %s", domain.ErrInvalidResponse, base, body.Result, body.ErrorType)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status code %d for currency %q", domain.ErrInvalidResponse, resp.StatusCode, base)
	}
	if len(body.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: empty conversion rates for currency %q", domain.ErrInvalidResponse, base)
	}

	rates := make(map[string]decimal.Decimal, len(body.ConversionRates))
	for code, raw := range body.ConversionRates {
		v, parseErr := decimal.NewFromString(raw.String())
		if parseErr != nil || !v.IsPositive() {
			return nil, fmt.Errorf("%w: bad rate %q for %q in response for base %q", domain.ErrInvalidResponse, raw.String(), code, base)
		}
		rates[domain.NormalizeCode(code)] = v
	}

	if c.cache != nil {
		c.cache.Set(base, rates)
	}
	return rates, nil
}

// stripURL drops the request URL from transport errors, the path carries the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// NewExchangeRateClient builds a client for {baseURL}/{BASE}. cache may be nil.
func NewExchangeRateClient(httpClient *http.Client, baseURL string, cache RatesCache) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, baseURL: baseURL, cache: cache, now: time.Now}
}
