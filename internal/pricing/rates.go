package pricing

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SourceFallback labels a rate substituted because the external service
// could not be reached or returned garbage.
const SourceFallback = "Fallback"

const sourceExchangeRateAPI = "ExchangeRate-API"

// RateProvider yields the current BRL to JPY rate and a label naming where
// it came from. Implementations never fail; staleness beats latency for an
// interactive pricing tool, so any provider trouble yields the fallback.
type RateProvider interface {
	Rate(ctx context.Context) (decimal.Decimal, string)
}

// RateClient fetches the live rate over HTTP with a short timeout and no
// retries. One failed attempt goes straight to the fallback rate.
type RateClient struct {
	url      string
	client   *http.Client
	fallback decimal.Decimal
}

func NewRateClient(url string, client *http.Client, fallback decimal.Decimal) *RateClient {
	return &RateClient{url: url, client: client, fallback: fallback}
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (c *RateClient) Rate(ctx context.Context) (decimal.Decimal, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		log.Warn().Err(err).Msg("rates: failed to build request, using fallback")
		return c.fallback, SourceFallback
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("rates: fetch failed, using fallback")
		return c.fallback, SourceFallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("rates: non-200 response, using fallback")
		return c.fallback, SourceFallback
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Msg("rates: malformed payload, using fallback")
		return c.fallback, SourceFallback
	}

	rate, ok := body.Rates["JPY"]
	if !ok || !rate.IsPositive() {
		log.Warn().Msg("rates: JPY missing from payload, using fallback")
		return c.fallback, SourceFallback
	}

	return rate.Round(4), sourceExchangeRateAPI
}
