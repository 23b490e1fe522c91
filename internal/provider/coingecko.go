package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"liquidity-ticker/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// MarketData is the CoinGecko market_data object for ETH. Raw is passed
// through to clients untouched; Quote holds the fields the prompt needs.
type MarketData struct {
	Raw   json.RawMessage    `json:"market_data"`
	Quote domain.MarketQuote `json:"quote"`
}

// CoinGeckoProvider fetches ETH market data from the CoinGecko API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a new provider with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer, apiKey, baseURL string) *CoinGeckoProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = coingeckoBaseURL
	}
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchMarketData fetches /coins/ethereum and extracts market_data.
func (p *CoinGeckoProvider) FetchMarketData(ctx context.Context) (*MarketData, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-market-data")
	defer span.End()

	url := p.baseURL + "/coins/ethereum?localization=false&tickers=false&community_data=false&developer_data=false&sparkline=false"

	body, err := p.doRequest(ctx, url)
	if err != nil {
		span.RecordError(err)
		return nil, domain.DataUnavailable(domain.SourceCoinGecko, fmt.Errorf("fetch market data: %w", err))
	}

	data, err := parseMarketData(body)
	if err != nil {
		span.RecordError(err)
		return nil, domain.DataUnavailable(domain.SourceCoinGecko, err)
	}
	return data, nil
}

func parseMarketData(body []byte) (*MarketData, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("parse market data: invalid JSON")
	}
	md := gjson.GetBytes(body, "market_data")
	if !md.IsObject() {
		return nil, errors.New("parse market data: missing market_data")
	}

	price := md.Get("current_price.usd")
	if price.Type != gjson.Number {
		return nil, errors.New("parse market data: missing current_price.usd")
	}
	change := md.Get("price_change_percentage_24h")
	if change.Type != gjson.Number {
		return nil, errors.New("parse market data: missing price_change_percentage_24h")
	}

	return &MarketData{
		Raw: json.RawMessage(md.Raw),
		Quote: domain.MarketQuote{
			PriceUSD:     price.Float(),
			Change24hPct: change.Float(),
		},
	}, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
