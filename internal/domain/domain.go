package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxRecommendations bounds every RecommendationSet.
const MaxRecommendations = 6

// APY is an annual percentage yield that may be unknown. Unknown values
// serialize as the string "N/A".
type APY struct {
	Value float64
	Valid bool
}

const apyUnavailable = "N/A"

func NewAPY(v float64) APY { return APY{Value: v, Valid: true} }

func UnavailableAPY() APY { return APY{} }

// String renders the APY the way it appears in prompts ("3.2" or "N/A").
func (a APY) String() string {
	if !a.Valid {
		return apyUnavailable
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

func (a APY) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(apyUnavailable)
	}
	return json.Marshal(a.Value)
}

func (a *APY) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = UnavailableAPY()
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, apyUnavailable) {
			*a = UnavailableAPY()
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid apy %q: %w", s, err)
		}
		*a = NewAPY(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid apy: %w", err)
	}
	*a = NewAPY(v)
	return nil
}

// LiquiditySample is one protocol entry from the DeFi index, normalized.
type LiquiditySample struct {
	Name       string  `json:"name"`
	APY        APY     `json:"apy"`
	Volatility float64 `json:"volatility"`
	TVL        float64 `json:"tvl"`
}

// MarketSnapshot is the price/gas triple fed into the prompt.
type MarketSnapshot struct {
	EthPrice       float64 `json:"ethPrice"`
	EthPriceChange float64 `json:"ethPriceChange"`
	GasPrice       float64 `json:"gasPrice"`
}

// MarketQuote is the typed part of the CoinGecko market_data object.
type MarketQuote struct {
	PriceUSD     float64 `json:"price_usd"`
	Change24hPct float64 `json:"change_24h_pct"`
}

// RecommendationRequest is the body accepted by the aggregation endpoint.
type RecommendationRequest struct {
	EthPrice       float64           `json:"ethPrice"`
	EthPriceChange float64           `json:"ethPriceChange"`
	GasPrice       float64           `json:"gasPrice"`
	LiquidityData  []LiquiditySample `json:"liquidityData"`
}

func (r RecommendationRequest) Snapshot() MarketSnapshot {
	return MarketSnapshot{
		EthPrice:       r.EthPrice,
		EthPriceChange: r.EthPriceChange,
		GasPrice:       r.GasPrice,
	}
}

// RecommendationSet is the ordered list of display lines, at most
// MaxRecommendations long.
type RecommendationSet []string

// ContentBlock mirrors a text block of the generative service response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Recommendation is the generated output returned to callers.
type Recommendation struct {
	Model   string            `json:"model,omitempty"`
	Content []ContentBlock    `json:"content"`
	Text    string            `json:"text"`
	Items   RecommendationSet `json:"items"`
}

func NewRecommendation(model, text string, items RecommendationSet) *Recommendation {
	if items == nil {
		items = RecommendationSet{}
	}
	return &Recommendation{
		Model:   model,
		Content: []ContentBlock{{Type: "text", Text: text}},
		Text:    text,
		Items:   items,
	}
}
