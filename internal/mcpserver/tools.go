package mcpserver

import (
	"context"
	"time"

	"liquidity-ticker/internal/domain"
	"liquidity-ticker/internal/ticker"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type emptyInput struct{}

type RecommendationsOutput struct {
	Items       []string              `json:"items" jsonschema:"ticker recommendation lines, at most six"`
	Snapshot    domain.MarketSnapshot `json:"snapshot" jsonschema:"market data the recommendations were generated from"`
	GeneratedAt string                `json:"generatedAt" jsonschema:"RFC3339 generation time"`
}

type RefreshInput struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"run a new cycle instead of returning the last one"`
}

type LiquidityRow struct {
	Name       string  `json:"name"`
	APY        string  `json:"apy" jsonschema:"APY percent or N/A"`
	Volatility float64 `json:"volatility"`
	TVL        float64 `json:"tvl"`
}

type LiquidityOutput struct {
	LiquidityData []LiquidityRow `json:"liquidityData"`
}

type TickerOutput struct {
	Available bool          `json:"available"`
	Status    ticker.Status `json:"status"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Return the current liquidity recommendations and the market snapshot behind them",
	}, s.getRecommendations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_market_snapshot",
		Description: "Return the ETH price, 24h change and gas price in Gwei",
	}, s.getMarketSnapshot)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_liquidity",
		Description: "Return APY, volatility and TVL for the tracked DeFi protocols",
	}, s.getLiquidity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_ticker",
		Description: "Return the rotation state and visible ticker slots",
	}, s.getTicker)
}

func (s *Server) getRecommendations(ctx context.Context, _ *mcp.CallToolRequest, in RefreshInput) (*mcp.CallToolResult, RecommendationsOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "mcp.get-recommendations")
	defer span.End()

	res := s.source.Latest()
	if res == nil || in.Refresh {
		var err error
		res, err = s.source.Cycle(ctx)
		if err != nil {
			span.SetStatus(codes.Error, "cycle failed")
			s.logger.Warn("mcp get_recommendations failed", zap.Error(err))
			return nil, RecommendationsOutput{}, err
		}
	}

	return nil, RecommendationsOutput{
		Items:       append([]string{}, res.Items...),
		Snapshot:    res.Snapshot,
		GeneratedAt: res.GeneratedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Server) getMarketSnapshot(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, domain.MarketSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "mcp.get-market-snapshot")
	defer span.End()

	data, err := s.source.MarketData(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "market data failed")
		return nil, domain.MarketSnapshot{}, err
	}
	gwei, err := s.source.GasPrice(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "gas price failed")
		return nil, domain.MarketSnapshot{}, err
	}
	return nil, domain.MarketSnapshot{
		EthPrice:       data.Quote.PriceUSD,
		EthPriceChange: data.Quote.Change24hPct,
		GasPrice:       gwei,
	}, nil
}

func (s *Server) getLiquidity(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, LiquidityOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "mcp.get-liquidity")
	defer span.End()

	samples, err := s.source.Liquidity(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "liquidity failed")
		return nil, LiquidityOutput{}, err
	}
	out := LiquidityOutput{LiquidityData: make([]LiquidityRow, 0, len(samples))}
	for _, sample := range samples {
		out.LiquidityData = append(out.LiquidityData, LiquidityRow{
			Name:       sample.Name,
			APY:        sample.APY.String(),
			Volatility: sample.Volatility,
			TVL:        sample.TVL,
		})
	}
	return nil, out, nil
}

func (s *Server) getTicker(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, TickerOutput, error) {
	if s.ticker == nil {
		return nil, TickerOutput{Status: ticker.Status{Slots: []ticker.Slot{}}}, nil
	}
	return nil, TickerOutput{Available: true, Status: s.ticker.Status()}, nil
}
