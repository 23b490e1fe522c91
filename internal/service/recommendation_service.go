package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"liquidity-ticker/internal/advisor"
	"liquidity-ticker/internal/cache"
	"liquidity-ticker/internal/domain"
	"liquidity-ticker/internal/metrics"
	"liquidity-ticker/internal/provider"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	marketCacheKey    = "ticker:coingecko:ethereum"
	gasCacheKey       = "ticker:gas:gwei"
	liquidityCacheKey = "ticker:defillama:samples"
)

type MarketDataProvider interface {
	FetchMarketData(ctx context.Context) (*provider.MarketData, error)
}

type GasPriceProvider interface {
	FetchGasPrice(ctx context.Context) (float64, error)
}

type LiquidityProvider interface {
	FetchLiquidity(ctx context.Context) ([]domain.LiquiditySample, error)
}

// CycleResult is the outcome of one fetch, generate and parse cycle.
type CycleResult struct {
	Snapshot       domain.MarketSnapshot    `json:"snapshot"`
	Liquidity      []domain.LiquiditySample `json:"liquidityData"`
	Recommendation *domain.Recommendation   `json:"recommendation"`
	Items          domain.RecommendationSet `json:"items"`
	GeneratedAt    time.Time                `json:"generatedAt"`
}

type RecommendationService struct {
	tracer    trace.Tracer
	logger    *zap.Logger
	market    MarketDataProvider
	gas       GasPriceProvider
	liquidity LiquidityProvider
	generator advisor.Generator
	prompts   *advisor.PromptBuilder
	redis     cache.Store
	cacheTTL  time.Duration

	now func() time.Time

	mu     sync.RWMutex
	latest *CycleResult
}

func NewRecommendationService(
	tracer trace.Tracer,
	logger *zap.Logger,
	market MarketDataProvider,
	gas GasPriceProvider,
	liquidity LiquidityProvider,
	generator advisor.Generator,
	prompts *advisor.PromptBuilder,
) *RecommendationService {
	if prompts == nil {
		prompts = advisor.MustPromptBuilder("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		tracer:    tracer,
		logger:    logger,
		market:    market,
		gas:       gas,
		liquidity: liquidity,
		generator: generator,
		prompts:   prompts,
		now:       time.Now,
	}
}

// WithCache enables the upstream read-through cache. A nil store or a
// non-positive ttl leaves it disabled.
func (s *RecommendationService) WithCache(store cache.Store, ttl time.Duration) *RecommendationService {
	if store == nil || ttl <= 0 {
		s.redis = nil
		return s
	}
	s.redis = store
	s.cacheTTL = ttl
	return s
}

func (s *RecommendationService) MarketData(ctx context.Context) (*provider.MarketData, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation-service.market-data")
	defer span.End()

	var cached provider.MarketData
	if s.readCache(ctx, marketCacheKey, domain.SourceCoinGecko, &cached) {
		return &cached, nil
	}

	started := time.Now()
	data, err := s.market.FetchMarketData(ctx)
	metrics.ObserveUpstream(domain.SourceCoinGecko, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "market data unavailable")
		return nil, err
	}
	s.writeCache(ctx, marketCacheKey, data)
	return data, nil
}

func (s *RecommendationService) GasPrice(ctx context.Context) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation-service.gas-price")
	defer span.End()

	var cached float64
	if s.readCache(ctx, gasCacheKey, domain.SourceGas, &cached) {
		return cached, nil
	}

	started := time.Now()
	gwei, err := s.gas.FetchGasPrice(ctx)
	metrics.ObserveUpstream(domain.SourceGas, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gas price unavailable")
		return 0, err
	}
	s.writeCache(ctx, gasCacheKey, gwei)
	return gwei, nil
}

func (s *RecommendationService) Liquidity(ctx context.Context) ([]domain.LiquiditySample, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation-service.liquidity")
	defer span.End()

	var cached []domain.LiquiditySample
	if s.readCache(ctx, liquidityCacheKey, domain.SourceDefiLlama, &cached) {
		return cached, nil
	}

	started := time.Now()
	samples, err := s.liquidity.FetchLiquidity(ctx)
	metrics.ObserveUpstream(domain.SourceDefiLlama, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "liquidity unavailable")
		return nil, err
	}
	s.writeCache(ctx, liquidityCacheKey, samples)
	return samples, nil
}

// Recommend builds the prompt and calls the generator once.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	snapshot domain.MarketSnapshot,
	samples []domain.LiquiditySample,
) (*domain.Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation-service.recommend")
	defer span.End()

	prompt, err := s.prompts.Build(snapshot, samples)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	started := time.Now()
	gen, err := s.generator.Generate(ctx, prompt)
	metrics.ObserveGenerator(started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generator failed")
		return nil, domain.Upstream(err)
	}

	items := advisor.ParseRecommendations(gen.Text)
	span.SetAttributes(
		attribute.String("generator.model", gen.Model),
		attribute.Int("recommendations.count", len(items)),
	)
	return domain.NewRecommendation(gen.Model, gen.Text, items), nil
}

// Cycle fetches all three sources concurrently, then generates and parses.
// The generator is not called unless every source succeeded.
func (s *RecommendationService) Cycle(ctx context.Context) (*CycleResult, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation-service.cycle")
	defer span.End()

	var (
		market  *provider.MarketData
		gwei    float64
		samples []domain.LiquiditySample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		market, err = s.MarketData(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		gwei, err = s.GasPrice(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		samples, err = s.Liquidity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "data unavailable")
		return nil, err
	}

	snapshot := domain.MarketSnapshot{
		EthPrice:       market.Quote.PriceUSD,
		EthPriceChange: market.Quote.Change24hPct,
		GasPrice:       gwei,
	}

	rec, err := s.Recommend(ctx, snapshot, samples)
	if err != nil {
		return nil, err
	}
	if len(rec.Items) == 0 {
		return nil, domain.ErrEmptyResult
	}

	result := &CycleResult{
		Snapshot:       snapshot,
		Liquidity:      samples,
		Recommendation: rec,
		Items:          rec.Items,
		GeneratedAt:    s.now().UTC(),
	}
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	s.logger.Info("recommendation cycle complete",
		zap.Int("items", len(rec.Items)),
		zap.String("model", rec.Model),
	)
	return result, nil
}

// Latest returns the last successful cycle, or nil before the first one.
func (s *RecommendationService) Latest() *CycleResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *RecommendationService) readCache(ctx context.Context, key, source string, dst any) bool {
	if s.redis == nil {
		return false
	}
	ok, err := cache.GetJSON(ctx, s.redis, key, dst)
	if err != nil {
		s.logger.Warn("redis cache read error", zap.String("key", key), zap.Error(err))
		return false
	}
	if ok {
		metrics.CacheHits.WithLabelValues(source).Inc()
	}
	return ok
}

func (s *RecommendationService) writeCache(ctx context.Context, key string, v any) {
	if s.redis == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.redis, key, v, s.cacheTTL); err != nil {
		s.logger.Warn("redis cache write error", zap.String("key", key), zap.Error(err))
	}
}
