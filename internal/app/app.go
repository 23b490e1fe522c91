// Package app wires the recommendation pipeline and rotation shared by the
// server, SSH and MCP binaries.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"liquidity-ticker/internal/advisor"
	"liquidity-ticker/internal/cache"
	"liquidity-ticker/internal/config"
	"liquidity-ticker/internal/job"
	"liquidity-ticker/internal/metrics"
	"liquidity-ticker/internal/provider"
	"liquidity-ticker/internal/service"
	"liquidity-ticker/internal/ticker"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	newAnthropicMessagesFunc = advisor.NewAnthropicMessages
	newOpenAIClientFunc      = advisor.NewOpenAIClient
	readFileFunc             = os.ReadFile
)

// NewGenerator returns the generator selected by GENERATOR_PROVIDER.
func NewGenerator(cfg *config.Config, tracer trace.Tracer) advisor.Generator {
	if cfg.GeneratorProvider == config.GeneratorOpenAI {
		return advisor.NewOpenAIGenerator(tracer, newOpenAIClientFunc(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	}
	return advisor.NewAnthropicGenerator(tracer, newAnthropicMessagesFunc(cfg.ClaudeAPIKey), cfg.ClaudeModel, int64(cfg.ClaudeMaxTokens))
}

// LoadPromptBuilder parses PROMPT_TEMPLATE_FILE, or the built-in template
// when no file is configured.
func LoadPromptBuilder(path string) (*advisor.PromptBuilder, error) {
	if path == "" {
		return advisor.NewPromptBuilder("")
	}
	text, err := readFileFunc(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return advisor.NewPromptBuilder(string(text))
}

// NewRecommendationService builds the providers, generator and upstream
// cache from cfg. A nil store disables caching.
func NewRecommendationService(
	cfg *config.Config,
	tracer trace.Tracer,
	logger *zap.Logger,
	store cache.Store,
) (*service.RecommendationService, error) {
	prompts, err := LoadPromptBuilder(cfg.PromptTemplateFile)
	if err != nil {
		return nil, err
	}

	svc := service.NewRecommendationService(
		tracer,
		logger,
		provider.NewCoinGeckoProvider(tracer, cfg.CoinGeckoAPIKey, cfg.CoinGeckoBaseURL),
		provider.NewGasProvider(tracer, cfg.AlchemyAPIKey, cfg.AlchemyRPCURL),
		provider.NewDefiLlamaProvider(tracer, cfg.DefiLlamaBaseURL, cfg.LiquidityProtocols),
		NewGenerator(cfg, tracer),
		prompts,
	)
	if store != nil {
		svc.WithCache(store, time.Duration(cfg.UpstreamCacheSecs)*time.Second)
	}
	return svc, nil
}

// Rotation is a running scheduler fed by the refresh job.
type Rotation struct {
	Scheduler   *ticker.Scheduler
	Broadcaster *ticker.Broadcaster
	Job         *job.RecommendationJob
}

// StartRotation starts the scheduler loop and the refresh job. Both stop
// when ctx is cancelled.
func StartRotation(
	ctx context.Context,
	cfg *config.Config,
	tracer trace.Tracer,
	logger *zap.Logger,
	svc *service.RecommendationService,
) *Rotation {
	broadcaster := ticker.NewBroadcaster(64, logger)
	broadcaster.OnSubscriberCount(func(n int) { metrics.TickerSubscribers.Set(float64(n)) })

	scheduler := ticker.NewScheduler(
		broadcaster,
		ticker.RealClock(),
		time.Duration(cfg.TickerFadeMs)*time.Millisecond,
		logger,
	)
	refresh := job.NewRecommendationJob(tracer, logger, svc, scheduler, broadcaster, cfg.RefreshIntervalSecs)

	interval := time.Duration(cfg.TickerIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = ticker.DefaultInterval
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		if err := scheduler.Run(ctx, t.C); err != nil && ctx.Err() == nil {
			logger.Error("ticker scheduler stopped", zap.Error(err))
		}
	}()
	go refresh.Start(ctx)

	return &Rotation{Scheduler: scheduler, Broadcaster: broadcaster, Job: refresh}
}
