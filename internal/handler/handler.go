package handler

import (
	"context"

	"liquidity-ticker/internal/domain"
	"liquidity-ticker/internal/provider"
	"liquidity-ticker/internal/service"
	"liquidity-ticker/internal/ticker"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecommendationService is the part of service.RecommendationService the
// routes call.
type RecommendationService interface {
	MarketData(ctx context.Context) (*provider.MarketData, error)
	GasPrice(ctx context.Context) (float64, error)
	Liquidity(ctx context.Context) ([]domain.LiquiditySample, error)
	Recommend(ctx context.Context, snapshot domain.MarketSnapshot, samples []domain.LiquiditySample) (*domain.Recommendation, error)
	Cycle(ctx context.Context) (*service.CycleResult, error)
}

type TickerStatus interface {
	Status() ticker.Status
}

type TickerFeed interface {
	Subscribe() (<-chan ticker.Event, func())
	Notice() string
}

type Handler struct {
	tracer    trace.Tracer
	logger    *zap.Logger
	recs      RecommendationService
	scheduler TickerStatus
	feed      TickerFeed
	upgrader  websocket.Upgrader
}

func New(
	tracer trace.Tracer,
	logger *zap.Logger,
	recs RecommendationService,
	scheduler TickerStatus,
	feed TickerFeed,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tracer:    tracer,
		logger:    logger,
		recs:      recs,
		scheduler: scheduler,
		feed:      feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	h.registerWeb(r)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/coingecko", h.GetCoinGecko)
	api.GET("/gas", h.GetGas)
	api.GET("/liquidity", h.GetLiquidity)
	api.POST("/claude", h.PostClaude)
	api.GET("/recommendations", h.GetRecommendations)
	api.GET("/ticker", h.GetTicker)

	r.GET("/ws/ticker", h.TickerWebSocket)
}
