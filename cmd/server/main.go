package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liquidity-ticker/internal/app"
	"liquidity-ticker/internal/bot"
	"liquidity-ticker/internal/cache"
	"liquidity-ticker/internal/config"
	"liquidity-ticker/internal/handler"
	"liquidity-ticker/internal/mcpserver"
	"liquidity-ticker/pkg/logging"
	"liquidity-ticker/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "liquidity-ticker/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	newLoggerFunc          = logging.New
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newServiceFunc         = app.NewRecommendationService
	startRotationFunc      = app.StartRotation
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	exitFunc               = os.Exit
)

// @title           Liquidity Ticker API
// @version         1.0
// @description     Market data proxies and generated liquidity recommendations for the rotating ticker.

// @host      localhost:3000
// @BasePath  /
func main() {
	_ = loadEnvFunc()

	logger, err := newLoggerFunc()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		exitFunc(1)
		return
	}
	defer func() { _ = logger.Sync() }()

	config.SetLogger(logger)
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := initRedisFunc(ctx, cfg.RedisURL, logger); err != nil {
		logger.Warn("redis unavailable, upstream cache disabled", zap.Error(err))
	}

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		logger.Error("failed to initialize tracer", zap.Error(err))
		exitFunc(1)
		return
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}()

	var store cache.Store
	if cache.Client != nil {
		store = cache.Client
	}
	recService, err := newServiceFunc(cfg, tracer, logger, store)
	if err != nil {
		logger.Error("failed to build recommendation service", zap.Error(err))
		exitFunc(1)
		return
	}

	rotation := startRotationFunc(ctx, cfg, tracer, logger, recService)

	if err := startTelegramBotFunc(cfg.TelegramBotToken, recService, logger); err != nil {
		logger.Warn("telegram bot disabled", zap.Error(err))
	}

	h := newHandlerFunc(tracer, logger, recService, rotation.Scheduler, rotation.Broadcaster)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("liquidity-ticker"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.MCPHTTPEnabled {
		mcpSrv := mcpserver.New(tracer, logger, recService, rotation.Scheduler,
			time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second)
		mcpHandler := gin.WrapH(mcpSrv.HTTPHandler())
		r.Any("/mcp", handler.APIKeyAuth(cfg.MCPAuthToken), mcpHandler)
		logger.Info("MCP HTTP endpoint enabled", zap.Bool("auth", cfg.MCPAuthToken != ""))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	logger.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
