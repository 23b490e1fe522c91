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
	"liquidity-ticker/internal/cache"
	"liquidity-ticker/internal/config"
	"liquidity-ticker/internal/handler"
	"liquidity-ticker/internal/mcpserver"
	"liquidity-ticker/pkg/logging"
	"liquidity-ticker/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	loadEnvFunc      = godotenv.Load
	newLoggerFunc    = logging.New
	loadConfigFunc   = config.Load
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitNamedTracer
	newServiceFunc   = app.NewRecommendationService
	runStdioFunc     = func(ctx context.Context, s *mcpserver.Server) error { return s.RunStdio(ctx) }
	startHTTPFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	notifyContext    = signal.NotifyContext
	exitFunc         = os.Exit
)

func main() {
	_ = loadEnvFunc()

	// stdout carries the stdio transport.
	os.Setenv("LOG_OUTPUT", "stderr")
	logger, err := newLoggerFunc()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		exitFunc(1)
		return
	}
	defer func() { _ = logger.Sync() }()

	config.SetLogger(logger)
	cfg := loadConfigFunc()

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initRedisFunc(ctx, cfg.RedisURL, logger); err != nil {
		logger.Warn("redis unavailable, upstream cache disabled", zap.Error(err))
	}

	tp, tracer, err := initTracerFunc(ctx, "liquidity-ticker-mcp")
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

	srv := mcpserver.New(tracer, logger, recService, nil, time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second)

	if cfg.MCPTransport == "http" {
		r := gin.New()
		r.Use(gin.Recovery())
		r.Any("/mcp", handler.APIKeyAuth(cfg.MCPAuthToken), gin.WrapH(srv.HTTPHandler()))
		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("mcp http server listening", zap.String("addr", httpSrv.Addr))
			if err := startHTTPFunc(httpSrv); err != nil && err != http.ErrServerClosed {
				logger.Error("mcp http server failed", zap.Error(err))
				stop()
			}
		}()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownHTTPFunc(httpSrv, shutdownCtx); err != nil {
			logger.Warn("mcp http shutdown error", zap.Error(err))
		}
		return
	}

	logger.Info("mcp stdio server starting")
	if err := runStdioFunc(ctx, srv); err != nil && ctx.Err() == nil {
		logger.Error("mcp stdio server stopped", zap.Error(err))
	}
}
