package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"liquidity-ticker/internal/app"
	"liquidity-ticker/internal/cache"
	"liquidity-ticker/internal/config"
	"liquidity-ticker/internal/tui"
	"liquidity-ticker/pkg/logging"
	"liquidity-ticker/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc       = godotenv.Load
	newLoggerFunc     = logging.New
	loadConfigFunc    = config.Load
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitNamedTracer
	newServiceFunc    = app.NewRecommendationService
	startRotationFunc = app.StartRotation
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
	exitFunc          = os.Exit
)

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

	tp, tracer, err := initTracerFunc(ctx, "liquidity-ticker-ssh")
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

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			logger.Info("ssh session key",
				zap.String("user", ctx.User()),
				zap.String("fingerprint", gossh.FingerprintSHA256(key)),
			)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				events, unsubscribe := rotation.Broadcaster.Subscribe()
				go func() {
					<-s.Context().Done()
					unsubscribe()
				}()

				model := tui.NewTickerModel(events)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)
				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			wishlogging.Middleware(),
		),
	)
	if err != nil {
		logger.Error("failed to create SSH server", zap.Error(err))
		exitFunc(1)
		return
	}

	if srv != nil {
		go func() {
			logger.Info("ssh server listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil {
				logger.Info("ssh server stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	logger.Info("shutting down ssh server")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("ssh server shutdown error", zap.Error(err))
		}
	}

	logger.Info("ssh server exited")
}
