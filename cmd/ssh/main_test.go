package main

import (
	"context"
	"os"
	"testing"
	"time"

	"liquidity-ticker/internal/app"
	"liquidity-ticker/internal/config"
	"liquidity-ticker/internal/service"
	"liquidity-ticker/internal/ticker"

	"github.com/charmbracelet/ssh"
	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubSSHDeps()
	defer restore()

	var optCount int
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		optCount = len(ops)
		return nil, nil
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	assert.Equal(t, 4, optCount)
}

func TestMainExitsWhenWishFails(t *testing.T) {
	restore := stubSSHDeps()
	defer restore()

	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) { return nil, assert.AnError }
	var code int
	exitFunc = func(c int) { code = c }

	main()
	assert.Equal(t, 1, code)
}

func stubSSHDeps() func() {
	origLoadEnv := loadEnvFunc
	origNewLogger := newLoggerFunc
	origLoadConfig := loadConfigFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewService := newServiceFunc
	origStartRotation := startRotationFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origExit := exitFunc

	loadEnvFunc = func(...string) error { return nil }
	newLoggerFunc = func() (*zap.Logger, error) { return zap.NewNop(), nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			GeneratorProvider: config.GeneratorAnthropic,
			SSHPort:           2222,
			SSHHostKeyPath:    ".ssh/test_key",
		}
	}
	initRedisFunc = func(context.Context, string, *zap.Logger) error { return nil }
	initTracerFunc = func(ctx context.Context, name string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startRotationFunc = func(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger *zap.Logger, svc *service.RecommendationService) *app.Rotation {
		b := ticker.NewBroadcaster(8, logger)
		return &app.Rotation{Scheduler: ticker.NewScheduler(b, nil, 0, logger), Broadcaster: b}
	}
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) { return nil, nil }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		newLoggerFunc = origNewLogger
		loadConfigFunc = origLoadConfig
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newServiceFunc = origNewService
		startRotationFunc = origStartRotation
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		exitFunc = origExit
	}
}
