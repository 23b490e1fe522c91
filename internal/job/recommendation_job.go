package job

import (
	"context"
	"time"

	"liquidity-ticker/internal/domain"
	"liquidity-ticker/internal/metrics"
	"liquidity-ticker/internal/service"
	"liquidity-ticker/internal/ticker"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CycleRunner interface {
	Cycle(ctx context.Context) (*service.CycleResult, error)
}

type SetLoader interface {
	Submit(ctx context.Context, set domain.RecommendationSet) error
}

type Notifier interface {
	Notify(message string)
}

// RecommendationJob runs a recommendation cycle on start and then on every
// refresh interval, handing each new set to the rotation.
type RecommendationJob struct {
	tracer          trace.Tracer
	logger          *zap.Logger
	runner          CycleRunner
	loader          SetLoader
	notifier        Notifier
	refreshInterval time.Duration
}

func NewRecommendationJob(
	tracer trace.Tracer,
	logger *zap.Logger,
	runner CycleRunner,
	loader SetLoader,
	notifier Notifier,
	refreshIntervalSecs int,
) *RecommendationJob {
	return &RecommendationJob{
		tracer:          tracer,
		logger:          logger,
		runner:          runner,
		loader:          loader,
		notifier:        notifier,
		refreshInterval: time.Duration(refreshIntervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled. A zero refresh interval runs the
// cycle once.
func (j *RecommendationJob) Start(ctx context.Context) {
	j.logger.Info("recommendation job starting", zap.Duration("refresh_interval", j.refreshInterval))

	if j.refreshInterval <= 0 {
		if err := j.refresh(ctx); err != nil {
			j.logger.Warn("recommendation refresh failed", zap.Error(err))
		}
		<-ctx.Done()
	} else {
		j.pollLoop(ctx, "recommendations", j.refreshInterval, j.refresh)
	}
	j.logger.Info("recommendation job stopped")
}

func (j *RecommendationJob) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		j.logger.Warn("poller initial run error", zap.String("poller", name), zap.Error(err))
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := fn(ctx); err != nil {
				j.logger.Warn("poller run error", zap.String("poller", name), zap.Error(err))
			}
		}
	}
}

func (j *RecommendationJob) refresh(ctx context.Context) error {
	ctx, span := j.tracer.Start(ctx, "recommendation-job.refresh")
	defer span.End()

	res, err := j.runner.Cycle(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cycle failed")
		if j.notifier != nil {
			j.notifier.Notify(ticker.RetryNotice)
		}
		return err
	}

	if err := j.loader.Submit(ctx, res.Items); err != nil {
		return err
	}
	metrics.RecommendationsLoaded.Set(float64(len(res.Items)))
	if j.notifier != nil {
		j.notifier.Notify("")
	}
	return nil
}
