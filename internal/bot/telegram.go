package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"liquidity-ticker/internal/provider"
	"liquidity-ticker/internal/service"
	"liquidity-ticker/internal/ticker"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const commandTimeout = 45 * time.Second

type RecommendationSource interface {
	Latest() *service.CycleResult
	Cycle(ctx context.Context) (*service.CycleResult, error)
	MarketData(ctx context.Context) (*provider.MarketData, error)
	GasPrice(ctx context.Context) (float64, error)
}

var newBot = tele.NewBot

// StartTelegramBot registers the command handlers and starts long polling.
// An empty token skips startup.
func StartTelegramBot(token string, source RecommendationSource, logger *zap.Logger) error {
	if token == "" {
		logger.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	b, err := newBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	cmds := &commands{source: source, logger: logger}
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/recs", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return c.Send(cmds.recommendations(ctx))
	})
	b.Handle("/market", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return c.Send(cmds.market(ctx))
	})

	logger.Info("telegram bot started")
	go b.Start()
	return nil
}

type commands struct {
	source RecommendationSource
	logger *zap.Logger
}

func (c *commands) recommendations(ctx context.Context) string {
	res := c.source.Latest()
	if res == nil {
		var err error
		res, err = c.source.Cycle(ctx)
		if err != nil {
			c.logger.Warn("telegram /recs cycle failed", zap.Error(err))
			return ticker.RetryNotice
		}
	}
	return formatRecommendations(res)
}

func (c *commands) market(ctx context.Context) string {
	data, err := c.source.MarketData(ctx)
	if err != nil {
		c.logger.Warn("telegram /market price failed", zap.Error(err))
		return "Market data is unavailable right now."
	}
	gwei, err := c.source.GasPrice(ctx)
	if err != nil {
		c.logger.Warn("telegram /market gas failed", zap.Error(err))
		return "Gas price is unavailable right now."
	}
	return fmt.Sprintf(
		"ETH\nPrice: $%.2f\n24h Change: %.2f%%\nGas: %.2f Gwei",
		data.Quote.PriceUSD, data.Quote.Change24hPct, gwei,
	)
}

func formatRecommendations(res *service.CycleResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommendations (ETH $%.2f, gas %.2f Gwei)\n", res.Snapshot.EthPrice, res.Snapshot.GasPrice)
	for i, item := range res.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}
	if !res.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "Generated %s", res.GeneratedAt.Format(time.RFC1123))
	}
	return strings.TrimRight(sb.String(), "\n")
}
