package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"liquidity-ticker/internal/domain"
	"liquidity-ticker/internal/provider"
	"liquidity-ticker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type stubSource struct {
	latest     *service.CycleResult
	cycle      *service.CycleResult
	cycleErr   error
	cycleCalls int
	market     *provider.MarketData
	marketErr  error
	gwei       float64
	gasErr     error
}

func (s *stubSource) Latest() *service.CycleResult { return s.latest }

func (s *stubSource) Cycle(ctx context.Context) (*service.CycleResult, error) {
	s.cycleCalls++
	return s.cycle, s.cycleErr
}

func (s *stubSource) MarketData(ctx context.Context) (*provider.MarketData, error) {
	return s.market, s.marketErr
}

func (s *stubSource) GasPrice(ctx context.Context) (float64, error) { return s.gwei, s.gasErr }

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	called := false
	orig := newBot
	t.Cleanup(func() { newBot = orig })
	newBot = func(tele.Settings) (*tele.Bot, error) {
		called = true
		return nil, nil
	}

	require.NoError(t, StartTelegramBot("", nil, zap.NewNop()))
	assert.False(t, called)
}

func TestStartTelegramBotCreateError(t *testing.T) {
	orig := newBot
	t.Cleanup(func() { newBot = orig })
	newBot = func(tele.Settings) (*tele.Bot, error) { return nil, errors.New("bad token") }

	assert.Error(t, StartTelegramBot("123:abc", &stubSource{}, zap.NewNop()))
}

func TestRecommendationsUsesLatest(t *testing.T) {
	src := &stubSource{latest: &service.CycleResult{
		Snapshot:    domain.MarketSnapshot{EthPrice: 3000, GasPrice: 12.5},
		Items:       domain.RecommendationSet{"Line A.", "Line B."},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	cmds := &commands{source: src, logger: zap.NewNop()}

	got := cmds.recommendations(context.Background())
	assert.Contains(t, got, "ETH $3000.00, gas 12.50 Gwei")
	assert.Contains(t, got, "1. Line A.\n2. Line B.")
	assert.Contains(t, got, "Generated Fri, 02 Jan 2026 03:04:05 UTC")
	assert.Equal(t, 0, src.cycleCalls)
}

func TestRecommendationsRunsCycleWhenEmpty(t *testing.T) {
	src := &stubSource{cycleErr: domain.ErrEmptyResult}
	cmds := &commands{source: src, logger: zap.NewNop()}

	assert.Equal(t, "Unable to load recommendations, please try again.", cmds.recommendations(context.Background()))
	assert.Equal(t, 1, src.cycleCalls)
}

func TestMarket(t *testing.T) {
	src := &stubSource{
		market: &provider.MarketData{Quote: domain.MarketQuote{PriceUSD: 3210.5, Change24hPct: -1.234}},
		gwei:   7,
	}
	cmds := &commands{source: src, logger: zap.NewNop()}
	assert.Equal(t, "ETH\nPrice: $3210.50\n24h Change: -1.23%\nGas: 7.00 Gwei", cmds.market(context.Background()))

	src.gasErr = errors.New("rpc down")
	assert.Equal(t, "Gas price is unavailable right now.", cmds.market(context.Background()))

	src.marketErr = errors.New("429")
	assert.Equal(t, "Market data is unavailable right now.", cmds.market(context.Background()))
}
