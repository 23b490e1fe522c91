package mcpserver

import (
	"context"
	"net/http"
	"time"

	"liquidity-ticker/internal/domain"
	"liquidity-ticker/internal/provider"
	"liquidity-ticker/internal/service"
	"liquidity-ticker/internal/ticker"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	serverName    = "liquidity-ticker"
	serverVersion = "1.0.0"
)

type Source interface {
	Latest() *service.CycleResult
	Cycle(ctx context.Context) (*service.CycleResult, error)
	MarketData(ctx context.Context) (*provider.MarketData, error)
	GasPrice(ctx context.Context) (float64, error)
	Liquidity(ctx context.Context) ([]domain.LiquiditySample, error)
}

// TickerView exposes the live rotation when the MCP server runs inside the
// ticker process. It may be nil.
type TickerView interface {
	Status() ticker.Status
}

type Server struct {
	tracer  trace.Tracer
	logger  *zap.Logger
	source  Source
	ticker  TickerView
	timeout time.Duration
	server  *mcp.Server
}

func New(tracer trace.Tracer, logger *zap.Logger, source Source, view TickerView, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &Server{
		tracer:  tracer,
		logger:  logger,
		source:  source,
		ticker:  view,
		timeout: timeout,
		server:  mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) MCP() *mcp.Server { return s.server }

// RunStdio serves MCP over stdin/stdout until ctx ends or the client
// disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves MCP over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.server }, nil)
}
