package config

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	Port int

	CoinGeckoAPIKey    string
	CoinGeckoBaseURL   string
	AlchemyAPIKey      string
	AlchemyRPCURL      string
	DefiLlamaBaseURL   string
	LiquidityProtocols []string
	UpstreamCacheSecs  int

	GeneratorProvider  string
	ClaudeAPIKey       string
	ClaudeModel        string
	ClaudeMaxTokens    int
	OpenAIAPIKey       string
	OpenAIModel        string
	PromptTemplateFile string

	TickerIntervalMs    int
	TickerFadeMs        int
	RefreshIntervalSecs int

	RedisURL         string
	TelegramBotToken string

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPAuthToken          string
	MCPRequestTimeoutSecs int

	SSHPort        int
	SSHHostKeyPath string
}

const (
	GeneratorAnthropic = "anthropic"
	GeneratorOpenAI    = "openai"
)

var logger = zap.NewNop()

// SetLogger routes Load's warnings to l.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func Load() *Config {
	cfg := &Config{
		CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
		CoinGeckoBaseURL: strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")),
		AlchemyAPIKey:    os.Getenv("ALCHEMY_API_KEY"),
		AlchemyRPCURL:    strings.TrimSpace(os.Getenv("ALCHEMY_RPC_URL")),
		DefiLlamaBaseURL: strings.TrimSpace(os.Getenv("DEFILLAMA_BASE_URL")),
		ClaudeAPIKey:     os.Getenv("CLAUDE_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),

		PromptTemplateFile: strings.TrimSpace(os.Getenv("PROMPT_TEMPLATE_FILE")),
	}

	cfg.Port = positiveInt("PORT", 3000)

	if cfg.CoinGeckoAPIKey == "" {
		logger.Warn("COINGECKO_API_KEY not set, using the keyless CoinGecko tier")
	}
	if cfg.AlchemyAPIKey == "" && cfg.AlchemyRPCURL == "" {
		logger.Warn("ALCHEMY_API_KEY not set, gas price requests will fail")
	}
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, upstream cache disabled")
	}

	for _, p := range strings.Split(os.Getenv("LIQUIDITY_PROTOCOLS"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.LiquidityProtocols = append(cfg.LiquidityProtocols, p)
		}
	}

	cfg.UpstreamCacheSecs = nonNegativeInt("UPSTREAM_CACHE_SECS", 60)

	cfg.GeneratorProvider = strings.ToLower(strings.TrimSpace(os.Getenv("GENERATOR_PROVIDER")))
	if cfg.GeneratorProvider == "" {
		cfg.GeneratorProvider = GeneratorAnthropic
	}
	if cfg.GeneratorProvider != GeneratorAnthropic && cfg.GeneratorProvider != GeneratorOpenAI {
		logger.Warn("unsupported GENERATOR_PROVIDER, defaulting to anthropic", zap.String("provider", cfg.GeneratorProvider))
		cfg.GeneratorProvider = GeneratorAnthropic
	}

	cfg.ClaudeModel = strings.TrimSpace(os.Getenv("CLAUDE_MODEL"))
	if cfg.ClaudeModel == "" {
		cfg.ClaudeModel = "claude-3-7-sonnet-20250219"
	}
	cfg.ClaudeMaxTokens = positiveInt("CLAUDE_MAX_TOKENS", 1024)

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	switch cfg.GeneratorProvider {
	case GeneratorAnthropic:
		if cfg.ClaudeAPIKey == "" {
			logger.Warn("CLAUDE_API_KEY not set, recommendations will fail")
		}
	case GeneratorOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY not set, recommendations will fail")
		}
	}

	cfg.TickerIntervalMs = positiveInt("TICKER_INTERVAL_MS", 5000)
	cfg.TickerFadeMs = nonNegativeInt("TICKER_FADE_MS", 500)
	cfg.RefreshIntervalSecs = nonNegativeInt("REFRESH_INTERVAL_SECS", 900)

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		logger.Warn("unsupported MCP_TRANSPORT, defaulting to stdio", zap.String("transport", cfg.MCPTransport))
		cfg.MCPTransport = "stdio"
	}
	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 30)

	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/ticker_ed25519"
	}

	return cfg
}

func positiveInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		logger.Warn("invalid value, using default", zap.String("key", key), zap.String("value", v), zap.Int("default", def))
	}
	return def
}

func nonNegativeInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		logger.Warn("invalid value, using default", zap.String("key", key), zap.String("value", v), zap.Int("default", def))
	}
	return def
}
