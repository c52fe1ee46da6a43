package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"anaam-stocks/internal/broker/brokerobs"
	"anaam-stocks/internal/broker/zerodha"
	"anaam-stocks/internal/engine"
	"anaam-stocks/internal/engine/engineobs"
	"anaam-stocks/internal/interfaces"
	"anaam-stocks/internal/llm/claude"
	"anaam-stocks/internal/llm/llmobs"
	"anaam-stocks/internal/llm/noop"
	"anaam-stocks/internal/llm/openai"
	"anaam-stocks/internal/logger"
	"anaam-stocks/internal/store"
	"anaam-stocks/internal/trace"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// InitializeSystem loads .env and starts the logger and tracer
func InitializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(Version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// LoadConfig loads config.yaml, or the file named by ANAAM_CONFIG
func LoadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("ANAAM_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// InitializeBroker returns the Zerodha broker with observability
func InitializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	brk := zerodha.NewZerodha(zerodha.Params{
		APIKey:       cfg.Secrets.KiteAPIKey,
		APISecret:    cfg.Secrets.KiteAPISecret,
		PublicAPIKey: cfg.Secrets.KitePublicAPIKey,
		Exchange:     cfg.Kite.Exchange,
		Interval:     cfg.Kite.Interval,
		BaseURI:      cfg.Kite.BaseURL,
		Timeout:      cfg.KiteTimeout(),
	})

	logger.Info(ctx, "Broker initialized", "exchange", cfg.Kite.Exchange, "interval", cfg.Kite.Interval)
	return brokerobs.Wrap(brk)
}

// InitializeCompleter returns the configured language model with observability
func InitializeCompleter(ctx context.Context, cfg *store.Config) interfaces.Completer {
	var c interfaces.Completer

	switch cfg.LLM.Provider {
	case "OPENAI":
		c = openai.NewOpenAICompleter(cfg)
	case "CLAUDE":
		c = claude.NewClaudeCompleter(cfg)
	default:
		c = noop.NewNoopCompleter()
		logger.Warn(ctx, "No LLM provider configured - using Noop completer")
	}

	return llmobs.Wrap(c, cfg.LLM.Provider)
}

// InitializeEngine returns the engine with observability
func InitializeEngine(cfg *store.Config, brk interfaces.Broker, c interfaces.Completer) interfaces.Engine {
	return engineobs.Wrap(engine.New(cfg, brk, c))
}
