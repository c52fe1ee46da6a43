package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anaam-stocks/internal/store"
)

func TestLoadConfigHonoursEnvPath(t *testing.T) {
	t.Setenv("KITE_API_KEY", "kitekey")
	t.Setenv("KITE_API_SECRET", "kitesecret")
	t.Setenv("KITE_API_CLIENT_ID", "AB1234")
	t.Setenv("SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "alt.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  provider: noop\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANAAM_CONFIG", path)

	cfg, err := LoadConfig(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.LLM.Provider != "NOOP" {
		t.Errorf("Expected NOOP provider, got %s", cfg.LLM.Provider)
	}
}

func TestInitializeWiresEveryProvider(t *testing.T) {
	ctx := context.Background()
	for _, p := range []string{"OPENAI", "CLAUDE", "NOOP"} {
		cfg := store.Defaults()
		cfg.LLM.Provider = p
		cfg.Secrets.KiteAPIKey = "kitekey"

		brk := InitializeBroker(ctx, cfg)
		c := InitializeCompleter(ctx, cfg)
		if brk == nil || c == nil || InitializeEngine(cfg, brk, c) == nil {
			t.Fatalf("%s: expected wired components", p)
		}
	}
}
