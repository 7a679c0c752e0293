package llm

import (
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings {
		t.Setenv(b.name, "")
	}
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("DERIVACHECK_LLM_PROVIDER", "openai")
	t.Setenv("DERIVACHECK_OPENAI_API_KEY", "sk-test")
	t.Setenv("DERIVACHECK_OPENAI_BASE_URL", "http://localhost:8000/v1")
	t.Setenv("DERIVACHECK_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("provider/key not read: %+v", cfg)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:8000/v1" {
		t.Errorf("BaseURL = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Model() != "gpt-4o-mini" {
		t.Errorf("Model() = %q, want default gpt-4o-mini", cfg.Model())
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "g")
	if cfg, _ := DiscoverConfig(); cfg.Provider != ProviderGemini {
		t.Fatalf("expected gemini first, got %q", cfg.Provider)
	}
}

func TestResolveConfig(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("DERIVACHECK_LLM_PROVIDER", "anthropic")
	if _, ok := ResolveConfig(); ok {
		t.Fatal("explicit provider without its key should not resolve")
	}
	t.Setenv("DERIVACHECK_ANTHROPIC_API_KEY", "k")
	if cfg, ok := ResolveConfig(); !ok || cfg.Provider != ProviderAnthropic {
		t.Fatalf("ResolveConfig() = %+v, %v", cfg, ok)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"anthropic without key", func(c *Config) {}, true},
		{"anthropic with key", func(c *Config) { c.Anthropic.APIKey = "k" }, false},
		{"openai without key", func(c *Config) { c.Provider = ProviderOpenAI }, true},
		{"gemini with key", func(c *Config) { c.Provider = ProviderGemini; c.Gemini.APIKey = "k" }, false},
		{"mock", func(c *Config) { c.Provider = ProviderMock }, false},
		{"unknown", func(c *Config) { c.Provider = "openrouter" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-haiku")
	if c == nil {
		t.Fatal("friendly name should resolve to a priced model")
	}
	if got := c.Cost(1_000_000, 1_000_000); got != 6 {
		t.Errorf("Cost = %v, want 6", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Error("unknown model should have no price")
	}
}
