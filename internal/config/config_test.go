package config_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sidekick-cli/sidekick/internal/config"
)

// clearEnv blanks every variable Load reads so ambient values can't leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LLM_PROVIDER", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
		"AWS_REGION", "BEDROCK_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS",
		"SK_DATA_DIR", "SK_SANDBOX_ROOT", "SK_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Provider != config.ProviderBedrock {
		t.Errorf("default provider: got %q, want bedrock", cfg.Provider)
	}
	if cfg.AnthropicModel != config.DefaultAnthropicModel {
		t.Errorf("anthropic model: got %q", cfg.AnthropicModel)
	}
	if cfg.BedrockModel != config.DefaultBedrockModel {
		t.Errorf("bedrock model: got %q", cfg.BedrockModel)
	}
	if cfg.AWSRegion != config.DefaultAWSRegion {
		t.Errorf("region: got %q", cfg.AWSRegion)
	}
	if cfg.Temperature != 0 {
		t.Errorf("temperature: got %v, want 0", cfg.Temperature)
	}
	if cfg.MaxTokens != config.DefaultMaxTokens {
		t.Errorf("max tokens: got %d", cfg.MaxTokens)
	}
	if cfg.DataDir != config.DefaultDataDir {
		t.Errorf("data dir: got %q", cfg.DataDir)
	}
	if cfg.Debug {
		t.Error("debug should default off")
	}
}

func TestLoad_ProviderAliases(t *testing.T) {
	cases := []struct {
		env  string
		want config.Provider
	}{
		{"anthropic", config.ProviderAnthropic},
		{"claude", config.ProviderAnthropic},
		{"ANTHROPIC", config.ProviderAnthropic},
		{"Claude", config.ProviderAnthropic},
		{"bedrock", config.ProviderBedrock},
		{"", config.ProviderBedrock},
		{"something-else", config.ProviderBedrock},
	}
	for _, tc := range cases {
		t.Run("provider="+tc.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LLM_PROVIDER", tc.env)
			cfg, err := config.Load()
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if cfg.Provider != tc.want {
				t.Fatalf("got %q, want %q", cfg.Provider, tc.want)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_MODEL", "claude-3-haiku-20240307")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_MAX_TOKENS", "2048")
	t.Setenv("SK_DATA_DIR", "/tmp/sk-data")
	t.Setenv("SK_DEBUG", "1")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.AnthropicAPIKey != "sk-test" || cfg.AnthropicModel != "claude-3-haiku-20240307" {
		t.Errorf("anthropic settings not applied: %+v", cfg)
	}
	if cfg.AWSRegion != "eu-west-1" {
		t.Errorf("region: got %q", cfg.AWSRegion)
	}
	if cfg.Temperature != 0.7 || cfg.MaxTokens != 2048 {
		t.Errorf("llm knobs: temp=%v max=%d", cfg.Temperature, cfg.MaxTokens)
	}
	if cfg.DataDir != "/tmp/sk-data" || !cfg.Debug {
		t.Errorf("sk knobs: dir=%q debug=%v", cfg.DataDir, cfg.Debug)
	}
	if got := cfg.SessionsDir(); got != "/tmp/sk-data/sessions" {
		t.Errorf("sessions dir: got %q", got)
	}
	if got := cfg.MCPConfigPath(); got != "/tmp/sk-data/mcp.yaml" {
		t.Errorf("mcp path: got %q", got)
	}
}

func TestLoad_BadNumbersError(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_TEMPERATURE", "hot")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "LLM_TEMPERATURE") {
		t.Fatalf("expected temperature parse error, got %v", err)
	}

	clearEnv(t)
	t.Setenv("LLM_MAX_TOKENS", "many")
	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "LLM_MAX_TOKENS") {
		t.Fatalf("expected max-tokens parse error, got %v", err)
	}
}

func TestValidate_AnthropicNeedsKey(t *testing.T) {
	cfg := config.Config{Provider: config.ProviderAnthropic}
	if err := cfg.Validate(); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	cfg.AnthropicAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected err with key set: %v", err)
	}
}

func TestValidate_BedrockNeedsNothing(t *testing.T) {
	cfg := config.Config{Provider: config.ProviderBedrock}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("bedrock should validate without env: %v", err)
	}
}

func TestProviderDisplayName(t *testing.T) {
	a := config.Config{Provider: config.ProviderAnthropic, AnthropicModel: "m1"}
	if got := a.ProviderDisplayName(); got != "Anthropic Claude (m1)" {
		t.Errorf("got %q", got)
	}
	b := config.Config{Provider: config.ProviderBedrock, BedrockModel: "m2"}
	if got := b.ProviderDisplayName(); got != "AWS Bedrock (m2)" {
		t.Errorf("got %q", got)
	}
}
