// Package config loads runtime configuration from the environment, with an
// optional .env file for local development. Real environment variables win
// over .env entries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider selects which backend serves model calls.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

const (
	DefaultSessionID      = "default_session"
	DefaultDataDir        = ".sidekick"
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"
	DefaultBedrockModel   = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	DefaultAWSRegion      = "us-east-1"
	DefaultMaxTokens      = 4096
)

// ErrMissingAPIKey is returned by Validate when the Anthropic provider is
// selected without a key.
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY is required when using the Anthropic provider")

// Config carries every knob the assistant reads at startup.
type Config struct {
	Provider        Provider
	AnthropicAPIKey string
	AnthropicModel  string
	AWSRegion       string
	BedrockModel    string
	Temperature     float64
	MaxTokens       int64
	DataDir         string
	SandboxRoot     string
	Debug           bool
}

// Load reads configuration from the environment. LLM_PROVIDER values
// "anthropic" and "claude" (any case) select Anthropic; anything else,
// including unset, selects Bedrock.
func Load() (Config, error) {
	_ = godotenv.Load() // best effort; absent .env is the normal case

	cfg := Config{
		Provider:       ProviderBedrock,
		AnthropicModel: DefaultAnthropicModel,
		AWSRegion:      DefaultAWSRegion,
		BedrockModel:   DefaultBedrockModel,
		Temperature:    0,
		MaxTokens:      DefaultMaxTokens,
		DataDir:        DefaultDataDir,
	}

	switch strings.ToLower(os.Getenv("LLM_PROVIDER")) {
	case "anthropic", "claude":
		cfg.Provider = ProviderAnthropic
	}

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
		cfg.AnthropicModel = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.AWSRegion = v
	}
	if v := os.Getenv("BEDROCK_MODEL"); v != "" {
		cfg.BedrockModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid LLM_TEMPERATURE %q: %w", v, err)
		}
		cfg.Temperature = f
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid LLM_MAX_TOKENS %q: %w", v, err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("SK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	cfg.SandboxRoot = os.Getenv("SK_SANDBOX_ROOT")
	cfg.Debug = os.Getenv("SK_DEBUG") == "1"

	return cfg, nil
}

// Validate checks that the selected provider is usable. Bedrock defers
// credential checks to the AWS SDK's default chain, so only the Anthropic
// key is enforced here.
func (c Config) Validate() error {
	if c.Provider == ProviderAnthropic && c.AnthropicAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ProviderDisplayName returns the human-readable provider label used by the
// banner and the config panel.
func (c Config) ProviderDisplayName() string {
	if c.Provider == ProviderAnthropic {
		return fmt.Sprintf("Anthropic Claude (%s)", c.AnthropicModel)
	}
	return fmt.Sprintf("AWS Bedrock (%s)", c.BedrockModel)
}

// SessionsDir is where the checkpoint store keeps session files.
func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// MCPConfigPath is the optional MCP servers file.
func (c Config) MCPConfigPath() string {
	return filepath.Join(c.DataDir, "mcp.yaml")
}
