// Command sidekick is an interactive AI coding assistant for the terminal.
// It speaks to Anthropic Claude directly or through AWS Bedrock, exposes a
// small set of workspace tools plus any configured MCP servers, and
// checkpoints every conversation turn under the data dir.
//
// Usage:
//
//	sidekick [-session id] [-new]
//	sidekick inspect [-session id] [-last n]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/google/uuid"

	"github.com/sidekick-cli/sidekick/internal/config"
	"github.com/sidekick-cli/sidekick/internal/console"
	"github.com/sidekick-cli/sidekick/internal/engine"
	"github.com/sidekick-cli/sidekick/internal/mcp"
	"github.com/sidekick-cli/sidekick/internal/provider"
	"github.com/sidekick-cli/sidekick/internal/session"
	"github.com/sidekick-cli/sidekick/internal/store"
	"github.com/sidekick-cli/sidekick/tools"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "inspect" {
		if err := runInspect(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "sidekick inspect: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fs := flag.NewFlagSet("sidekick", flag.ExitOnError)
	sessionID := fs.String("session", config.DefaultSessionID, "conversation to resume")
	fresh := fs.Bool("new", false, "start a fresh conversation under a random session ID")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sidekick: %v\n", err)
		os.Exit(1)
	}
	log := newLogger(cfg.Debug)
	slog.SetDefault(log)

	con := console.New(os.Stdout)
	con.Banner()

	if err := cfg.Validate(); err != nil {
		con.Error("❌ %v", err)
		con.Warn("Add the key to your .env file, or set LLM_PROVIDER=bedrock to use AWS credentials.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var model engine.Model
	switch cfg.Provider {
	case config.ProviderAnthropic:
		con.Info("🤖 Initializing Anthropic Claude (%s)...", cfg.AnthropicModel)
		model = provider.New(cfg)
	default:
		con.Info("🤖 Initializing AWS Bedrock (%s, %s)...", cfg.BedrockModel, cfg.AWSRegion)
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			con.Error("❌ Failed to load AWS configuration: %v", err)
			con.Warn("Check your AWS credentials (aws configure, AWS_PROFILE, or an instance role).")
			os.Exit(1)
		}
		model = provider.NewBedrock(awsCfg, cfg)
	}

	con.Info("🔧 Loading tools...")
	reg := tools.NewRegistry()
	if err := reg.RegisterAll(tools.Local()...); err != nil {
		fmt.Fprintf(os.Stderr, "sidekick: register local tools: %v\n", err)
		os.Exit(1)
	}
	con.Success("  ✓ Loaded %d local tools", reg.Len())

	mcpFile, err := mcp.LoadFile(cfg.MCPConfigPath())
	if err != nil {
		con.Warn("⚠ Warning: %v", err)
	}
	servers := mcp.Connect(ctx, mcpFile, func(name string, err error) {
		con.Warn("⚠ Warning: Failed to connect to MCP server '%s': %v", name, err)
	})
	defer func() {
		for _, srv := range servers {
			if err := srv.Close(); err != nil {
				log.Debug("close MCP session", "server", srv.Name, "err", err)
			}
		}
	}()

	var mcpEntries []console.ToolEntry
	for _, srv := range servers {
		for _, def := range srv.Tools {
			if err := reg.Register(def); err != nil {
				con.Warn("⚠ Warning: skipping MCP tool '%s': %v", def.Name, err)
				continue
			}
			mcpEntries = append(mcpEntries, console.ToolEntry{Name: def.Name, Description: def.Description})
		}
	}
	if len(mcpEntries) > 0 {
		con.Success("  ✓ Loaded %d MCP tools", len(mcpEntries))
	}

	st, err := store.Open(cfg.SessionsDir())
	if err != nil {
		con.Error("❌ %v", err)
		return
	}

	id := *sessionID
	if *fresh {
		id = uuid.NewString()
	}

	ses := session.New(session.Params{
		SessionID:  id,
		Config:     cfg,
		Model:      model,
		Registry:   reg,
		Store:      st,
		Console:    con,
		Input:      os.Stdin,
		Log:        log,
		LocalTools: entries(tools.Local()),
		MCPTools:   mcpEntries,
	})
	if err := ses.Run(ctx); err != nil {
		con.Error("❌ %v", err)
	}
}

func entries(defs []tools.ToolDefinition) []console.ToolEntry {
	out := make([]console.ToolEntry, 0, len(defs))
	for _, d := range defs {
		out = append(out, console.ToolEntry{Name: d.Name, Description: d.Description})
	}
	return out
}
