// Package session runs the interactive loop: prompt, read, dispatch,
// turn, checkpoint. It is the top-level recovery boundary; nothing that
// happens inside an iteration ends the process.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sidekick-cli/sidekick/internal/chat"
	"github.com/sidekick-cli/sidekick/internal/config"
	"github.com/sidekick-cli/sidekick/internal/console"
	"github.com/sidekick-cli/sidekick/internal/engine"
	"github.com/sidekick-cli/sidekick/internal/options"
	"github.com/sidekick-cli/sidekick/internal/store"
	"github.com/sidekick-cli/sidekick/internal/telemetry"
	"github.com/sidekick-cli/sidekick/tools"
)

const systemPrompt = `You are a minimalist AI coding assistant.

Your capabilities:
- Read and analyze code files
- List, search, and inspect files in the workspace
- Write files inside the workspace
- Run Go tests
- Use any connected MCP tools

CRITICAL RULES:
1. DO NOT execute tools unless explicitly asked by the user
2. When the user gives a vague input (like just a name), ASK what they want to do - DON'T assume
3. Only use tools when the user clearly requests an action (read file, run tests, list files, etc.)
4. If unclear what the user wants, present numbered options and wait for their choice

When you need to ask the user what they want:
- Use NUMBERED lists (1. 2. 3. etc.) instead of bullet points
- Tell users they can just type the number to select that option
- Make options clear and actionable
- Example: "What would you like to do? (Type a number)
  1. List all Go files
  2. Run tests
  3. Read a specific file
  4. Something else (please describe)"

Be concise and helpful. Only execute tools when explicitly requested.`

// quickStart seeds the Option Index at startup; the numbers shown in the
// panel resolve to these requests.
var quickStart = []string{
	"List all files in current directory",
	"Show available tools",
	"Run the tests",
	"Read the README.md file",
	"Search for code in the project",
}

// Params wires a session together. Input is split from Console so tests
// can drive the loop with a reader.
type Params struct {
	SessionID  string
	Config     config.Config
	Model      engine.Model
	Registry   *tools.Registry
	Store      *store.Store
	Console    *console.Console
	Input      io.Reader
	Log        *slog.Logger
	LocalTools []console.ToolEntry
	MCPTools   []console.ToolEntry
}

// Session owns one interactive conversation.
type Session struct {
	id    string
	cfg   config.Config
	eng   *engine.Engine
	st    *store.Store
	con   *console.Console
	in    io.Reader
	opts  *options.Index
	log   *slog.Logger
	local []console.ToolEntry
	mcp   []console.ToolEntry
}

func New(p Params) *Session {
	s := &Session{
		id:    p.SessionID,
		cfg:   p.Config,
		st:    p.Store,
		con:   p.Console,
		in:    p.Input,
		opts:  options.NewIndex(),
		log:   p.Log,
		local: p.LocalTools,
		mcp:   p.MCPTools,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.eng = engine.New(p.Model, p.Registry, systemPrompt, engine.Hooks{
		AssistantText: s.showAssistant,
		ToolStart:     s.con.ToolNotice,
		ToolDone:      s.con.ToolResult,
	})
	return s
}

// showAssistant renders assistant text with bullet lines rewritten as
// numbered options. What the model actually said still goes to history
// verbatim; only the display changes.
func (s *Session) showAssistant(text string) {
	s.con.AssistantPanel(s.opts.Rebuild(text))
}

// Run drives the loop until exit, EOF, or context cancellation. Errors
// inside an iteration are reported in-band and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	s.opts.Seed(seedMap(quickStart))
	s.con.QuickStart(s.cfg.ProviderDisplayName(), quickStart)

	telemetry.Emit(ctx, "session_start", map[string]any{"session_id": s.id})

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
		close(lines)
	}()

	for {
		s.con.Prompt()

		var raw string
		var open bool
		select {
		case <-ctx.Done():
			s.con.Goodbye()
			return nil
		case raw, open = <-lines:
			if !open {
				if err := <-scanErr; err != nil {
					s.log.Debug("input closed", "err", err)
				}
				s.con.Goodbye()
				return nil
			}
		}

		input := strings.TrimSpace(raw)
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			s.con.Goodbye()
			return nil
		case "help":
			s.con.HelpPanel()
			continue
		case "tools":
			s.con.ToolsPanel(s.local, s.mcp)
			continue
		case "config":
			s.con.ConfigPanel(s.cfg.ProviderDisplayName(), s.cfg.Temperature, s.cfg.MaxTokens, s.cfg.AWSRegion, s.cfg.DataDir)
			continue
		}

		if err := s.runTurn(ctx, raw); err != nil {
			s.report(ctx, err)
		}
	}
}

// runTurn resolves the input, replays the stored history through the
// engine, and commits everything the turn produced as one batch. A failed
// turn commits nothing.
func (s *Session) runTurn(ctx context.Context, raw string) error {
	text, selected := s.opts.Consume(raw)
	if selected {
		s.con.SelectionEcho(text)
	}

	ctx = telemetry.WithTurnID(ctx, uuid.NewString())

	history, err := s.st.Load(s.id)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	appended, err := s.eng.RunTurn(ctx, history, chat.User(text))
	if err != nil {
		return err
	}
	if err := s.st.Append(s.id, appended); err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	telemetry.Emit(ctx, "append", map[string]any{"session_id": s.id, "messages": len(appended)})
	s.log.Debug("turn committed", "session", s.id, "messages", len(appended))
	return nil
}

func (s *Session) report(ctx context.Context, err error) {
	telemetry.Emit(ctx, "loop_error", map[string]any{"error": err.Error()})
	s.log.Debug("turn failed", "err", err)
	s.con.Error("❌ Error: %v", err)
	s.con.Warn("Continuing... Type 'exit' to quit")
}

func seedMap(opts []string) map[string]string {
	m := make(map[string]string, len(opts))
	for i, o := range opts {
		m[strconv.Itoa(i+1)] = o
	}
	return m
}
