package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sidekick-cli/sidekick/internal/chat"
	"github.com/sidekick-cli/sidekick/internal/config"
	"github.com/sidekick-cli/sidekick/internal/store"
	"github.com/sidekick-cli/sidekick/internal/transcript"
)

// previewLimit caps how much of a message body the transcript listing
// shows per message.
const previewLimit = 200

// runInspect prints a stored session as turns with size totals. It never
// touches the model or the tools; it is safe to run while a session is
// live in another terminal.
func runInspect(args []string) error {
	fs := flag.NewFlagSet("sidekick inspect", flag.ExitOnError)
	sessionID := fs.String("session", config.DefaultSessionID, "conversation to inspect")
	last := fs.Int("last", 0, "show only the newest n turns (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.SessionsDir())
	if err != nil {
		return err
	}
	history, err := st.Load(*sessionID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Printf("session %q is empty (%s)\n", *sessionID, st.Path(*sessionID))
		return nil
	}

	t := transcript.Group(history).Last(*last)

	fmt.Printf("session %q (%s)\n", *sessionID, st.Path(*sessionID))
	if t.System != nil {
		s := transcript.Measure([]chat.Message{*t.System})
		fmt.Printf("\n⚙ system prompt: %d bytes, ~%d tokens\n", s.Bytes, s.ApproxTokens)
	}

	for _, turn := range t.Turns {
		size := turn.Size()
		fmt.Printf("\n── turn %d ─ %d messages, ~%d tokens ──\n", turn.Index, size.Messages, size.ApproxTokens)
		for _, m := range turn.Messages {
			printMessage(m)
		}
	}

	total := t.Size()
	fmt.Printf("\ntotal: %d messages, %d turns, %d bytes, %d words, ~%d tokens\n",
		total.Messages, len(t.Turns), total.Bytes, total.Words, total.ApproxTokens)
	return nil
}

func printMessage(m chat.Message) {
	fmt.Printf("%s %s\n", roleBadge(m), preview(m.Content.Flat()))
	for _, tc := range m.ToolCalls {
		fmt.Printf("   ↳ call %s %s(%s)\n", tc.ID, tc.Name, preview(string(tc.Args)))
	}
	if m.Role == chat.RoleTool && m.IsError {
		fmt.Printf("   (tool reported an error, call %s)\n", m.ToolCallID)
	}
}

func roleBadge(m chat.Message) string {
	switch m.Role {
	case chat.RoleSystem:
		return "⚙ system   "
	case chat.RoleUser:
		return "👤 user     "
	case chat.RoleAssistant:
		return "🤖 assistant"
	case chat.RoleTool:
		return "🔧 tool     "
	default:
		return string(m.Role)
	}
}

// preview flattens text onto one line and truncates it for the listing.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLimit {
		return s
	}
	return string(r[:previewLimit]) + "…"
}
