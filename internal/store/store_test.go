package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sidekick-cli/sidekick/internal/chat"
	"github.com/sidekick-cli/sidekick/internal/store"
)

func open(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestLoad_UnknownSessionIsEmpty(t *testing.T) {
	s := open(t)
	got, err := s.Load("never-seen")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(got))
	}
}

func TestAppendThenLoad_SuffixMatches(t *testing.T) {
	s := open(t)
	first := []chat.Message{chat.System("rules"), chat.User("hi"), chat.Assistant("hello")}
	if err := s.Append("sess", first); err != nil {
		t.Fatalf("append: %v", err)
	}
	second := []chat.Message{
		chat.User("list files"),
		{
			Role:      chat.RoleAssistant,
			Content:   chat.BlockSeq(chat.Block{Type: "text", Text: "on it"}),
			ToolCalls: []chat.ToolCall{{ID: "c1", Name: "list_files", Args: json.RawMessage(`{"path":"."}`)}},
		},
		chat.ToolResult("c1", `["a.go"]`, false),
		chat.Assistant("that's everything"),
	}
	if err := s.Append("sess", second); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.Load("sess")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(first)+len(second) {
		t.Fatalf("expected %d messages, got %d", len(first)+len(second), len(got))
	}
	suffix := got[len(first):]
	for i := range second {
		if suffix[i].Role != second[i].Role {
			t.Fatalf("message %d: role %q, want %q", i, suffix[i].Role, second[i].Role)
		}
	}
	if suffix[1].ToolCalls[0].ID != "c1" || suffix[2].ToolCallID != "c1" {
		t.Fatal("tool call pairing lost across the store")
	}
	if suffix[1].Content.Blocks == nil {
		t.Fatal("block content collapsed across the store")
	}
}

func TestLoad_DropsTornTail(t *testing.T) {
	s := open(t)
	if err := s.Append("sess", []chat.Message{chat.User("one")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Simulate a crash mid-append: a truncated line at the end of the file.
	f, err := os.OpenFile(s.Path("sess"), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	if _, err := f.WriteString(`{"at":"2026-01-01T00:00:00Z","msgs":[{"role":"us`); err != nil {
		t.Fatalf("write torn: %v", err)
	}
	f.Close()

	got, err := s.Load("sess")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Content.Text != "one" {
		t.Fatalf("expected only the committed batch, got %+v", got)
	}
}

func TestLoad_RejectsHoleInMiddle(t *testing.T) {
	s := open(t)
	if err := s.Append("sess", []chat.Message{chat.User("one")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(s.Path("sess"), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	if _, err := f.WriteString("{broken\n"); err != nil {
		t.Fatalf("write broken: %v", err)
	}
	f.Close()
	if err := s.Append("sess", []chat.Message{chat.User("two")}); err != nil {
		t.Fatalf("append after broken line: %v", err)
	}

	if _, err := s.Load("sess"); err == nil || !strings.Contains(err.Error(), "corrupt") {
		t.Fatalf("expected corruption error, got %v", err)
	}
}

func TestAppend_EmptyBatchIsNoop(t *testing.T) {
	s := open(t)
	if err := s.Append("sess", nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := os.Stat(s.Path("sess")); !os.IsNotExist(err) {
		t.Fatal("empty append should not create the session file")
	}
}

func TestSessionIDsAreSanitised(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, id := range []string{"a/b", "../../etc/passwd", "..", "week 12"} {
		if err := s.Append(id, []chat.Message{chat.User("x")}); err != nil {
			t.Fatalf("append %q: %v", id, err)
		}
		got, err := s.Load(id)
		if err != nil || len(got) != 1 {
			t.Fatalf("load %q: %v (%d msgs)", id, err, len(got))
		}
		if filepath.Dir(s.Path(id)) != dir {
			t.Fatalf("path for %q escapes the store dir: %s", id, s.Path(id))
		}
	}
}
