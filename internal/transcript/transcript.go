// Package transcript carves a stored conversation history into turns and
// measures it, for offline inspection of a session.
package transcript

import (
	"strings"
	"unicode/utf8"

	"github.com/sidekick-cli/sidekick/internal/chat"
)

// Turn is one user request and everything the conversation produced for
// it: the opening user message, then assistant replies and tool results up
// to the next user message.
type Turn struct {
	Index    int
	Messages []chat.Message
}

// Transcript is a history carved into turns. The system message, when
// present, stands apart from any turn.
type Transcript struct {
	System *chat.Message
	Turns  []Turn
}

// Group splits history into turns: a user message opens a turn and every
// following non-user message belongs to it. A history that starts with a
// non-user message (after the system prompt) still opens a first turn, so
// nothing is ever dropped.
func Group(history []chat.Message) Transcript {
	var tr Transcript
	start := 0
	if len(history) > 0 && history[0].Role == chat.RoleSystem {
		sys := history[0]
		tr.System = &sys
		start = 1
	}
	for _, m := range history[start:] {
		if m.Role == chat.RoleUser || len(tr.Turns) == 0 {
			tr.Turns = append(tr.Turns, Turn{Index: len(tr.Turns) + 1, Messages: []chat.Message{m}})
			continue
		}
		last := &tr.Turns[len(tr.Turns)-1]
		last.Messages = append(last.Messages, m)
	}
	return tr
}

// Last keeps only the newest n turns. The system message survives; n <= 0
// or n beyond the turn count leaves the transcript unchanged.
func (t Transcript) Last(n int) Transcript {
	if n <= 0 || n >= len(t.Turns) {
		return t
	}
	t.Turns = t.Turns[len(t.Turns)-n:]
	return t
}

// Size aggregates text measures over messages. ApproxTokens divides the
// rune count by four, a deliberately crude constant-factor estimate that
// needs no tokenizer.
type Size struct {
	Messages     int
	Bytes        int
	Runes        int
	Words        int
	Lines        int
	ApproxTokens int
}

// Measure sums the flattened content of msgs. Tool-call argument payloads
// count too; they travel with the message on the wire.
func Measure(msgs []chat.Message) Size {
	var s Size
	s.Messages = len(msgs)
	for _, m := range msgs {
		text := m.Content.Flat()
		s.Bytes += len(text)
		s.Runes += utf8.RuneCountInString(text)
		s.Words += len(strings.Fields(text))
		s.Lines += countLines(text)
		for _, tc := range m.ToolCalls {
			s.Bytes += len(tc.Args)
			s.Runes += utf8.RuneCount(tc.Args)
		}
	}
	s.ApproxTokens = s.Runes / 4
	return s
}

// Size measures one turn.
func (t Turn) Size() Size {
	return Measure(t.Messages)
}

// Size measures the whole transcript, system message included.
func (t Transcript) Size() Size {
	all := make([]chat.Message, 0, len(t.Turns)*2+1)
	if t.System != nil {
		all = append(all, *t.System)
	}
	for _, turn := range t.Turns {
		all = append(all, turn.Messages...)
	}
	return Measure(all)
}

// countLines returns 0 for empty strings, otherwise 1 plus the newline count.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
