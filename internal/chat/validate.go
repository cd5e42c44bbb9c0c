package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrMisplacedSystem flags a system message anywhere but the start.
	ErrMisplacedSystem = errors.New("chat: system message after the start of history")
	// ErrBadToolRef flags a tool message whose back-reference matches no
	// pending call of the nearest preceding assistant message.
	ErrBadToolRef = errors.New("chat: tool result without a matching tool call")
	// ErrDanglingCalls flags tool calls that were never answered before the
	// history moved on.
	ErrDanglingCalls = errors.New("chat: assistant tool calls left unanswered")
)

// ValidateHistory checks the structural invariants of a message sequence:
// at most one system message, only at index 0; every tool message answers a
// call issued by the immediately preceding assistant message, each call
// answered exactly once and before any other message follows.
func ValidateHistory(msgs []Message) error {
	var pending map[string]struct{}
	for i, m := range msgs {
		switch m.Role {
		case RoleSystem:
			if i != 0 {
				return fmt.Errorf("%w (index %d)", ErrMisplacedSystem, i)
			}
		case RoleTool:
			if _, ok := pending[m.ToolCallID]; !ok {
				return fmt.Errorf("%w: %q (index %d)", ErrBadToolRef, m.ToolCallID, i)
			}
			delete(pending, m.ToolCallID)
		default:
			if len(pending) > 0 {
				return fmt.Errorf("%w (index %d)", ErrDanglingCalls, i)
			}
			if m.HasToolCalls() {
				pending = make(map[string]struct{}, len(m.ToolCalls))
				for _, tc := range m.ToolCalls {
					pending[tc.ID] = struct{}{}
				}
			}
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w (at end of history)", ErrDanglingCalls)
	}
	return nil
}
