// Package engine drives one conversation turn through a two-node state
// machine: respond asks the model, use_tools answers its tool calls, and
// control bounces between them until an assistant message arrives with no
// calls pending.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sidekick-cli/sidekick/internal/chat"
	"github.com/sidekick-cli/sidekick/internal/telemetry"
	"github.com/sidekick-cli/sidekick/tools"
)

// maxRounds bounds node executions per turn so a model that keeps asking
// for tools cannot spin forever.
const maxRounds = 25

// ErrRoundLimit aborts a turn that ran more than maxRounds nodes.
var ErrRoundLimit = errors.New("engine: turn exceeded round limit")

// Model is the one call the engine makes against a language model.
type Model interface {
	Complete(ctx context.Context, msgs []chat.Message, defs []tools.ToolDefinition) (chat.Message, error)
}

// Hooks let the caller render progress without the engine knowing about
// terminals. Any hook may be nil.
type Hooks struct {
	// AssistantText receives the flattened text of each assistant message
	// that has content, before the message joins the sequence.
	AssistantText func(text string)
	// ToolStart fires before each tool call with the raw argument JSON.
	ToolStart func(name, args string)
	// ToolDone fires after each call with the result text and outcome.
	ToolDone func(name, result string, ok bool)
}

type node int

const (
	nodeRespond node = iota
	nodeUseTools
	nodeDone
)

// transition picks the next node from the message respond produced:
// pending tool calls mean use_tools, anything else ends the turn.
func transition(m chat.Message) node {
	if m.HasToolCalls() {
		return nodeUseTools
	}
	return nodeDone
}

// Engine runs turns against one model and one tool registry. It holds no
// conversation state; the caller owns history.
type Engine struct {
	model  Model
	reg    *tools.Registry
	system string
	hooks  Hooks
}

func New(model Model, reg *tools.Registry, system string, hooks Hooks) *Engine {
	return &Engine{model: model, reg: reg, system: system, hooks: hooks}
}

// RunTurn advances the conversation by one user message and returns every
// message the turn created, in order: the injected system message if any,
// the user message, each assistant message, and each tool-result batch.
// A model failure aborts the turn with an error and no messages; tool
// failures never do, they come back as error-flagged tool messages.
func (e *Engine) RunTurn(ctx context.Context, history []chat.Message, userMsg chat.Message) ([]chat.Message, error) {
	if _, ok := telemetry.TurnIDFromContext(ctx); !ok {
		ctx = telemetry.WithTurnID(ctx, uuid.NewString())
	}

	seq := make([]chat.Message, 0, len(history)+2)
	seq = append(seq, history...)
	seq = append(seq, userMsg)
	appended := []chat.Message{userMsg}

	// A brand-new conversation gets the operating rules prepended once;
	// they persist in history from then on.
	if len(seq) == 1 && seq[0].Role != chat.RoleSystem {
		sys := chat.System(e.system)
		seq = append([]chat.Message{sys}, seq...)
		appended = []chat.Message{sys, userMsg}
	}

	if err := chat.ValidateHistory(seq); err != nil {
		return nil, err
	}

	telemetry.Emit(ctx, "turn_start", map[string]any{"history_len": len(history)})

	rounds := 0
	cur := nodeRespond
	for cur != nodeDone {
		rounds++
		if rounds > maxRounds {
			return nil, fmt.Errorf("%w (%d rounds)", ErrRoundLimit, maxRounds)
		}
		switch cur {
		case nodeRespond:
			msg, err := e.respond(ctx, seq)
			if err != nil {
				return nil, err
			}
			seq = append(seq, msg)
			appended = append(appended, msg)
			cur = transition(msg)
		case nodeUseTools:
			results := e.useTools(ctx, seq[len(seq)-1])
			seq = append(seq, results...)
			appended = append(appended, results...)
			// use_tools always hands back to respond.
			cur = nodeRespond
		}
	}

	telemetry.Emit(ctx, "turn_end", map[string]any{"rounds": rounds, "appended": len(appended)})
	return appended, nil
}

func (e *Engine) respond(ctx context.Context, seq []chat.Message) (chat.Message, error) {
	start := time.Now()
	msg, err := e.model.Complete(ctx, seq, e.reg.Definitions())

	fields := map[string]any{
		"duration_ms": time.Since(start).Milliseconds(),
		"input_msgs":  len(seq),
	}
	if err != nil {
		fields["error"] = "model error"
	} else {
		fields["error"] = nil
		fields["tool_calls"] = len(msg.ToolCalls)
	}
	telemetry.Emit(ctx, "model_call", fields)

	if err != nil {
		return chat.Message{}, err
	}
	if !msg.Content.Empty() && e.hooks.AssistantText != nil {
		e.hooks.AssistantText(msg.Content.Flat())
	}
	return msg, nil
}

// useTools answers every call of the triggering assistant message, in
// document order and strictly sequentially. Failures stay in-band: each
// call yields exactly one tool message carrying its call ID, flagged as an
// error when the tool was unknown, failed, or panicked.
func (e *Engine) useTools(ctx context.Context, call chat.Message) []chat.Message {
	out := make([]chat.Message, 0, len(call.ToolCalls))
	for _, tc := range call.ToolCalls {
		if e.hooks.ToolStart != nil {
			e.hooks.ToolStart(tc.Name, string(tc.Args))
		}

		start := time.Now()
		result, ok := e.reg.Invoke(tc.Name, tc.Args)

		// Generic error marker only; raw payloads stay out of telemetry.
		fields := map[string]any{
			"tool_name":   tc.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(tc.Args),
			"output_size": len(result),
		}
		if ok {
			fields["error"] = nil
		} else {
			fields["error"] = "tool error"
		}
		telemetry.Emit(ctx, "tool_exec", fields)

		if e.hooks.ToolDone != nil {
			e.hooks.ToolDone(tc.Name, result, ok)
		}
		out = append(out, chat.ToolResult(tc.ID, result, !ok))
	}
	return out
}
