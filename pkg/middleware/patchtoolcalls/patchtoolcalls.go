// Package patchtoolcalls implements a middleware that repairs dangling
// tool calls in a conversation's message history: an assistant message
// whose tool calls have no matching tool-role reply, left behind by an
// interrupted run, a manually edited transcript, or a resumed checkpoint.
package patchtoolcalls

import (
	"context"
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

const defaultCancellationMessage = "Tool call was cancelled - another message arrived before completion."

// Middleware patches dangling tool calls before each agent run.
type Middleware struct {
	middleware.Base
	cancellationMessage string
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithMessage overrides the synthetic cancellation message.
func WithMessage(msg string) Option {
	return func(m *Middleware) { m.cancellationMessage = msg }
}

// New returns a patchtoolcalls Middleware.
func New(opts ...Option) *Middleware {
	m := &Middleware{cancellationMessage: defaultCancellationMessage}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Name() string { return "patch_tool_calls" }

type danglingCall struct {
	messageIndex int
	id           string
	name         string
}

func findDangling(messages []state.Message) []danglingCall {
	responded := make(map[string]struct{})
	for _, msg := range messages {
		if msg.Role == state.RoleTool && msg.ToolCallID != "" {
			responded[msg.ToolCallID] = struct{}{}
		}
	}

	var dangling []danglingCall
	for i, msg := range messages {
		if msg.Role != state.RoleAssistant {
			continue
		}
		for _, tc := range msg.ToolCalls {
			if _, ok := responded[tc.ID]; !ok {
				dangling = append(dangling, danglingCall{messageIndex: i, id: tc.ID, name: tc.Name})
			}
		}
	}
	return dangling
}

// BeforeAgent scans state.Messages for dangling tool calls and, if any are
// found, returns a SetMessages update inserting a synthetic tool-role
// reply for each immediately after its owning assistant message.
func (m *Middleware) BeforeAgent(ctx context.Context, st *state.AgentState, rt toolruntime.Runtime) (*state.StateUpdate, error) {
	if len(st.Messages) == 0 {
		return nil, nil
	}

	dangling := findDangling(st.Messages)
	if len(dangling) == 0 {
		return nil, nil
	}

	byIndex := make(map[int][]danglingCall)
	for _, d := range dangling {
		byIndex[d.messageIndex] = append(byIndex[d.messageIndex], d)
	}

	patched := make([]state.Message, 0, len(st.Messages)+len(dangling))
	for i, msg := range st.Messages {
		patched = append(patched, msg)
		for _, d := range byIndex[i] {
			content := fmt.Sprintf("Tool call %q (ID: %s) was cancelled. %s", d.name, d.id, m.cancellationMessage)
			patched = append(patched, state.NewToolMessage(d.id, content))
		}
	}

	upd := state.SetMessages(patched)
	return &upd, nil
}
