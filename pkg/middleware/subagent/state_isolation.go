package subagent

import "github.com/kadirpekel/deepagent-go/pkg/state"

// isolateState builds the AgentState a sub-agent runs against: a clone of
// the parent with its own conversation, todo list, and structured response
// cleared and re-seeded with a single user-role message carrying prompt.
// Files start as a copy of the parent's map — the sub-agent's file
// mutations are meant to persist back through the common backend, but
// since Clone deep-copies Files too, the caller must diff the sub-agent's
// post-run Files against this snapshot (state.FilesDiff) and re-apply the
// delta to the parent; conversation and todos never leak either direction.
func isolateState(parent *state.AgentState, prompt string) *state.AgentState {
	iso := parent.Clone()
	iso.Messages = []state.Message{state.NewUserMessage(prompt)}
	iso.Todos = nil
	iso.StructuredResponse = nil
	return iso
}
