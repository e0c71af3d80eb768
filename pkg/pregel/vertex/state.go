// Package vertex provides the seven node kinds spec.md §4.9 compiles
// into Pregel vertices (Agent, Tool, Router, SubAgent, FanOut, FanIn,
// Passthrough), all sharing one concrete WorkflowState: GraphState, a
// conversation-shaped workflow state (messages, a free-form data map,
// and files) general enough for any of the seven kinds to read and
// write through.
package vertex

import (
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/state"
)

// GraphUpdate is the StateUpdate every node kind in this package
// produces: appended messages, a set of keyed data values, a file-map
// delta (a nil entry deletes the path, matching state.StateUpdate.Files),
// and an optional terminal flag.
type GraphUpdate struct {
	Messages []state.Message
	Data     map[string]any
	Files    map[string]*state.FileData
	Terminal bool
}

// IsEmpty reports whether applying this update would change nothing.
func (u GraphUpdate) IsEmpty() bool {
	return len(u.Messages) == 0 && len(u.Data) == 0 && len(u.Files) == 0 && !u.Terminal
}

// GraphState is the shared state a graph of vertex-package node kinds
// operates over.
type GraphState struct {
	Messages []state.Message
	Data     map[string]any
	Files    map[string]state.FileData
	Terminal bool
}

// NewGraphState returns an empty GraphState ready for use.
func NewGraphState() GraphState {
	return GraphState{Data: map[string]any{}}
}

// ApplyUpdate returns a new GraphState with u folded in. The receiver is
// left unmodified. A nil entry in u.Files deletes that path; any other
// entry sets it.
func (s GraphState) ApplyUpdate(u GraphUpdate) pregel.WorkflowState[GraphUpdate] {
	next := s.clone()
	next.Messages = append(next.Messages, u.Messages...)
	for k, v := range u.Data {
		next.Data[k] = v
	}
	for path, fd := range u.Files {
		if fd == nil {
			delete(next.Files, path)
			continue
		}
		next.Files[path] = *fd
	}
	if u.Terminal {
		next.Terminal = true
	}
	return next
}

// MergeUpdates concatenates messages in input order, last-write-wins on
// data keys and file paths, and ORs the terminal flag across all updates
// produced in one superstep.
func (s GraphState) MergeUpdates(updates []GraphUpdate) GraphUpdate {
	merged := GraphUpdate{Data: map[string]any{}}
	for _, u := range updates {
		merged.Messages = append(merged.Messages, u.Messages...)
		for k, v := range u.Data {
			merged.Data[k] = v
		}
		for path, fd := range u.Files {
			if merged.Files == nil {
				merged.Files = map[string]*state.FileData{}
			}
			merged.Files[path] = fd
		}
		if u.Terminal {
			merged.Terminal = true
		}
	}
	return merged
}

// IsTerminal reports whether any applied update has set the terminal flag.
func (s GraphState) IsTerminal() bool { return s.Terminal }

func (s GraphState) clone() GraphState {
	data := make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	files := make(map[string]state.FileData, len(s.Files))
	for k, v := range s.Files {
		files[k] = v
	}
	return GraphState{
		Messages: append([]state.Message(nil), s.Messages...),
		Data:     data,
		Files:    files,
		Terminal: s.Terminal,
	}
}

// LastMessage returns the last message appended to s, if any.
func (s GraphState) LastMessage() (state.Message, bool) {
	if len(s.Messages) == 0 {
		return state.Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// asGraphState type-asserts a pregel.WorkflowState[GraphUpdate] snapshot
// back to the concrete GraphState every node kind in this package
// expects. It panics if the runtime running these vertices was started
// with a WorkflowState[GraphUpdate] other than GraphState.
func asGraphState(s pregel.WorkflowState[GraphUpdate]) GraphState {
	return s.(GraphState)
}
