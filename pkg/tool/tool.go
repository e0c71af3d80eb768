// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tool defines the Tool contract that agents invoke: a small
// capability interface over {Definition, Execute}, a name-keyed Registry,
// and the declarative StateUpdate values a tool uses to mutate AgentState.
//
// A tool never mutates state by side channel. Its execution returns a
// ToolResult carrying a message plus a list of StateUpdates; the executor
// applies those updates before appending the tool-role reply message.
package tool

import (
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// Definition is the LLM-facing shape of a tool: name, description, and a
// JSON-schema object describing its parameters.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolResult is what a tool's Execute returns on success.
type ToolResult struct {
	Message string
	Updates []state.StateUpdate
}

// Tool is the single polymorphism point for agent capabilities.
type Tool interface {
	Definition() Definition
	Execute(args map[string]any, rt toolruntime.Runtime) (ToolResult, error)
}

// Registry maps tool names to instances. Registering a name that already
// exists overwrites the previous entry (last-wins), which is how
// middleware-level tool overrides are expressed.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds or overwrites a tool by name.
func (r *Registry) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns every registered tool in registration order (later
// registrations of an existing name keep their original position).
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Definitions returns the Definition of every registered tool, in the same
// order as List.
func (r *Registry) Definitions() []Definition {
	tools := r.List()
	defs := make([]Definition, len(tools))
	for i, t := range tools {
		defs[i] = t.Definition()
	}
	return defs
}

// ErrNotFound is returned by a lookup helper when a tool name is absent;
// callers in the executor path instead synthesize a tool-role error
// message rather than propagate this as a hard error (see spec's error
// handling policy: tool failures are conversation content, not exceptions).
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}
