// Package subagent implements delegation to specialized sub-agents: a
// SubAgentSpec registry, state isolation across the delegation boundary,
// and the task tool + middleware the parent agent uses to invoke them.
package subagent

import (
	"github.com/kadirpekel/deepagent-go/pkg/registry"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
)

// SubAgentSpec is a named sub-agent profile: its own system prompt and,
// optionally, its own tool set and model override. A nil Tools means "use
// the parent's tool set"; an empty Model means "use the parent's default
// provider".
type SubAgentSpec struct {
	Name         string
	Description  string
	SystemPrompt string
	Tools        []tool.Tool
	Model        string
}

// SpecOption configures a SubAgentSpec at construction time.
type SpecOption func(*SubAgentSpec)

// WithSystemPrompt sets the sub-agent's system prompt.
func WithSystemPrompt(prompt string) SpecOption {
	return func(s *SubAgentSpec) { s.SystemPrompt = prompt }
}

// WithTools overrides the parent's tool set for this sub-agent.
func WithTools(tools ...tool.Tool) SpecOption {
	return func(s *SubAgentSpec) { s.Tools = tools }
}

// WithModel overrides the provider this sub-agent runs against, looked up
// by name in the Registry the parent's SubAgentMiddleware was configured
// with.
func WithModel(model string) SpecOption {
	return func(s *SubAgentSpec) { s.Model = model }
}

// NewSpec builds a SubAgentSpec from a name and human-facing description
// (the description is what the parent LLM sees when deciding which
// subagent_type to delegate to).
func NewSpec(name, description string, opts ...SpecOption) SubAgentSpec {
	s := SubAgentSpec{Name: name, Description: description}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Registry maps sub-agent names to their specs.
type Registry struct {
	base *registry.BaseRegistry[SubAgentSpec]
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{base: registry.NewBaseRegistry[SubAgentSpec]()}
}

// Register adds spec under spec.Name. Registering a name twice is an error.
func (r *Registry) Register(spec SubAgentSpec) error {
	return r.base.Register(spec.Name, spec)
}

// Get looks up a spec by name.
func (r *Registry) Get(name string) (SubAgentSpec, bool) {
	return r.base.Get(name)
}

// List returns every registered spec.
func (r *Registry) List() []SubAgentSpec {
	return r.base.List()
}
