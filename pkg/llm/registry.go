package llm

import (
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/registry"
)

// Registry is a name-keyed collection of Providers, letting a workflow
// reference an LLM by name rather than wiring a concrete instance through
// every constructor.
type Registry struct {
	base *registry.BaseRegistry[Provider]
}

// NewRegistry returns an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{base: registry.NewBaseRegistry[Provider]()}
}

// Register adds a provider under name. Registering a name twice is an
// error; Registry offers no way to remove or replace a registered provider.
func (r *Registry) Register(name string, p Provider) error {
	if p == nil {
		return fmt.Errorf("llm registry: provider cannot be nil")
	}
	return r.base.Register(name, p)
}

// Get looks up a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	return r.base.Get(name)
}

// List returns every registered provider, in no particular order.
func (r *Registry) List() []Provider {
	return r.base.List()
}
