package subagent

import (
	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
)

// DefaultSystemPrompt explains the task tool's contract to the parent LLM.
const DefaultSystemPrompt = `## Task Delegation

You have access to a "task" tool to delegate work to specialized sub-agents.
Each sub-agent runs in its own isolated context (it sees only the prompt
you give it, not your conversation history) and reports back a single
result.

Guidelines:
- Bias toward one sub-agent at a time; delegate to several only for
  clearly independent work.
- Give each sub-agent a self-contained prompt — it cannot see anything
  you haven't put in that prompt.
- Pick subagent_type from the sub-agents available to you.`

// Config wires a SubAgentMiddleware to its registry, the provider(s) and
// backend sub-agent runs use, and the tool/prompt stack a sub-agent falls
// back to when its spec doesn't override one.
type Config struct {
	Registry              *Registry
	DefaultProvider       llm.Provider
	Providers             *llm.Registry        // optional; resolves SubAgentSpec.Model overrides
	Backend               backend.Backend
	Pipeline              *middleware.Pipeline // shared tool/prompt stack, used unless a spec overrides Tools
	SubAgentMaxIterations int                   // 0 means executor.DefaultMaxIterations
	SystemPrompt          string                // empty means DefaultSystemPrompt
}

// Middleware injects the task tool and its usage guidance into the
// parent's pipeline.
type Middleware struct {
	middleware.Base
	cfg  Config
	task tool.Tool
}

// New builds a subagent Middleware. It panics only on a static
// functiontool-schema construction failure, which would indicate a
// programmer error in TaskArgs, not a runtime condition.
func New(cfg Config) *Middleware {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	t, err := newTaskTool(cfg)
	if err != nil {
		panic("subagent: failed to build task tool: " + err.Error())
	}
	return &Middleware{cfg: cfg, task: t}
}

func (m *Middleware) Name() string { return "subagent" }

func (m *Middleware) Tools() []tool.Tool { return []tool.Tool{m.task} }

func (m *Middleware) ModifySystemPrompt(prompt string) string {
	if prompt == "" {
		return m.cfg.SystemPrompt
	}
	return prompt + "\n\n" + m.cfg.SystemPrompt
}
