// Package todolist implements the prompt-injecting middleware that gives
// an agent the write_todos/read_todos tools plus guidance on when to
// plan multi-step work with them.
package todolist

import (
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/tool/todotool"
)

// DefaultSystemPrompt is appended to the base system prompt unless a
// custom one is supplied via WithSystemPrompt.
const DefaultSystemPrompt = `## Planning with ` + "`write_todos`" + `
Use ` + "`write_todos`" + ` for multi-step tasks (3+ steps).
Each todo item has ` + "`content`" + ` and ` + "`status`" + ` (pending, in_progress, completed).
Update the list as you work: mark items in_progress before starting and completed immediately after finishing.`

// Middleware injects the todo tools and planning guidance.
type Middleware struct {
	middleware.Base
	tools        []tool.Tool
	systemPrompt string
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithSystemPrompt overrides the appended guidance text.
func WithSystemPrompt(prompt string) Option {
	return func(m *Middleware) { m.systemPrompt = prompt }
}

// New returns a todolist Middleware. It panics only if the underlying
// tool constructors fail, which happens only on a programmer error in
// their static config (never at runtime).
func New(opts ...Option) *Middleware {
	writeTodos, err := todotool.New()
	if err != nil {
		panic(err)
	}
	readTodos, err := todotool.NewRead()
	if err != nil {
		panic(err)
	}

	m := &Middleware{
		tools:        []tool.Tool{readTodos, writeTodos},
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Name() string    { return "todo_list" }
func (m *Middleware) Tools() []tool.Tool { return m.tools }

func (m *Middleware) ModifySystemPrompt(prompt string) string {
	if m.systemPrompt == "" {
		return prompt
	}
	return prompt + "\n\n" + m.systemPrompt
}
