// Package filesystem implements the prompt-injecting middleware that
// gives an agent the core filesystem tools (ls, read_file, write_file,
// edit_file, glob, grep) over a Backend, plus usage guidance.
package filesystem

import (
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/tool/filetool"
)

// DefaultSystemPrompt is appended to the base system prompt unless a
// custom one is supplied via WithSystemPrompt.
const DefaultSystemPrompt = "## Filesystem tools `ls`, `read_file`, `write_file`, `edit_file`, `glob`, `grep`\n" +
	"You can access a filesystem with these tools. All file paths must start with `/`.\n" +
	"- ls: list directory contents (absolute path required)\n" +
	"- read_file: read file contents with optional pagination (offset/limit)\n" +
	"- write_file: create a new file (avoid overwriting existing files)\n" +
	"- edit_file: exact string replacement (read the file first)\n" +
	"- glob: find files by pattern (e.g., \"**/*.go\")\n" +
	"- grep: literal text search within files"

// Middleware injects the filesystem tools and usage guidance.
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

// New returns a filesystem Middleware bound to be.
func New(be backend.Backend, opts ...Option) (*Middleware, error) {
	tools, err := filetool.Tools(be)
	if err != nil {
		return nil, fmt.Errorf("filesystem middleware: %w", err)
	}

	m := &Middleware{tools: tools, systemPrompt: DefaultSystemPrompt}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Middleware) Name() string       { return "filesystem" }
func (m *Middleware) Tools() []tool.Tool { return m.tools }

func (m *Middleware) ModifySystemPrompt(prompt string) string {
	if m.systemPrompt == "" {
		return prompt
	}
	return prompt + "\n\n" + m.systemPrompt
}
