// Package todotool implements the write_todos core tool: the LLM's only
// sanctioned way to mutate AgentState.Todos.
package todotool

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/tool/functiontool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

type todoItem struct {
	Content string `json:"content" jsonschema:"required,description=Todo item text"`
	Status  string `json:"status,omitempty" jsonschema:"description=One of pending, in_progress, completed,default=pending"`
}

type writeTodosArgs struct {
	Todos []todoItem `json:"todos" jsonschema:"required,description=The full replacement todo list"`
}

type readTodosArgs struct{}

// NewRead returns the read_todos tool: it reports the current todo list
// without mutating state.
func NewRead() (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{
			Name:        "read_todos",
			Description: "Read the agent's current working todo list.",
		},
		func(args readTodosArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			if rt.State == nil || len(rt.State.Todos) == 0 {
				return tool.ToolResult{Message: "(todo list is empty)"}, nil
			}
			var sb strings.Builder
			for _, t := range rt.State.Todos {
				fmt.Fprintf(&sb, "[%s] %s\n", t.Status, t.Content)
			}
			return tool.ToolResult{Message: sb.String()}, nil
		},
	)
}

// New returns the write_todos tool: it replaces the entire todo list with
// the list given, matching the executor's SetTodos StateUpdate semantics.
func New() (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{
			Name:        "write_todos",
			Description: "Replace the agent's working todo list with the given items.",
		},
		func(args writeTodosArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			todos := make([]state.Todo, 0, len(args.Todos))
			for _, item := range args.Todos {
				status := state.TodoStatus(item.Status)
				switch status {
				case state.TodoPending, state.TodoInProgress, state.TodoCompleted:
				case "":
					status = state.TodoPending
				default:
					return tool.ToolResult{}, fmt.Errorf("invalid todo status: %q", item.Status)
				}
				todos = append(todos, state.Todo{Content: item.Content, Status: status})
			}
			return tool.ToolResult{
				Message: fmt.Sprintf("todo list updated (%d items)", len(todos)),
				Updates: []state.StateUpdate{state.SetTodos(todos)},
			}, nil
		},
	)
}
