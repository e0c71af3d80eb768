package todolist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/middleware/todolist"
)

func TestTodoListInjectsTools(t *testing.T) {
	m := todolist.New()
	tools := m.Tools()
	require.Len(t, tools, 2)
	require.Equal(t, "read_todos", tools[0].Definition().Name)
	require.Equal(t, "write_todos", tools[1].Definition().Name)
}

func TestTodoListPromptAppend(t *testing.T) {
	m := todolist.New()
	prompt := m.ModifySystemPrompt("Base prompt")
	require.Contains(t, prompt, "Base prompt")
	require.Contains(t, prompt, "write_todos")
}
