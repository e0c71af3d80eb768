package state

// TodoStatus is the lifecycle state of a Todo item.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// Todo is a single entry in the agent's working todo list. Lists are
// ordered and carry no uniqueness constraint on content.
type Todo struct {
	Content string
	Status  TodoStatus
}

// NewTodo constructs a pending todo item.
func NewTodo(content string) Todo {
	return Todo{Content: content, Status: TodoPending}
}
