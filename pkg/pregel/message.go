package pregel

// MessageKind discriminates a WorkflowMessage variant. Only the four
// generic, protocol-level variants live here; a caller that needs
// domain-specific message shapes carries them in Data's Value field
// rather than growing this enum, keeping the wire protocol stable across
// unrelated workflows.
type MessageKind string

const (
	// MessageActivate asks the receiving vertex to transition from
	// Halted to Active on the next superstep. Used by edge-driven
	// execution mode when an upstream neighbor halts.
	MessageActivate MessageKind = "activate"

	// MessageData carries an arbitrary key/value payload between
	// vertices; this is the catch-all a caller uses to build its own
	// higher-level protocol on top of the runtime.
	MessageData MessageKind = "data"

	// MessageCompleted announces that Source has finished its work,
	// optionally carrying a result payload.
	MessageCompleted MessageKind = "completed"

	// MessageHalt asks the receiving vertex to stop computing.
	MessageHalt MessageKind = "halt"
)

// WorkflowMessage is the unit of inter-vertex communication delivered
// through vertex inboxes once per superstep.
type WorkflowMessage struct {
	Kind MessageKind

	// Data fields (MessageData).
	Key   string
	Value any

	// Completed fields (MessageCompleted).
	Source string
	Result any
}

// Activate returns a MessageActivate message.
func Activate() WorkflowMessage {
	return WorkflowMessage{Kind: MessageActivate}
}

// Data returns a MessageData message carrying key/value.
func Data(key string, value any) WorkflowMessage {
	return WorkflowMessage{Kind: MessageData, Key: key, Value: value}
}

// Completed returns a MessageCompleted message from source, optionally
// carrying result (pass nil for none).
func Completed(source string, result any) WorkflowMessage {
	return WorkflowMessage{Kind: MessageCompleted, Source: source, Result: result}
}

// Halt returns a MessageHalt message.
func Halt() WorkflowMessage {
	return WorkflowMessage{Kind: MessageHalt}
}

// Inbox is the set of messages delivered to a vertex for one superstep,
// keyed by sender VertexId so a vertex can see who sent what.
type Inbox map[VertexID][]WorkflowMessage

// Outbox is what a vertex's Compute call produces: each entry is a
// message addressed to a specific target vertex.
type OutboxEntry struct {
	Target  VertexID
	Message WorkflowMessage
}
