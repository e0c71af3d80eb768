// Package llm defines the provider-agnostic LLMProvider contract the
// executor drives. Concrete adapters (OpenAI, Anthropic, locally-hosted
// models) are out of scope for this library; only the interface and the
// request/response shapes it exchanges live here.
package llm

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
)

// Config carries provider-tunable generation parameters. Fields are
// pointers so "unset" is distinguishable from "zero".
type Config struct {
	Temperature *float64
	MaxTokens   *int
	Model       *string
}

// Request is what the executor hands to a provider for one completion.
type Request struct {
	Messages        []state.Message
	ToolDefinitions []tool.Definition
	Config          Config
}

// Response is what a provider returns: the assistant message to append to
// the conversation verbatim, including any parsed tool calls.
type Response struct {
	Message state.Message
}

// Chunk is one piece of a streaming response.
type Chunk struct {
	DeltaContent string
	Done         bool
	Final        *Response // populated on the terminal chunk
}

// Error wraps a provider failure. It always propagates to the executor's
// caller; there is no auto-retry at this layer (spec'd as LlmError).
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return "llm(" + e.Provider + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Provider is the contract every LLM backend implements.
type Provider interface {
	Name() string
	DefaultModel() string

	Complete(ctx context.Context, req Request) (Response, error)

	// Stream is optional; implementations that don't support incremental
	// output can return ErrStreamingUnsupported.
	Stream(ctx context.Context, req Request) (<-chan Chunk, error)
}

// ErrStreamingUnsupported is returned by Provider.Stream implementations
// that only support Complete.
var ErrStreamingUnsupported = &streamingUnsupportedError{}

type streamingUnsupportedError struct{}

func (e *streamingUnsupportedError) Error() string { return "streaming not supported by this provider" }
