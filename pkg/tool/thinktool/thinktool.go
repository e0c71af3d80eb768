// Package thinktool implements the think tool: a no-op sink that lets the
// LLM externalize reasoning into the transcript without touching state.
package thinktool

import (
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/tool/functiontool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

type thinkArgs struct {
	Thought string `json:"thought" jsonschema:"required,description=Free-form reasoning to record in the transcript"`
}

// New returns the think tool.
func New() (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{
			Name:        "think",
			Description: "Record a reasoning step without taking any action. Produces no state changes.",
		},
		func(args thinkArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			return tool.ToolResult{Message: args.Thought}, nil
		},
	)
}
