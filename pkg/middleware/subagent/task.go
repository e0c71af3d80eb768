package subagent

import (
	"context"
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/executor"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/tool/functiontool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

const taskToolName = "task"

// TaskArgs is the task tool's argument shape, matching spec.md §4.8's
// {subagent_type, prompt, description?}.
type TaskArgs struct {
	SubagentType string `json:"subagent_type" jsonschema:"required,description=Name of the registered sub-agent to delegate to"`
	Prompt       string `json:"prompt" jsonschema:"required,description=The task description/instructions handed to the sub-agent as its only input"`
	Description  string `json:"description,omitempty" jsonschema:"description=Optional short label for this delegation, shown in logs/traces"`
}

// newTaskTool builds the task tool bound to cfg. It never returns an
// error from functiontool.New in practice (Config is static), so the
// construction-time error is only a defensive unwrap for New's caller.
func newTaskTool(cfg Config) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{
			Name:        taskToolName,
			Description: "Delegate a task to a specialized sub-agent running in its own isolated context.",
		},
		func(args TaskArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			return runSubAgent(cfg, args, rt)
		},
	)
}

// runSubAgent implements spec.md §4.8 steps 1-7. Every failure mode named
// there (recursion limit, unknown subagent_type) is returned as a plain
// error: the executor's dispatch loop turns it into tool-role content, so
// the parent agent sees it as conversation, not a crash.
func runSubAgent(cfg Config, args TaskArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
	if rt.IsRecursionLimitExceeded() {
		return tool.ToolResult{}, fmt.Errorf("task %q: recursion limit exceeded", args.SubagentType)
	}

	spec, ok := cfg.Registry.Get(args.SubagentType)
	if !ok {
		return tool.ToolResult{}, fmt.Errorf("task: unknown subagent_type %q", args.SubagentType)
	}

	isolated := isolateState(rt.State, args.Prompt)
	filesBefore := isolated.Files

	subPipeline := cfg.Pipeline
	if spec.Tools != nil {
		subPipeline = middleware.NewPipeline(&staticToolMiddleware{tools: spec.Tools})
	}

	provider := cfg.DefaultProvider
	if spec.Model != "" && cfg.Providers != nil {
		if p, ok := cfg.Providers.Get(spec.Model); ok {
			provider = p
		}
	}

	maxIterations := cfg.SubAgentMaxIterations
	if maxIterations <= 0 {
		maxIterations = executor.DefaultMaxIterations
	}

	subExecutor := executor.New(provider, subPipeline, cfg.Backend,
		executor.WithSystemPrompt(spec.SystemPrompt),
		executor.WithMaxIterations(maxIterations),
		executor.WithRecursionConfig(rt.WithIncreasedRecursion().Config),
	)

	// The Tool interface carries no context.Context; sub-agent execution
	// is synchronous from the parent tool call's point of view, matching
	// every other tool in this package.
	result, err := subExecutor.Run(context.Background(), isolated)
	if err != nil {
		return tool.ToolResult{}, fmt.Errorf("task %q: %w", args.SubagentType, err)
	}
	if result.Interrupt != nil {
		return tool.ToolResult{}, fmt.Errorf("task %q: sub-agent interrupted: %s", args.SubagentType, result.Interrupt.Reason)
	}

	message, _ := result.State.LastAssistantMessage()
	toolResult := tool.ToolResult{Message: message.Content}
	if diff := state.FilesDiff(filesBefore, result.State.Files); diff != nil {
		toolResult.Updates = append(toolResult.Updates, state.UpdateFilesOp(diff))
	}
	return toolResult, nil
}

// staticToolMiddleware exposes a fixed tool list to a Pipeline with no
// other behavior, used when a SubAgentSpec overrides the parent's tools.
type staticToolMiddleware struct {
	middleware.Base
	tools []tool.Tool
}

func (m *staticToolMiddleware) Name() string       { return "subagent_tools_override" }
func (m *staticToolMiddleware) Tools() []tool.Tool { return m.tools }
