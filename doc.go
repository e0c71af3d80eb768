// Package deepagent provides the building blocks for a file-backed,
// middleware-extensible LLM agent: a Backend contract for the agent's
// virtual filesystem, a typed Tool/ToolRegistry/ToolRuntime layer, a
// middleware Pipeline around a provider-agnostic LLMProvider, and a
// generic Pregel-style superstep runtime for composing agents, tools,
// and routing logic into multi-step workflow graphs.
//
// # Quick Start
//
// Import the packages you need directly; there is no single umbrella
// entry point:
//
//	import (
//	    "github.com/kadirpekel/deepagent-go/pkg/backend"
//	    "github.com/kadirpekel/deepagent-go/pkg/middleware"
//	    "github.com/kadirpekel/deepagent-go/pkg/executor"
//	)
//
// Build a Backend, a middleware Pipeline, and an LLMProvider
// implementation, then wire them into an executor.Executor:
//
//	be := backend.NewMemoryBackend(func() string { return time.Now().UTC().Format(time.RFC3339) })
//	pipeline := middleware.NewPipeline(todolist.New())
//	exec := executor.New(myProvider, pipeline, be)
//	result, err := exec.Run(ctx, state.New())
//
// See cmd/deepagent-demo for a complete, runnable example wiring a
// HostBackend, the filesystem and todo-list middlewares, and a
// stand-in LLMProvider into an interactive chat loop.
//
// # Architecture
//
// A single agent turn flows through the Executor's before_agent /
// before_model / llm / after_model / tool-dispatch / after_agent cycle,
// with the middleware Pipeline able to rewrite requests, veto or skip a
// model call, and inject tools and system-prompt fragments at each hook.
//
// Multiple agents, tools, and routers can be composed into a single
// bulk-synchronous-parallel computation via pkg/pregel and pkg/workflow:
// each superstep delivers pending messages, runs every active vertex's
// Compute concurrently, merges the resulting state updates, and routes
// outgoing messages along direct or conditional edges until the graph
// reaches a terminal state or its superstep budget runs out.
//
// # Scope
//
// This library does not ship concrete LLM provider adapters, a network
// transport, or a persistent multi-tenant session registry — only the
// interfaces those concerns plug into (see DESIGN.md for what was left
// out and why). A Backend, an LLMProvider, and a CheckpointStore are the
// three seams a caller is expected to supply or choose from the
// provided in-memory/file-backed implementations.
package deepagent
