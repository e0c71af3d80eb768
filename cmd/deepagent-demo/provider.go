// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
)

// scriptedProvider is a stand-in llm.Provider for the demo: real adapters
// (OpenAI, Anthropic, ...) are out of the library's scope, so this CLI
// ships a tiny rule-based responder instead of requiring an API key just
// to exercise the executor/middleware/backend wiring end to end.
//
// It looks at the last user message for a leading "/tool-name arg..."
// directive and, if one of the offered tool definitions matches, emits a
// single tool call for it; otherwise it echoes a fixed acknowledgement.
type scriptedProvider struct{}

func newScriptedProvider() *scriptedProvider { return &scriptedProvider{} }

func (p *scriptedProvider) Name() string         { return "scripted" }
func (p *scriptedProvider) DefaultModel() string { return "scripted-v1" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	query := lastUserContent(req.Messages)

	if strings.HasPrefix(query, "/") {
		name, arg, _ := strings.Cut(strings.TrimPrefix(query, "/"), " ")
		for _, def := range req.ToolDefinitions {
			if def.Name != name {
				continue
			}
			args := map[string]any{}
			if arg != "" {
				args[firstArgKey(def)] = arg
			}
			return llm.Response{
				Message: state.NewAssistantMessage("", state.ToolCall{
					ID:        "call_" + uuid.NewString(),
					Name:      name,
					Arguments: args,
				}),
			}, nil
		}
		return llm.Response{Message: state.NewAssistantMessage(
			fmt.Sprintf("I don't have a tool named %q available.", name),
		)}, nil
	}

	return llm.Response{Message: state.NewAssistantMessage(
		"(scripted demo provider) You said: " + query,
	)}, nil
}

func (p *scriptedProvider) Stream(ctx context.Context, req llm.Request) (<-chan llm.Chunk, error) {
	return nil, llm.ErrStreamingUnsupported
}

func lastUserContent(msgs []state.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == state.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// firstArgKey picks the first property name out of a tool's JSON-schema
// Parameters map, so a bare "/tool value" directive has somewhere to put
// value. With no properties the key is "value"; with several, it is
// whichever key map iteration yields first, so only the single-argument
// case is served reliably.
func firstArgKey(def tool.Definition) string {
	props, _ := def.Parameters["properties"].(map[string]any)
	for key := range props {
		return key
	}
	return "value"
}
