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

// Package functiontool provides a convenient way to create tools from typed
// Go functions: a generic constructor that generates a JSON schema from a
// struct's tags and decodes an incoming tool call's untyped argument map
// into that struct before invoking the wrapped function.
//
// # Basic Usage
//
//	type GetWeatherArgs struct {
//	    City  string `json:"city" jsonschema:"required,description=City name"`
//	    Units string `json:"units,omitempty" jsonschema:"description=Temperature units,default=celsius,enum=celsius|fahrenheit"`
//	}
//
//	weatherTool, err := functiontool.New(
//	    functiontool.Config{
//	        Name:        "get_weather",
//	        Description: "Get current weather for a city",
//	    },
//	    func(args GetWeatherArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
//	        // Implementation
//	        return tool.ToolResult{Message: "22C, sunny"}, nil
//	    },
//	)
//
// Use New for simple, stateless tools with a static schema and
// straightforward error handling. For tools that need custom argument
// validation beyond what struct tags express, use NewWithValidation.
package functiontool

import (
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// Config defines the configuration for a function tool.
type Config struct {
	Name        string
	Description string
}

// Fn is the shape every function tool's implementation takes: typed
// arguments in, a ToolResult (message plus StateUpdates) out.
type Fn[Args any] func(args Args, rt toolruntime.Runtime) (tool.ToolResult, error)

// New creates a Tool from a typed function. Args must be a struct with
// json and jsonschema tags describing its parameters.
func New[Args any](cfg Config, fn Fn[Args]) (tool.Tool, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	schema, err := generateSchema[Args]()
	if err != nil {
		return nil, fmt.Errorf("generate schema for %s: %w", cfg.Name, err)
	}

	return &functionTool[Args]{config: cfg, fn: fn, schema: schema}, nil
}

// NewWithValidation creates a Tool with custom argument validation run
// after decoding but before the main function is invoked.
func NewWithValidation[Args any](cfg Config, fn Fn[Args], validate func(Args) error) (tool.Tool, error) {
	base, err := New(cfg, fn)
	if err != nil {
		return nil, err
	}
	return &functionToolWithValidation[Args]{
		functionTool: base.(*functionTool[Args]),
		validate:     validate,
	}, nil
}

type functionTool[Args any] struct {
	config Config
	fn     Fn[Args]
	schema map[string]any
}

func (t *functionTool[Args]) Definition() tool.Definition {
	return tool.Definition{
		Name:        t.config.Name,
		Description: t.config.Description,
		Parameters:  t.schema,
	}
}

func (t *functionTool[Args]) Execute(args map[string]any, rt toolruntime.Runtime) (tool.ToolResult, error) {
	var typed Args
	if err := mapToStruct(args, &typed); err != nil {
		return tool.ToolResult{}, fmt.Errorf("invalid arguments for %s: %w", t.config.Name, err)
	}
	return t.fn(typed, rt)
}

type functionToolWithValidation[Args any] struct {
	*functionTool[Args]
	validate func(Args) error
}

func (t *functionToolWithValidation[Args]) Execute(args map[string]any, rt toolruntime.Runtime) (tool.ToolResult, error) {
	var typed Args
	if err := mapToStruct(args, &typed); err != nil {
		return tool.ToolResult{}, fmt.Errorf("invalid arguments for %s: %w", t.config.Name, err)
	}
	if err := t.validate(typed); err != nil {
		return tool.ToolResult{}, fmt.Errorf("validation failed for %s: %w", t.config.Name, err)
	}
	return t.fn(typed, rt)
}

func validateConfig(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if cfg.Description == "" {
		return fmt.Errorf("tool description is required")
	}
	return nil
}

var _ tool.Tool = (*functionTool[struct{}])(nil)
var _ tool.Tool = (*functionToolWithValidation[struct{}])(nil)
