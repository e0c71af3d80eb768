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
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/executor"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/middleware/filesystem"
	"github.com/kadirpekel/deepagent-go/pkg/middleware/todolist"
)

// buildExecutor wires a HostBackend rooted at workdir, the filesystem and
// todo-list middlewares over it, and the scripted demo provider into an
// Executor — the same shape as the teacher's cmd/hector building a real
// agent from config, minus the config file and real LLM adapter.
func buildExecutor(workdir string, cfg *DemoConfig) (*executor.Executor, error) {
	be, err := backend.NewHostBackend(workdir)
	if err != nil {
		return nil, fmt.Errorf("build backend: %w", err)
	}

	fsMiddleware, err := filesystem.New(be)
	if err != nil {
		return nil, fmt.Errorf("build filesystem middleware: %w", err)
	}

	pipeline := middleware.NewPipeline(
		fsMiddleware,
		todolist.New(),
	)

	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = executor.DefaultMaxIterations
	}

	exec := executor.New(
		newScriptedProvider(),
		pipeline,
		be,
		executor.WithSystemPrompt(cfg.SystemPrompt),
		executor.WithMaxIterations(maxIter),
	)
	return exec, nil
}
