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

	"github.com/kadirpekel/deepagent-go/pkg/state"
)

// RunCmd runs a single query against a demo agent and prints the final
// assistant message.
type RunCmd struct {
	Query string `arg:"" help:"The query to send the agent." default:"/ls ."`
}

func (c *RunCmd) Run(rc *runContext) error {
	exec, err := buildExecutor(rc.cli.Workdir, rc.demoCfg)
	if err != nil {
		return err
	}

	st := state.New()
	st.AddMessage(state.NewUserMessage(c.Query))

	result, err := exec.Run(context.Background(), st)
	if err != nil {
		return fmt.Errorf("run agent: %w", err)
	}
	if result.Interrupt != nil {
		fmt.Printf("Interrupted: %s\n", result.Interrupt.Reason)
		return nil
	}

	if reply, ok := result.State.LastAssistantMessage(); ok {
		fmt.Println(reply.Content)
	}
	return nil
}
