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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kadirpekel/deepagent-go/pkg/state"
)

// ChatCmd starts an interactive chat session, replaying the full
// conversation through the executor on every turn (the executor itself
// is stateless across calls).
type ChatCmd struct{}

func (c *ChatCmd) Run(rc *runContext) error {
	exec, err := buildExecutor(rc.cli.Workdir, rc.demoCfg)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("Starting chat. Type /quit to end the session.")
	}

	st := state.New()
	reader := bufio.NewReader(os.Stdin)

	for {
		if interactive {
			fmt.Print("You: ")
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil // EOF ends the session cleanly
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		st.AddMessage(state.NewUserMessage(line))

		result, err := exec.Run(context.Background(), st)
		if err != nil {
			return fmt.Errorf("run agent: %w", err)
		}
		if result.Interrupt != nil {
			fmt.Printf("Interrupted: %s\n", result.Interrupt.Reason)
			continue
		}
		st = result.State

		if reply, ok := st.LastAssistantMessage(); ok {
			fmt.Printf("Agent: %s\n", reply.Content)
		}
	}
}
