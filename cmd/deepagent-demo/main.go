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

// Command deepagent-demo is a thin example consumer of the deepagent-go
// library: it wires a Backend, a middleware Pipeline, and a stand-in
// LLMProvider into an Executor and drives either a single query or an
// interactive chat loop. It is not part of the library surface.
//
// Usage:
//
//	deepagent-demo run "list the files here"
//	deepagent-demo chat --workdir ./sandbox
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/deepagent-go/pkg/logger"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Run     RunCmd     `cmd:"" help:"Run a single query against a demo agent."`
	Chat    ChatCmd    `cmd:"" help:"Start an interactive chat session."`

	Config    string `short:"c" help:"Path to demo config file (YAML)." type:"path"`
	Workdir   string `help:"Root directory exposed to the agent's file tools." default:"."`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("deepagent-demo version %s\n", version)
	return nil
}

func setupLogging(cli *CLI) error {
	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}

	output := os.Stderr
	if cli.LogFile != "" {
		// Intentionally not closed here: the log file must stay open for
		// the rest of the process's life, and the OS reclaims the fd on exit.
		f, _, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		output = f
	}

	logger.Init(level, output, cli.LogFormat)
	return nil
}

func main() {
	if err := loadEnvFiles(); err != nil {
		slog.Warn("loading .env files", "error", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("deepagent-demo"),
		kong.Description("Example consumer of the deepagent-go agent library."),
		kong.UsageOnError(),
	)

	if err := setupLogging(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}

	demoCfg, err := loadDemoConfig(cli.Config)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}

	err = ctx.Run(&runContext{cli: &cli, demoCfg: demoCfg})
	ctx.FatalIfErrorf(err)
}

// runContext is threaded to every Kong command's Run method via its
// first *runContext-typed parameter, carrying the parsed flags and the
// loaded demo config without resorting to package-level globals.
type runContext struct {
	cli     *CLI
	demoCfg *DemoConfig
}
