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
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadEnvFiles loads .env.local then .env from the working directory,
// if present. A missing file is not an error.
func loadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// DemoConfig is the demo CLI's own tiny config shape: a system prompt and
// an iteration cap, nothing more.
type DemoConfig struct {
	SystemPrompt  string `yaml:"system_prompt"`
	MaxIterations int    `yaml:"max_iterations"`
}

// defaultDemoConfig is used when no --config flag is given.
func defaultDemoConfig() *DemoConfig {
	return &DemoConfig{
		SystemPrompt:  "You are a helpful assistant with access to file tools and a todo list.",
		MaxIterations: 20,
	}
}

// loadDemoConfig reads path as YAML, or returns defaultDemoConfig() if
// path is empty. A missing file at a non-empty path is an error.
func loadDemoConfig(path string) (*DemoConfig, error) {
	if path == "" {
		return defaultDemoConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultDemoConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
