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

package logger

import (
	"log/slog"
	"os"

	"github.com/hashicorp/go-hclog"
)

// HCLogLevel maps an slog.Level to the nearest hclog.Level, so plugin
// subprocesses log at roughly the same verbosity as the host.
func HCLogLevel(level slog.Level) hclog.Level {
	switch {
	case level <= slog.LevelDebug:
		return hclog.Debug
	case level <= slog.LevelInfo:
		return hclog.Info
	case level <= slog.LevelWarn:
		return hclog.Warn
	default:
		return hclog.Error
	}
}

// NewHCLogger builds an hclog.Logger for handing to subprocess-based
// plugin clients (go-plugin requires hclog, not slog). name is used as
// the logger's prefix; level follows the host's configured slog level.
func NewHCLogger(name string, level slog.Level) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  HCLogLevel(level),
		Output: os.Stderr,
	})
}
