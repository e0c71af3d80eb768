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

// Package filetool wraps a backend.Backend as the core file tools named in
// the system overview: ls, read_file, write_file, edit_file, glob, grep.
// Each tool translates a backend.Error into its ToolResult error return so
// the executor can surface it as observable tool content.
package filetool

import (
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/tool/functiontool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// Tools returns every file tool bound to be.
func Tools(be backend.Backend) ([]tool.Tool, error) {
	ls, err := newLs(be)
	if err != nil {
		return nil, err
	}
	read, err := newReadFile(be)
	if err != nil {
		return nil, err
	}
	write, err := newWriteFile(be)
	if err != nil {
		return nil, err
	}
	edit, err := newEditFile(be)
	if err != nil {
		return nil, err
	}
	glob, err := newGlob(be)
	if err != nil {
		return nil, err
	}
	grep, err := newGrep(be)
	if err != nil {
		return nil, err
	}
	return []tool.Tool{ls, read, write, edit, glob, grep}, nil
}

type lsArgs struct {
	Path string `json:"path" jsonschema:"required,description=Directory path to list"`
}

func newLs(be backend.Backend) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{Name: "ls", Description: "List files and directories at a path."},
		func(args lsArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			entries, err := be.Ls(args.Path)
			if err != nil {
				return tool.ToolResult{}, err
			}
			msg := ""
			for _, e := range entries {
				kind := "file"
				if e.IsDir {
					kind = "dir"
				}
				msg += fmt.Sprintf("%s\t%s\n", kind, e.Path)
			}
			return tool.ToolResult{Message: msg}, nil
		},
	)
}

type readFileArgs struct {
	Path   string `json:"path" jsonschema:"required,description=File path to read"`
	Offset int    `json:"offset,omitempty" jsonschema:"description=0-indexed line offset"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Maximum number of lines to return"`
}

func newReadFile(be backend.Backend) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{Name: "read_file", Description: "Read a file's contents as numbered lines."},
		func(args readFileArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			content, err := be.Read(args.Path, args.Offset, args.Limit)
			if err != nil {
				return tool.ToolResult{}, err
			}
			return tool.ToolResult{Message: content}, nil
		},
	)
}

type writeFileArgs struct {
	Path    string `json:"path" jsonschema:"required,description=File path to write"`
	Content string `json:"content" jsonschema:"required,description=Full file content"`
}

func newWriteFile(be backend.Backend) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{Name: "write_file", Description: "Create or overwrite a file with the given content."},
		func(args writeFileArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			res, err := be.Write(args.Path, args.Content)
			if err != nil {
				return tool.ToolResult{}, err
			}
			return tool.ToolResult{
				Message: fmt.Sprintf("wrote %s", args.Path),
				Updates: []state.StateUpdate{filesUpdateFrom(res.FilesUpdate)},
			}, nil
		},
	)
}

type editFileArgs struct {
	Path       string `json:"path" jsonschema:"required,description=File path to edit"`
	Old        string `json:"old_string" jsonschema:"required,description=Literal text to find"`
	New        string `json:"new_string" jsonschema:"required,description=Literal text to substitute"`
	ReplaceAll bool   `json:"replace_all,omitempty" jsonschema:"description=Replace every occurrence instead of requiring exactly one"`
}

func newEditFile(be backend.Backend) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{Name: "edit_file", Description: "Replace a literal string in a file."},
		func(args editFileArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			res, err := be.Edit(args.Path, args.Old, args.New, args.ReplaceAll)
			if err != nil {
				return tool.ToolResult{}, err
			}
			return tool.ToolResult{
				Message: fmt.Sprintf("replaced %d occurrence(s) in %s", res.Occurrences, args.Path),
				Updates: []state.StateUpdate{filesUpdateFrom(res.FilesUpdate)},
			}, nil
		},
	)
}

type globArgs struct {
	Pattern string `json:"pattern" jsonschema:"required,description=Shell-style glob pattern"`
	Path    string `json:"path,omitempty" jsonschema:"description=Base path to search under"`
}

func newGlob(be backend.Backend) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{Name: "glob", Description: "Find files matching a shell-style glob pattern."},
		func(args globArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			base := args.Path
			if base == "" {
				base = "/"
			}
			entries, err := be.Glob(args.Pattern, base)
			if err != nil {
				return tool.ToolResult{}, err
			}
			msg := ""
			for _, e := range entries {
				msg += e.Path + "\n"
			}
			return tool.ToolResult{Message: msg}, nil
		},
	)
}

type grepArgs struct {
	Pattern    string `json:"pattern" jsonschema:"required,description=Literal substring to search for (not a regex)"`
	Path       string `json:"path,omitempty" jsonschema:"description=Base path to search under"`
	GlobFilter string `json:"glob_filter,omitempty" jsonschema:"description=Restrict matches to files whose name matches this glob"`
}

func newGrep(be backend.Backend) (tool.Tool, error) {
	return functiontool.New(
		functiontool.Config{Name: "grep", Description: "Search file contents for a literal substring."},
		func(args grepArgs, rt toolruntime.Runtime) (tool.ToolResult, error) {
			var pathPtr, globPtr *string
			if args.Path != "" {
				pathPtr = &args.Path
			}
			if args.GlobFilter != "" {
				globPtr = &args.GlobFilter
			}
			matches, err := be.Grep(args.Pattern, pathPtr, globPtr)
			if err != nil {
				return tool.ToolResult{}, err
			}
			msg := ""
			for _, m := range matches {
				msg += fmt.Sprintf("%s:%d:%s\n", m.Path, m.Line, m.Text)
			}
			return tool.ToolResult{Message: msg}, nil
		},
	)
}

// filesUpdateFrom converts a backend's write/edit FilesUpdate map into the
// StateUpdate the executor mirrors into AgentState.Files. A nil map (Host
// backend writes) yields a no-op update.
func filesUpdateFrom(filesUpdate map[string]string) state.StateUpdate {
	if filesUpdate == nil {
		return state.Batch()
	}
	files := make(map[string]*state.FileData, len(filesUpdate))
	for path, content := range filesUpdate {
		fd := state.NewFileData(content, "")
		files[path] = &fd
	}
	return state.UpdateFilesOp(files)
}
