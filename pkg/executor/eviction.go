package executor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
)

// DefaultToolResultTokenLimit matches the original implementation's
// default: tool results estimated beyond this many tokens get evicted to
// the backend rather than inlined into the conversation.
const DefaultToolResultTokenLimit = 20_000

const (
	toolResultEvictCharMultiplier = 4
	largeToolResultDir            = "/large_tool_results"
	toolResultSampleLines         = 10
	toolResultSampleLineLen       = 1000
)

// toolResultEvictionSkipList names tools whose output is already
// bounded/structured and therefore never evicted regardless of size.
var toolResultEvictionSkipList = map[string]bool{
	"ls":         true,
	"read_file":  true,
	"write_file": true,
	"edit_file":  true,
	"glob":       true,
	"grep":       true,
}

// evictor offloads oversized tool results to the backend, replacing the
// inline message with a pointer and a truncated sample. tokenLimit <= 0
// disables eviction entirely.
type evictor struct {
	tokenLimit int
}

func newEvictor(tokenLimit int) evictor {
	return evictor{tokenLimit: tokenLimit}
}

// maybeEvict returns result unchanged unless its message exceeds the
// configured threshold and tool isn't in the skip-list, in which case the
// full message is written to the backend and replaced with a pointer plus
// a sample. Write failures are logged and the original result is kept —
// eviction is a best-effort size control, not a correctness requirement.
func (e evictor) maybeEvict(toolName, toolCallID string, result tool.ToolResult, be backend.Backend, logger *slog.Logger) tool.ToolResult {
	if e.tokenLimit <= 0 || toolResultEvictionSkipList[toolName] {
		return result
	}

	threshold := e.tokenLimit * toolResultEvictCharMultiplier
	if len(result.Message) <= threshold {
		return result
	}

	path := largeToolResultDir + "/" + sanitizeToolCallID(toolCallID)
	writeResult, err := be.Write(path, result.Message)
	if err != nil {
		logger.Warn("failed to evict large tool result", "tool_call_id", toolCallID, "error", err)
		return result
	}

	message := fmt.Sprintf(
		"Tool result was too large. The result of tool call %s was saved to: %s\n"+
			"read_file can be used to read the file with offset/limit for pagination.\n\n"+
			"First %d lines:\n%s",
		toolCallID, path, toolResultSampleLines, formatContentSample(result.Message),
	)

	updates := append([]state.StateUpdate(nil), result.Updates...)
	if writeResult.FilesUpdate != nil {
		files := make(map[string]*state.FileData, len(writeResult.FilesUpdate))
		for p, content := range writeResult.FilesUpdate {
			fd := state.NewFileData(content, "")
			files[p] = &fd
		}
		updates = append(updates, state.UpdateFilesOp(files))
	}

	return tool.ToolResult{Message: message, Updates: updates}
}

// sanitizeToolCallID maps a tool-call id to a safe single path segment:
// anything but alnum/-/_ becomes _, leading/trailing _ are trimmed, and an
// empty result falls back to "tool_call".
func sanitizeToolCallID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	sanitized := strings.Trim(sb.String(), "_")
	if sanitized == "" {
		return "tool_call"
	}
	return sanitized
}

// formatContentSample renders the first toolResultSampleLines lines of
// content, each truncated to toolResultSampleLineLen characters and
// prefixed with its 1-indexed line number.
func formatContentSample(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > toolResultSampleLines {
		lines = lines[:toolResultSampleLines]
	}
	if len(lines) == 0 {
		return "(empty)"
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) > toolResultSampleLineLen {
			line = line[:toolResultSampleLineLen]
		}
		out[i] = fmt.Sprintf("%d\t%s", i+1, line)
	}
	return strings.Join(out, "\n")
}
