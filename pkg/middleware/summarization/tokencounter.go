// Package summarization implements the context-window management
// middleware: it estimates token usage with a cheap character-based
// approximation, decides when to compress the conversation, and replaces
// the oldest messages with a single LLM-generated summary.
package summarization

import (
	"encoding/json"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/state"
)

// DefaultCharsPerToken is the chars-per-token ratio used for most models
// (OpenAI GPT-4 and similar).
const DefaultCharsPerToken = 4.0

// ClaudeCharsPerToken is the ratio for Anthropic's Claude family, whose
// tokenizer is denser per character.
const ClaudeCharsPerToken = 3.3

// DefaultOverheadPerMessage is the fixed per-message token overhead added
// on top of the character-derived estimate, accounting for role/structure
// framing the approximation otherwise ignores.
const DefaultOverheadPerMessage = 3.0

// TokenCounterConfig bundles the two knobs CountTokensApproximately
// needs, so callers can tune per model without threading two floats
// through every call site.
type TokenCounterConfig struct {
	CharsPerToken      float64
	OverheadPerMessage float64
}

// DefaultTokenCounterConfig matches DefaultCharsPerToken/DefaultOverheadPerMessage.
func DefaultTokenCounterConfig() TokenCounterConfig {
	return TokenCounterConfig{CharsPerToken: DefaultCharsPerToken, OverheadPerMessage: DefaultOverheadPerMessage}
}

// TokenCounterConfigForModel returns a config tuned for model's chars/token
// ratio, keeping the default overhead.
func TokenCounterConfigForModel(model string) TokenCounterConfig {
	return TokenCounterConfig{CharsPerToken: CharsPerTokenForModel(model), OverheadPerMessage: DefaultOverheadPerMessage}
}

// Count applies this config's ratios via CountTokensApproximately.
func (c TokenCounterConfig) Count(messages []state.Message) int {
	return CountTokensApproximately(messages, c.CharsPerToken, c.OverheadPerMessage)
}

// CharsPerTokenForModel returns ClaudeCharsPerToken for any model name
// containing "claude" (case-insensitive), else DefaultCharsPerToken.
func CharsPerTokenForModel(model string) float64 {
	if strings.Contains(strings.ToLower(model), "claude") {
		return ClaudeCharsPerToken
	}
	return DefaultCharsPerToken
}

func roleNameLength(r state.Role) int {
	switch r {
	case state.RoleUser:
		return 4
	case state.RoleAssistant:
		return 9
	case state.RoleSystem:
		return 6
	case state.RoleTool:
		return 4
	default:
		return len(r)
	}
}

func countMessageTokens(msg state.Message, charsPerToken, overheadPerMessage float64) int {
	charCount := len(msg.Content)
	charCount += roleNameLength(msg.Role)

	if msg.ToolCallID != "" {
		charCount += len(msg.ToolCallID)
	}

	for _, tc := range msg.ToolCalls {
		charCount += len(tc.ID)
		charCount += len(tc.Name)
		if argsJSON, err := json.Marshal(tc.Arguments); err == nil {
			charCount += len(argsJSON)
		}
	}

	tokens := ceilDiv(float64(charCount), charsPerToken)
	return tokens + int(overheadPerMessage)
}

func ceilDiv(charCount, charsPerToken float64) int {
	if charsPerToken <= 0 {
		return int(charCount)
	}
	ratio := charCount / charsPerToken
	whole := int(ratio)
	if float64(whole) < ratio {
		whole++
	}
	return whole
}

// CountTokensApproximately is a fast, lightweight, offline estimate: for
// each message it divides (content + role name + tool-call id/name/args
// character counts) by charsPerToken, rounds up, and adds
// overheadPerMessage per message.
func CountTokensApproximately(messages []state.Message, charsPerToken, overheadPerMessage float64) int {
	total := 0
	for _, msg := range messages {
		total += countMessageTokens(msg, charsPerToken, overheadPerMessage)
	}
	return total
}
