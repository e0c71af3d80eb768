package summarization

import (
	"context"
	"fmt"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// Middleware compresses the conversation once a trigger condition fires,
// replacing the oldest messages with a single LLM-generated summary.
type Middleware struct {
	middleware.Base
	cfg        Config
	summarizer llm.Provider
}

// New returns a summarization Middleware that calls summarizer to produce
// the replacement text once a trigger fires.
func New(summarizer llm.Provider, cfg Config) *Middleware {
	return &Middleware{cfg: cfg, summarizer: summarizer}
}

func (m *Middleware) Name() string { return "summarization" }

// BeforeModel checks the trigger conditions against the current message
// list; if satisfied, it partitions, trims, summarizes, and rewrites
// st.Messages and req.Messages to match, returning ModifyRequest. It
// never recurses within the same call — spec'd idempotence — since after
// one pass the trigger is re-checked only on the *next* before_model
// invocation, not this one.
func (m *Middleware) BeforeModel(ctx context.Context, req *middleware.ModelRequest, st *state.AgentState, rt toolruntime.Runtime) (middleware.ModelControl, error) {
	counter := m.cfg.TokenCounterConfig()
	tokenCount := counter.Count(st.Messages)

	if !m.cfg.ShouldSummarize(tokenCount, len(st.Messages)) {
		return middleware.Continue(), nil
	}

	splitIdx := m.splitIndex(st.Messages, counter)
	if splitIdx <= 0 {
		// Nothing old enough to summarize (e.g. the whole history is one
		// live tool-call group) — leave the conversation alone.
		return middleware.Continue(), nil
	}

	prefix := st.Messages[:splitIdx]
	suffix := st.Messages[splitIdx:]

	trimmed := trimToTokenBudget(prefix, counter, m.cfg.TrimTokensToSummarize)

	summary, err := m.summarize(ctx, trimmed)
	if err != nil {
		return middleware.ModelControl{}, fmt.Errorf("summarization: %w", err)
	}

	newMessages := make([]state.Message, 0, len(suffix)+1)
	newMessages = append(newMessages, state.NewSystemMessage(summary))
	newMessages = append(newMessages, suffix...)

	upd := state.SetMessages(newMessages)
	upd.Apply(st)
	req.Messages = st.Messages

	return middleware.ModifyRequest(), nil
}

// splitIndex finds the boundary between the prefix to summarize and the
// suffix to keep, per cfg.Keep, then walks the boundary backward until it
// no longer splits an assistant-with-tool-calls message from its tool-role
// replies.
func (m *Middleware) splitIndex(messages []state.Message, counter TokenCounterConfig) int {
	var idx int
	if n, ok := m.cfg.Keep.MessageCount(); ok {
		idx = len(messages) - n
	} else {
		keepTokens := m.cfg.Keep.CalculateKeepTokens(m.cfg.MaxInputTokens)
		idx = tokenSuffixStart(messages, counter, keepTokens)
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(messages) {
		idx = len(messages)
	}
	return alignToGroupBoundary(messages, idx)
}

// tokenSuffixStart returns the largest index i such that messages[i:]
// has an estimated token count >= keepTokens (i.e. the shortest suffix
// at least as large as the budget, walking back from the end), or 0 if
// the whole list stays under the budget.
func tokenSuffixStart(messages []state.Message, counter TokenCounterConfig, keepTokens int) int {
	running := 0
	for i := len(messages) - 1; i >= 0; i-- {
		running += countMessageTokens(messages[i], counter.CharsPerToken, counter.OverheadPerMessage)
		if running >= keepTokens {
			return i
		}
	}
	return 0
}

// alignToGroupBoundary walks idx backward while it would split an
// assistant-with-tool-calls message from its tool-role replies: a
// tool-role message at idx means its owning assistant message (and every
// tool reply in that group) must move into the suffix too.
func alignToGroupBoundary(messages []state.Message, idx int) int {
	for idx > 0 && idx < len(messages) && messages[idx].Role == state.RoleTool {
		idx--
	}
	return idx
}

// trimToTokenBudget keeps the most recent tail of prefix that fits within
// budget tokens, dropping from the oldest end — spec'd as "truncate the
// prefix down to trim_tokens_to_summarize by dropping from the oldest end."
func trimToTokenBudget(prefix []state.Message, counter TokenCounterConfig, budget int) []state.Message {
	if budget <= 0 {
		return prefix
	}
	running := 0
	start := len(prefix)
	for i := len(prefix) - 1; i >= 0; i-- {
		running += countMessageTokens(prefix[i], counter.CharsPerToken, counter.OverheadPerMessage)
		if running > budget {
			break
		}
		start = i
	}
	return prefix[start:]
}

func (m *Middleware) summarize(ctx context.Context, prefix []state.Message) (string, error) {
	var sb strings.Builder
	sb.WriteString(m.cfg.SummaryPrompt)
	sb.WriteString("\n")
	for _, msg := range prefix {
		fmt.Fprintf(&sb, "[%s] %s\n", msg.Role, msg.Content)
	}

	resp, err := m.summarizer.Complete(ctx, llm.Request{
		Messages: []state.Message{state.NewUserMessage(sb.String())},
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}
