package summarization

import "strings"

// DefaultSummaryPrompt is the fixed instruction prefix sent to the
// summarizer LLM ahead of the trimmed message prefix.
const DefaultSummaryPrompt = `<role>Context Extraction Assistant</role>

<primary_objective>
Extract the highest quality and most relevant context from the conversation history.
</primary_objective>

<context>
You are approaching your token limit and must extract the most important information
from the conversation history. This extracted context will replace the older messages.
</context>

<instructions>
1. Focus on key decisions, findings, and important context
2. Preserve critical technical details and file paths mentioned
3. Don't repeat actions that have already been completed
4. Summarize the overall goal and current progress
5. Keep information that will be needed for future steps
6. Be concise but preserve essential details

Respond ONLY with the extracted context. Do not include any additional commentary.
</instructions>

<conversation_to_summarize>`

// Config controls when the SummarizationMiddleware triggers and how much
// context survives the pass.
type Config struct {
	Triggers              []TriggerCondition
	Keep                  KeepSize
	TrimTokensToSummarize int
	CharsPerToken         float64
	OverheadPerMessage    float64
	SummaryPrompt         string
	MaxInputTokens        int
}

// DefaultConfig triggers at 85% of a 128k-token window (GPT-4 Turbo's
// default) and keeps the most recent 10%.
func DefaultConfig() Config {
	return Config{
		Triggers:              []TriggerCondition{DefaultTriggerCondition()},
		Keep:                  DefaultKeepSize(),
		TrimTokensToSummarize: 4000,
		CharsPerToken:         DefaultCharsPerToken,
		OverheadPerMessage:    DefaultOverheadPerMessage,
		SummaryPrompt:         DefaultSummaryPrompt,
		MaxInputTokens:        128_000,
	}
}

// ConfigForModel returns DefaultConfig with the chars-per-token ratio and
// max-input-tokens window tuned to known model-name substrings.
func ConfigForModel(model string) Config {
	cfg := DefaultConfig()

	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "claude"):
		cfg.CharsPerToken = ClaudeCharsPerToken
		cfg.MaxInputTokens = 200_000
	case strings.Contains(lower, "gpt-4"):
		cfg.CharsPerToken = DefaultCharsPerToken
		switch {
		case strings.Contains(lower, "turbo"), strings.Contains(lower, "128k"):
			cfg.MaxInputTokens = 128_000
		case strings.Contains(lower, "32k"):
			cfg.MaxInputTokens = 32_768
		default:
			cfg.MaxInputTokens = 8_192
		}
	case strings.Contains(lower, "gpt-3.5"):
		cfg.CharsPerToken = DefaultCharsPerToken
		cfg.MaxInputTokens = 16_385
	}

	return cfg
}

// ShouldSummarize reports whether any trigger condition is satisfied
// (OR logic across Triggers).
func (c Config) ShouldSummarize(tokenCount, messageCount int) bool {
	for _, t := range c.Triggers {
		if t.ShouldTrigger(tokenCount, messageCount, c.MaxInputTokens) {
			return true
		}
	}
	return false
}

// TokenCounterConfig projects the counting-relevant fields of c.
func (c Config) TokenCounterConfig() TokenCounterConfig {
	return TokenCounterConfig{CharsPerToken: c.CharsPerToken, OverheadPerMessage: c.OverheadPerMessage}
}

// Option configures a Config, applied over DefaultConfig by New.
type Option func(*Config)

// WithTrigger appends a trigger condition.
func WithTrigger(t TriggerCondition) Option {
	return func(c *Config) { c.Triggers = append(c.Triggers, t) }
}

// WithTriggers replaces the trigger list entirely.
func WithTriggers(triggers ...TriggerCondition) Option {
	return func(c *Config) { c.Triggers = triggers }
}

// WithKeep sets the keep size.
func WithKeep(k KeepSize) Option {
	return func(c *Config) { c.Keep = k }
}

// WithTrimTokensToSummarize sets the cap on how many tokens of the prefix
// are sent to the summarizer.
func WithTrimTokensToSummarize(tokens int) Option {
	return func(c *Config) { c.TrimTokensToSummarize = tokens }
}

// WithCharsPerToken overrides the chars-per-token ratio.
func WithCharsPerToken(ratio float64) Option {
	return func(c *Config) { c.CharsPerToken = ratio }
}

// WithOverheadPerMessage overrides the per-message token overhead.
func WithOverheadPerMessage(overhead float64) Option {
	return func(c *Config) { c.OverheadPerMessage = overhead }
}

// WithSummaryPrompt overrides the fixed prompt sent to the summarizer.
func WithSummaryPrompt(prompt string) Option {
	return func(c *Config) { c.SummaryPrompt = prompt }
}

// WithMaxInputTokens overrides the model's max input token window.
func WithMaxInputTokens(tokens int) Option {
	return func(c *Config) { c.MaxInputTokens = tokens }
}

// NewConfig builds a Config starting from DefaultConfig and applying opts
// in order.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
