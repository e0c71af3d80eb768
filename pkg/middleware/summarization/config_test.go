package summarization_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/middleware/summarization"
)

func TestDefaultConfig(t *testing.T) {
	cfg := summarization.DefaultConfig()
	require.Len(t, cfg.Triggers, 1)
	require.Equal(t, summarization.TriggerFraction, cfg.Triggers[0].Kind)
	require.InDelta(t, 0.85, cfg.Triggers[0].Fraction, 0.001)
	require.Equal(t, summarization.KeepFraction, cfg.Keep.Kind)
	require.InDelta(t, 0.10, cfg.Keep.Fraction, 0.001)
	require.Equal(t, 4000, cfg.TrimTokensToSummarize)
	require.Equal(t, 128_000, cfg.MaxInputTokens)
}

func TestConfigForModelClaude(t *testing.T) {
	cfg := summarization.ConfigForModel("claude-3-opus")
	require.Equal(t, summarization.ClaudeCharsPerToken, cfg.CharsPerToken)
	require.Equal(t, 200_000, cfg.MaxInputTokens)
}

func TestConfigForModelGPT4Turbo(t *testing.T) {
	cfg := summarization.ConfigForModel("gpt-4-turbo")
	require.Equal(t, summarization.DefaultCharsPerToken, cfg.CharsPerToken)
	require.Equal(t, 128_000, cfg.MaxInputTokens)
}

func TestShouldSummarizeOrLogic(t *testing.T) {
	cfg := summarization.NewConfig(
		summarization.WithTriggers(summarization.Tokens(1000), summarization.Messages(10)),
		summarization.WithMaxInputTokens(2000),
	)

	require.False(t, cfg.ShouldSummarize(500, 5))
	require.True(t, cfg.ShouldSummarize(1000, 5))
	require.True(t, cfg.ShouldSummarize(500, 10))
	require.True(t, cfg.ShouldSummarize(1000, 10))
}

func TestNewConfigOverrides(t *testing.T) {
	cfg := summarization.NewConfig(
		summarization.WithTrigger(summarization.Tokens(170_000)),
		summarization.WithTrigger(summarization.Messages(100)),
		summarization.WithKeep(summarization.KeepMessagesOf(6)),
		summarization.WithMaxInputTokens(200_000),
		summarization.WithCharsPerToken(3.3),
	)

	require.Len(t, cfg.Triggers, 3) // default fraction trigger + 2 appended
	require.Equal(t, summarization.KeepMessages, cfg.Keep.Kind)
	require.Equal(t, 200_000, cfg.MaxInputTokens)
	require.Equal(t, 3.3, cfg.CharsPerToken)
}
