package thinktool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

func TestThinkIsANoOp(t *testing.T) {
	tl, err := New()
	require.NoError(t, err)

	res, err := tl.Execute(map[string]any{"thought": "considering options"}, toolruntime.Runtime{})
	require.NoError(t, err)
	require.Equal(t, "considering options", res.Message)
	require.Empty(t, res.Updates)
}
