package jsanalyze

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuppressionRangeInFile(t *testing.T) {
	text := "/* verdant-ignore-start lint/style/noVar: legacy */\n" +
		"var a = 1;\n" +
		"/* verdant-ignore-end lint/style/noVar: legacy */\n" +
		"var b = 2;\n"
	signals := lint(t, text, nil, "style/noVar")
	require.Len(t, signals, 1)
	require.Contains(t, text[signals[0].Range.Start:], "var b")
}
