package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    []SuppressionComment
		wantErr bool
	}{
		{
			name:    "line",
			comment: "// verdant-ignore lint/style/useConst: reason",
			want:    []SuppressionComment{{Kind: SuppressLine, Categories: []diag.Category{"lint/style/useConst"}, Explanation: "reason"}},
		},
		{
			name:    "biome prefix",
			comment: "// biome-ignore lint/style/useConst: explanation",
			want:    []SuppressionComment{{Kind: SuppressLine, Categories: []diag.Category{"lint/style/useConst"}, Explanation: "explanation"}},
		},
		{
			name:    "several categories with value",
			comment: "// verdant-ignore lint/style lint/suspicious/noDebugger(foo): two",
			want:    []SuppressionComment{{Kind: SuppressLine, Categories: []diag.Category{"lint/style", "lint/suspicious/noDebugger"}, Explanation: "two"}},
		},
		{
			name:    "everything",
			comment: "// verdant-ignore: all of it",
			want:    []SuppressionComment{{Kind: SuppressLine, Explanation: "all of it"}},
		},
		{
			name:    "range start in block comment",
			comment: "/* verdant-ignore-start lint: legacy */",
			want:    []SuppressionComment{{Kind: SuppressRangeStart, Categories: []diag.Category{"lint"}, Explanation: "legacy"}},
		},
		{
			name:    "doc comment range end",
			comment: "/** biome-ignore-end lint: legacy */",
			want:    []SuppressionComment{{Kind: SuppressRangeEnd, Categories: []diag.Category{"lint"}, Explanation: "legacy"}},
		},
		{
			name:    "file wide",
			comment: "// verdant-ignore-all lint/style/noVar: generated",
			want:    []SuppressionComment{{Kind: SuppressAll, Categories: []diag.Category{"lint/style/noVar"}, Explanation: "generated"}},
		},
		{name: "ordinary comment", comment: "// just a note"},
		{name: "unknown suffix", comment: "// verdant-ignored lint: x"},
		{name: "missing explanation", comment: "// verdant-ignore lint/style/useConst", wantErr: true},
		{name: "empty explanation", comment: "// verdant-ignore lint/style/useConst:   ", wantErr: true},
		{name: "unclosed value", comment: "// verdant-ignore lint/style/useConst(x: why", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirective(tt.comment)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
