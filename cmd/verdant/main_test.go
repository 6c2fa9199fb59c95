package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/analyzer"
	"verdant/internal/diagfmt"
	"verdant/internal/driver"
	"verdant/internal/observ"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// execute runs the root command once with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	runCleanups()
	return out.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		err  bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOn, "json", 5) {
		t.Error("JSON output must never use the progress view")
	}
	if shouldUseTUI(uiModeOff, "pretty", 5) {
		t.Error("--ui off must disable the progress view")
	}
}

func TestParseRuleFilters(t *testing.T) {
	got, err := parseRuleFilters([]string{"style, suspicious/noDebugger", ""})
	if err != nil {
		t.Fatalf("parseRuleFilters: %v", err)
	}
	want := []analyzer.RuleFilter{{Group: "style"}, {Group: "suspicious", Name: "noDebugger"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if _, err := parseRuleFilters([]string{"a/b/c"}); err == nil {
		t.Fatal("expected error for malformed filter")
	}
}

func TestSelectRulesAndTable(t *testing.T) {
	rules := selectRules(driver.Registry(), &analyzer.RuleFilter{Group: "suspicious"}, false, "js")
	if len(rules) == 0 {
		t.Fatal("expected suspicious js rules")
	}
	for _, m := range rules {
		if m.Group != "suspicious" || m.Language != "js" {
			t.Fatalf("unexpected rule %s (%s)", m.Key(), m.Language)
		}
	}
	table := renderRulesTable(rules)
	if !strings.Contains(table, "suspicious/noDebugger") || !strings.Contains(table, "RECOMMENDED") {
		t.Fatalf("unexpected table:\n%s", table)
	}

	recommended := selectRules(driver.Registry(), nil, true, "")
	for _, m := range recommended {
		if !m.Recommended {
			t.Fatalf("%s is not recommended", m.Key())
		}
	}
}

func TestPrintTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.Begin("parse").End()
	var b bytes.Buffer
	if err := printTimings(&b, timer.Report(), driver.NewResultCache(nil, 0)); err != nil {
		t.Fatalf("printTimings: %v", err)
	}
	out := b.String()
	for _, want := range []string{"parse", "total", "cache    0 hit(s), 0 miss(es)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var b bytes.Buffer
	if err := renderVersionJSON(&b, versionOptions{showHash: true}); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(b.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "verdant" || payload.GitCommit == "" || payload.Rules != driver.Registry().Len() {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestLintCommandJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "verdant.toml", "[linter]\nrecommended = true\n")
	js := writeTemp(t, dir, "a.js", "if (a == b) { debugger; }\n")
	clean := writeTemp(t, dir, "b.json", "{\"a\": 1}\n")

	out, err := execute(t, "lint", "--config", cfg, "--no-cache", "--ui", "off", "--format", "json", "--color", "off", js, clean)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	var payload map[string]diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload[clean].Count != 0 {
		t.Fatalf("clean file has diagnostics: %+v", payload[clean])
	}
	var cats []string
	for _, d := range payload[js].Diagnostics {
		cats = append(cats, d.Category)
	}
	joined := strings.Join(cats, ",")
	if !strings.Contains(joined, "lint/suspicious/noDebugger") || !strings.Contains(joined, "lint/suspicious/noDoubleEquals") {
		t.Fatalf("unexpected categories %v", cats)
	}
}

func TestInspectCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "verdant.toml", "")
	broken := writeTemp(t, dir, "broken.json", "{\"a\": }")

	out, err := execute(t, "parse", "--config", cfg, "--color", "off", "--quiet", broken)
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, out, "JSON_ROOT (range: ")

	out, err = execute(t, "tokenize", "--config", cfg, "--quiet", "--format", "json", "--fail-on-errors=false", broken)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), out)

	_, err = execute(t, "parse", "--config", cfg, "--format", "yaml", broken)
	require.ErrorContains(t, err, "unknown format")
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	require.Contains(t, schema["properties"], "linter")
}
