// Package config loads verdant.toml.
//
// The file is looked up from the working directory upwards; a missing file
// means defaults. Every section is optional:
//
//	[linter]
//	enabled = true
//	recommended = true
//	[linter.rules]
//	"style/useConst" = "error"
//	"suspicious/noDoubleEquals" = { level = "warn", options = { ignoreNull = true } }
//	[javascript]
//	globals = ["window"]
//	quote_style = "double"
//	[files]
//	max_size = 1048576
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/js"
	"verdant/internal/lang/json"
)

// FileName is the configuration file looked up by Find.
const FileName = "verdant.toml"

// DefaultMaxSize is the largest file analyzed when files.max_size is unset.
const DefaultMaxSize = 1 << 20

// Config is the decoded verdant.toml.
type Config struct {
	// Path is the file the config was loaded from; empty for defaults.
	Path       string           `toml:"-" msgpack:"-"`
	Linter     LinterConfig     `toml:"linter" msgpack:"linter"`
	Assist     AssistConfig     `toml:"assist" msgpack:"assist"`
	JavaScript JavaScriptConfig `toml:"javascript" msgpack:"javascript"`
	JSON       JSONConfig       `toml:"json" msgpack:"json"`
	Files      FilesConfig      `toml:"files" msgpack:"files"`
}

type LinterConfig struct {
	Enabled     *bool                 `toml:"enabled" msgpack:"enabled"`
	Recommended *bool                 `toml:"recommended" msgpack:"recommended"`
	Rules       map[string]RuleConfig `toml:"rules" msgpack:"rules"`
}

type AssistConfig struct {
	Enabled *bool `toml:"enabled" msgpack:"enabled"`
}

type JavaScriptConfig struct {
	Globals    []string       `toml:"globals" msgpack:"globals"`
	QuoteStyle string         `toml:"quote_style" msgpack:"quoteStyle" jsonschema:"enum=double,enum=single"`
	JsxRuntime string         `toml:"jsx_runtime" msgpack:"jsxRuntime" jsonschema:"enum=transparent,enum=reactClassic,enum=react-classic"`
	Parser     JSParserConfig `toml:"parser" msgpack:"parser"`
}

type JSParserConfig struct {
	JsxEverywhere              bool `toml:"jsx_everywhere" msgpack:"jsxEverywhere"`
	AllowReturnOutsideFunction bool `toml:"allow_return_outside_function" msgpack:"allowReturnOutsideFunction"`
}

type JSONConfig struct {
	Parser JSONParserConfig `toml:"parser" msgpack:"parser"`
}

type JSONParserConfig struct {
	AllowComments       bool `toml:"allow_comments" msgpack:"allowComments"`
	AllowTrailingCommas bool `toml:"allow_trailing_commas" msgpack:"allowTrailingCommas"`
}

type FilesConfig struct {
	MaxSize int64    `toml:"max_size" msgpack:"maxSize" jsonschema:"minimum=0,description=Largest analyzed file in bytes"`
	Ignore  []string `toml:"ignore" msgpack:"ignore" jsonschema:"description=Glob patterns of files that are skipped"`
}

// RuleConfig is either a bare level ("error") or a table with a level and
// rule options.
type RuleConfig struct {
	Level   string         `msgpack:"level"`
	Options map[string]any `msgpack:"options"`
}

// UnmarshalTOML accepts both spellings of a rule entry.
func (r *RuleConfig) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		r.Level = v
		return nil
	case map[string]any:
		for key, val := range v {
			switch key {
			case "level":
				s, ok := val.(string)
				if !ok {
					return fmt.Errorf("level must be a string, got %T", val)
				}
				r.Level = s
			case "options":
				opts, ok := val.(map[string]any)
				if !ok {
					return fmt.Errorf("options must be a table, got %T", val)
				}
				r.Options = opts
			default:
				return fmt.Errorf("unknown rule setting %q", key)
			}
		}
		if r.Level == "" {
			r.Level = "on"
		}
		return nil
	}
	return fmt.Errorf("rule must be a level string or a table, got %T", v)
}

// Default returns the configuration used when no verdant.toml exists.
func Default() *Config {
	return &Config{}
}

// Find walks up from startDir looking for verdant.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest verdant.toml above startDir, or defaults.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes and validates the file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if keys := unknownKeys(meta); len(keys) > 0 {
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return &cfg, nil
}

// Parse decodes configuration text; used for stdin and tests.
func Parse(text string) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if keys := unknownKeys(meta); len(keys) > 0 {
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// unknownKeys lists keys nothing decoded. Rule entries are checked by
// RuleConfig itself.
func unknownKeys(meta toml.MetaData) []string {
	var keys []string
	for _, k := range meta.Undecoded() {
		if len(k) > 2 && k[0] == "linter" && k[1] == "rules" {
			continue
		}
		keys = append(keys, k.String())
	}
	return keys
}

func (c *Config) validate() error {
	var errs []error
	for key, rc := range c.Linter.Rules {
		if _, err := analyzer.ParseRuleFilter(key); err != nil {
			errs = append(errs, fmt.Errorf("linter.rules: %w", err))
		}
		if _, _, err := parseLevel(rc.Level); err != nil {
			errs = append(errs, fmt.Errorf("linter.rules.%q: %w", key, err))
		}
	}
	if _, err := analyzer.ParseQuoteStyle(c.JavaScript.QuoteStyle); err != nil {
		errs = append(errs, fmt.Errorf("javascript.quote_style: %w", err))
	}
	if _, err := analyzer.ParseJsxRuntime(c.JavaScript.JsxRuntime); err != nil {
		errs = append(errs, fmt.Errorf("javascript.jsx_runtime: %w", err))
	}
	if c.Files.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("files.max_size must not be negative"))
	}
	for _, pattern := range c.Files.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("files.ignore: %q: %w", pattern, err))
		}
	}
	return errors.Join(errs...)
}

// parseLevel maps a rule level. on is the rule's own severity.
func parseLevel(level string) (sev diag.Severity, enabled bool, err error) {
	switch level {
	case "off":
		return 0, false, nil
	case "on", "":
		return 0, true, nil
	}
	s, ok := diag.ParseSeverity(level)
	if !ok {
		return 0, false, fmt.Errorf("invalid level %q (expected: off|on|info|warn|error)", level)
	}
	return s, true, nil
}

func (c *Config) linterEnabled() bool {
	return c.Linter.Enabled == nil || *c.Linter.Enabled
}

func (c *Config) recommended() bool {
	return c.Linter.Recommended == nil || *c.Linter.Recommended
}

func (c *Config) assistEnabled() bool {
	return c.Assist.Enabled == nil || *c.Assist.Enabled
}

// sortedRules returns rule keys in a stable order.
func (c *Config) sortedRules() []string {
	keys := make([]string, 0, len(c.Linter.Rules))
	for k := range c.Linter.Rules {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Filter decides which of the registered rules run. Recommended rules and
// assists are on by default; configured levels switch rules and groups on or
// off. Rule names unknown to reg are an error.
func (c *Config) Filter(reg *analyzer.MetadataRegistry) (analyzer.AnalysisFilter, error) {
	f := analyzer.AnalysisFilter{Enabled: make([]analyzer.RuleFilter, 0)}
	if !c.linterEnabled() {
		f.Categories = analyzer.Categories(analyzer.CategoryAction)
	}

	reg.ForEach(func(m analyzer.RuleMetadata) {
		switch {
		case m.Category == analyzer.CategoryAction && c.assistEnabled():
		case m.Category != analyzer.CategoryAction && m.Recommended && c.recommended():
		default:
			return
		}
		f.Enabled = append(f.Enabled, analyzer.RuleFilter{Group: m.Group, Name: m.Name})
	})

	var errs []error
	for _, key := range c.sortedRules() {
		rf, err := analyzer.ParseRuleFilter(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !knownRule(reg, rf) {
			errs = append(errs, fmt.Errorf("linter.rules: unknown rule %q", key))
			continue
		}
		_, enabled, err := parseLevel(c.Linter.Rules[key].Level)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if enabled {
			f.Enabled = append(f.Enabled, rf)
		} else {
			f.Disabled = append(f.Disabled, rf)
		}
	}
	return f, errors.Join(errs...)
}

func knownRule(reg *analyzer.MetadataRegistry, rf analyzer.RuleFilter) bool {
	if rf.Name != "" {
		_, ok := reg.Find(rf.Group, rf.Name)
		return ok
	}
	return slices.Contains(reg.Groups(), rf.Group)
}

// AnalyzerOptions returns the per-file analyzer settings for path.
func (c *Config) AnalyzerOptions(path string) *analyzer.AnalyzerOptions {
	// значения уже проверены в validate
	quote, _ := analyzer.ParseQuoteStyle(c.JavaScript.QuoteStyle)
	jsx, _ := analyzer.ParseJsxRuntime(c.JavaScript.JsxRuntime)
	opts := &analyzer.AnalyzerOptions{
		Rules:          make(map[analyzer.RuleKey]analyzer.RuleOptions),
		Globals:        slices.Clone(c.JavaScript.Globals),
		FilePath:       path,
		PreferredQuote: quote,
		JsxRuntime:     jsx,
		PanicBarrier:   true,
	}
	for key, rc := range c.Linter.Rules {
		rf, err := analyzer.ParseRuleFilter(key)
		if err != nil || rf.Name == "" {
			continue
		}
		sev, _, err := parseLevel(rc.Level)
		if err != nil {
			continue
		}
		var ro analyzer.RuleOptions
		if rc.Level != "on" && rc.Level != "off" && rc.Level != "" {
			ro.Severity = &sev
		}
		ro.Options = rc.Options
		opts.Rules[analyzer.RuleKey{Group: rf.Group, Name: rf.Name}] = ro
	}
	return opts
}

// JSParserOptions returns the JS parser settings.
func (c *Config) JSParserOptions() js.ParserOptions {
	return js.ParserOptions{
		JsxEverywhere:              c.JavaScript.Parser.JsxEverywhere,
		AllowReturnOutsideFunction: c.JavaScript.Parser.AllowReturnOutsideFunction,
	}
}

// JSONParseOptions returns the JSON parser settings. Comments and trailing
// commas are always allowed in .jsonc files.
func (c *Config) JSONParseOptions(jsonc bool) json.ParseOptions {
	return json.ParseOptions{
		AllowComments:       jsonc || c.JSON.Parser.AllowComments,
		AllowTrailingCommas: jsonc || c.JSON.Parser.AllowTrailingCommas,
	}
}

// MaxSize is the largest file size analyzed, in bytes.
func (c *Config) MaxSize() int64 {
	if c.Files.MaxSize == 0 {
		return DefaultMaxSize
	}
	return c.Files.MaxSize
}

// Ignored reports whether path matches one of files.ignore. Patterns are
// matched against the slash-separated path and its base name.
func (c *Config) Ignored(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range c.Files.Ignore {
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// fingerprintRule is one [linter.rules] entry in canonical form.
type fingerprintRule struct {
	Name    string         `msgpack:"name"`
	Level   string         `msgpack:"level"`
	Options map[string]any `msgpack:"options"`
}

// Fingerprint identifies the settings that influence analysis results. It is
// part of the driver's cache key, so equal files must give equal fingerprints
// across runs.
func (c *Config) Fingerprint() (string, error) {
	// map[string]RuleConfig идёт через reflect и не сортируется энкодером
	rules := make([]fingerprintRule, 0, len(c.Linter.Rules))
	for _, name := range c.sortedRules() {
		rc := c.Linter.Rules[name]
		rules = append(rules, fingerprintRule{Name: name, Level: rc.Level, Options: rc.Options})
	}
	rest := *c
	rest.Linter.Rules = nil

	var buf strings.Builder
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&rest); err != nil {
		return "", fmt.Errorf("config fingerprint: %w", err)
	}
	if err := enc.Encode(rules); err != nil {
		return "", fmt.Errorf("config fingerprint: %w", err)
	}
	sum := sha256.Sum256([]byte(buf.String()))
	return hex.EncodeToString(sum[:]), nil
}
