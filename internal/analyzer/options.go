package analyzer

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"verdant/internal/diag"
	"verdant/internal/trace"
)

// QuoteStyle is the preferred string quote.
type QuoteStyle uint8

const (
	QuoteDouble QuoteStyle = iota
	QuoteSingle
)

func (q QuoteStyle) Char() byte {
	if q == QuoteSingle {
		return '\''
	}
	return '"'
}

// ParseQuoteStyle maps configuration spellings.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch s {
	case "", "double":
		return QuoteDouble, nil
	case "single":
		return QuoteSingle, nil
	}
	return QuoteDouble, fmt.Errorf("invalid quote style %q (expected: double|single)", s)
}

// JsxRuntime tells rules how JSX is compiled. JSX itself is not parsed; the
// value is carried for rules and hosts that care.
type JsxRuntime uint8

const (
	JsxTransparent JsxRuntime = iota
	JsxReactClassic
)

func ParseJsxRuntime(s string) (JsxRuntime, error) {
	switch s {
	case "", "transparent":
		return JsxTransparent, nil
	case "reactClassic", "react-classic":
		return JsxReactClassic, nil
	}
	return JsxTransparent, fmt.Errorf("invalid jsx runtime %q (expected: transparent|reactClassic)", s)
}

// RuleOptions is the raw configuration of one rule.
type RuleOptions struct {
	// Severity overrides the rule's default severity.
	Severity *diag.Severity
	// Options is decoded into the rule's options type by DecodeOptions.
	Options map[string]any
}

// AnalyzerOptions are the per-file settings every rule can read.
type AnalyzerOptions struct {
	Rules          map[RuleKey]RuleOptions
	Globals        []string
	FilePath       string
	PreferredQuote QuoteStyle
	JsxRuntime     JsxRuntime
	// PanicBarrier turns rule panics into RulePanicError plus a diagnostic.
	PanicBarrier bool
	Tracer       trace.Tracer
	// TraceParent is the span the engine's spans nest under.
	TraceParent uint64
}

func (o *AnalyzerOptions) ruleOptions(key RuleKey) RuleOptions {
	if o == nil || o.Rules == nil {
		return RuleOptions{}
	}
	return o.Rules[key]
}

// NoOptions is the options type of rules without options. Any configured
// option is an error for them.
type NoOptions struct{}

// DecodeOptions decodes raw onto a copy of def. Fields absent from raw keep
// their default; unknown fields are an error.
func DecodeOptions[O any](raw map[string]any, def O) (O, error) {
	if len(raw) == 0 {
		return def, nil
	}
	data, err := msgpack.Marshal(raw)
	if err != nil {
		return def, fmt.Errorf("encode options: %w", err)
	}
	out := def
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(&out); err != nil {
		return def, err
	}
	return out, nil
}
