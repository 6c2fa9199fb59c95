// Package jsonanalyze hosts the JSON lint rules.
package jsonanalyze

import (
	"sync"

	"verdant/internal/analyzer"
	"verdant/internal/lang/json"
)

const Language = "json"

var rules = sync.OnceValue(func() *analyzer.RuleSet {
	set := analyzer.NewRuleSet(Language)
	analyzer.Register[json.ObjectNode, *duplicateKey, analyzer.NoOptions](set, noDuplicateObjectKeys{})
	return set
})

func Rules() *analyzer.RuleSet { return rules() }

// Analyze runs the JSON rules over a parsed document.
func Analyze[B any](parsed *json.Parsed, filter analyzer.AnalysisFilter, opts *analyzer.AnalyzerOptions, sink analyzer.Sink[B]) (*B, []error) {
	return analyzer.Analyze(Rules(), Params(parsed, filter, opts), sink)
}

// Params builds the engine inputs. Suppression comments only exist in files
// parsed with comments allowed.
func Params(parsed *json.Parsed, filter analyzer.AnalysisFilter, opts *analyzer.AnalyzerOptions) analyzer.Params {
	return analyzer.Params{Root: parsed.Root, Filter: filter, Options: opts, Suppressions: analyzer.ParseDirective}
}
