package jsanalyze

import (
	"sync"

	"verdant/internal/analyzer"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

// Language is the name the JS rule set is registered under.
const Language = "js"

var rules = sync.OnceValue(func() *analyzer.RuleSet {
	set := analyzer.NewRuleSet(Language)
	analyzer.Register[js.BinaryExpressionNode, *syntax.Token, DoubleEqualsOptions](set, noDoubleEquals{})
	analyzer.Register[js.VariableDeclarationNode, constCandidate, analyzer.NoOptions](set, useConst{})
	analyzer.Register[*syntax.Node, struct{}, analyzer.NoOptions](set, noDebugger{})
	analyzer.Register[AsyncWithoutAwait, *syntax.Token, analyzer.NoOptions](set, useAwait{})
	analyzer.Register[js.IdentifierNode, *Binding, analyzer.NoOptions](set, noUnusedVariables{})
	analyzer.Register[js.IdentifierNode, *Reference, analyzer.NoOptions](set, noUndeclaredVariables{})
	analyzer.Register[*syntax.Node, int, NestingOptions](set, noExcessiveNesting{})
	analyzer.Register[js.VariableDeclarationNode, *syntax.Token, analyzer.NoOptions](set, noVar{})
	analyzer.Register[*syntax.Token, string, analyzer.NoOptions](set, useQuotes{})
	return set
})

// Rules returns the compiled-in JS rules. The set is shared and read-only.
func Rules() *analyzer.RuleSet { return rules() }

// Analyze runs the JS rules over a parsed file. The file source is available
// to rules through the service bag.
func Analyze[B any](parsed *js.Parsed, filter analyzer.AnalysisFilter, opts *analyzer.AnalyzerOptions, sink analyzer.Sink[B]) (*B, []error) {
	return analyzer.Analyze(Rules(), Params(parsed, filter, opts), sink)
}

// Params builds the engine inputs for parsed, for callers that drive the
// engine themselves.
func Params(parsed *js.Parsed, filter analyzer.AnalysisFilter, opts *analyzer.AnalyzerOptions) analyzer.Params {
	return analyzer.Params{
		Root:         parsed.Root,
		Filter:       filter,
		Options:      opts,
		Suppressions: analyzer.ParseDirective,
		Services: func(bag *analyzer.ServiceBag) {
			analyzer.Insert(bag, parsed.Source)
		},
	}
}
