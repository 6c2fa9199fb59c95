// Package analyzer runs lint rules over a lossless syntax tree.
//
// A host (one per language) compiles its rules into a RuleSet. For every file
// the host builds an Engine from the set, a root, an AnalysisFilter and
// AnalyzerOptions, and calls Run with a sink. The engine:
//
//   - filters the rules and installs the visitors their queries need,
//   - scans comment trivia for suppression directives,
//   - walks the tree once per phase (Syntax, then Semantic), buffering the
//     matches visitors publish,
//   - drains the matches into rule invocations, in document order, and hands
//     each resulting Signal to the sink.
//
// Matches are routed to rules by the dynamic type of the match value (and by
// node kind for *syntax.Node matches). The routing table is built once, when
// the engine is constructed.
//
// The engine never applies mutations: actions carry a BatchMutation that the
// caller commits with PreviewAction or ApplyAction.
package analyzer
