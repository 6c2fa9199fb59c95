// Package parser is the grammar-independent half of every verdant parser.
//
// Grammars are hand-written recursive descent over a Parser. The parser does
// not build a tree: it records events (start node, token, finish node) and
// markers patch them afterwards, which makes checkpoints cheap (truncate the
// event slice) and lets Precede wrap a finished node for left-recursive
// productions. LosslessTreeSink turns the final event stream and the trivia
// list into a green tree once the whole file is parsed.
package parser
