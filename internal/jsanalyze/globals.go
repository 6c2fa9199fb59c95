package jsanalyze

import "slices"

// builtinGlobals are the names every JS environment provides. Hosts add
// their own through AnalyzerOptions.Globals.
var builtinGlobals = map[string]bool{
	"AggregateError":     true,
	"Array":              true,
	"ArrayBuffer":        true,
	"BigInt":             true,
	"Boolean":            true,
	"DataView":           true,
	"Date":               true,
	"Error":              true,
	"EvalError":          true,
	"Function":           true,
	"Infinity":           true,
	"Intl":               true,
	"JSON":               true,
	"Map":                true,
	"Math":               true,
	"NaN":                true,
	"Number":             true,
	"Object":             true,
	"Promise":            true,
	"Proxy":              true,
	"RangeError":         true,
	"ReferenceError":     true,
	"Reflect":            true,
	"RegExp":             true,
	"Set":                true,
	"String":             true,
	"Symbol":             true,
	"SyntaxError":        true,
	"TypeError":          true,
	"URIError":           true,
	"WeakMap":            true,
	"WeakRef":            true,
	"WeakSet":            true,
	"arguments":          true,
	"console":            true,
	"decodeURI":          true,
	"decodeURIComponent": true,
	"encodeURI":          true,
	"encodeURIComponent": true,
	"eval":               true,
	"globalThis":         true,
	"isFinite":           true,
	"isNaN":              true,
	"parseFloat":         true,
	"parseInt":           true,
	"queueMicrotask":     true,
	"setInterval":        true,
	"setTimeout":         true,
	"clearInterval":      true,
	"clearTimeout":       true,
	"structuredClone":    true,
	"undefined":          true,
}

// isGlobal reports whether name is a builtin or one of extra.
func isGlobal(name string, extra []string) bool {
	return builtinGlobals[name] || slices.Contains(extra, name)
}
