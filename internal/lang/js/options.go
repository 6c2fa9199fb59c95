package js

import (
	"path/filepath"
	"strings"
)

// ModuleKind decides whether import/export and top-level await are allowed.
type ModuleKind uint8

const (
	ModuleKindModule ModuleKind = iota
	ModuleKindScript
)

func (k ModuleKind) String() string {
	if k == ModuleKindScript {
		return "script"
	}
	return "module"
}

// LanguageVariant is recorded on the file source. The subset has no JSX
// grammar; Jsx files are parsed as Standard.
type LanguageVariant uint8

const (
	VariantStandard LanguageVariant = iota
	VariantJsx
)

func (v LanguageVariant) String() string {
	if v == VariantJsx {
		return "jsx"
	}
	return "standard"
}

// FileSource describes how a file is parsed.
type FileSource struct {
	ModuleKind ModuleKind
	Variant    LanguageVariant
}

func ModuleFile() FileSource { return FileSource{ModuleKind: ModuleKindModule} }
func ScriptFile() FileSource { return FileSource{ModuleKind: ModuleKindScript} }

func (s FileSource) IsModule() bool { return s.ModuleKind == ModuleKindModule }

// FileSourceFromPath maps a file extension to a source. ok is false for
// extensions the JS parser does not handle.
func FileSourceFromPath(path string) (FileSource, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs":
		return ModuleFile(), true
	case ".cjs":
		return ScriptFile(), true
	case ".jsx":
		return FileSource{ModuleKind: ModuleKindModule, Variant: VariantJsx}, true
	}
	return FileSource{}, false
}

// ParserOptions is the closed set of JS parser switches.
type ParserOptions struct {
	// JsxEverywhere is accepted and recorded; the subset has no JSX grammar.
	JsxEverywhere bool `toml:"jsx_everywhere" msgpack:"jsx_everywhere"`
	// GritMetavariables lexes `μname` as a metavariable usable wherever an
	// identifier or expression is expected.
	GritMetavariables bool `toml:"grit_metavariables" msgpack:"grit_metavariables"`
	// ParseClassParameterDecorators is accepted and recorded; the subset has no classes.
	ParseClassParameterDecorators bool `toml:"parse_class_parameter_decorators" msgpack:"parse_class_parameter_decorators"`
	// AllowReturnOutsideFunction accepts `return` at the top level.
	AllowReturnOutsideFunction bool `toml:"allow_return_outside_function" msgpack:"allow_return_outside_function"`
}
