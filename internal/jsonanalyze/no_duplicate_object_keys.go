package jsonanalyze

import (
	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/lang/json"
)

type noDuplicateObjectKeys struct{}

func (noDuplicateObjectKeys) Metadata() analyzer.RuleMetadata {
	return analyzer.RuleMetadata{
		Group:       "suspicious",
		Name:        "noDuplicateObjectKeys",
		Category:    analyzer.CategoryLint,
		Severity:    diag.SevError,
		Version:     "1.0.0",
		Recommended: true,
		Docs:        "Disallow two keys with the same name inside one object.",
	}
}

func (noDuplicateObjectKeys) Query() analyzer.Query[json.ObjectNode] {
	return analyzer.NewAst(json.CastObject, json.ObjectValue)
}

// duplicateKey is a repeated name; first is its earliest spelling.
type duplicateKey struct {
	name   string
	first  json.MemberNameNode
	repeat []json.MemberNameNode
}

func (noDuplicateObjectKeys) Run(ctx *analyzer.RuleContext[json.ObjectNode, analyzer.NoOptions]) []*duplicateKey {
	seen := make(map[string]*duplicateKey)
	var out []*duplicateKey
	for _, m := range ctx.Query().Members() {
		name, err := m.Name()
		if err != nil {
			continue
		}
		key := name.InnerText()
		dup, ok := seen[key]
		if !ok {
			seen[key] = &duplicateKey{name: key, first: name}
			continue
		}
		if len(dup.repeat) == 0 {
			out = append(out, dup)
		}
		dup.repeat = append(dup.repeat, name)
	}
	return out
}

func (noDuplicateObjectKeys) Diagnostic(_ *analyzer.RuleContext[json.ObjectNode, analyzer.NoOptions], dup *duplicateKey) *analyzer.RuleDiagnostic {
	d := analyzer.NewRuleDiagnostic(dup.first.Syntax().TextTrimmedRange(), diag.Markup(
		diag.Text("The key "), diag.Code(dup.name), diag.Text(" was already declared."),
	))
	for _, r := range dup.repeat {
		d.Detail(r.Syntax().TextTrimmedRange(), diag.Markup(diag.Text("This is where a duplicated key was declared again.")))
	}
	return d.Note(diag.Markup(
		diag.Text("If a key is defined multiple times, only the last definition takes effect. Previous definitions are ignored."),
	))
}
