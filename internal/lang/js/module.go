package js

import (
	"verdant/internal/parser"
	"verdant/internal/syntax"
)

// import "m";
// import * as ns from "m";
// import {a, b as c} from "m";
// import def, {a} from "m";
func (p *jsParser) parseImport() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(ImportKw)
	switch {
	case p.At(StringLiteral):
		c := p.Start()
		p.parseModuleSource()
		c.Complete(p, ImportBareClause)
	case p.At(Star):
		c := p.Start()
		p.parseNamespaceBinding()
		p.parseFromSource()
		c.Complete(p, ImportNamespaceClause)
	case p.At(LCurly):
		c := p.Start()
		p.parseNamedImportSpecifiers()
		p.parseFromSource()
		c.Complete(p, ImportNamedClause)
	case p.isAtIdentName() || p.At(GritMetavariable):
		c := p.Start()
		p.parseBinding()
		if p.Eat(Comma) {
			if p.At(Star) {
				p.parseNamespaceBinding()
			} else {
				p.parseNamedImportSpecifiers()
			}
		}
		p.parseFromSource()
		c.Complete(p, ImportDefaultClause)
	default:
		p.Error(parser.ExpectedNode("an import clause")(p, p.CurRange()))
	}
	p.semicolon()
	return parser.Present(m.Complete(p, Import))
}

func (p *jsParser) parseNamespaceBinding() {
	p.Bump(Star)
	p.Expect(AsKw)
	p.parseBinding().OrAddDiagnostic(p, parser.ExpectedNode("an identifier"))
}

func (p *jsParser) parseFromSource() {
	p.Expect(FromKw)
	p.parseModuleSource().OrAddDiagnostic(p, parser.ExpectedNode("a module source"))
}

func (p *jsParser) parseModuleSource() parser.ParsedSyntax {
	if !p.At(StringLiteral) {
		return parser.Absent
	}
	m := p.Start()
	p.Bump(StringLiteral)
	return parser.Present(m.Complete(p, ModuleSource))
}

func (p *jsParser) parseNamedImportSpecifiers() parser.ParsedSyntax {
	if !p.At(LCurly) {
		p.Expect(LCurly)
		return parser.Absent
	}
	m := p.Start()
	p.Bump(LCurly)
	parser.ParseSeparatedList(p, specifierList{kind: NamedImportSpecifierList, parse: (*jsParser).parseImportSpecifier})
	p.Expect(RCurly)
	return parser.Present(m.Complete(p, NamedImportSpecifiers))
}

type specifierList struct {
	kind  syntax.Kind
	parse func(*jsParser) parser.ParsedSyntax
}

func (l specifierList) ListKind() syntax.Kind { return l.kind }
func (specifierList) Separator() syntax.Kind { return Comma }
func (specifierList) AllowTrailingSeparator() bool { return true }
func (specifierList) IsAtListEnd(p *jsParser) bool { return p.At(RCurly) }
func (l specifierList) ParseElement(p *jsParser) parser.ParsedSyntax { return l.parse(p) }

func (specifierList) Recover(p *jsParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, specRecovery, parser.ExpectedNode("a specifier"))
	return err
}

func (p *jsParser) isAtExportName() bool {
	return p.At(Ident) || p.At(StringLiteral) || IsKeyword(p.Cur())
}

func (p *jsParser) parseLiteralExportName() parser.ParsedSyntax {
	if !p.isAtExportName() {
		return parser.Absent
	}
	m := p.Start()
	if p.At(StringLiteral) {
		p.Bump(StringLiteral)
	} else {
		p.BumpRemap(Ident)
	}
	return parser.Present(m.Complete(p, LiteralExportName))
}

func (p *jsParser) parseImportSpecifier() parser.ParsedSyntax {
	if p.NthAt(1, AsKw) && p.isAtExportName() {
		m := p.Start()
		p.parseLiteralExportName()
		p.Bump(AsKw)
		p.parseBinding().OrAddDiagnostic(p, parser.ExpectedNode("an identifier"))
		return parser.Present(m.Complete(p, NamedImportSpecifier))
	}
	if !p.isAtIdentName() && !p.At(GritMetavariable) {
		return parser.Absent
	}
	m := p.Start()
	p.parseBinding()
	return parser.Present(m.Complete(p, ShorthandNamedImportSpecifier))
}

// export default <expr>;
// export default function () {}
// export {a, b as c} [from "m"];
// export const x = 1;
// export function f() {}
func (p *jsParser) parseExport() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(ExportKw)
	switch {
	case p.At(DefaultKw):
		if p.NthAt(1, FunctionKw) || p.NthAt(1, AsyncKw) && p.NthAt(2, FunctionKw) {
			p.Bump(DefaultKw)
			p.parseFunctionDeclaration(true)
			break
		}
		c := p.Start()
		p.Bump(DefaultKw)
		p.parseAssignmentExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
		p.semicolon()
		c.Complete(p, ExportDefaultExpressionClause)
	case p.At(LCurly):
		c := p.Start()
		p.Bump(LCurly)
		parser.ParseSeparatedList(p, specifierList{kind: ExportNamedSpecifierList, parse: (*jsParser).parseExportSpecifier})
		p.Expect(RCurly)
		if p.At(FromKw) {
			p.parseFromSource()
		}
		p.semicolon()
		c.Complete(p, ExportNamedClause)
	case p.AtTS(declarationStart):
		p.parseVariableStatement()
	case p.At(FunctionKw) || p.At(AsyncKw) && p.NthAt(1, FunctionKw):
		p.parseFunctionDeclaration(false)
	default:
		p.Error(parser.ExpectedNode("a declaration or an export clause")(p, p.CurRange()))
	}
	return parser.Present(m.Complete(p, Export))
}

func (p *jsParser) parseExportSpecifier() parser.ParsedSyntax {
	if !p.isAtExportName() {
		return parser.Absent
	}
	m := p.Start()
	p.parseLiteralExportName()
	if p.Eat(AsKw) {
		p.parseLiteralExportName().OrAddDiagnostic(p, parser.ExpectedNode("a name"))
	}
	return parser.Present(m.Complete(p, ExportNamedSpecifier))
}
