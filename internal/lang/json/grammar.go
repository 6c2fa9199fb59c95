package json

import (
	"verdant/internal/diag"
	"verdant/internal/parser"
	"verdant/internal/syntax"
)

type jsonParser = parser.Parser[struct{}]

var (
	memberRecovery = parser.NewRecovery(BogusMember, parser.NewTokenSet(Comma, RCurly)).EnableRecoveryOnLineBreak()
	valueRecovery  = parser.NewRecovery(BogusValue, parser.NewTokenSet(Comma, RBrack)).EnableRecoveryOnLineBreak()
)

// grammar carries the options the productions depend on.
type grammar struct {
	opts ParseOptions
}

func (g grammar) parseRoot(p *jsonParser) {
	m := p.Start()
	g.parseValue(p).OrAddDiagnostic(p, parser.ExpectedNode("a value"))

	if !p.AtEOF() {
		// всё, что после корневого значения, оборачивается в bogus
		rest := p.Start()
		p.Error(diag.Markup(diag.Text("end of file expected")))
		for !p.AtEOF() {
			if g.parseValue(p).IsAbsent() {
				p.BumpAny()
			}
		}
		rest.Complete(p, Bogus)
	}
	p.Bump(EOF)
	m.Complete(p, Root)
}

func (g grammar) parseValue(p *jsonParser) parser.ParsedSyntax {
	switch p.Cur() {
	case TrueKw, FalseKw:
		return parseLiteral(p, BooleanValue)
	case NullKw:
		return parseLiteral(p, NullValue)
	case StringLiteral:
		return parseLiteral(p, StringValue)
	case NumberLiteral:
		return parseLiteral(p, NumberValue)
	case LCurly:
		return g.parseObject(p)
	case LBrack:
		return g.parseArray(p)
	case Ident:
		m := p.Start()
		p.Error(diag.Markup(diag.Text("the JSON standard only allows the literals "),
			diag.Code("true"), diag.Text(", "), diag.Code("false"), diag.Text(" and "), diag.Code("null")))
		p.BumpAny()
		return parser.Present(m.Complete(p, BogusValue))
	case ErrorToken:
		m := p.Start()
		p.BumpAny()
		return parser.Present(m.Complete(p, BogusValue))
	}
	return parser.Absent
}

func parseLiteral(p *jsonParser, kind syntax.Kind) parser.ParsedSyntax {
	m := p.Start()
	p.BumpAny()
	return parser.Present(m.Complete(p, kind))
}

func (g grammar) parseObject(p *jsonParser) parser.ParsedSyntax {
	m := p.Start()
	p.Bump(LCurly)
	parser.ParseSeparatedList(p, memberList{g})
	p.Expect(RCurly)
	return parser.Present(m.Complete(p, ObjectValue))
}

func (g grammar) parseArray(p *jsonParser) parser.ParsedSyntax {
	m := p.Start()
	p.Bump(LBrack)
	parser.ParseSeparatedList(p, elementList{g})
	p.Expect(RBrack)
	return parser.Present(m.Complete(p, ArrayValue))
}

func (g grammar) parseMember(p *jsonParser) parser.ParsedSyntax {
	if !p.At(StringLiteral) && !p.At(Ident) {
		return parser.Absent
	}
	m := p.Start()
	name := p.Start()
	if p.At(Ident) {
		p.Error(diag.Markup(diag.Text("property names must be double quoted")))
	}
	p.BumpAny()
	name.Complete(p, MemberName)

	p.Expect(Colon)
	g.parseValue(p).OrAddDiagnostic(p, parser.ExpectedNode("a value"))
	return parser.Present(m.Complete(p, Member))
}

// memberList: "a": 1, "b": 2
type memberList struct{ g grammar }

func (memberList) ListKind() syntax.Kind { return MemberList }
func (memberList) Separator() syntax.Kind { return Comma }
func (l memberList) AllowTrailingSeparator() bool { return l.g.opts.AllowTrailingCommas }
func (memberList) IsAtListEnd(p *jsonParser) bool { return p.At(RCurly) }
func (l memberList) ParseElement(p *jsonParser) parser.ParsedSyntax { return l.g.parseMember(p) }

func (memberList) Recover(p *jsonParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, memberRecovery, parser.ExpectedNode("a property"))
	return err
}

// elementList: 1, "two", [3]
type elementList struct{ g grammar }

func (elementList) ListKind() syntax.Kind { return ArrayElementList }
func (elementList) Separator() syntax.Kind { return Comma }
func (l elementList) AllowTrailingSeparator() bool { return l.g.opts.AllowTrailingCommas }
func (elementList) IsAtListEnd(p *jsonParser) bool { return p.At(RBrack) }
func (l elementList) ParseElement(p *jsonParser) parser.ParsedSyntax { return l.g.parseValue(p) }

func (elementList) Recover(p *jsonParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, valueRecovery, parser.ExpectedNode("an array element"))
	return err
}
