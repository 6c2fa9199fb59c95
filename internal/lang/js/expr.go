package js

import (
	"verdant/internal/diag"
	"verdant/internal/parser"
	"verdant/internal/syntax"
)

var expectedExpression = parser.ExpectedNode("an expression")

func (p *jsParser) parseExpression() parser.ParsedSyntax {
	return p.parseAssignmentExpression()
}

func (p *jsParser) parseAssignmentExpression() parser.ParsedSyntax {
	if arrow := p.tryParseArrowFunction(); arrow.IsPresent() {
		return arrow
	}
	lhs := p.parseConditionalExpression()
	if lhs.IsAbsent() || !p.AtTS(assignOperators) {
		return lhs
	}
	cm, _ := lhs.Marker()
	p.toAssignmentTarget(&cm)
	m := cm.Precede(p)
	p.BumpTS(assignOperators)
	p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
	return parser.Present(m.Complete(p, AssignmentExpression))
}

// toAssignmentTarget re-kinds an already parsed expression as the left side
// of an assignment or an update.
func (p *jsParser) toAssignmentTarget(cm *parser.CompletedMarker) {
	switch cm.Kind() {
	case IdentifierExpression:
		cm.ChangeKind(p, IdentifierAssignment)
	case StaticMemberExpression, ComputedMemberExpression, ParenthesizedExpression,
		Metavariable, BogusExpression, BogusAssignment:
	default:
		p.ErrorAt(cm.Range(), msg("invalid assignment target"))
		cm.ChangeKind(p, BogusAssignment)
	}
}

// tryParseArrowFunction parses `x => ...`, `async x => ...` and the
// parenthesized forms. The parameter list is parsed speculatively: anything
// that does not end in `=>` rewinds and is parsed as an expression instead.
func (p *jsParser) tryParseArrowFunction() parser.ParsedSyntax {
	async := p.At(AsyncKw) && !p.NthAt(1, Arrow) && !p.HasNthPrecedingLineBreak(1)
	offset := 0
	if async {
		offset = 1
	}
	next := p.Nth(offset)
	if (p.isIdentName(next) || next == GritMetavariable) && p.NthAt(offset+1, Arrow) && !p.HasNthPrecedingLineBreak(offset+1) {
		m := p.Start()
		if async {
			p.Bump(AsyncKw)
		}
		p.parseBinding()
		return p.parseArrowRest(m, async)
	}
	if next != LParen {
		return parser.Absent
	}

	cp := p.Checkpoint()
	var m parser.Marker
	ok := p.Speculate(func() bool {
		m = p.Start()
		if async {
			p.Bump(AsyncKw)
		}
		p.parseParameters()
		return len(p.Diagnostics()) == cp.DiagCount() && p.At(Arrow) && !p.HasPrecedingLineBreak()
	})
	if !ok {
		p.Rewind(cp)
		return parser.Absent
	}
	return p.parseArrowRest(m, async)
}

func (p *jsParser) parseArrowRest(m parser.Marker, async bool) parser.ParsedSyntax {
	p.Bump(Arrow)
	p.withState(parseState{inFunction: true, inAsync: async}, func() {
		if p.At(LCurly) {
			p.parseFunctionBody()
			return
		}
		p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
	})
	return parser.Present(m.Complete(p, ArrowFunctionExpression))
}

func (p *jsParser) parseConditionalExpression() parser.ParsedSyntax {
	test := p.parseBinaryExpression(0)
	if test.IsAbsent() || !p.At(Question) {
		return test
	}
	m := test.Precede(p)
	p.Bump(Question)
	p.withNoIn(false, func() {
		p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
	})
	p.Expect(Colon)
	p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
	return parser.Present(m.Complete(p, ConditionalExpression))
}

// binaryPrecedence is 0 for tokens that are not binary operators here.
func (p *jsParser) binaryPrecedence(k syntax.Kind) int {
	switch k {
	case Question2:
		return 1
	case Pipe2:
		return 2
	case Amp2:
		return 3
	case Pipe:
		return 4
	case Caret:
		return 5
	case Amp:
		return 6
	case Eq2, Eq3, Neq, Neq2:
		return 7
	case Lt, Gt, LtEq, GtEq, InstanceofKw:
		return 8
	case InKw:
		if p.state.noIn {
			return 0
		}
		return 8
	case Shl, Shr, UShr:
		return 9
	case Plus, Minus:
		return 10
	case Star, Slash, Percent:
		return 11
	case Star2:
		return 12
	}
	return 0
}

func (p *jsParser) parseBinaryExpression(minPrec int) parser.ParsedSyntax {
	left := p.parseUnaryExpression()
	if left.IsAbsent() {
		return left
	}
	for {
		op := p.Cur()
		prec := p.binaryPrecedence(op)
		if prec <= minPrec {
			return left
		}
		m := left.Precede(p)
		p.BumpAny()
		rightMin := prec
		if op == Star2 {
			// ** правоассоциативен
			rightMin = prec - 1
		}
		p.parseBinaryExpression(rightMin).OrAddDiagnostic(p, expectedExpression)
		kind := BinaryExpression
		if op == Amp2 || op == Pipe2 || op == Question2 {
			kind = LogicalExpression
		}
		left = parser.Present(m.Complete(p, kind))
	}
}

func (p *jsParser) parseUnaryExpression() parser.ParsedSyntax {
	switch {
	case p.AtTS(unaryOperators):
		m := p.Start()
		p.BumpAny()
		p.parseUnaryExpression().OrAddDiagnostic(p, expectedExpression)
		return parser.Present(m.Complete(p, UnaryExpression))
	case p.AtTS(updateOperators):
		m := p.Start()
		p.BumpAny()
		operand := p.parseUnaryExpression()
		if cm, ok := operand.Marker(); ok {
			p.toAssignmentTarget(&cm)
		} else {
			operand.OrAddDiagnostic(p, expectedExpression)
		}
		return parser.Present(m.Complete(p, PreUpdateExpression))
	case p.At(AwaitKw) && p.awaitIsKeyword():
		m := p.Start()
		if p.state.inFunction && !p.state.inAsync {
			p.Error(diag.Markup(diag.Code("await"),
				diag.Text(" is only allowed within async functions and at the top level of modules")))
		}
		p.Bump(AwaitKw)
		p.parseUnaryExpression().OrAddDiagnostic(p, expectedExpression)
		return parser.Present(m.Complete(p, AwaitExpression))
	}
	return p.parsePostfixExpression()
}

func (p *jsParser) parsePostfixExpression() parser.ParsedSyntax {
	lhs := p.parseLeftHandSideExpression()
	if lhs.IsAbsent() || !p.AtTS(updateOperators) || p.HasPrecedingLineBreak() {
		return lhs
	}
	cm, _ := lhs.Marker()
	p.toAssignmentTarget(&cm)
	m := cm.Precede(p)
	p.BumpAny()
	return parser.Present(m.Complete(p, PostUpdateExpression))
}

func (p *jsParser) parseLeftHandSideExpression() parser.ParsedSyntax {
	var lhs parser.ParsedSyntax
	if p.At(NewKw) {
		lhs = p.parseNewExpression()
	} else {
		lhs = p.parsePrimaryExpression()
	}
	if lhs.IsAbsent() {
		return lhs
	}
	return p.parseCallsAndMembers(lhs, true)
}

func (p *jsParser) parseCallsAndMembers(lhs parser.ParsedSyntax, calls bool) parser.ParsedSyntax {
	for {
		optional := p.At(QuestionDot)
		switch {
		case p.At(Dot) || optional && !p.NthAt(1, LParen) && !p.NthAt(1, LBrack):
			m := lhs.Precede(p)
			p.BumpAny()
			p.parseMemberName()
			lhs = parser.Present(m.Complete(p, StaticMemberExpression))
		case p.At(LBrack) || optional && p.NthAt(1, LBrack):
			m := lhs.Precede(p)
			p.Eat(QuestionDot)
			p.Bump(LBrack)
			p.withNoIn(false, func() {
				p.parseExpression().OrAddDiagnostic(p, expectedExpression)
			})
			p.Expect(RBrack)
			lhs = parser.Present(m.Complete(p, ComputedMemberExpression))
		case calls && (p.At(LParen) || optional && p.NthAt(1, LParen)):
			m := lhs.Precede(p)
			p.Eat(QuestionDot)
			p.parseCallArguments()
			lhs = parser.Present(m.Complete(p, CallExpression))
		default:
			return lhs
		}
	}
}

// parseMemberName: after `.` any identifier name, keywords included.
func (p *jsParser) parseMemberName() {
	switch {
	case p.At(GritMetavariable):
		p.Bump(GritMetavariable)
	case p.At(Ident) || IsKeyword(p.Cur()):
		p.BumpRemap(Ident)
	default:
		p.Error(parser.ExpectedNode("a member name")(p, p.CurRange()))
	}
}

func (p *jsParser) parseNewExpression() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(NewKw)
	var callee parser.ParsedSyntax
	if p.At(NewKw) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimaryExpression()
	}
	if callee.IsPresent() {
		p.parseCallsAndMembers(callee, false)
	} else {
		callee.OrAddDiagnostic(p, expectedExpression)
	}
	if p.At(LParen) {
		p.parseCallArguments()
	}
	return parser.Present(m.Complete(p, NewExpression))
}

func (p *jsParser) parseCallArguments() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(LParen)
	p.withNoIn(false, func() {
		parser.ParseSeparatedList(p, argumentList{})
	})
	p.Expect(RParen)
	return parser.Present(m.Complete(p, CallArguments))
}

type argumentList struct{}

func (argumentList) ListKind() syntax.Kind { return CallArgumentList }
func (argumentList) Separator() syntax.Kind { return Comma }
func (argumentList) AllowTrailingSeparator() bool { return true }
func (argumentList) IsAtListEnd(p *jsParser) bool { return p.At(RParen) }
func (argumentList) ParseElement(p *jsParser) parser.ParsedSyntax { return p.parseSpreadOrExpression() }

func (argumentList) Recover(p *jsParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, argRecovery, expectedExpression)
	return err
}

func (p *jsParser) parseSpreadOrExpression() parser.ParsedSyntax {
	if !p.At(Dot3) {
		return p.parseAssignmentExpression()
	}
	m := p.Start()
	p.Bump(Dot3)
	p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
	return parser.Present(m.Complete(p, Spread))
}

func (p *jsParser) single(kind syntax.Kind) parser.ParsedSyntax {
	m := p.Start()
	p.BumpAny()
	return parser.Present(m.Complete(p, kind))
}

func (p *jsParser) parsePrimaryExpression() parser.ParsedSyntax {
	switch p.Cur() {
	case ThisKw:
		return p.single(ThisExpression)
	case NumberLiteral:
		return p.single(NumberLiteralExpression)
	case StringLiteral:
		return p.single(StringLiteralExpression)
	case TrueKw, FalseKw:
		return p.single(BooleanLiteralExpression)
	case NullKw:
		return p.single(NullLiteralExpression)
	case GritMetavariable:
		return p.single(Metavariable)
	case Slash, SlashEq:
		// в позиции выражения `/` начинает регулярное выражение
		if p.ReLex(CtxRegex) == RegexLiteral {
			return p.single(RegexLiteralExpression)
		}
		return parser.Absent
	case Backtick:
		return p.parseTemplate()
	case LParen:
		m := p.Start()
		p.Bump(LParen)
		p.withNoIn(false, func() {
			p.parseExpression().OrAddDiagnostic(p, expectedExpression)
		})
		p.Expect(RParen)
		return parser.Present(m.Complete(p, ParenthesizedExpression))
	case LBrack:
		return p.parseArray()
	case LCurly:
		return p.parseObject()
	case FunctionKw:
		return p.parseFunctionExpression()
	case AsyncKw:
		if p.NthAt(1, FunctionKw) && !p.HasNthPrecedingLineBreak(1) {
			return p.parseFunctionExpression()
		}
	}
	if p.isAtIdentName() {
		m := p.Start()
		p.BumpRemap(Ident)
		return parser.Present(m.Complete(p, IdentifierExpression))
	}
	return parser.Absent
}

func (p *jsParser) parseFunctionExpression() parser.ParsedSyntax {
	m := p.Start()
	async := p.Eat(AsyncKw)
	p.Bump(FunctionKw)
	p.generatorStar()
	p.parseBinding()
	p.parseFunctionRest(async)
	return parser.Present(m.Complete(p, FunctionExpression))
}

// parseTemplate lexes the body of the literal in the template context;
// substitutions go back to the regular context until their `}`.
func (p *jsParser) parseTemplate() parser.ParsedSyntax {
	m := p.Start()
	p.BumpWithContext(Backtick, CtxTemplate)
	list := p.Start()
	for !p.At(Backtick) && !p.AtEOF() {
		e := p.Start()
		switch p.Cur() {
		case TemplateChunk:
			p.BumpWithContext(TemplateChunk, CtxTemplate)
			e.Complete(p, TemplateChunkElement)
		case DollarCurly:
			p.Bump(DollarCurly)
			p.withNoIn(false, func() {
				p.parseExpression().OrAddDiagnostic(p, expectedExpression)
			})
			p.ExpectWithContext(RCurly, CtxTemplate)
			e.Complete(p, TemplateElement)
		default:
			p.BumpWithContext(p.Cur(), CtxTemplate)
			e.Complete(p, Bogus)
		}
	}
	list.Complete(p, TemplateElementList)
	p.Expect(Backtick)
	return parser.Present(m.Complete(p, TemplateExpression))
}

func (p *jsParser) parseArray() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(LBrack)
	list := p.Start()
	p.withNoIn(false, func() {
		for !p.At(RBrack) && !p.AtEOF() {
			if p.At(Comma) {
				hole := p.Start()
				hole.Complete(p, ArrayHole)
				p.Bump(Comma)
				continue
			}
			el := p.parseSpreadOrExpression()
			if _, err := el.OrRecover(p, arrayRecovery, parser.ExpectedNode("an array element")); err != nil {
				return
			}
			if !p.At(RBrack) && !p.Expect(Comma) && p.AtTS(arrayRecovery.Recovery) {
				return
			}
		}
	})
	list.Complete(p, ArrayElementList)
	p.Expect(RBrack)
	return parser.Present(m.Complete(p, ArrayExpression))
}

func (p *jsParser) parseObject() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(LCurly)
	p.withNoIn(false, func() {
		parser.ParseSeparatedList(p, objectMemberList{})
	})
	p.Expect(RCurly)
	return parser.Present(m.Complete(p, ObjectExpression))
}

type objectMemberList struct{}

func (objectMemberList) ListKind() syntax.Kind { return ObjectMemberList }
func (objectMemberList) Separator() syntax.Kind { return Comma }
func (objectMemberList) AllowTrailingSeparator() bool { return true }
func (objectMemberList) IsAtListEnd(p *jsParser) bool { return p.At(RCurly) }
func (objectMemberList) ParseElement(p *jsParser) parser.ParsedSyntax { return p.parseObjectMember() }

func (objectMemberList) Recover(p *jsParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, memberRecovery, parser.ExpectedNode("a property"))
	return err
}

func (p *jsParser) isAtLiteralMemberName() bool {
	switch p.Cur() {
	case Ident, StringLiteral, NumberLiteral, GritMetavariable:
		return true
	}
	return IsKeyword(p.Cur())
}

func (p *jsParser) parseObjectMember() parser.ParsedSyntax {
	switch {
	case p.At(Dot3):
		return p.parseSpreadOrExpression()
	case p.At(LBrack):
		m := p.Start()
		name := p.Start()
		p.Bump(LBrack)
		p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
		p.Expect(RBrack)
		name.Complete(p, ComputedMemberName)
		return p.parseObjectMemberRest(m)
	case p.isAtIdentName() && (p.NthAt(1, Comma) || p.NthAt(1, RCurly)):
		m := p.Start()
		ref := p.Start()
		p.BumpRemap(Ident)
		ref.Complete(p, IdentifierExpression)
		return parser.Present(m.Complete(p, ShorthandPropertyObjectMember))
	case p.isAtLiteralMemberName():
		m := p.Start()
		name := p.Start()
		if p.At(Ident) || IsKeyword(p.Cur()) {
			p.BumpRemap(Ident)
		} else {
			p.BumpAny()
		}
		name.Complete(p, LiteralMemberName)
		return p.parseObjectMemberRest(m)
	}
	return parser.Absent
}

func (p *jsParser) parseObjectMemberRest(m parser.Marker) parser.ParsedSyntax {
	if p.At(LParen) {
		p.parseFunctionRest(false)
		return parser.Present(m.Complete(p, MethodObjectMember))
	}
	p.Expect(Colon)
	p.parseAssignmentExpression().OrAddDiagnostic(p, expectedExpression)
	return parser.Present(m.Complete(p, PropertyObjectMember))
}
