package js

import (
	"errors"

	"verdant/internal/diag"
	"verdant/internal/parser"
	"verdant/internal/syntax"
)

// jsParser carries the grammar state the framework does not know about.
type jsParser struct {
	*parser.Parser[Context]
	source FileSource
	opts   ParserOptions
	state  parseState
}

type parseState struct {
	inFunction bool
	inAsync    bool
	inLoop     bool
	// noIn: `in` не бинарный оператор (инициализатор for)
	noIn bool
}

// withState runs fn with s and restores the previous state afterwards.
func (p *jsParser) withState(s parseState, fn func()) {
	prev := p.state
	p.state = s
	defer func() { p.state = prev }()
	fn()
}

func (p *jsParser) withNoIn(noIn bool, fn func()) {
	s := p.state
	s.noIn = noIn
	p.withState(s, fn)
}

var (
	stmtRecovery = parser.NewRecovery(BogusStatement, parser.NewTokenSet(
		Semicolon, RCurly, VarKw, ConstKw, FunctionKw, IfKw, WhileKw, ForKw,
		ReturnKw, ImportKw, ExportKw, DebuggerKw, BreakKw, ContinueKw, ThrowKw,
	)).EnableRecoveryOnLineBreak()
	paramRecovery    = parser.NewRecovery(BogusParameter, parser.NewTokenSet(Comma, RParen, LCurly, Arrow))
	argRecovery      = parser.NewRecovery(BogusExpression, parser.NewTokenSet(Comma, RParen, Semicolon, RCurly))
	arrayRecovery    = parser.NewRecovery(BogusExpression, parser.NewTokenSet(Comma, RBrack, Semicolon))
	memberRecovery   = parser.NewRecovery(BogusMember, parser.NewTokenSet(Comma, RCurly, Semicolon))
	specRecovery     = parser.NewRecovery(Bogus, parser.NewTokenSet(Comma, RCurly, FromKw, Semicolon))
	assignOperators  = parser.NewTokenSet(Eq, PlusEq, MinusEq, StarEq, Star2Eq, SlashEq, PercentEq, AmpEq, PipeEq, CaretEq, ShlEq, ShrEq, UShrEq, Amp2Eq, Pipe2Eq, Question2Eq)
	unaryOperators   = parser.NewTokenSet(Bang, Minus, Plus, Tilde, TypeofKw, VoidKw, DeleteKw)
	updateOperators  = parser.NewTokenSet(Plus2, Minus2)
	declarationStart = parser.NewTokenSet(VarKw, LetKw, ConstKw)
)

func msg(text string) diag.Message { return diag.Markup(diag.Text(text)) }

// awaitIsKeyword: в async-функциях и на верхнем уровне модуля await ключевое слово
func (p *jsParser) awaitIsKeyword() bool {
	return p.state.inAsync || p.source.IsModule()
}

func (p *jsParser) isIdentName(k syntax.Kind) bool {
	switch k {
	case Ident, LetKw, AsyncKw, FromKw, AsKw, OfKw:
		return true
	case AwaitKw:
		return !p.awaitIsKeyword()
	}
	return false
}

func (p *jsParser) isAtIdentName() bool { return p.isIdentName(p.Cur()) }

func (p *jsParser) parseProgram() {
	m := p.Start()
	kind, listKind := Module, ModuleItemList
	if !p.source.IsModule() {
		kind, listKind = Script, StatementList
	}
	parser.ParseNodeList(p, statementList{kind: listKind})
	p.Bump(EOF)
	m.Complete(p, kind)
}

// statementList: top-level items or the statements of a block.
type statementList struct {
	kind  syntax.Kind
	block bool
}

func (l statementList) ListKind() syntax.Kind { return l.kind }
func (l statementList) IsAtListEnd(p *jsParser) bool { return l.block && p.At(RCurly) }
func (statementList) ParseElement(p *jsParser) parser.ParsedSyntax { return p.parseStatement() }

func (statementList) Recover(p *jsParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, stmtRecovery, parser.ExpectedNode("a statement"))
	if errors.Is(err, parser.ErrAlreadyRecovered) {
		// точка восстановления, с которой не начинается ни один оператор
		m := p.Start()
		p.BumpAny()
		m.Complete(p, BogusStatement)
		return nil
	}
	return err
}

func (p *jsParser) parseStatement() parser.ParsedSyntax {
	switch p.Cur() {
	case Semicolon:
		m := p.Start()
		p.Bump(Semicolon)
		return parser.Present(m.Complete(p, EmptyStatement))
	case LCurly:
		return p.parseBlockStatement()
	case VarKw, ConstKw:
		return p.parseVariableStatement()
	case LetKw:
		if next := p.Nth(1); p.isIdentName(next) || next == LBrack || next == LCurly {
			return p.parseVariableStatement()
		}
	case FunctionKw:
		return p.parseFunctionDeclaration(false)
	case AsyncKw:
		if p.NthAt(1, FunctionKw) && !p.HasNthPrecedingLineBreak(1) {
			return p.parseFunctionDeclaration(false)
		}
	case ReturnKw:
		return p.parseReturnStatement()
	case IfKw:
		return p.parseIfStatement()
	case WhileKw:
		return p.parseWhileStatement()
	case ForKw:
		return p.parseForStatement()
	case BreakKw:
		return p.parseJumpStatement(BreakStatement)
	case ContinueKw:
		return p.parseJumpStatement(ContinueStatement)
	case ThrowKw:
		return p.parseThrowStatement()
	case DebuggerKw:
		m := p.Start()
		p.Bump(DebuggerKw)
		p.semicolon()
		return parser.Present(m.Complete(p, DebuggerStatement))
	case ImportKw:
		return p.moduleOnly(p.parseImport(), "import")
	case ExportKw:
		return p.moduleOnly(p.parseExport(), "export")
	}
	return p.parseExpressionStatement()
}

// semicolon consumes `;` or accepts an automatically inserted one: before
// `}`, at the end of the file or after a line break.
func (p *jsParser) semicolon() {
	if p.Eat(Semicolon) {
		return
	}
	if p.At(RCurly) || p.AtEOF() || p.HasPrecedingLineBreak() {
		return
	}
	p.ErrorAt(p.MissingRange(), msg("expected a semicolon or an implicit semicolon after a statement, but found none"))
}

func (p *jsParser) parseExpressionStatement() parser.ParsedSyntax {
	m := p.Start()
	if p.parseExpression().IsAbsent() {
		m.Abandon(p)
		return parser.Absent
	}
	p.semicolon()
	return parser.Present(m.Complete(p, ExpressionStatement))
}

func (p *jsParser) parseBlockStatement() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(LCurly)
	parser.ParseNodeList(p, statementList{kind: StatementList, block: true})
	p.Expect(RCurly)
	return parser.Present(m.Complete(p, BlockStatement))
}

func (p *jsParser) parseVariableStatement() parser.ParsedSyntax {
	m := p.Start()
	p.parseVariableDeclaration()
	p.semicolon()
	return parser.Present(m.Complete(p, VariableStatement))
}

// parseVariableDeclaration: `let a = 1, b` without the terminating semicolon.
func (p *jsParser) parseVariableDeclaration() parser.ParsedSyntax {
	m := p.Start()
	kind := p.Cur()
	p.BumpTS(declarationStart)
	list := p.Start()
	for {
		p.parseVariableDeclarator(kind)
		if !p.Eat(Comma) {
			break
		}
	}
	list.Complete(p, VariableDeclaratorList)
	return parser.Present(m.Complete(p, VariableDeclaration))
}

func (p *jsParser) parseVariableDeclarator(kind syntax.Kind) parser.ParsedSyntax {
	m := p.Start()
	binding := p.parseBinding().OrAddDiagnostic(p, parser.ExpectedNode("an identifier"))
	if p.At(Eq) {
		p.parseInitializer()
	} else if kind == ConstKw {
		if b, ok := binding.Marker(); ok {
			p.ErrorAt(b.Range(), msg("const declarations must have an initialized value"))
		}
	}
	return parser.Present(m.Complete(p, VariableDeclarator))
}

func (p *jsParser) parseInitializer() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(Eq)
	p.parseAssignmentExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
	return parser.Present(m.Complete(p, InitializerClause))
}

func (p *jsParser) parseBinding() parser.ParsedSyntax {
	switch {
	case p.At(GritMetavariable):
		m := p.Start()
		p.Bump(GritMetavariable)
		return parser.Present(m.Complete(p, Metavariable))
	case p.isAtIdentName():
		m := p.Start()
		p.BumpRemap(Ident)
		return parser.Present(m.Complete(p, IdentifierBinding))
	}
	return parser.Absent
}

func (p *jsParser) parseFunctionDeclaration(nameOptional bool) parser.ParsedSyntax {
	m := p.Start()
	async := p.Eat(AsyncKw)
	p.Bump(FunctionKw)
	p.generatorStar()
	name := p.parseBinding()
	if !nameOptional {
		name.OrAddDiagnostic(p, parser.ExpectedNode("a function name"))
	}
	p.parseFunctionRest(async)
	return parser.Present(m.Complete(p, FunctionDeclaration))
}

func (p *jsParser) generatorStar() {
	if p.At(Star) {
		p.Error(msg("generator functions are not supported"))
		p.Bump(Star)
	}
}

// parseFunctionRest parses parameters and body in a fresh function context.
func (p *jsParser) parseFunctionRest(async bool) {
	p.withState(parseState{inFunction: true, inAsync: async}, func() {
		p.parseParameters()
		p.parseFunctionBody()
	})
}

func (p *jsParser) parseParameters() parser.ParsedSyntax {
	if !p.At(LParen) {
		p.Expect(LParen)
		return parser.Absent
	}
	m := p.Start()
	p.Bump(LParen)
	parser.ParseSeparatedList(p, parameterList{})
	p.Expect(RParen)
	return parser.Present(m.Complete(p, Parameters))
}

type parameterList struct{}

func (parameterList) ListKind() syntax.Kind { return ParameterList }
func (parameterList) Separator() syntax.Kind { return Comma }
func (parameterList) AllowTrailingSeparator() bool { return true }
func (parameterList) IsAtListEnd(p *jsParser) bool { return p.At(RParen) }
func (parameterList) ParseElement(p *jsParser) parser.ParsedSyntax { return p.parseParameter() }

func (parameterList) Recover(p *jsParser, parsed parser.ParsedSyntax) error {
	_, err := parsed.OrRecover(p, paramRecovery, parser.ExpectedNode("a parameter"))
	return err
}

func (p *jsParser) parseParameter() parser.ParsedSyntax {
	if p.At(Dot3) {
		m := p.Start()
		p.Bump(Dot3)
		p.parseBinding().OrAddDiagnostic(p, parser.ExpectedNode("an identifier"))
		return parser.Present(m.Complete(p, RestParameter))
	}
	if !p.isAtIdentName() && !p.At(GritMetavariable) {
		return parser.Absent
	}
	m := p.Start()
	p.parseBinding()
	if p.At(Eq) {
		p.parseInitializer()
	}
	return parser.Present(m.Complete(p, FormalParameter))
}

func (p *jsParser) parseFunctionBody() parser.ParsedSyntax {
	m := p.Start()
	if !p.Expect(LCurly) {
		m.Abandon(p)
		return parser.Absent
	}
	parser.ParseNodeList(p, statementList{kind: StatementList, block: true})
	p.Expect(RCurly)
	return parser.Present(m.Complete(p, FunctionBody))
}

func (p *jsParser) parseReturnStatement() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(ReturnKw)
	if !p.At(Semicolon) && !p.At(RCurly) && !p.AtEOF() && !p.HasPrecedingLineBreak() {
		p.parseExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
	}
	p.semicolon()
	cm := m.Complete(p, ReturnStatement)
	if !p.state.inFunction && !p.opts.AllowReturnOutsideFunction {
		p.ErrorAt(cm.Range(), msg("illegal return statement outside of a function"))
		cm.ChangeToBogus(p)
	}
	return parser.Present(cm)
}

func (p *jsParser) parseCondition() {
	p.Expect(LParen)
	p.withNoIn(false, func() {
		p.parseExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
	})
	p.Expect(RParen)
}

func (p *jsParser) parseIfStatement() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(IfKw)
	p.parseCondition()
	p.parseStatement().OrAddDiagnostic(p, parser.ExpectedNode("a statement"))
	if p.At(ElseKw) {
		e := p.Start()
		p.Bump(ElseKw)
		p.parseStatement().OrAddDiagnostic(p, parser.ExpectedNode("a statement"))
		e.Complete(p, ElseClause)
	}
	return parser.Present(m.Complete(p, IfStatement))
}

func (p *jsParser) parseLoopBody() {
	s := p.state
	s.inLoop = true
	p.withState(s, func() {
		p.parseStatement().OrAddDiagnostic(p, parser.ExpectedNode("a statement"))
	})
}

func (p *jsParser) parseWhileStatement() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(WhileKw)
	p.parseCondition()
	p.parseLoopBody()
	return parser.Present(m.Complete(p, WhileStatement))
}

// parseForStatement handles the classic three-clause form only.
func (p *jsParser) parseForStatement() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(ForKw)
	p.Expect(LParen)
	switch {
	case p.At(Semicolon):
	case p.At(VarKw) || p.At(ConstKw) || p.At(LetKw) && p.isIdentName(p.Nth(1)):
		p.withNoIn(true, func() { p.parseVariableDeclaration() })
	default:
		p.withNoIn(true, func() {
			p.parseExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
		})
	}
	p.Expect(Semicolon)
	if !p.At(Semicolon) {
		p.parseExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
	}
	p.Expect(Semicolon)
	if !p.At(RParen) {
		p.parseExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
	}
	p.Expect(RParen)
	p.parseLoopBody()
	return parser.Present(m.Complete(p, ForStatement))
}

func (p *jsParser) parseJumpStatement(kind syntax.Kind) parser.ParsedSyntax {
	m := p.Start()
	keyword := p.CurRange()
	p.BumpAny()
	if p.isAtIdentName() && !p.HasPrecedingLineBreak() {
		p.BumpRemap(Ident)
	}
	p.semicolon()
	if !p.state.inLoop {
		text := "break"
		if kind == ContinueStatement {
			text = "continue"
		}
		p.ErrorAt(keyword, diag.Markup(diag.Text("a "), diag.Code(text), diag.Text(" statement can only be used within a loop")))
	}
	return parser.Present(m.Complete(p, kind))
}

func (p *jsParser) parseThrowStatement() parser.ParsedSyntax {
	m := p.Start()
	p.Bump(ThrowKw)
	if p.HasPrecedingLineBreak() {
		p.Error(diag.Markup(diag.Text("line breaks are not allowed after "), diag.Code("throw")))
	}
	p.parseExpression().OrAddDiagnostic(p, parser.ExpectedNode("an expression"))
	p.semicolon()
	return parser.Present(m.Complete(p, ThrowStatement))
}

// moduleOnly turns import/export in a script into a bogus statement.
func (p *jsParser) moduleOnly(parsed parser.ParsedSyntax, what string) parser.ParsedSyntax {
	if p.source.IsModule() || parsed.IsAbsent() {
		return parsed
	}
	cm, _ := parsed.Marker()
	p.ErrorAt(cm.Range(), diag.Markup(diag.Text("illegal use of an "), diag.Code(what),
		diag.Text(" declaration outside of a module")))
	return parsed.ChangeToBogus(p)
}
