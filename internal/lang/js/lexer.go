package js

import (
	"strings"

	"verdant/internal/lexer"
	"verdant/internal/syntax"
)

// Context selects the JS sub-lexer.
type Context uint8

const (
	CtxRegular Context = iota
	// CtxRegex lexes a leading `/` as a regular expression literal.
	CtxRegex
	// CtxTemplate lexes the inside of a template literal: chunks, `${` and the closing backtick.
	CtxTemplate
)

func (c Context) String() string {
	switch c {
	case CtxRegular:
		return "regular"
	case CtxRegex:
		return "regex"
	case CtxTemplate:
		return "template"
	}
	return "unknown"
}

// Lexer tokenizes the JS subset.
type Lexer struct {
	lexer.Base
	metavariables bool
}

var _ lexer.Lexer[Context] = (*Lexer)(nil)

func NewLexer(text string, opts ParserOptions) *Lexer {
	return &Lexer{Base: lexer.NewBase(text, EOF), metavariables: opts.GritMetavariables}
}

func (l *Lexer) NextToken(ctx Context) syntax.Kind {
	if l.EOF() {
		return l.EmitEOF()
	}
	l.StartToken()
	if ctx == CtxTemplate {
		return l.lexTemplate()
	}

	b := l.Peek()
	switch {
	case lexer.IsBlank(b):
		return l.lexWhitespace()
	case b == '\n' || b == '\r':
		l.EatNewline()
		return l.EmitTrivia(Newline, true)
	case b == '/':
		switch l.PeekAt(1) {
		case '/':
			l.EatWhile(func(b byte) bool { return b != '\n' && b != '\r' })
			return l.EmitTrivia(Comment, false)
		case '*':
			return l.lexBlockComment()
		}
		if ctx == CtxRegex {
			return l.lexRegex()
		}
		l.Bump()
		if l.Eat('=') {
			return l.Emit(SlashEq)
		}
		return l.Emit(Slash)
	case b == '"' || b == '\'':
		return l.lexString(b)
	case lexer.IsDec(b) || b == '.' && lexer.IsDec(l.PeekAt(1)):
		return l.lexNumber()
	case b == '`':
		l.Bump()
		return l.Emit(Backtick)
	case lexer.IsIdentStartByte(b) || b == '\\':
		return l.lexIdent()
	case b >= lexer.RuneSelf:
		return l.lexUnicode()
	}
	return l.lexPunct(b)
}

// ReLex lexes the current token again, e.g. `/` as the start of a regex.
func (l *Lexer) ReLex(ctx Context) syntax.Kind {
	l.RewindToTokenStart()
	return l.NextToken(ctx)
}

func (l *Lexer) lexWhitespace() syntax.Kind {
	for !l.EOF() {
		if lexer.IsBlank(l.Peek()) {
			l.Bump()
			continue
		}
		r, sz := l.PeekRune()
		if sz == 0 || !lexer.IsUnicodeSpace(r) {
			break
		}
		l.BumpN(sz)
	}
	return l.EmitTrivia(Whitespace, false)
}

func (l *Lexer) lexUnicode() syntax.Kind {
	r, sz := l.PeekRune()
	switch {
	case lexer.IsLineTerminatorRune(r):
		l.BumpN(sz)
		return l.EmitTrivia(Newline, true)
	case lexer.IsUnicodeSpace(r):
		return l.lexWhitespace()
	case r == 'μ' && l.metavariables:
		l.BumpN(sz)
		for !l.EOF() && lexer.IsIdentContinueByte(l.Peek()) {
			l.Bump()
		}
		return l.Emit(GritMetavariable)
	case lexer.IsIdentStartRune(r):
		return l.lexIdent()
	}
	l.BumpN(sz)
	l.Error(l.CurrentRange(), "unexpected character `%c`", r)
	return l.Emit(ErrorToken)
}

func (l *Lexer) lexBlockComment() syntax.Kind {
	l.BumpN(2)
	newline := false
	for !l.EOF() {
		if l.Try2('*', '/') {
			return l.EmitTrivia(MultilineComment, newline)
		}
		r := l.BumpRune()
		if lexer.IsLineTerminatorRune(r) {
			newline = true
		}
	}
	l.Error(l.CurrentRange(), "unterminated block comment")
	return l.EmitTrivia(MultilineComment, newline)
}

func (l *Lexer) lexString(quote byte) syntax.Kind {
	l.Bump()
	for !l.EOF() {
		switch b := l.Peek(); b {
		case quote:
			l.Bump()
			return l.Emit(StringLiteral)
		case '\\':
			l.Bump()
			// продолжение строки: "\" + перевод строки
			if !l.EOF() && !l.EatNewline() {
				l.BumpRune()
			}
		case '\n', '\r':
			l.Error(l.CurrentRange(), "unterminated string literal")
			return l.Emit(StringLiteral)
		default:
			l.BumpRune()
		}
	}
	l.Error(l.CurrentRange(), "unterminated string literal")
	return l.Emit(StringLiteral)
}

func (l *Lexer) digits(pred func(byte) bool) int {
	n := 0
	for !l.EOF() {
		b := l.Peek()
		switch {
		case pred(b):
			n++
		case b == '_' && n > 0 && pred(l.PeekAt(1)):
		default:
			return n
		}
		l.Bump()
	}
	return n
}

func (l *Lexer) lexNumber() syntax.Kind {
	if l.Peek() == '0' {
		var pred func(byte) bool
		switch l.PeekAt(1) | 0x20 {
		case 'x':
			pred = lexer.IsHex
		case 'o':
			pred = lexer.IsOct
		case 'b':
			pred = lexer.IsBin
		}
		if pred != nil {
			l.BumpN(2)
			if l.digits(pred) == 0 {
				l.Error(l.CurrentRange(), "missing digits after the number prefix")
			}
			l.Eat('n')
			return l.finishNumber()
		}
	}

	integer := l.Peek() != '.'
	if integer {
		l.digits(lexer.IsDec)
	}
	if l.Peek() == '.' {
		integer = false
		l.Bump()
		l.digits(lexer.IsDec)
	}
	if b := l.Peek(); b == 'e' || b == 'E' {
		integer = false
		l.Bump()
		if b := l.Peek(); b == '+' || b == '-' {
			l.Bump()
		}
		if l.digits(lexer.IsDec) == 0 {
			l.Error(l.CurrentRange(), "missing exponent")
		}
	}
	if integer {
		l.Eat('n')
	}
	return l.finishNumber()
}

func (l *Lexer) finishNumber() syntax.Kind {
	if !l.EOF() && lexer.IsIdentStartByte(l.Peek()) {
		start := l.Mark()
		l.EatWhile(lexer.IsIdentContinueByte)
		l.Error(l.RangeFrom(start), "an identifier cannot appear immediately after a numeric literal")
	}
	return l.Emit(NumberLiteral)
}

func (l *Lexer) lexIdent() syntax.Kind {
	escaped := false
	first := true
	for !l.EOF() {
		if l.Peek() == '\\' {
			l.lexIdentEscape()
			escaped = true
			first = false
			continue
		}
		r, sz := l.PeekRune()
		if first && !lexer.IsIdentStartRune(r) || !first && !lexer.IsIdentContinueRune(r) {
			break
		}
		l.BumpN(sz)
		first = false
	}
	if escaped {
		// экранированные ключевые слова ключевыми не считаются
		l.SetFlag(lexer.FlagUnicodeEscape)
		return l.Emit(Ident)
	}
	if kw, ok := keywords[l.CurrentText()]; ok {
		return l.Emit(kw)
	}
	return l.Emit(Ident)
}

func (l *Lexer) lexIdentEscape() {
	start := l.Mark()
	l.Bump() // '\'
	if !l.Eat('u') {
		l.Error(l.RangeFrom(start), "invalid escape sequence in identifier")
		return
	}
	if l.Eat('{') {
		if l.EatWhile(lexer.IsHex) == 0 || !l.Eat('}') {
			l.Error(l.RangeFrom(start), "invalid unicode escape sequence")
		}
		return
	}
	for range 4 {
		if !lexer.IsHex(l.Peek()) {
			l.Error(l.RangeFrom(start), "invalid unicode escape sequence")
			return
		}
		l.Bump()
	}
}

const regexFlags = "dgimsuvy"

func (l *Lexer) lexRegex() syntax.Kind {
	l.Bump() // '/'
	inClass := false
	for {
		if l.EOF() {
			l.Error(l.CurrentRange(), "unterminated regex literal")
			return l.Emit(RegexLiteral)
		}
		switch b := l.Peek(); {
		case b == '\n' || b == '\r':
			l.Error(l.CurrentRange(), "unterminated regex literal")
			return l.Emit(RegexLiteral)
		case b == '\\':
			l.Bump()
			if b := l.Peek(); !l.EOF() && b != '\n' && b != '\r' {
				l.BumpRune()
			}
		case b == '[':
			inClass = true
			l.Bump()
		case b == ']':
			inClass = false
			l.Bump()
		case b == '/' && !inClass:
			l.Bump()
			l.lexRegexFlags()
			return l.Emit(RegexLiteral)
		default:
			l.BumpRune()
		}
	}
}

func (l *Lexer) lexRegexFlags() {
	var seen uint
	for !l.EOF() && lexer.IsIdentContinueByte(l.Peek()) {
		start := l.Mark()
		f := l.Bump()
		idx := strings.IndexByte(regexFlags, f)
		switch {
		case idx < 0:
			l.Error(l.RangeFrom(start), "invalid regex flag `%c`", f)
		case seen&(1<<idx) != 0:
			l.Error(l.RangeFrom(start), "duplicate regex flag `%c`", f)
		default:
			seen |= 1 << idx
		}
	}
}

func (l *Lexer) lexTemplate() syntax.Kind {
	if l.Eat('`') {
		return l.Emit(Backtick)
	}
	if l.Try2('$', '{') {
		return l.Emit(DollarCurly)
	}
	for !l.EOF() {
		b := l.Peek()
		if b == '`' || b == '$' && l.PeekAt(1) == '{' {
			break
		}
		if b == '\\' {
			l.Bump()
			if l.EOF() {
				break
			}
		}
		l.BumpRune()
	}
	return l.Emit(TemplateChunk)
}

func (l *Lexer) lexPunct(b byte) syntax.Kind {
	switch b {
	case '.':
		if l.Try3('.', '.', '.') {
			return l.Emit(Dot3)
		}
	case '?':
		switch {
		case l.Try3('?', '?', '='):
			return l.Emit(Question2Eq)
		case l.Try2('?', '?'):
			return l.Emit(Question2)
		case l.PeekAt(1) == '.' && !lexer.IsDec(l.PeekAt(2)):
			l.BumpN(2)
			return l.Emit(QuestionDot)
		}
	case '=':
		switch {
		case l.Try3('=', '=', '='):
			return l.Emit(Eq3)
		case l.Try2('=', '='):
			return l.Emit(Eq2)
		case l.Try2('=', '>'):
			return l.Emit(Arrow)
		}
	case '!':
		switch {
		case l.Try3('!', '=', '='):
			return l.Emit(Neq2)
		case l.Try2('!', '='):
			return l.Emit(Neq)
		}
	case '<':
		switch {
		case l.Try3('<', '<', '='):
			return l.Emit(ShlEq)
		case l.Try2('<', '<'):
			return l.Emit(Shl)
		case l.Try2('<', '='):
			return l.Emit(LtEq)
		}
	case '>':
		switch {
		case l.EatString(">>>="):
			return l.Emit(UShrEq)
		case l.Try3('>', '>', '>'):
			return l.Emit(UShr)
		case l.Try3('>', '>', '='):
			return l.Emit(ShrEq)
		case l.Try2('>', '>'):
			return l.Emit(Shr)
		case l.Try2('>', '='):
			return l.Emit(GtEq)
		}
	case '+':
		switch {
		case l.Try2('+', '+'):
			return l.Emit(Plus2)
		case l.Try2('+', '='):
			return l.Emit(PlusEq)
		}
	case '-':
		switch {
		case l.Try2('-', '-'):
			return l.Emit(Minus2)
		case l.Try2('-', '='):
			return l.Emit(MinusEq)
		}
	case '*':
		switch {
		case l.Try3('*', '*', '='):
			return l.Emit(Star2Eq)
		case l.Try2('*', '*'):
			return l.Emit(Star2)
		case l.Try2('*', '='):
			return l.Emit(StarEq)
		}
	case '%':
		if l.Try2('%', '=') {
			return l.Emit(PercentEq)
		}
	case '&':
		switch {
		case l.Try3('&', '&', '='):
			return l.Emit(Amp2Eq)
		case l.Try2('&', '&'):
			return l.Emit(Amp2)
		case l.Try2('&', '='):
			return l.Emit(AmpEq)
		}
	case '|':
		switch {
		case l.Try3('|', '|', '='):
			return l.Emit(Pipe2Eq)
		case l.Try2('|', '|'):
			return l.Emit(Pipe2)
		case l.Try2('|', '='):
			return l.Emit(PipeEq)
		}
	case '^':
		if l.Try2('^', '=') {
			return l.Emit(CaretEq)
		}
	}

	if kind, ok := singlePunct[b]; ok {
		l.Bump()
		return l.Emit(kind)
	}
	l.Bump()
	l.Error(l.CurrentRange(), "unexpected character `%c`", b)
	return l.Emit(ErrorToken)
}

var singlePunct = map[byte]syntax.Kind{
	'(': LParen,
	')': RParen,
	'{': LCurly,
	'}': RCurly,
	'[': LBrack,
	']': RBrack,
	';': Semicolon,
	',': Comma,
	'.': Dot,
	'?': Question,
	':': Colon,
	'=': Eq,
	'!': Bang,
	'<': Lt,
	'>': Gt,
	'+': Plus,
	'-': Minus,
	'*': Star,
	'%': Percent,
	'&': Amp,
	'|': Pipe,
	'^': Caret,
	'~': Tilde,
}
