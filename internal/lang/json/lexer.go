package json

import (
	"verdant/internal/lexer"
	"verdant/internal/syntax"
)

// Lexer tokenizes JSON. Comments are always lexed as trivia; when they are
// not allowed a diagnostic is reported instead of failing.
type Lexer struct {
	lexer.Base
	allowComments bool
}

var _ lexer.Lexer[struct{}] = (*Lexer)(nil)

func NewLexer(text string, allowComments bool) *Lexer {
	return &Lexer{Base: lexer.NewBase(text, EOF), allowComments: allowComments}
}

func (l *Lexer) NextToken(struct{}) syntax.Kind {
	if l.EOF() {
		return l.EmitEOF()
	}
	l.StartToken()
	b := l.Peek()
	switch {
	case b == ' ' || b == '\t':
		l.EatWhile(func(b byte) bool { return b == ' ' || b == '\t' })
		return l.EmitTrivia(Whitespace, false)
	case b == '\n' || b == '\r':
		l.EatNewline()
		return l.EmitTrivia(Newline, true)
	case b == '/':
		return l.lexSlash()
	case b == '"' || b == '\'':
		return l.lexString(b)
	case b == '-' || lexer.IsDec(b):
		return l.lexNumber()
	case lexer.IsIdentStartByte(b) || b >= lexer.RuneSelf:
		return l.lexIdent()
	}
	l.Bump()
	switch b {
	case '{':
		return l.Emit(LCurly)
	case '}':
		return l.Emit(RCurly)
	case '[':
		return l.Emit(LBrack)
	case ']':
		return l.Emit(RBrack)
	case ':':
		return l.Emit(Colon)
	case ',':
		return l.Emit(Comma)
	}
	l.Error(l.CurrentRange(), "unexpected character `%c`", b)
	return l.Emit(ErrorToken)
}

// ReLex is only needed by the framework contract: JSON has a single mode.
func (l *Lexer) ReLex(ctx struct{}) syntax.Kind {
	l.RewindToTokenStart()
	return l.NextToken(ctx)
}

func (l *Lexer) lexSlash() syntax.Kind {
	switch l.PeekAt(1) {
	case '/':
		l.EatWhile(func(b byte) bool { return b != '\n' && b != '\r' })
		l.checkComment()
		return l.EmitTrivia(Comment, false)
	case '*':
		l.BumpN(2)
		newline := false
		for !l.EOF() {
			if l.Try2('*', '/') {
				l.checkComment()
				return l.EmitTrivia(MultilineComment, newline)
			}
			if b := l.Bump(); b == '\n' || b == '\r' {
				newline = true
			}
		}
		l.Error(l.CurrentRange(), "unterminated block comment")
		return l.EmitTrivia(MultilineComment, newline)
	}
	l.Bump()
	l.Error(l.CurrentRange(), "unexpected character `/`")
	return l.Emit(ErrorToken)
}

func (l *Lexer) checkComment() {
	if !l.allowComments {
		l.Error(l.CurrentRange(), "JSON standard does not allow comments")
	}
}

func (l *Lexer) lexString(quote byte) syntax.Kind {
	l.Bump()
	for {
		if l.EOF() {
			l.Error(l.CurrentRange(), "missing closing quote")
			return l.Emit(StringLiteral)
		}
		b := l.Peek()
		switch {
		case b == quote:
			l.Bump()
			if quote == '\'' {
				l.Error(l.CurrentRange(), "JSON standard does not allow single quoted strings")
			}
			return l.Emit(StringLiteral)
		case b == '\n' || b == '\r':
			l.Error(l.CurrentRange(), "missing closing quote")
			return l.Emit(StringLiteral)
		case b == '\\':
			l.lexEscape()
		case b < 0x20:
			start := l.Mark()
			l.Bump()
			l.Error(l.RangeFrom(start), "control character in string literal")
		default:
			l.BumpRune()
		}
	}
}

func (l *Lexer) lexEscape() {
	start := l.Mark()
	l.Bump() // '\'
	switch l.Peek() {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		l.Bump()
	case 'u':
		l.Bump()
		for range 4 {
			if !lexer.IsHex(l.Peek()) {
				l.Error(l.RangeFrom(start), "invalid unicode escape sequence")
				return
			}
			l.Bump()
		}
	default:
		if !l.EOF() && l.Peek() != '\n' && l.Peek() != '\r' {
			l.BumpRune()
		}
		l.Error(l.RangeFrom(start), "invalid escape sequence")
	}
}

// lexNumber follows the JSON grammar: -?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?
func (l *Lexer) lexNumber() syntax.Kind {
	l.Eat('-')
	switch {
	case l.Peek() == '0':
		l.Bump()
		if lexer.IsDec(l.Peek()) {
			l.EatWhile(lexer.IsDec)
			l.Error(l.CurrentRange(), "JSON standard does not allow leading zeros")
		}
	case lexer.IsDec(l.Peek()):
		l.EatWhile(lexer.IsDec)
	default:
		l.Error(l.CurrentRange(), "minus must be followed by a digit")
		return l.Emit(ErrorToken)
	}
	if l.Peek() == '.' {
		l.Bump()
		if l.EatWhile(lexer.IsDec) == 0 {
			l.Error(l.CurrentRange(), "missing fraction")
			return l.Emit(ErrorToken)
		}
	}
	if b := l.Peek(); b == 'e' || b == 'E' {
		l.Bump()
		if b := l.Peek(); b == '+' || b == '-' {
			l.Bump()
		}
		if l.EatWhile(lexer.IsDec) == 0 {
			l.Error(l.CurrentRange(), "missing exponent")
			return l.Emit(ErrorToken)
		}
	}
	return l.Emit(NumberLiteral)
}

func (l *Lexer) lexIdent() syntax.Kind {
	for !l.EOF() {
		r, sz := l.PeekRune()
		if sz == 0 || !lexer.IsIdentContinueRune(r) {
			break
		}
		l.BumpN(sz)
	}
	if l.CurrentRange().Empty() {
		// одиночный не-ASCII символ, не подходящий для идентификатора
		l.BumpRune()
		l.Error(l.CurrentRange(), "unexpected character")
		return l.Emit(ErrorToken)
	}
	switch l.CurrentText() {
	case "true":
		return l.Emit(TrueKw)
	case "false":
		return l.Emit(FalseKw)
	case "null":
		return l.Emit(NullKw)
	}
	return l.Emit(Ident)
}
