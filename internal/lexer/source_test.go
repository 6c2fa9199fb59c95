package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/source"
	"verdant/internal/syntax"
)

const (
	tWord syntax.Kind = iota + 1
	tSlash
	tRegex
	tWhitespace
	tNewline
	tComment
	tError
	tEOF
)

type testCtx uint8

const (
	ctxRegular testCtx = iota
	ctxRegex
)

type testLanguage struct{ syntax.KindTable }

func (testLanguage) Name() string { return "test" }
func (testLanguage) ToBogus(k syntax.Kind) syntax.Kind { return k }
func (testLanguage) EOF() syntax.Kind { return tEOF }

var testLang = testLanguage{syntax.KindTable{
	Names: []string{"TOMBSTONE", "WORD", "SLASH", "REGEX", "WHITESPACE", "NEWLINE", "COMMENT", "ERROR", "EOF"},
	Trivia: map[syntax.Kind]syntax.TriviaPieceKind{
		tWhitespace: syntax.TriviaWhitespace,
		tNewline:    syntax.TriviaNewline,
		tComment:    syntax.TriviaSingleLineComment,
	},
}}

// testLexer: слова, пробелы, переводы строк, комментарии '#', '/' или /regex/.
type testLexer struct{ Base }

func newTestLexer(text string) *testLexer {
	return &testLexer{Base: NewBase(text, tEOF)}
}

func (l *testLexer) NextToken(ctx testCtx) syntax.Kind {
	if l.EOF() {
		return l.EmitEOF()
	}
	l.StartToken()
	switch b := l.Peek(); {
	case b == ' ':
		l.EatWhile(func(b byte) bool { return b == ' ' })
		return l.EmitTrivia(tWhitespace, false)
	case b == '\n' || b == '\r':
		l.EatNewline()
		return l.EmitTrivia(tNewline, true)
	case b == '#':
		l.EatWhile(func(b byte) bool { return b != '\n' })
		return l.EmitTrivia(tComment, false)
	case b == '/':
		l.Bump()
		if ctx != ctxRegex {
			return l.Emit(tSlash)
		}
		for !l.EOF() && l.Peek() != '/' {
			l.Bump()
		}
		if !l.Eat('/') {
			l.Error(l.CurrentRange(), "unterminated regex")
		}
		return l.Emit(tRegex)
	case IsIdentStartByte(b):
		l.EatWhile(IsIdentContinueByte)
		return l.Emit(tWord)
	default:
		l.Bump()
		l.Error(l.CurrentRange(), "unexpected character %q", b)
		return l.Emit(tError)
	}
}

func (l *testLexer) ReLex(ctx testCtx) syntax.Kind {
	l.RewindToTokenStart()
	return l.NextToken(ctx)
}

func newTestSource(text string) *TokenSource[testCtx] {
	return NewTokenSource[testCtx](newTestLexer(text), testLang, ctxRegular)
}

func rng(start, end source.TextSize) source.TextRange {
	return source.TextRange{Start: start, End: end}
}

func TestTokenSourceTagsTrivia(t *testing.T) {
	ts := newTestSource("a b # c\n  d")

	require.Equal(t, tWord, ts.Current())
	require.Equal(t, rng(0, 1), ts.CurrentRange())
	ts.Bump()
	require.Equal(t, rng(2, 3), ts.CurrentRange())
	require.False(t, ts.HasPrecedingLineBreak())
	ts.Bump()
	require.Equal(t, "d", ts.CurrentText())
	require.True(t, ts.HasPrecedingLineBreak())
	ts.Bump()
	require.Equal(t, tEOF, ts.Current())
	require.Equal(t, rng(11, 11), ts.CurrentRange())

	trivia, diags := ts.Finish()
	require.Empty(t, diags)
	require.Equal(t, []TriviaEntry{
		{Kind: syntax.TriviaWhitespace, Range: rng(1, 2), Trailing: true},
		{Kind: syntax.TriviaWhitespace, Range: rng(3, 4), Trailing: true},
		{Kind: syntax.TriviaSingleLineComment, Range: rng(4, 7), Trailing: true},
		{Kind: syntax.TriviaNewline, Range: rng(7, 8), Trailing: false},
		{Kind: syntax.TriviaWhitespace, Range: rng(8, 10), Trailing: false},
	}, trivia)
}

func TestTokenSourceTrailingCommentBeforeEOF(t *testing.T) {
	ts := newTestSource(" a # c")
	ts.Bump()
	require.Equal(t, tEOF, ts.Current())
	trivia, _ := ts.Finish()
	require.Len(t, trivia, 3)
	require.False(t, trivia[0].Trailing, "trivia before the first token is leading")
	require.True(t, trivia[1].Trailing)
	require.True(t, trivia[2].Trailing, "a comment without a newline before EOF stays trailing")
}

func TestTokenSourceLookahead(t *testing.T) {
	ts := newTestSource("a b\n c")

	require.Equal(t, tWord, ts.Nth(0))
	require.Equal(t, rng(2, 3), ts.NthNonTriviaRange(1))
	require.Equal(t, rng(5, 6), ts.NthNonTriviaRange(2))
	require.True(t, ts.HasNthPrecedingLineBreak(2))
	require.False(t, ts.HasNthPrecedingLineBreak(1))
	require.Equal(t, tEOF, ts.Nth(3))
	require.Equal(t, tEOF, ts.Nth(7))

	// lookahead must not consume anything
	require.Equal(t, rng(0, 1), ts.CurrentRange())
	require.Empty(t, ts.Trivia())
	ts.Bump()
	require.Equal(t, rng(2, 3), ts.CurrentRange())
	ts.Bump()
	require.Equal(t, rng(5, 6), ts.CurrentRange())
	require.Len(t, ts.Trivia(), 3)
}

func TestTokenSourceCheckpointRewind(t *testing.T) {
	ts := newTestSource("a b c")
	ts.Bump()
	cp := ts.Checkpoint()
	require.Equal(t, source.TextSize(2), cp.Position())

	ts.Bump()
	ts.Nth(2)
	ts.Bump()
	require.Equal(t, tEOF, ts.Current())

	ts.Rewind(cp)
	require.Equal(t, tWord, ts.Current())
	require.Equal(t, rng(2, 3), ts.CurrentRange())
	require.Len(t, ts.Trivia(), 1)

	ts.Bump()
	require.Equal(t, "c", ts.CurrentText())
	require.Len(t, ts.Trivia(), 2)
}

func TestTokenSourceReLex(t *testing.T) {
	ts := newTestSource("a /x/ b")
	ts.Bump()
	require.Equal(t, tSlash, ts.Current())
	// буфер заполнен в обычном режиме и должен сброситься
	require.Equal(t, tWord, ts.Nth(1))

	require.Equal(t, tRegex, ts.ReLex(ctxRegex))
	require.Equal(t, rng(2, 5), ts.CurrentRange())
	ts.Bump()
	require.Equal(t, "b", ts.CurrentText())
	ts.Bump()
	require.Equal(t, tEOF, ts.Current())

	_, diags := ts.Finish()
	require.Empty(t, diags)
}

func TestTokenSourceSkipAsTrivia(t *testing.T) {
	ts := newTestSource("a % b")
	ts.Bump()
	require.Equal(t, tError, ts.Current())
	ts.SkipAsTrivia()
	require.Equal(t, "b", ts.CurrentText())

	trivia, diags := ts.Finish()
	require.Equal(t, TriviaEntry{Kind: syntax.TriviaSkipped, Range: rng(2, 3)}, trivia[1])
	require.False(t, trivia[2].Trailing)
	require.Len(t, diags, 1)
	require.Equal(t, rng(2, 3), diags[0].Range())
}

func TestLookaheadDiagnosticsDoNotLeak(t *testing.T) {
	ts := newTestSource("a %")
	require.Equal(t, tError, ts.Nth(1))
	_, diags := ts.Finish()
	require.Empty(t, diags)
}

func TestReLexDropsDiagnosticsOfTheOldToken(t *testing.T) {
	lx := newTestLexer("/ab")
	require.Equal(t, tSlash, lx.NextToken(ctxRegular))
	require.Equal(t, tRegex, lx.ReLex(ctxRegex))
	require.Equal(t, tSlash, lx.ReLex(ctxRegular))
	require.Empty(t, lx.Finish())
}

func TestBufferedLexerMatchesPlainLexer(t *testing.T) {
	const text = "one two\nthree # four"

	plain := newTestLexer(text)
	var want []syntax.Kind
	for {
		k := plain.NextToken(ctxRegular)
		want = append(want, k)
		if k == tEOF {
			break
		}
	}

	buf := NewBufferedLexer[testCtx](newTestLexer(text), ctxRegular)
	require.Equal(t, want[3], buf.Lookahead(4).Kind)
	var got []syntax.Kind
	for {
		k := buf.NextToken(ctxRegular)
		got = append(got, k)
		if k == tEOF {
			break
		}
	}
	require.Equal(t, want, got)
}

func TestBaseCheckpointRestoresState(t *testing.T) {
	lx := newTestLexer("a\nb")
	lx.NextToken(ctxRegular)
	cp := lx.Checkpoint()
	lx.NextToken(ctxRegular)
	require.Equal(t, tWord, lx.NextToken(ctxRegular))
	require.True(t, lx.CurrentFlags().HasPrecedingLineBreak())

	lx.Rewind(cp)
	require.Equal(t, tWord, lx.Current())
	require.Equal(t, rng(0, 1), lx.CurrentRange())
	require.Equal(t, tNewline, lx.NextToken(ctxRegular))
}
