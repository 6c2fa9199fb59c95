package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/source"
	"verdant/internal/syntax"
)

const (
	kRoot syntax.Kind = iota + 1
	kList
	kItem
	kBogus
	kIdent
	kComma
	kSemi
	kEOF
)

type testLanguage struct {
	syntax.KindTable
}

func (testLanguage) Name() string { return "test" }
func (testLanguage) ToBogus(syntax.Kind) syntax.Kind { return kBogus }
func (testLanguage) EOF() syntax.Kind { return kEOF }

var testLang = testLanguage{syntax.KindTable{
	Names: []string{"TOMBSTONE", "ROOT", "LIST", "ITEM", "BOGUS", "IDENT", "COMMA", "SEMI", "EOF"},
	Bogus: map[syntax.Kind]bool{kBogus: true},
	Lists: map[syntax.Kind]bool{kList: true},
	Roots: map[syntax.Kind]bool{kRoot: true},
}}

var ws = []syntax.TriviaPiece{{Kind: syntax.TriviaWhitespace, Len: 1}}
var nl = []syntax.TriviaPiece{{Kind: syntax.TriviaNewline, Len: 1}}

// buildList собирает дерево для текста "a, b\n".
func buildList(cache *syntax.NodeCache) *syntax.Node {
	b := syntax.NewGreenBuilder(cache)
	b.StartNode(kRoot)
	b.StartNode(kList)
	b.StartNode(kItem)
	b.Token(kIdent, "a", nil, nil)
	b.FinishNode()
	b.Token(kComma, ", ", nil, ws)
	b.StartNode(kItem)
	b.Token(kIdent, "b", nil, nil)
	b.FinishNode()
	b.FinishNode()
	b.Token(kEOF, "\n", nl, nil)
	b.FinishNode()
	return syntax.NewRoot(testLang, b.Finish())
}

func TestLosslessText(t *testing.T) {
	root := buildList(nil)
	require.Equal(t, "a, b\n", root.Text())
	require.Equal(t, source.NewRange(0, 5), root.TextRange())

	var text string
	for tok := range root.DescendantTokens() {
		text += tok.Text()
	}
	require.Equal(t, root.Text(), text)
}

func TestDebugString(t *testing.T) {
	want := `ROOT@0..5
  LIST@0..4
    ITEM@0..1
      IDENT@0..1 "a" [] []
    COMMA@1..3 "," [] [Whitespace(" ")]
    ITEM@3..4
      IDENT@3..4 "b" [] []
  EOF@4..5 "" [Newline("\n")] []
`
	require.Equal(t, want, buildList(nil).DebugString())
}

func TestNavigation(t *testing.T) {
	root := buildList(nil)
	list := root.FirstChild()
	require.Equal(t, kList, list.Kind())

	items := list.Children()
	require.Len(t, items, 2)
	require.True(t, items[0].NextSibling().Is(items[1]))
	require.True(t, items[1].PrevSibling().Is(items[0]))
	require.Nil(t, items[1].NextSibling())

	comma := items[0].NextSiblingOrToken()
	tok, ok := syntax.AsToken(comma)
	require.True(t, ok)
	require.Equal(t, source.NewRange(1, 2), tok.TextTrimmedRange())
	require.Equal(t, ",", tok.TextTrimmed())

	a := root.FirstToken()
	require.Equal(t, "a", a.TextTrimmed())
	require.True(t, a.NextToken().Is(tok))
	require.Equal(t, "b", tok.NextToken().TextTrimmed())
	require.Equal(t, kEOF, root.LastToken().Kind())
	require.Nil(t, root.LastToken().NextToken())
	require.True(t, root.LastToken().PrevToken().Is(items[1].FirstToken()))

	var ancestors []syntax.Kind
	for n := range items[1].Ancestors() {
		ancestors = append(ancestors, n.Kind())
	}
	require.Equal(t, []syntax.Kind{kItem, kList, kRoot}, ancestors)
}

func TestPreorderEvents(t *testing.T) {
	var got []string
	for ev := range buildList(nil).Preorder() {
		got = append(got, ev.Kind.String()+":"+testLang.KindName(ev.Node.Kind()))
	}
	require.Equal(t, []string{
		"Enter:ROOT", "Enter:LIST", "Enter:ITEM", "Leave:ITEM",
		"Enter:ITEM", "Leave:ITEM", "Leave:LIST", "Leave:ROOT",
	}, got)
}

func TestTokenAtOffsetAndCovering(t *testing.T) {
	root := buildList(nil)
	require.Equal(t, kComma, root.TokenAtOffset(2).Kind())
	require.Equal(t, kIdent, root.TokenAtOffset(3).Kind())
	require.Equal(t, kEOF, root.TokenAtOffset(5).Kind())
	require.Nil(t, root.TokenAtOffset(6))

	el := root.CoveringElement(source.NewRange(3, 4))
	tok, ok := syntax.AsToken(el)
	require.True(t, ok)
	require.Equal(t, "b", tok.TextTrimmed())

	el = root.CoveringElement(source.NewRange(0, 3))
	node, ok := syntax.AsNode(el)
	require.True(t, ok)
	require.Equal(t, kList, node.Kind())
}

func TestTriviaViews(t *testing.T) {
	root := buildList(nil)
	eof := root.LastToken()
	lead := eof.LeadingTrivia()
	require.Len(t, lead, 1)
	require.True(t, lead[0].IsNewline())
	require.Equal(t, source.NewRange(4, 5), lead[0].Range)
	require.True(t, eof.HasLeadingNewline())

	comma := root.FirstToken().NextToken()
	trail := comma.TrailingTrivia()
	require.Len(t, trail, 1)
	require.Equal(t, " ", trail[0].Text)
	require.Equal(t, source.NewRange(2, 3), trail[0].Range)
}

func TestNodeCacheSharesSubtrees(t *testing.T) {
	cache := syntax.NewNodeCache()
	r1 := buildList(cache)
	r2 := buildList(cache)
	require.Same(t, r1.Green(), r2.Green())
	require.Same(t, r1.FirstChild().Green(), r2.FirstChild().Green())

	stats := cache.Stats()
	require.Positive(t, stats.NodeHits)
	require.Positive(t, stats.TokenHits)

	// без кэша деревья равны по тексту, но не по ссылке
	r3 := buildList(nil)
	require.NotSame(t, r1.Green(), r3.Green())
}

func TestBuilderCheckpointWrapsPrecedingChildren(t *testing.T) {
	b := syntax.NewGreenBuilder(nil)
	b.StartNode(kRoot)
	cp := b.Checkpoint()
	b.Token(kIdent, "a", nil, nil)
	b.Token(kSemi, ";", nil, nil)
	b.StartNodeAt(cp, kItem)
	b.FinishNode()
	b.Token(kEOF, "", nil, nil)
	b.FinishNode()
	root := syntax.NewRoot(testLang, b.Finish())
	item := root.FirstChild()
	require.Equal(t, kItem, item.Kind())
	require.Equal(t, "a;", item.Text())
}
