package json

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
	"verdant/internal/testkit"
)

func TestParseDataDriven(t *testing.T) {
	datadriven.RunTest(t, "testdata/parse", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "parse":
			opts := ParseOptions{
				AllowComments:       d.HasArg("comments"),
				AllowTrailingCommas: d.HasArg("trailing-commas"),
			}
			parsed := Parse(d.Input, opts, nil)
			require.Equal(t, d.Input, parsed.Root.Text())
			var b strings.Builder
			b.WriteString(parsed.Root.DebugString())
			for _, dg := range parsed.Diagnostics {
				fmt.Fprintf(&b, "%s@%s %s\n", dg.Severity, dg.Range(), dg.Message)
			}
			return b.String()
		default:
			t.Fatalf("unknown command: %s", d.Cmd)
			return ""
		}
	})
}

func TestParseLossless(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{}",
		"{\n  \"a\": [1, 2.5e3, -0.1],\n  \"b\": {\"c\": null}\n}\n",
		"[true, false, null, \"x\\n\"]",
		"{ \"a\": 1 \"b\": 2 }",
		"{a: 1}",
		"[1,,2]",
		"{\"a\" 1}",
		"[1 2 3",
		"\"unterminated",
		"/* block */ {\"k\": 'v'} // tail",
		"01",
		"\r\n[1,\r\n2]\r\n",
		"{\"a\": {\"b\": [}}",
		"1 2 3",
		"@",
	}
	for _, in := range inputs {
		for _, opts := range []ParseOptions{{}, {AllowComments: true, AllowTrailingCommas: true}} {
			parsed := Parse(in, opts, nil)
			require.Equal(t, in, parsed.Root.Text(), "input %q", in)
			require.Equal(t, Root, parsed.Root.Kind())

			var eofs int
			for tok := range parsed.Root.DescendantTokens() {
				if tok.Kind() == EOF {
					eofs++
				}
			}
			require.Equal(t, 1, eofs, "input %q", in)

			require.NoError(t, testkit.CheckTreeInvariants(parsed.Root, in, parsed.Diagnostics), "input %q", in)
		}
	}
}

func TestMissingCommaProducesBogusMember(t *testing.T) {
	parsed := Parse(`{ "a": 1 "b": 2 }`, ParseOptions{}, nil)
	require.Len(t, parsed.Diagnostics, 1)
	require.Equal(t, source.EmptyAt(8), parsed.Diagnostics[0].Range())
	require.Equal(t, diag.CategoryParse, parsed.Diagnostics[0].Category)

	var bogus []*syntax.Node
	for n := range parsed.Root.Descendants() {
		if n.Kind() == BogusMember {
			bogus = append(bogus, n)
		}
	}
	require.Len(t, bogus, 1)
	require.Equal(t, `"b": 2`, bogus[0].TextTrimmed())

	obj, ok := CastObject(parsed.Root.FirstChild())
	require.True(t, ok)
	members := obj.Members()
	require.Len(t, members, 1)
	name, err := members[0].Name()
	require.NoError(t, err)
	require.Equal(t, "a", name.InnerText())
}

func TestTypedAccessors(t *testing.T) {
	parsed := Parse(`{"n": 1.5, "s": "xA", "list": [true, false], "z": null}`, ParseOptions{}, nil)
	require.False(t, parsed.HasErrors())

	value, err := parsed.Tree().Value()
	require.NoError(t, err)
	obj, ok := CastObject(value)
	require.True(t, ok)

	got := map[string]*syntax.Node{}
	for _, m := range obj.Members() {
		name, err := m.Name()
		require.NoError(t, err)
		v, err := m.Value()
		require.NoError(t, err)
		got[name.InnerText()] = v
	}
	require.Len(t, got, 4)

	num, ok := CastNumberValue(got["n"])
	require.True(t, ok)
	f, err := num.Float()
	require.NoError(t, err)
	require.InDelta(t, 1.5, f, 1e-9)

	str, ok := CastStringValue(got["s"])
	require.True(t, ok)
	require.Equal(t, "xA", str.InnerText())

	arr, ok := CastArray(got["list"])
	require.True(t, ok)
	elems := arr.Elements()
	require.Len(t, elems, 2)
	b0, ok := CastBooleanValue(elems[0])
	require.True(t, ok)
	require.True(t, b0.Value())
	b1, _ := CastBooleanValue(elems[1])
	require.False(t, b1.Value())

	require.Equal(t, NullValue, got["z"].Kind())
}

func TestMissingValueAccessor(t *testing.T) {
	parsed := Parse(`{"a": }`, ParseOptions{}, nil)
	require.True(t, parsed.HasErrors())

	obj, ok := CastObject(parsed.Root.FirstChild())
	require.True(t, ok)
	members := obj.Members()
	require.Len(t, members, 1)
	_, err := members[0].Value()
	require.Error(t, err)
	require.True(t, errors.Is(err, syntax.ErrMissingRequiredChild))

	empty := Parse("", ParseOptions{}, nil)
	_, err = empty.Tree().Value()
	require.ErrorIs(t, err, syntax.ErrMissingRequiredChild)
	require.Len(t, empty.Diagnostics, 1)
}

func TestLexerDiagnostics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc`, "missing closing quote"},
		{`'abc'`, "JSON standard does not allow single quoted strings"},
		{`"a\qb"`, "invalid escape sequence"},
		{`"\u12"`, "invalid unicode escape sequence"},
		{`01`, "JSON standard does not allow leading zeros"},
		{`1.`, "missing fraction"},
		{`1e+`, "missing exponent"},
		{`-`, "minus must be followed by a digit"},
		{`/* x`, "unterminated block comment"},
	}
	for _, tt := range tests {
		_, diags := Tokenize(tt.in, ParseOptions{AllowComments: true})
		require.NotEmpty(t, diags, "input %q", tt.in)
		require.Equal(t, tt.want, diags[0].Message.String(), "input %q", tt.in)
		require.Equal(t, diag.CategoryLex, diags[0].Category)
	}
}

func TestTokenizeKinds(t *testing.T) {
	toks, diags := Tokenize("{\"a\": [1, true]}\n", ParseOptions{})
	require.Empty(t, diags)

	var kinds []string
	for _, tok := range toks {
		kinds = append(kinds, Language.KindName(tok.Kind))
	}
	require.Equal(t, []string{
		"L_CURLY", "JSON_STRING_LITERAL", "COLON", "WHITESPACE", "L_BRACK",
		"JSON_NUMBER_LITERAL", "COMMA", "WHITESPACE", "TRUE_KW", "R_BRACK",
		"R_CURLY", "NEWLINE", "EOF",
	}, kinds)
}

func TestUnquotedNamesAndLiterals(t *testing.T) {
	parsed := Parse(`{a: undefined}`, ParseOptions{}, nil)
	var msgs []string
	for _, d := range parsed.Diagnostics {
		msgs = append(msgs, d.Message.String())
	}
	require.Equal(t, []string{
		"property names must be double quoted",
		"the JSON standard only allows the literals `true`, `false` and `null`",
	}, msgs)

	obj, _ := CastObject(parsed.Root.FirstChild())
	members := obj.Members()
	require.Len(t, members, 1)
	v, err := members[0].Value()
	require.NoError(t, err)
	require.Equal(t, BogusValue, v.Kind())
}

func TestSharedCache(t *testing.T) {
	cache := syntax.NewNodeCache()
	a := Parse(`{"shared": [1, 2, 3], "x": 1}`, ParseOptions{}, cache)
	b := Parse(`{"shared": [1, 2, 3], "y": 2}`, ParseOptions{}, cache)

	find := func(root *syntax.Node) *syntax.Node {
		for n := range root.Descendants() {
			if n.Kind() == ArrayValue {
				return n
			}
		}
		return nil
	}
	require.Same(t, find(a.Root).Green(), find(b.Root).Green())
	require.Positive(t, cache.Stats().NodeHits)
}

func TestRootTrailingContent(t *testing.T) {
	parsed := Parse(`{} []`, ParseOptions{}, nil)
	require.Len(t, parsed.Diagnostics, 1)
	require.Equal(t, "end of file expected", parsed.Diagnostics[0].Message.String())
	require.Equal(t, source.NewRange(3, 4), parsed.Diagnostics[0].Range())

	bogus := parsed.Root.FindChild(syntax.KindIs(Bogus))
	require.NotNil(t, bogus)
	require.Equal(t, "[]", bogus.TextTrimmed())
}
