package json

import (
	"strconv"

	"verdant/internal/syntax"
)

// Typed views over JSON nodes. Accessors for mandatory children return an error
// when recovery left the child out; optional ones return nil.

type (
	RootNode         struct{ n *syntax.Node }
	ObjectNode       struct{ n *syntax.Node }
	ArrayNode        struct{ n *syntax.Node }
	MemberNode       struct{ n *syntax.Node }
	MemberNameNode   struct{ n *syntax.Node }
	StringValueNode  struct{ n *syntax.Node }
	NumberValueNode  struct{ n *syntax.Node }
	BooleanValueNode struct{ n *syntax.Node }
)

func (r RootNode) Syntax() *syntax.Node { return r.n }
func (o ObjectNode) Syntax() *syntax.Node { return o.n }
func (a ArrayNode) Syntax() *syntax.Node { return a.n }
func (m MemberNode) Syntax() *syntax.Node { return m.n }
func (m MemberNameNode) Syntax() *syntax.Node { return m.n }
func (s StringValueNode) Syntax() *syntax.Node { return s.n }
func (v NumberValueNode) Syntax() *syntax.Node { return v.n }
func (b BooleanValueNode) Syntax() *syntax.Node { return b.n }

// CastRoot returns the typed view when n is a JSON_ROOT.
func CastRoot(n *syntax.Node) (RootNode, bool) {
	if n == nil || n.Kind() != Root {
		return RootNode{}, false
	}
	return RootNode{n}, true
}

func CastObject(n *syntax.Node) (ObjectNode, bool) {
	if n == nil || n.Kind() != ObjectValue {
		return ObjectNode{}, false
	}
	return ObjectNode{n}, true
}

func CastArray(n *syntax.Node) (ArrayNode, bool) {
	if n == nil || n.Kind() != ArrayValue {
		return ArrayNode{}, false
	}
	return ArrayNode{n}, true
}

func CastMember(n *syntax.Node) (MemberNode, bool) {
	if n == nil || n.Kind() != Member {
		return MemberNode{}, false
	}
	return MemberNode{n}, true
}

func CastStringValue(n *syntax.Node) (StringValueNode, bool) {
	if n == nil || n.Kind() != StringValue {
		return StringValueNode{}, false
	}
	return StringValueNode{n}, true
}

func CastNumberValue(n *syntax.Node) (NumberValueNode, bool) {
	if n == nil || n.Kind() != NumberValue {
		return NumberValueNode{}, false
	}
	return NumberValueNode{n}, true
}

func CastBooleanValue(n *syntax.Node) (BooleanValueNode, bool) {
	if n == nil || n.Kind() != BooleanValue {
		return BooleanValueNode{}, false
	}
	return BooleanValueNode{n}, true
}

// Value is the top-level value; it is missing for an empty document.
func (r RootNode) Value() (*syntax.Node, error) {
	return syntax.RequiredNode(r.n, "value", IsValue)
}

func (r RootNode) EOF() (*syntax.Token, error) {
	return syntax.RequiredToken(r.n, "eof", EOF)
}

func (o ObjectNode) LCurly() (*syntax.Token, error) {
	return syntax.RequiredToken(o.n, "'{'", LCurly)
}

func (o ObjectNode) RCurly() (*syntax.Token, error) {
	return syntax.RequiredToken(o.n, "'}'", RCurly)
}

// Members returns the well-formed members; bogus members are skipped.
func (o ObjectNode) Members() []MemberNode {
	list := o.n.FindChild(syntax.KindIs(MemberList))
	if list == nil {
		return nil
	}
	var out []MemberNode
	for _, c := range list.Children() {
		if c.Kind() == Member {
			out = append(out, MemberNode{c})
		}
	}
	return out
}

// Elements returns the element values, bogus values included.
func (a ArrayNode) Elements() []*syntax.Node {
	list := a.n.FindChild(syntax.KindIs(ArrayElementList))
	if list == nil {
		return nil
	}
	return syntax.ChildrenOf(list, IsValue)
}

func (m MemberNode) Name() (MemberNameNode, error) {
	n, err := syntax.RequiredNode(m.n, "name", syntax.KindIs(MemberName))
	if err != nil {
		return MemberNameNode{}, err
	}
	return MemberNameNode{n}, nil
}

func (m MemberNode) Colon() (*syntax.Token, error) {
	return syntax.RequiredToken(m.n, "':'", Colon)
}

func (m MemberNode) Value() (*syntax.Node, error) {
	return syntax.RequiredNode(m.n, "value", IsValue)
}

// Token is the string (or unquoted identifier) spelling the name.
func (m MemberNameNode) Token() (*syntax.Token, error) {
	if t := syntax.FindTokenOf(m.n, syntax.KindIs(StringLiteral, Ident)); t != nil {
		return t, nil
	}
	return nil, syntax.Missing(m.n, "name token")
}

// InnerText is the name without quotes and with escapes resolved. Malformed
// strings fall back to the raw text between the quotes.
func (m MemberNameNode) InnerText() string {
	t, err := m.Token()
	if err != nil {
		return ""
	}
	return unquote(t.TextTrimmed())
}

func (s StringValueNode) Token() (*syntax.Token, error) {
	return syntax.RequiredToken(s.n, "string", StringLiteral)
}

func (s StringValueNode) InnerText() string {
	t, err := s.Token()
	if err != nil {
		return ""
	}
	return unquote(t.TextTrimmed())
}

func (v NumberValueNode) Float() (float64, error) {
	t, err := syntax.RequiredToken(v.n, "number", NumberLiteral)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(t.TextTrimmed(), 64)
}

func (b BooleanValueNode) Value() bool {
	return b.n.FindToken(TrueKw) != nil
}

func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' {
		if s, err := strconv.Unquote(text); err == nil {
			return s
		}
	}
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		return text[1 : len(text)-1]
	}
	return text
}
