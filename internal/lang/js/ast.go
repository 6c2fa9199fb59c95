package js

import (
	"strconv"

	"verdant/internal/syntax"
)

// Typed views used by the lint rules. Only the shapes the rules look at have
// a view; everything else is walked through syntax.Node directly.

type (
	BinaryExpressionNode    struct{ n *syntax.Node }
	VariableDeclarationNode struct{ n *syntax.Node }
	VariableDeclaratorNode  struct{ n *syntax.Node }
	FunctionNode            struct{ n *syntax.Node }
	StringLiteralNode       struct{ n *syntax.Node }
	IdentifierNode          struct{ n *syntax.Node }
)

func (b BinaryExpressionNode) Syntax() *syntax.Node { return b.n }
func (d VariableDeclarationNode) Syntax() *syntax.Node { return d.n }
func (d VariableDeclaratorNode) Syntax() *syntax.Node { return d.n }
func (f FunctionNode) Syntax() *syntax.Node { return f.n }
func (s StringLiteralNode) Syntax() *syntax.Node { return s.n }
func (i IdentifierNode) Syntax() *syntax.Node { return i.n }

// CastBinaryExpression accepts binary and logical expressions.
func CastBinaryExpression(n *syntax.Node) (BinaryExpressionNode, bool) {
	if n == nil || n.Kind() != BinaryExpression && n.Kind() != LogicalExpression {
		return BinaryExpressionNode{}, false
	}
	return BinaryExpressionNode{n}, true
}

func (b BinaryExpressionNode) Left() (*syntax.Node, error) {
	if c := b.n.FirstChild(); c != nil && c.TextRange().Start == b.n.TextRange().Start {
		return c, nil
	}
	return nil, syntax.Missing(b.n, "left operand")
}

// Operator is the first token directly under the expression.
func (b BinaryExpressionNode) Operator() (*syntax.Token, error) {
	if t := syntax.FindTokenOf(b.n, func(syntax.Kind) bool { return true }); t != nil {
		return t, nil
	}
	return nil, syntax.Missing(b.n, "operator")
}

func (b BinaryExpressionNode) Right() (*syntax.Node, error) {
	op, err := b.Operator()
	if err != nil {
		return nil, err
	}
	for _, c := range b.n.Children() {
		if c.TextRange().Start >= op.TextRange().End {
			return c, nil
		}
	}
	return nil, syntax.Missing(b.n, "right operand")
}

func CastVariableDeclaration(n *syntax.Node) (VariableDeclarationNode, bool) {
	if n == nil || n.Kind() != VariableDeclaration {
		return VariableDeclarationNode{}, false
	}
	return VariableDeclarationNode{n}, true
}

// KindToken is the `var`, `let` or `const` keyword.
func (d VariableDeclarationNode) KindToken() *syntax.Token {
	return syntax.FindTokenOf(d.n, syntax.KindIs(VarKw, LetKw, ConstKw))
}

func (d VariableDeclarationNode) Declarators() []VariableDeclaratorNode {
	list := d.n.FindChild(syntax.KindIs(VariableDeclaratorList))
	if list == nil {
		return nil
	}
	var out []VariableDeclaratorNode
	for _, c := range syntax.ChildrenOf(list, syntax.KindIs(VariableDeclarator)) {
		out = append(out, VariableDeclaratorNode{c})
	}
	return out
}

func CastVariableDeclarator(n *syntax.Node) (VariableDeclaratorNode, bool) {
	if n == nil || n.Kind() != VariableDeclarator {
		return VariableDeclaratorNode{}, false
	}
	return VariableDeclaratorNode{n}, true
}

func (d VariableDeclaratorNode) Binding() (*syntax.Node, error) {
	return syntax.RequiredNode(d.n, "binding", syntax.KindIs(IdentifierBinding, Metavariable))
}

// Initializer returns the initializer expression or nil.
func (d VariableDeclaratorNode) Initializer() *syntax.Node {
	init := d.n.FindChild(syntax.KindIs(InitializerClause))
	if init == nil {
		return nil
	}
	return init.FirstChild()
}

// CastFunction accepts every node that opens a function scope.
func CastFunction(n *syntax.Node) (FunctionNode, bool) {
	if n == nil || !IsFunction(n.Kind()) {
		return FunctionNode{}, false
	}
	return FunctionNode{n}, true
}

func (f FunctionNode) AsyncToken() *syntax.Token { return f.n.FindToken(AsyncKw) }

// Name is the declared name, nil for anonymous functions and arrows.
func (f FunctionNode) Name() *syntax.Node {
	if f.n.Kind() == ArrowFunctionExpression {
		return nil
	}
	if f.n.Kind() == MethodObjectMember {
		return f.n.FindChild(syntax.KindIs(LiteralMemberName, ComputedMemberName))
	}
	return f.n.FindChild(syntax.KindIs(IdentifierBinding))
}

// Parameters returns the binding nodes of the parameter list; for `x => ...`
// that is the single binding.
func (f FunctionNode) Parameters() []*syntax.Node {
	if params := f.n.FindChild(syntax.KindIs(Parameters)); params != nil {
		list := params.FindChild(syntax.KindIs(ParameterList))
		if list == nil {
			return nil
		}
		return syntax.ChildrenOf(list, syntax.KindIs(FormalParameter, RestParameter))
	}
	if f.n.Kind() == ArrowFunctionExpression {
		return syntax.ChildrenOf(f.n, syntax.KindIs(IdentifierBinding))
	}
	return nil
}

// Body is the FunctionBody, or the expression body of an arrow.
func (f FunctionNode) Body() (*syntax.Node, error) {
	if body := f.n.FindChild(syntax.KindIs(FunctionBody)); body != nil {
		return body, nil
	}
	if f.n.Kind() == ArrowFunctionExpression {
		if last := f.n.LastChild(); last != nil && IsExpression(last.Kind()) {
			return last, nil
		}
	}
	return nil, syntax.Missing(f.n, "body")
}

func CastStringLiteral(n *syntax.Node) (StringLiteralNode, bool) {
	if n == nil || n.Kind() != StringLiteralExpression {
		return StringLiteralNode{}, false
	}
	return StringLiteralNode{n}, true
}

func (s StringLiteralNode) Token() *syntax.Token { return s.n.FindToken(StringLiteral) }

// Quote is the quote character the literal is written with.
func (s StringLiteralNode) Quote() byte {
	if t := s.Token(); t != nil && t.TextTrimmed() != "" {
		return t.TextTrimmed()[0]
	}
	return '"'
}

// Value is the unescaped content; unknown escapes are kept as written.
func (s StringLiteralNode) Value() string {
	t := s.Token()
	if t == nil {
		return ""
	}
	text := t.TextTrimmed()
	if len(text) < 2 {
		return ""
	}
	if text[0] == '\'' {
		text = `"` + swapQuotes(text[1:len(text)-1]) + `"`
	}
	if v, err := strconv.Unquote(text); err == nil {
		return v
	}
	return text[1 : len(text)-1]
}

// swapQuotes rewrites the body of a single quoted literal so it is valid
// inside double quotes.
func swapQuotes(body string) string {
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\' && i+1 < len(body) && body[i+1] == '\'':
			out = append(out, '\'')
			i++
		case body[i] == '\\' && i+1 < len(body):
			out = append(out, body[i], body[i+1])
			i++
		case body[i] == '"':
			out = append(out, '\\', '"')
		default:
			out = append(out, body[i])
		}
	}
	return string(out)
}

// CastIdentifier accepts bindings, references and assignment targets.
func CastIdentifier(n *syntax.Node) (IdentifierNode, bool) {
	if n == nil {
		return IdentifierNode{}, false
	}
	switch n.Kind() {
	case IdentifierBinding, IdentifierExpression, IdentifierAssignment:
		return IdentifierNode{n}, true
	}
	return IdentifierNode{}, false
}

func (i IdentifierNode) NameToken() (*syntax.Token, error) {
	return syntax.RequiredToken(i.n, "name", Ident)
}

// Name is the trimmed identifier text, "" when recovery dropped it.
func (i IdentifierNode) Name() string {
	t, err := i.NameToken()
	if err != nil {
		return ""
	}
	return t.TextTrimmed()
}

func (i IdentifierNode) IsBinding() bool { return i.n.Kind() == IdentifierBinding }
func (i IdentifierNode) IsWrite() bool { return i.n.Kind() == IdentifierAssignment }
