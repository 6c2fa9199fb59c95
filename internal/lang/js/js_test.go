package js

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
	"verdant/internal/testkit"
)

func parseModule(text string) *Parsed {
	return Parse(text, ModuleFile(), ParserOptions{}, nil)
}

func firstOf(root *syntax.Node, kind syntax.Kind) *syntax.Node {
	for n := range root.Descendants() {
		if n.Kind() == kind {
			return n
		}
	}
	return nil
}

func countOf(root *syntax.Node, kind syntax.Kind) int {
	var n int
	for d := range root.Descendants() {
		if d.Kind() == kind {
			n++
		}
	}
	return n
}

func messages(p *Parsed) []string {
	var out []string
	for _, d := range p.Diagnostics {
		out = append(out, d.Message.String())
	}
	return out
}

// firstExpression returns the expression of the first expression statement.
func firstExpression(t *testing.T, p *Parsed) *syntax.Node {
	t.Helper()
	stmt := firstOf(p.Root, ExpressionStatement)
	require.NotNil(t, stmt)
	return stmt.FirstChild()
}

func TestParseLossless(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"let a = 1;\nconst b = a + 2 // trailing\n",
		"function f(a, b = 1, ...rest) { return a ? b : rest }",
		"import def, {x as y, z} from \"m\";\nexport {y};\nexport default () => {}\n",
		"if (a) { b() } else if (c) d(); else {}",
		"for (let i = 0; i < 10; i++) { if (i) continue; break }",
		"while (true) { debugger }",
		"let s = `a${b + `nested ${c}`}d`;",
		"let r = /[/]\\//gi.test(x) / 2;",
		"obj.a?.b?.[c]?.(d, ...e);",
		"new Foo.Bar(1)(2);",
		"x = {a, b: 1, [c]: 2, d() { return this }, ...e, 'f': 3};",
		"[1, , 2, ...xs,]",
		"async x => await x;\n(a, b) => a + b;",
		"let = ;",
		"function (",
		"{{{",
		"a b c",
		"`unterminated ${",
		"/* open",
		"'unterminated\nnext",
		"return 1; import x from",
		"@ # \\u0041bc",
		"1 = 2; a++ ++;",
		"export { from 'm'",
		"\r\nlet a\r\n= 1\r\n",
	}
	for _, in := range inputs {
		for _, src := range []FileSource{ModuleFile(), ScriptFile()} {
			parsed := Parse(in, src, ParserOptions{GritMetavariables: true}, nil)
			require.Equal(t, in, parsed.Root.Text(), "input %q", in)

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

func TestRootKindFollowsFileSource(t *testing.T) {
	module := Parse("a;", ModuleFile(), ParserOptions{}, nil)
	require.Equal(t, Module, module.Root.Kind())
	require.Equal(t, ModuleItemList, module.Root.FirstChild().Kind())

	script := Parse("a;", ScriptFile(), ParserOptions{}, nil)
	require.Equal(t, Script, script.Root.Kind())
	require.Equal(t, StatementList, script.Root.FirstChild().Kind())
}

func TestOperatorPrecedence(t *testing.T) {
	op := func(t *testing.T, n *syntax.Node) string {
		t.Helper()
		b, ok := CastBinaryExpression(n)
		require.True(t, ok, "got %s", Language.KindName(n.Kind()))
		tok, err := b.Operator()
		require.NoError(t, err)
		return tok.TextTrimmed()
	}

	t.Run("multiplicative binds tighter", func(t *testing.T) {
		expr := firstExpression(t, parseModule("a + b * c;"))
		require.Equal(t, "+", op(t, expr))
		b, _ := CastBinaryExpression(expr)
		right, err := b.Right()
		require.NoError(t, err)
		require.Equal(t, "*", op(t, right))
	})

	t.Run("subtraction is left associative", func(t *testing.T) {
		expr := firstExpression(t, parseModule("a - b - c;"))
		b, _ := CastBinaryExpression(expr)
		left, err := b.Left()
		require.NoError(t, err)
		require.Equal(t, "-", op(t, left))
		require.Equal(t, "a - b", left.TextTrimmed())
	})

	t.Run("exponent is right associative", func(t *testing.T) {
		expr := firstExpression(t, parseModule("a ** b ** c;"))
		b, _ := CastBinaryExpression(expr)
		left, err := b.Left()
		require.NoError(t, err)
		require.Equal(t, IdentifierExpression, left.Kind())
		right, err := b.Right()
		require.NoError(t, err)
		require.Equal(t, "b ** c", right.TextTrimmed())
	})

	t.Run("logical operators", func(t *testing.T) {
		expr := firstExpression(t, parseModule("a || b && c;"))
		require.Equal(t, LogicalExpression, expr.Kind())
		require.Equal(t, "||", op(t, expr))
		b, _ := CastBinaryExpression(expr)
		right, _ := b.Right()
		require.Equal(t, LogicalExpression, right.Kind())
	})

	t.Run("assignment is right associative", func(t *testing.T) {
		expr := firstExpression(t, parseModule("x = y = 1;"))
		require.Equal(t, AssignmentExpression, expr.Kind())
		require.Equal(t, IdentifierAssignment, expr.FirstChild().Kind())
		require.Equal(t, AssignmentExpression, expr.LastChild().Kind())
	})

	t.Run("conditional", func(t *testing.T) {
		expr := firstExpression(t, parseModule("a ? b : c || d;"))
		require.Equal(t, ConditionalExpression, expr.Kind())
		require.Equal(t, LogicalExpression, expr.LastChild().Kind())
	})
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	parsed := parseModule("let a = 1\nlet b = 2")
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, 2, countOf(parsed.Root, VariableStatement))

	parsed = parseModule("{ a }")
	require.Empty(t, parsed.Diagnostics)

	parsed = parseModule("a b")
	require.Equal(t, []string{"expected a semicolon or an implicit semicolon after a statement, but found none"}, messages(parsed))
	require.Equal(t, source.EmptyAt(1), parsed.Diagnostics[0].Range())
	require.Equal(t, 2, countOf(parsed.Root, ExpressionStatement))

	parsed = parseModule("function f() {\n  return\n  x\n}")
	require.Empty(t, parsed.Diagnostics)
	ret := firstOf(parsed.Root, ReturnStatement)
	require.NotNil(t, ret)
	require.Nil(t, ret.FirstChild())
	require.Equal(t, 1, countOf(parsed.Root, ExpressionStatement))
}

func TestArrowFunctions(t *testing.T) {
	parsed := parseModule("(a, b) => a + b;")
	require.Empty(t, parsed.Diagnostics)
	expr := firstExpression(t, parsed)
	fn, ok := CastFunction(expr)
	require.True(t, ok)
	require.Len(t, fn.Parameters(), 2)
	body, err := fn.Body()
	require.NoError(t, err)
	require.Equal(t, BinaryExpression, body.Kind())

	// parenthesized expression, not an arrow: speculation is rewound
	parsed = parseModule("(a + b) * c;")
	require.Empty(t, parsed.Diagnostics)
	expr = firstExpression(t, parsed)
	require.Equal(t, BinaryExpression, expr.Kind())
	require.Equal(t, ParenthesizedExpression, expr.FirstChild().Kind())
	require.Zero(t, countOf(parsed.Root, ArrowFunctionExpression))

	parsed = parseModule("async x => await x;")
	require.Empty(t, parsed.Diagnostics)
	fn, ok = CastFunction(firstExpression(t, parsed))
	require.True(t, ok)
	require.NotNil(t, fn.AsyncToken())
	require.Len(t, fn.Parameters(), 1)

	parsed = parseModule("x => { return x };")
	require.Empty(t, parsed.Diagnostics)
	fn, _ = CastFunction(firstExpression(t, parsed))
	body, err = fn.Body()
	require.NoError(t, err)
	require.Equal(t, FunctionBody, body.Kind())

	// `async` followed by arguments is a call
	parsed = parseModule("async(1, 2);")
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, CallExpression, firstExpression(t, parsed).Kind())
}

func TestRegexLiterals(t *testing.T) {
	parsed := parseModule("let r = /a[/]b/gi;")
	require.Empty(t, parsed.Diagnostics)
	re := firstOf(parsed.Root, RegexLiteralExpression)
	require.NotNil(t, re)
	require.Equal(t, "/a[/]b/gi", re.TextTrimmed())

	parsed = parseModule("a / b / c;")
	require.Empty(t, parsed.Diagnostics)
	require.Zero(t, countOf(parsed.Root, RegexLiteralExpression))
	require.Equal(t, 2, countOf(parsed.Root, BinaryExpression))

	parsed = parseModule("let r = /x/gg;")
	require.Len(t, parsed.Diagnostics, 1)
	require.Contains(t, parsed.Diagnostics[0].Message.String(), "duplicate regex flag")
	require.Equal(t, diag.CategoryLex, parsed.Diagnostics[0].Category)
}

func TestTemplateLiterals(t *testing.T) {
	parsed := parseModule("let s = `a${b}c`;")
	require.Empty(t, parsed.Diagnostics)
	list := firstOf(parsed.Root, TemplateElementList)
	require.NotNil(t, list)
	var kinds []syntax.Kind
	for _, c := range list.Children() {
		kinds = append(kinds, c.Kind())
	}
	require.Equal(t, []syntax.Kind{TemplateChunkElement, TemplateElement, TemplateChunkElement}, kinds)

	parsed = parseModule("`${ {a: 1}.a }`;")
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, 1, countOf(parsed.Root, ObjectExpression))
	require.Equal(t, 1, countOf(parsed.Root, StaticMemberExpression))
}

func TestReturnOutsideFunction(t *testing.T) {
	parsed := Parse("return 1;", ScriptFile(), ParserOptions{}, nil)
	require.Equal(t, []string{"illegal return statement outside of a function"}, messages(parsed))
	require.Equal(t, source.NewRange(0, 9), parsed.Diagnostics[0].Range())
	require.NotNil(t, firstOf(parsed.Root, BogusStatement))
	require.Nil(t, firstOf(parsed.Root, ReturnStatement))

	parsed = Parse("return 1;", ScriptFile(), ParserOptions{AllowReturnOutsideFunction: true}, nil)
	require.Empty(t, parsed.Diagnostics)
	require.NotNil(t, firstOf(parsed.Root, ReturnStatement))
}

func TestModuleOnlyStatementsInScript(t *testing.T) {
	parsed := Parse(`import a from "m";`, ScriptFile(), ParserOptions{}, nil)
	require.Equal(t, []string{"illegal use of an `import` declaration outside of a module"}, messages(parsed))
	require.Equal(t, BogusStatement, parsed.Root.FirstChild().FirstChild().Kind())

	parsed = Parse(`export const a = 1;`, ScriptFile(), ParserOptions{}, nil)
	require.Equal(t, []string{"illegal use of an `export` declaration outside of a module"}, messages(parsed))
}

func TestImportAndExportForms(t *testing.T) {
	parsed := parseModule(`import "side";
import * as ns from "m";
import {a, b as c, "d" as e} from "m";
import def, {f} from "m";
export default 1;
export {a, c as g};
export const h = 1;
export function k() {}
export default function () {}
`)
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, 4, countOf(parsed.Root, Import))
	require.Equal(t, 5, countOf(parsed.Root, Export))
	require.Equal(t, 1, countOf(parsed.Root, ImportBareClause))
	require.Equal(t, 1, countOf(parsed.Root, ImportNamespaceClause))
	require.Equal(t, 1, countOf(parsed.Root, ImportNamedClause))
	require.Equal(t, 1, countOf(parsed.Root, ImportDefaultClause))
	require.Equal(t, 2, countOf(parsed.Root, NamedImportSpecifier))
	require.Equal(t, 2, countOf(parsed.Root, ShorthandNamedImportSpecifier))
	require.Equal(t, 2, countOf(parsed.Root, ExportNamedSpecifier))
	require.Equal(t, 1, countOf(parsed.Root, ExportDefaultExpressionClause))
}

func TestAwaitRules(t *testing.T) {
	parsed := parseModule("function f() { await x; }")
	require.Equal(t, []string{"`await` is only allowed within async functions and at the top level of modules"}, messages(parsed))

	parsed = parseModule("await x;")
	require.Empty(t, parsed.Diagnostics)
	require.NotNil(t, firstOf(parsed.Root, AwaitExpression))

	parsed = parseModule("async function g() { await x; }")
	require.Empty(t, parsed.Diagnostics)

	// in a script outside async functions await is an identifier
	parsed = Parse("await(1);", ScriptFile(), ParserOptions{}, nil)
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, CallExpression, firstExpression(t, parsed).Kind())
}

func TestJumpStatements(t *testing.T) {
	parsed := parseModule("break;")
	require.Equal(t, []string{"a `break` statement can only be used within a loop"}, messages(parsed))

	parsed = parseModule("while (a) { break; }")
	require.Empty(t, parsed.Diagnostics)

	parsed = parseModule("for (let i = 0; i < n; i++) { continue; }")
	require.Empty(t, parsed.Diagnostics)
	require.NotNil(t, firstOf(parsed.Root, PostUpdateExpression))

	parsed = parseModule("while (a) { function f() { break; } }")
	require.Len(t, parsed.Diagnostics, 1)
}

func TestDeclarationErrors(t *testing.T) {
	parsed := parseModule("const a;")
	require.Equal(t, []string{"const declarations must have an initialized value"}, messages(parsed))
	require.Equal(t, source.NewRange(6, 7), parsed.Diagnostics[0].Range())

	parsed = parseModule("1 = 2;")
	require.Equal(t, []string{"invalid assignment target"}, messages(parsed))
	require.NotNil(t, firstOf(parsed.Root, BogusAssignment))
}

func TestContextualKeywordsAsNames(t *testing.T) {
	parsed := parseModule("let of = 1; as + from; obj.default.if = async;")
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, 1, countOf(parsed.Root, VariableStatement))
	require.Equal(t, 2, countOf(parsed.Root, StaticMemberExpression))
}

func TestMetavariables(t *testing.T) {
	parsed := Parse("μa = μb + 1;", ModuleFile(), ParserOptions{GritMetavariables: true}, nil)
	require.Empty(t, parsed.Diagnostics)
	expr := firstExpression(t, parsed)
	require.Equal(t, AssignmentExpression, expr.Kind())
	require.Equal(t, Metavariable, expr.FirstChild().Kind())

	// без опции μ обычная буква идентификатора
	parsed = Parse("μa;", ModuleFile(), ParserOptions{}, nil)
	require.Empty(t, parsed.Diagnostics)
	require.Equal(t, IdentifierExpression, firstExpression(t, parsed).Kind())
}

func TestTypedAccessors(t *testing.T) {
	parsed := parseModule("if (a == b) {}")
	bin, ok := CastBinaryExpression(firstOf(parsed.Root, BinaryExpression))
	require.True(t, ok)
	left, err := bin.Left()
	require.NoError(t, err)
	id, ok := CastIdentifier(left)
	require.True(t, ok)
	require.Equal(t, "a", id.Name())
	right, err := bin.Right()
	require.NoError(t, err)
	id, _ = CastIdentifier(right)
	require.Equal(t, "b", id.Name())

	parsed = parseModule(`const s = 'it\'s';`)
	str, ok := CastStringLiteral(firstOf(parsed.Root, StringLiteralExpression))
	require.True(t, ok)
	require.Equal(t, byte('\''), str.Quote())
	require.Equal(t, "it's", str.Value())

	parsed = parseModule("async function f(a, b = 1, ...c) { return a }")
	require.Empty(t, parsed.Diagnostics)
	fn, ok := CastFunction(firstOf(parsed.Root, FunctionDeclaration))
	require.True(t, ok)
	name, _ := CastIdentifier(fn.Name())
	require.Equal(t, "f", name.Name())
	require.True(t, name.IsBinding())
	require.Len(t, fn.Parameters(), 3)
	require.NotNil(t, fn.AsyncToken())

	parsed = parseModule("let a = 1, b;")
	decl, ok := CastVariableDeclaration(firstOf(parsed.Root, VariableDeclaration))
	require.True(t, ok)
	require.Equal(t, "let", decl.KindToken().TextTrimmed())
	declarators := decl.Declarators()
	require.Len(t, declarators, 2)
	require.Equal(t, NumberLiteralExpression, declarators[0].Initializer().Kind())
	require.Nil(t, declarators[1].Initializer())
	binding, err := declarators[1].Binding()
	require.NoError(t, err)
	require.Equal(t, "b", binding.TextTrimmed())
}

// Two files starting with the same import share its green node.
func TestSharedCacheAcrossFiles(t *testing.T) {
	cache := syntax.NewNodeCache()
	a := Parse("import { a } from \"m\";\nconst x = a;\n", ModuleFile(), ParserOptions{}, cache)
	b := Parse("import { a } from \"m\";\nlet y = 2;\n", ModuleFile(), ParserOptions{}, cache)
	require.Empty(t, a.Diagnostics)
	require.Empty(t, b.Diagnostics)

	importA := firstOf(a.Root, Import)
	importB := firstOf(b.Root, Import)
	require.Same(t, importA.Green(), importB.Green())
	require.Positive(t, cache.Stats().NodeHits)
	require.NotSame(t, a.Root.Green(), b.Root.Green())
}

func TestTokenize(t *testing.T) {
	toks, diags := Tokenize("let x = 1;", ParserOptions{})
	require.Empty(t, diags)
	var kinds []syntax.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []syntax.Kind{
		LetKw, Whitespace, Ident, Whitespace, Eq, Whitespace, NumberLiteral, Semicolon, EOF,
	}, kinds)
}

func TestLexerDiagnostics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc`, "unterminated string literal"},
		{`1e`, "missing exponent"},
		{`0x`, "missing digits after the number prefix"},
		{`3in`, "an identifier cannot appear immediately after a numeric literal"},
		{`/* x`, "unterminated block comment"},
		{`#`, "unexpected character `#`"},
	}
	for _, tt := range tests {
		_, diags := Tokenize(tt.in, ParserOptions{})
		require.NotEmpty(t, diags, "input %q", tt.in)
		require.Equal(t, tt.want, diags[0].Message.String(), "input %q", tt.in)
	}
}

func TestFileSourceFromPath(t *testing.T) {
	tests := []struct {
		path string
		want FileSource
		ok   bool
	}{
		{"a.js", ModuleFile(), true},
		{"a.MJS", ModuleFile(), true},
		{"a.cjs", ScriptFile(), true},
		{"a.jsx", FileSource{Variant: VariantJsx}, true},
		{"a.json", FileSource{}, false},
	}
	for _, tt := range tests {
		got, ok := FileSourceFromPath(tt.path)
		require.Equal(t, tt.ok, ok, tt.path)
		require.Equal(t, tt.want, got, tt.path)
	}
}
