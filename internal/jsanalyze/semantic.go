package jsanalyze

import (
	"golang.org/x/text/unicode/norm"

	"verdant/internal/analyzer"
	"verdant/internal/lang/js"
	"verdant/internal/syntax"
)

// ScopeKind classifies a lexical scope.
type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	}
	return "unknown"
}

// BindingKind says how a name was declared.
type BindingKind uint8

const (
	BindingVar BindingKind = iota
	BindingLet
	BindingConst
	BindingFunction
	BindingParameter
	BindingImport
	// BindingOther covers bindings recovery left without a declaration.
	BindingOther
)

func (k BindingKind) String() string {
	switch k {
	case BindingVar:
		return "var"
	case BindingLet:
		return "let"
	case BindingConst:
		return "const"
	case BindingFunction:
		return "function"
	case BindingParameter:
		return "parameter"
	case BindingImport:
		return "import"
	}
	return "other"
}

// Scope is one lexical scope. Node is the module root, the function or the
// block that opened it.
type Scope struct {
	ID     int
	Kind   ScopeKind
	Node   *syntax.Node
	Parent *Scope

	bindings map[string]*Binding
	order    []*Binding
}

// Bindings returns the scope's own bindings in declaration order.
func (s *Scope) Bindings() []*Binding { return s.order }

// Lookup finds name in s only, without walking to parents.
func (s *Scope) Lookup(name string) *Binding { return s.bindings[norm.NFC.String(name)] }

// Binding is a declared name. Redeclarations (`var a; var a;`) share the
// binding; Declarations lists every IdentifierBinding node.
type Binding struct {
	Name         string
	Kind         BindingKind
	Node         *syntax.Node
	Declarations []*syntax.Node
	Scope        *Scope
	// Exported is set for `export const`, `export function` and names listed
	// in a local `export {...}`.
	Exported   bool
	References []*Reference
}

// IsRead reports whether some reference reads the binding.
func (b *Binding) IsRead() bool {
	for _, r := range b.References {
		if r.Read {
			return true
		}
	}
	return false
}

// Writes counts the references that assign the binding.
func (b *Binding) Writes() int {
	n := 0
	for _, r := range b.References {
		if r.Write {
			n++
		}
	}
	return n
}

// Reference is a use of a name. A compound assignment or an update both reads
// and writes.
type Reference struct {
	Name  string
	Node  *syntax.Node
	Scope *Scope
	Read  bool
	Write bool
	// InTypeof is set for `typeof x`, which does not throw on undeclared names.
	InTypeof bool
	// Binding is nil for unresolved references.
	Binding *Binding
}

// SemanticModel is the scope tree of one file. It is built by the syntax phase
// and read by semantic rules through the service bag.
type SemanticModel struct {
	root       *syntax.Node
	scopes     []*Scope
	bindings   map[syntax.NodeKey]*Binding
	refs       map[syntax.NodeKey]*Reference
	scopeOf    map[syntax.NodeKey]*Scope
	all        []*Binding
	references []*Reference
	unresolved []*Reference
}

func (m *SemanticModel) Root() *syntax.Node { return m.root }

// Global is the outermost scope.
func (m *SemanticModel) Global() *Scope { return m.scopes[0] }

func (m *SemanticModel) Scopes() []*Scope { return m.scopes }

// Bindings returns every binding in document order.
func (m *SemanticModel) Bindings() []*Binding { return m.all }

func (m *SemanticModel) References() []*Reference { return m.references }

// Unresolved returns references no scope declares, in document order.
func (m *SemanticModel) Unresolved() []*Reference { return m.unresolved }

// BindingOf maps an IdentifierBinding node to its binding.
func (m *SemanticModel) BindingOf(n *syntax.Node) *Binding {
	if n == nil {
		return nil
	}
	return m.bindings[n.Key()]
}

// ReferenceOf maps an IdentifierExpression, IdentifierAssignment or local
// export name to its reference.
func (m *SemanticModel) ReferenceOf(n *syntax.Node) *Reference {
	if n == nil {
		return nil
	}
	return m.refs[n.Key()]
}

// ScopeOf returns the innermost scope whose opening node is n or an ancestor
// of n.
func (m *SemanticModel) ScopeOf(n *syntax.Node) *Scope {
	for cur := n; cur != nil; cur = cur.Parent() {
		if s, ok := m.scopeOf[cur.Key()]; ok {
			return s
		}
	}
	return m.Global()
}

// Resolve looks name up from s outwards.
func (m *SemanticModel) Resolve(s *Scope, name string) *Binding {
	name = norm.NFC.String(name)
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// BuildModel runs the model builder over root outside of an analysis run.
func BuildModel(root *syntax.Node) *SemanticModel {
	b := newModelBuilder()
	for ev := range root.Preorder() {
		b.visit(ev)
	}
	return b.finish()
}

// modelBuilder is the syntax-phase visitor behind the semantic model.
// References are resolved at the end since var and function declarations are
// visible before their text position.
type modelBuilder struct {
	model *SemanticModel
	stack []*Scope
}

func newModelBuilder() *modelBuilder {
	return &modelBuilder{model: &SemanticModel{
		bindings: make(map[syntax.NodeKey]*Binding),
		refs:     make(map[syntax.NodeKey]*Reference),
		scopeOf:  make(map[syntax.NodeKey]*Scope),
	}}
}

type modelBuilderKey struct{}

// provideModel installs the builder; it is the provider of every semantic query.
func provideModel(r *analyzer.VisitorRegistry, _ *syntax.Node) {
	r.Add(analyzer.PhaseSyntax, modelBuilderKey{}, func() analyzer.Visitor { return newModelBuilder() })
}

func (b *modelBuilder) Visit(ev syntax.WalkEvent, _ *analyzer.VisitorContext) { b.visit(ev) }

func (b *modelBuilder) Finish(ctx *analyzer.VisitorContext) {
	analyzer.Insert(ctx.Services, b.finish())
}

func (b *modelBuilder) current() *Scope { return b.stack[len(b.stack)-1] }

func (b *modelBuilder) push(kind ScopeKind, n *syntax.Node) {
	var parent *Scope
	if len(b.stack) > 0 {
		parent = b.current()
	}
	s := &Scope{ID: len(b.model.scopes), Kind: kind, Node: n, Parent: parent, bindings: make(map[string]*Binding)}
	b.model.scopes = append(b.model.scopes, s)
	b.model.scopeOf[n.Key()] = s
	b.stack = append(b.stack, s)
}

func (b *modelBuilder) visit(ev syntax.WalkEvent) {
	n := ev.Node
	kind, opens := scopeKindOf(n)
	if ev.Kind == syntax.WalkLeave {
		if opens {
			b.stack = b.stack[:len(b.stack)-1]
		}
		return
	}
	if b.model.root == nil {
		b.model.root = n
		b.push(ScopeModule, n)
		return
	}
	if opens {
		b.push(kind, n)
	}
	switch n.Kind() {
	case js.IdentifierBinding:
		b.declare(n)
	case js.IdentifierExpression, js.IdentifierAssignment:
		b.reference(n)
	case js.LiteralExportName:
		b.localExport(n)
	}
}

// scopeKindOf reports whether n opens a scope. Function bodies share the
// scope of their function.
func scopeKindOf(n *syntax.Node) (ScopeKind, bool) {
	switch {
	case js.IsFunction(n.Kind()):
		return ScopeFunction, true
	case n.Kind() == js.BlockStatement, n.Kind() == js.ForStatement:
		return ScopeBlock, true
	}
	return 0, false
}

func (b *modelBuilder) declare(n *syntax.Node) {
	id, _ := js.CastIdentifier(n)
	name := id.Name()
	if name == "" {
		return
	}
	kind, scope, decl := b.bindingTarget(n)
	key := norm.NFC.String(name)
	bind, ok := scope.bindings[key]
	if !ok {
		bind = &Binding{Name: key, Kind: kind, Node: n, Scope: scope}
		scope.bindings[key] = bind
		scope.order = append(scope.order, bind)
		b.model.all = append(b.model.all, bind)
	}
	bind.Declarations = append(bind.Declarations, n)
	if decl != nil && decl.Parent() != nil && decl.Parent().Kind() == js.Export {
		bind.Exported = true
	}
	b.model.bindings[n.Key()] = bind
}

// bindingTarget picks the binding kind, the scope the name lands in and the
// declaration node carrying a possible `export`.
func (b *modelBuilder) bindingTarget(n *syntax.Node) (BindingKind, *Scope, *syntax.Node) {
	parent := n.Parent()
	switch parent.Kind() {
	case js.VariableDeclarator:
		decl := syntax.AncestorOf(n, syntax.KindIs(js.VariableDeclaration))
		view, _ := js.CastVariableDeclaration(decl)
		stmt := syntax.AncestorOf(n, syntax.KindIs(js.VariableStatement))
		switch tok := view.KindToken(); {
		case tok == nil:
			return BindingOther, b.current(), stmt
		case tok.Kind() == js.VarKw:
			return BindingVar, b.functionScope(), stmt
		case tok.Kind() == js.ConstKw:
			return BindingConst, b.current(), stmt
		}
		return BindingLet, b.current(), stmt
	case js.FunctionDeclaration:
		// функция уже открыла свою область, имя живёт снаружи
		return BindingFunction, b.current().Parent, parent
	case js.FunctionExpression:
		return BindingFunction, b.current(), nil
	case js.FormalParameter, js.RestParameter, js.ArrowFunctionExpression:
		return BindingParameter, b.current(), nil
	case js.ImportDefaultClause, js.ImportNamespaceClause, js.NamedImportSpecifier, js.ShorthandNamedImportSpecifier:
		return BindingImport, b.model.Global(), nil
	}
	return BindingOther, b.current(), nil
}

func (b *modelBuilder) functionScope() *Scope {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].Kind != ScopeBlock {
			return b.stack[i]
		}
	}
	return b.model.Global()
}

func (b *modelBuilder) reference(n *syntax.Node) {
	id, _ := js.CastIdentifier(n)
	name := id.Name()
	if name == "" {
		return
	}
	ref := &Reference{Name: norm.NFC.String(name), Node: n, Scope: b.current(), Read: true}
	if id.IsWrite() {
		ref.Write = true
		ref.Read = readsTarget(n.Parent())
	}
	if p := n.Parent(); p != nil && p.Kind() == js.UnaryExpression && p.FirstToken() != nil && p.FirstToken().Kind() == js.TypeofKw {
		ref.InTypeof = true
	}
	b.addReference(ref)
}

// readsTarget: `a += 1` and `a++` read a before writing it, `a = 1` does not.
func readsTarget(parent *syntax.Node) bool {
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case js.PreUpdateExpression, js.PostUpdateExpression:
		return true
	case js.AssignmentExpression:
		op := syntax.FindTokenOf(parent, func(syntax.Kind) bool { return true })
		return op != nil && op.Kind() != js.Eq
	}
	return false
}

// localExport records `export {a as b}` without a `from` clause as a read of a.
func (b *modelBuilder) localExport(n *syntax.Node) {
	specifier := n.Parent()
	if specifier == nil || specifier.Kind() != js.ExportNamedSpecifier || !specifier.FirstChild().Is(n) {
		return
	}
	clause := syntax.AncestorOf(specifier, syntax.KindIs(js.ExportNamedClause))
	if clause == nil || clause.FindChild(syntax.KindIs(js.ModuleSource)) != nil {
		return
	}
	tok := n.FindToken(js.Ident)
	if tok == nil {
		return
	}
	b.addReference(&Reference{Name: norm.NFC.String(tok.TextTrimmed()), Node: n, Scope: b.current(), Read: true})
}

func (b *modelBuilder) addReference(ref *Reference) {
	b.model.refs[ref.Node.Key()] = ref
	b.model.references = append(b.model.references, ref)
}

func (b *modelBuilder) finish() *SemanticModel {
	m := b.model
	if m.root == nil {
		return m
	}
	for _, ref := range m.references {
		ref.Binding = m.Resolve(ref.Scope, ref.Name)
		if ref.Binding == nil {
			m.unresolved = append(m.unresolved, ref)
			continue
		}
		ref.Binding.References = append(ref.Binding.References, ref)
		if ref.Node.Kind() == js.LiteralExportName {
			ref.Binding.Exported = true
		}
	}
	return m
}
