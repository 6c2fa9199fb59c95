package analyzer

import (
	"fmt"
	"reflect"

	"verdant/internal/source"
	"verdant/internal/syntax"
)

// QueryMatch is a value published by a visitor. Its dynamic type routes it to
// rules. *syntax.Node is the match type of node queries.
type QueryMatch interface {
	TextRange() source.TextRange
}

// Route says which published matches a query receives.
type Route struct {
	Phase Phase
	Type  reflect.Type
	// Kinds narrows *syntax.Node matches; nil accepts every kind.
	Kinds []syntax.Kind
}

// Queryable is the type-erased half of a query: which visitors to install and
// which matches to receive.
type Queryable interface {
	// BuildVisitors installs visitors. It is called once per rule; visitors
	// registered under the same key are built once.
	BuildVisitors(r *VisitorRegistry, root *syntax.Node)
	Route() Route
}

// Query adds the typed view a rule sees through RuleContext.Query.
type Query[Q any] interface {
	Queryable
	// Unwrap turns a routed match into the rule's input. A *ServiceError means
	// a required service is absent.
	Unwrap(services *ServiceBag, m QueryMatch) (Q, error)
}

// Ast is the library query "every node of one of Kinds, as N". It runs in the
// Syntax phase unless InPhase says otherwise.
type Ast[N any] struct {
	Kinds   []syntax.Kind
	Cast    func(*syntax.Node) (N, bool)
	InPhase Phase
}

// NewAst builds an Ast query for the syntax phase.
func NewAst[N any](cast func(*syntax.Node) (N, bool), kinds ...syntax.Kind) Ast[N] {
	return Ast[N]{Kinds: kinds, Cast: cast}
}

func (q Ast[N]) BuildVisitors(r *VisitorRegistry, _ *syntax.Node) {
	r.WantNodes(q.InPhase, q.Kinds...)
}

func (q Ast[N]) Route() Route {
	return Route{Phase: q.InPhase, Type: nodeType, Kinds: q.Kinds}
}

func (q Ast[N]) Unwrap(_ *ServiceBag, m QueryMatch) (N, error) {
	var zero N
	n, ok := m.(*syntax.Node)
	if !ok {
		return zero, fmt.Errorf("ast query: unexpected match %T", m)
	}
	v, ok := q.Cast(n)
	if !ok {
		return zero, fmt.Errorf("ast query: cannot cast %s", syntax.KindString(n.Language(), n.Kind()))
	}
	return v, nil
}

// Semantic is an Ast query in the Semantic phase whose rules also need the
// service M (typically the semantic model). Provider installs the visitors
// that build M during an earlier phase.
type Semantic[N, M any] struct {
	Ast[N]
	Provider func(r *VisitorRegistry, root *syntax.Node)
}

func NewSemantic[N, M any](provider func(*VisitorRegistry, *syntax.Node), cast func(*syntax.Node) (N, bool), kinds ...syntax.Kind) Semantic[N, M] {
	return Semantic[N, M]{Ast: Ast[N]{Kinds: kinds, Cast: cast, InPhase: PhaseSemantic}, Provider: provider}
}

func (q Semantic[N, M]) BuildVisitors(r *VisitorRegistry, root *syntax.Node) {
	if q.Provider != nil {
		q.Provider(r, root)
	}
	q.Ast.BuildVisitors(r, root)
}

func (q Semantic[N, M]) Unwrap(services *ServiceBag, m QueryMatch) (N, error) {
	if !services.Has(reflect.TypeFor[M]()) {
		var zero N
		return zero, &ServiceError{Service: reflect.TypeFor[M]().String()}
	}
	return q.Ast.Unwrap(services, m)
}

var nodeType = reflect.TypeFor[*syntax.Node]()
