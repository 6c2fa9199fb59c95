package syntax

// GreenBuilder assembles a green tree bottom-up.
type GreenBuilder struct {
	cache    *NodeCache
	parents  []builderParent
	children []GreenElement
}

type builderParent struct {
	kind  Kind
	first int // индекс первого ребёнка в children
}

// BuilderCheckpoint marks a position among the pending children.
type BuilderCheckpoint int

// NewGreenBuilder creates a builder; cache may be nil.
func NewGreenBuilder(cache *NodeCache) *GreenBuilder {
	return &GreenBuilder{cache: cache}
}

// StartNode opens a node; its children are everything added until FinishNode.
func (b *GreenBuilder) StartNode(kind Kind) {
	b.parents = append(b.parents, builderParent{kind: kind, first: len(b.children)})
}

// Token adds a token to the innermost open node.
func (b *GreenBuilder) Token(kind Kind, text string, leading, trailing []TriviaPiece) {
	b.children = append(b.children, b.cache.Token(kind, text, leading, trailing))
}

// FinishNode closes the innermost open node.
func (b *GreenBuilder) FinishNode() {
	if len(b.parents) == 0 {
		panic("syntax: FinishNode without StartNode")
	}
	p := b.parents[len(b.parents)-1]
	b.parents = b.parents[:len(b.parents)-1]
	node := b.cache.Node(p.kind, append([]GreenElement(nil), b.children[p.first:]...))
	b.children = append(b.children[:p.first], node)
}

// Checkpoint remembers the current position so a node can later be wrapped
// around everything added after it.
func (b *GreenBuilder) Checkpoint() BuilderCheckpoint {
	return BuilderCheckpoint(len(b.children))
}

// StartNodeAt opens a node whose first child is the element added at cp.
func (b *GreenBuilder) StartNodeAt(cp BuilderCheckpoint, kind Kind) {
	if int(cp) > len(b.children) {
		panic("syntax: checkpoint past the end of the pending children")
	}
	if n := len(b.parents); n > 0 && int(cp) < b.parents[n-1].first {
		panic("syntax: checkpoint belongs to a closed node")
	}
	b.parents = append(b.parents, builderParent{kind: kind, first: int(cp)})
}

// Finish returns the single root node.
func (b *GreenBuilder) Finish() *GreenNode {
	if len(b.parents) != 0 || len(b.children) != 1 {
		panic("syntax: unbalanced builder")
	}
	root, ok := b.children[0].(*GreenNode)
	if !ok {
		panic("syntax: builder root is a token")
	}
	return root
}
