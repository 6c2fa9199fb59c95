package syntax

// CacheStats counts cache lookups.
type CacheStats struct {
	NodeHits, NodeMisses   int
	TokenHits, TokenMisses int
}

// NodeCache deduplicates green tokens and nodes. Passing one cache to several
// parses makes identical subtrees of different files share memory.
//
// A NodeCache is not safe for concurrent use. A nil *NodeCache is valid and
// disables deduplication.
type NodeCache struct {
	nodes  map[uint64][]*GreenNode
	tokens map[uint64][]*GreenToken
	stats  CacheStats
}

func NewNodeCache() *NodeCache {
	return &NodeCache{
		nodes:  make(map[uint64][]*GreenNode),
		tokens: make(map[uint64][]*GreenToken),
	}
}

// Token returns the cached token equal to the requested one, creating it on miss.
func (c *NodeCache) Token(kind Kind, text string, leading, trailing []TriviaPiece) *GreenToken {
	if c == nil {
		return NewGreenToken(kind, text, leading, trailing)
	}
	h := hashToken(kind, text, leading, trailing)
	want := GreenToken{kind: kind, text: text, leading: leading, trailing: trailing, hash: h}
	for _, t := range c.tokens[h] {
		if t.equal(&want) {
			c.stats.TokenHits++
			return t
		}
	}
	c.stats.TokenMisses++
	t := NewGreenToken(kind, text, cloneTrivia(leading), cloneTrivia(trailing))
	c.tokens[h] = append(c.tokens[h], t)
	return t
}

// Node returns the cached node with the same kind and children, creating it on miss.
// Children produced by the same cache compare by identity.
func (c *NodeCache) Node(kind Kind, children []GreenElement) *GreenNode {
	if c == nil {
		return NewGreenNode(kind, children)
	}
	h := hashNode(kind, children)
	for _, n := range c.nodes[h] {
		if sameChildren(n, kind, children) {
			c.stats.NodeHits++
			return n
		}
	}
	c.stats.NodeMisses++
	n := NewGreenNode(kind, children)
	c.nodes[h] = append(c.nodes[h], n)
	return n
}

// Stats returns hit/miss counters.
func (c *NodeCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return c.stats
}

func sameChildren(n *GreenNode, kind Kind, children []GreenElement) bool {
	if n.kind != kind || len(n.children) != len(children) {
		return false
	}
	for i, c := range children {
		if n.children[i].Element != c {
			return false
		}
	}
	return true
}

func cloneTrivia(p []TriviaPiece) []TriviaPiece {
	if len(p) == 0 {
		return nil
	}
	return append([]TriviaPiece(nil), p...)
}
