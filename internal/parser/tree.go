package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/syntaxcore/internal/edit"
	"github.com/DeusData/syntaxcore/internal/input"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/span"
)

// Tree is an immutable parse result together with the text it was parsed
// from. Close releases the engine's memory; Nodes taken from a closed tree
// must not be used.
type Tree struct {
	t    *tree_sitter.Tree
	lang lang.Language
	src  input.Source
}

// Language returns the grammar the tree was produced with.
func (t *Tree) Language() lang.Language { return t.lang }

// Source returns the text the tree was parsed from.
func (t *Tree) Source() input.Source { return t.src }

// Text returns the source as one buffer.
func (t *Tree) Text() []byte { return input.Contiguous(t.src) }

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.Node(t.t.RootNode())
}

// Node wraps an engine node that belongs to t.
func (t *Tree) Node(n *tree_sitter.Node) Node {
	if n == nil {
		return Node{}
	}
	return Node{n: *n, tree: t}
}

// Raw exposes the engine tree for query execution.
func (t *Tree) Raw() *tree_sitter.Tree { return t.t }

// Clone returns an independent copy sharing structure with t.
func (t *Tree) Clone() *Tree {
	return &Tree{t: t.t.Clone(), lang: t.lang, src: t.src}
}

// Edit returns a clone of t with d applied, ready to be passed as the
// previous tree of a reparse. t itself is not modified. The clone's
// positions describe the edited text while its Source still holds the old
// text, so it is only good for reparsing.
func (t *Tree) Edit(d edit.Descriptor) *Tree {
	c := t.Clone()
	c.t.Edit(toInputEdit(d))
	return c
}

// ChangedRanges reports the ranges whose syntax differs between t, the
// edited previous tree, and newer.
func (t *Tree) ChangedRanges(newer *Tree) []span.Range {
	raw := t.t.ChangedRanges(newer.t)
	out := make([]span.Range, len(raw))
	for i, r := range raw {
		out[i] = fromRange(r)
	}
	return out
}

// Close frees the tree. It is safe to call more than once.
func (t *Tree) Close() {
	if t.t != nil {
		t.t.Close()
		t.t = nil
	}
}

// Node is a read-only view of one syntax node. The zero Node is invalid.
type Node struct {
	n    tree_sitter.Node
	tree *Tree
}

// Valid reports whether n refers to a node.
func (n Node) Valid() bool { return n.tree != nil }

// Tree returns the tree n belongs to.
func (n Node) Tree() *Tree { return n.tree }

// Raw exposes the engine node.
func (n Node) Raw() *tree_sitter.Node { return &n.n }

func (n Node) Kind() string    { return n.n.Kind() }
func (n Node) IsNamed() bool   { return n.n.IsNamed() }
func (n Node) IsError() bool   { return n.n.IsError() }
func (n Node) IsMissing() bool { return n.n.IsMissing() }
func (n Node) HasError() bool  { return n.n.HasError() }

func (n Node) StartByte() uint { return n.n.StartByte() }
func (n Node) EndByte() uint   { return n.n.EndByte() }

func (n Node) StartPoint() span.Point { return fromPoint(n.n.StartPosition()) }
func (n Node) EndPoint() span.Point   { return fromPoint(n.n.EndPosition()) }

// Range returns the node's byte and point extent.
func (n Node) Range() span.Range {
	return span.Range{
		StartByte:  n.n.StartByte(),
		EndByte:    n.n.EndByte(),
		StartPoint: n.StartPoint(),
		EndPoint:   n.EndPoint(),
	}
}

// Text returns an owned copy of the node's source text.
func (n Node) Text() string {
	src := n.tree.src
	start, end := int(n.n.StartByte()), int(n.n.EndByte())
	if end > src.Len() || start > end {
		return ""
	}
	return string(src.Slice(start, end))
}

func (n Node) ChildCount() int      { return int(n.n.ChildCount()) }
func (n Node) NamedChildCount() int { return int(n.n.NamedChildCount()) }

func (n Node) Child(i int) (Node, bool) {
	return n.wrap(n.n.Child(uint(i)))
}

func (n Node) NamedChild(i int) (Node, bool) {
	return n.wrap(n.n.NamedChild(uint(i)))
}

func (n Node) ChildByField(name string) (Node, bool) {
	return n.wrap(n.n.ChildByFieldName(name))
}

func (n Node) Parent() (Node, bool) {
	return n.wrap(n.n.Parent())
}

// SExpr renders the subtree in the engine's s-expression form.
func (n Node) SExpr() string { return n.n.ToSexp() }

func (n Node) wrap(c *tree_sitter.Node) (Node, bool) {
	if c == nil {
		return Node{}, false
	}
	return Node{n: *c, tree: n.tree}, true
}
