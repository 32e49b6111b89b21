package query

import (
	"iter"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// Capture is one (name, node) pair of a match. Index is the capture's
// position within its match and Count the number of captures the match has,
// so Index+1 == Count marks the match's last capture.
type Capture struct {
	MatchID      uint
	PatternIndex uint
	Index        int
	Count        int
	Name         string
	Node         parser.Node
}

// Last reports whether c is the final capture of its match.
func (c Capture) Last() bool { return c.Index+1 == c.Count }

type options struct {
	startByte, endByte uint
	byteRange          bool
	matchLimit         uint
}

// Option tunes a single execution.
type Option func(*options)

// WithByteRange restricts matching to nodes intersecting [start, end).
func WithByteRange(start, end uint) Option {
	return func(o *options) {
		o.startByte, o.endByte, o.byteRange = start, end, true
	}
}

// WithMatchLimit caps the number of in-progress matches.
func WithMatchLimit(n uint) Option {
	return func(o *options) { o.matchLimit = n }
}

// Cursor streams the captures of one execution in document order. It is
// owned by the caller and must be closed.
type Cursor struct {
	q    *Query
	tree *parser.Tree
	qc   *tree_sitter.QueryCursor
	caps tree_sitter.QueryCaptures
	done bool
}

// Execute runs q over the subtree at root. root must come from a tree of
// q's language.
func (q *Query) Execute(root parser.Node, opts ...Option) (*Cursor, error) {
	if !root.Valid() {
		return nil, syntaxerr.Inputf("execute query: invalid node")
	}
	if q.q == nil {
		return nil, ErrClosed
	}
	tree := root.Tree()
	if tree.Language() != q.lang {
		return nil, syntaxerr.Configurationf("execute %s query on %s tree", q.lang, tree.Language())
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	qc := tree_sitter.NewQueryCursor()
	if o.byteRange {
		qc.SetByteRange(o.startByte, o.endByte)
	}
	if o.matchLimit > 0 {
		qc.SetMatchLimit(o.matchLimit)
	}
	// Predicates read node text, which needs the source in one piece.
	text := tree.Text()
	return &Cursor{
		q:    q,
		tree: tree,
		qc:   qc,
		caps: qc.Captures(q.q, root.Raw(), text),
	}, nil
}

// Next returns the next capture, or false once the stream is exhausted.
func (c *Cursor) Next() (Capture, bool) {
	if c.done {
		return Capture{}, false
	}
	m, idx := c.caps.Next()
	if m == nil {
		c.done = true
		return Capture{}, false
	}
	qc := m.Captures[idx]
	return Capture{
		MatchID:      m.Id(),
		PatternIndex: m.PatternIndex,
		Index:        int(idx),
		Count:        len(m.Captures),
		Name:         c.q.names[qc.Index],
		Node:         c.tree.Node(&qc.Node),
	}, true
}

// All drains the cursor as an iterator.
func (c *Cursor) All() iter.Seq[Capture] {
	return func(yield func(Capture) bool) {
		for {
			next, ok := c.Next()
			if !ok || !yield(next) {
				return
			}
		}
	}
}

// Truncated reports whether the match limit dropped matches.
func (c *Cursor) Truncated() bool {
	return c.qc.DidExceedMatchLimit()
}

// Close frees the cursor.
func (c *Cursor) Close() {
	if c.qc != nil {
		c.qc.Close()
		c.qc = nil
		c.done = true
	}
}

// Captures executes q over root and collects every capture.
func (q *Query) Captures(root parser.Node, opts ...Option) ([]Capture, error) {
	cur, err := q.Execute(root, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close()
	var out []Capture
	for c := range cur.All() {
		out = append(out, c)
	}
	return out, nil
}
