// Package parser owns the engine's parser objects and the trees they
// produce.
//
// Parsers are reached only through a Lease taken from a Pool. A lease is
// bound to exactly one language, is not safe for concurrent use, and hands
// its parser back with Release. Trees and Nodes are read-only once produced
// and may be shared across goroutines for reading until the tree is closed.
package parser

import (
	"fmt"
	"log/slog"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/syntaxcore/internal/edit"
	"github.com/DeusData/syntaxcore/internal/input"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/span"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// Handle owns one engine parser and remembers its current binding.
type Handle struct {
	p     *tree_sitter.Parser
	lang  lang.Language
	bound *tree_sitter.Language
}

func newHandle() *Handle {
	return &Handle{p: tree_sitter.NewParser()}
}

// bind points the parser at ts unless it is already bound to it.
func (h *Handle) bind(l lang.Language, ts *tree_sitter.Language) error {
	if h.bound == ts && h.lang == l {
		return nil
	}
	if err := h.p.SetLanguage(ts); err != nil {
		return syntaxerr.Configurationf("bind %s: %v", l, err)
	}
	h.lang, h.bound = l, ts
	return nil
}

func (h *Handle) reset() {
	h.p.Reset()
}

func (h *Handle) close() {
	h.p.Close()
	h.p = nil
	h.bound = nil
}

// parse runs the engine over src. previous, when non-nil, must already carry
// the edits that turn its text into src.
func (h *Handle) parse(src input.Source, previous *Tree) (*Tree, error) {
	if h.bound == nil {
		return nil, syntaxerr.Configurationf("parser has no language")
	}
	if uint64(src.Len()) > input.MaxLen {
		return nil, syntaxerr.Inputf("source is %d bytes, limit is %d", src.Len(), uint64(input.MaxLen))
	}
	var old *tree_sitter.Tree
	if previous != nil {
		if previous.lang != h.lang {
			return nil, syntaxerr.Configurationf("previous tree is %s, parser is bound to %s", previous.lang, h.lang)
		}
		old = previous.t
	}

	var t *tree_sitter.Tree
	switch s := src.(type) {
	case input.Bytes:
		t = h.p.Parse(s, old)
	default:
		t = h.p.ParseWithOptions(readFunc(src), old, nil)
	}
	if t == nil {
		return nil, fmt.Errorf("parse %s: engine returned no tree", h.lang)
	}
	slog.Debug("parse.done", "lang", h.lang, "bytes", src.Len(), "incremental", previous != nil)
	return &Tree{t: t, lang: h.lang, src: src}, nil
}

// readFunc adapts a Source to the engine's read callback. An empty slice
// tells the engine the input has ended.
func readFunc(src input.Source) func(int, tree_sitter.Point) []byte {
	return func(offset int, _ tree_sitter.Point) []byte {
		b, ok := src.Read(offset)
		if !ok {
			return nil
		}
		return b
	}
}

func toInputEdit(d edit.Descriptor) *tree_sitter.InputEdit {
	return &tree_sitter.InputEdit{
		StartByte:      d.StartByte,
		OldEndByte:     d.OldEndByte,
		NewEndByte:     d.NewEndByte,
		StartPosition:  toPoint(d.StartPoint),
		OldEndPosition: toPoint(d.OldEndPoint),
		NewEndPosition: toPoint(d.NewEndPoint),
	}
}

func toPoint(p span.Point) tree_sitter.Point {
	return tree_sitter.Point{Row: p.Row, Column: p.Column}
}

func fromPoint(p tree_sitter.Point) span.Point {
	return span.Point{Row: p.Row, Column: p.Column}
}

func fromRange(r tree_sitter.Range) span.Range {
	return span.Range{
		StartByte:  r.StartByte,
		EndByte:    r.EndByte,
		StartPoint: fromPoint(r.StartPoint),
		EndPoint:   fromPoint(r.EndPoint),
	}
}

// WalkFunc is called for each node during AST traversal.
// Return false to skip children.
type WalkFunc func(node Node) bool

// Walk traverses the AST in depth-first order.
func Walk(node Node, fn WalkFunc) {
	if !node.Valid() {
		return
	}
	if !fn(node) {
		return
	}
	for i := 0; i < node.ChildCount(); i++ {
		if child, ok := node.Child(i); ok {
			Walk(child, fn)
		}
	}
}
