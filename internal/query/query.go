// Package query compiles pattern text against a grammar and streams the
// captures it produces over a parsed tree.
package query

import (
	"errors"
	"log/slog"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/zeebo/xxh3"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// ErrClosed is returned when executing a query after Close.
var ErrClosed = errors.New("query is closed")

// Query is a compiled pattern bound to one language. Execute may be called
// concurrently; each call gets its own Cursor.
type Query struct {
	q       *tree_sitter.Query
	lang    lang.Language
	names   []string
	pattern string
	digest  uint64
}

// Compile compiles pattern for l. A pattern error is returned as a
// *Diagnostic; an unresolvable language wraps syntaxerr.ErrConfiguration.
func Compile(r parser.Resolver, l lang.Language, pattern string) (*Query, error) {
	ts, err := resolve(r, l)
	if err != nil {
		return nil, err
	}
	q, qerr := tree_sitter.NewQuery(ts, pattern)
	if qerr != nil {
		return nil, newDiagnostic(l, qerr)
	}
	names := q.CaptureNames()
	slog.Debug("query.compiled", "lang", l, "patterns", q.PatternCount(), "captures", len(names))
	return &Query{
		q:       q,
		lang:    l,
		names:   names,
		pattern: pattern,
		digest:  xxh3.HashString(pattern),
	}, nil
}

// Validate reports whether pattern compiles for l, with the same diagnostic
// Compile would return. Nothing is retained.
func Validate(r parser.Resolver, l lang.Language, pattern string) (bool, error) {
	q, err := Compile(r, l, pattern)
	if err != nil {
		return false, err
	}
	q.Close()
	return true, nil
}

func resolve(r parser.Resolver, l lang.Language) (*tree_sitter.Language, error) {
	ts, err := r.Get(l)
	if err != nil {
		if errors.Is(err, syntaxerr.ErrConfiguration) {
			return nil, err
		}
		return nil, syntaxerr.Configurationf("resolve %s: %v", l, err)
	}
	return ts, nil
}

func (q *Query) Language() lang.Language { return q.lang }

// CaptureNames returns the capture names indexed by capture id.
func (q *Query) CaptureNames() []string { return q.names }

func (q *Query) PatternCount() int { return int(q.q.PatternCount()) }

// Pattern returns the source text the query was compiled from.
func (q *Query) Pattern() string { return q.pattern }

// Digest is the xxh3 hash of the pattern text.
func (q *Query) Digest() uint64 { return q.digest }

// Close frees the compiled query.
func (q *Query) Close() {
	if q.q != nil {
		q.q.Close()
		q.q = nil
	}
}
