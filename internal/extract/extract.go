// Package extract turns capture streams into structural records: symbols,
// folding ranges and highlight spans. Language differences live entirely in
// the rule tables and pattern text handed in by the caller.
package extract

import (
	"iter"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/span"
)

// Rule maps capture names to the parts of a symbol.
type Rule = lang.Rule

// Kind is the symbol category a rule assigns.
type Kind = lang.SymbolKind

// Symbol is a named, ranged definition. Range covers the whole definition
// and SelectionRange its name. Detail is nil when the rule has no detail
// capture or the match did not bind it.
type Symbol struct {
	Name           string     `json:"name"`
	Detail         *string    `json:"detail,omitempty"`
	Kind           Kind       `json:"kind"`
	Range          span.Range `json:"range"`
	SelectionRange span.Range `json:"selection_range"`
}

// Fold is a collapsible line range.
type Fold struct {
	StartLine uint   `json:"start_line"`
	EndLine   uint   `json:"end_line"`
	Kind      string `json:"kind,omitempty"`
}

// Highlight classifies one span of source.
type Highlight struct {
	Range span.Range `json:"range"`
	Class string     `json:"class"`
}

// capture is the part of a query capture the reducers look at.
type capture struct {
	match uint
	last  bool
	name  string
	rng   span.Range
	text  func() string
}

func fromQuery(captures iter.Seq[query.Capture]) iter.Seq[capture] {
	return func(yield func(capture) bool) {
		for c := range captures {
			if !yield(capture{
				match: c.MatchID,
				last:  c.Last(),
				name:  c.Name,
				rng:   c.Node.Range(),
				text:  c.Node.Text,
			}) {
				return
			}
		}
	}
}
