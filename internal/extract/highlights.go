package extract

import (
	"iter"

	"github.com/DeusData/syntaxcore/internal/query"
)

// Highlights classifies every captured node. classes maps capture names to
// highlight classes; a name missing from classes is used as the class.
func Highlights(captures iter.Seq[query.Capture], classes map[string]string) []Highlight {
	return reduceHighlights(fromQuery(captures), classes)
}

func reduceHighlights(captures iter.Seq[capture], classes map[string]string) []Highlight {
	var out []Highlight
	for c := range captures {
		class, ok := classes[c.name]
		if !ok {
			class = c.name
		}
		out = append(out, Highlight{Range: c.rng, Class: class})
	}
	return out
}
