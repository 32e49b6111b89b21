package extract

import (
	"iter"

	"github.com/DeusData/syntaxcore/internal/query"
)

// DefaultMinLineSpan is the smallest fold worth reporting.
const DefaultMinLineSpan = 1

// Folds emits one fold per captured node spanning at least minLineSpan
// lines. Captures are not grouped by match.
func Folds(captures iter.Seq[query.Capture], minLineSpan uint) []Fold {
	return reduceFolds(fromQuery(captures), minLineSpan)
}

func reduceFolds(captures iter.Seq[capture], minLineSpan uint) []Fold {
	var out []Fold
	for c := range captures {
		if c.rng.Lines() < minLineSpan {
			continue
		}
		out = append(out, Fold{
			StartLine: c.rng.StartPoint.Row,
			EndLine:   c.rng.EndPoint.Row,
			Kind:      c.name,
		})
	}
	return out
}
