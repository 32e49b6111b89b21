package engine

import (
	"iter"
	"log/slog"

	"github.com/DeusData/syntaxcore/internal/extract"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/queries"
	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/store"
)

// run executes the kind's pattern asset over tree and hands the capture
// stream to reduce.
func (e *Engine) run(tree *parser.Tree, k queries.Kind, reduce func(iter.Seq[query.Capture])) error {
	q, release, err := e.Query(tree.Language(), k)
	if err != nil {
		return err
	}
	defer release()
	var opts []query.Option
	if limit := e.cfg.EffectiveMatchLimit(); limit > 0 {
		opts = append(opts, query.WithMatchLimit(limit))
	}
	cur, err := q.Execute(tree.Root(), opts...)
	if err != nil {
		return err
	}
	defer cur.Close()
	reduce(cur.All())
	if cur.Truncated() {
		slog.Warn("engine.match_limit", "lang", tree.Language(), "kind", k)
	}
	return nil
}

// ExtractSymbols runs the outline patterns over tree.
func (e *Engine) ExtractSymbols(tree *parser.Tree) ([]extract.Symbol, error) {
	rules := e.cfg.Rules(tree.Language())
	var out []extract.Symbol
	err := e.run(tree, queries.Outline, func(caps iter.Seq[query.Capture]) {
		out = extract.Symbols(caps, rules)
	})
	return out, err
}

// ExtractFolds runs the folding patterns over tree.
func (e *Engine) ExtractFolds(tree *parser.Tree) ([]extract.Fold, error) {
	minSpan := e.cfg.EffectiveMinLineSpan()
	var out []extract.Fold
	err := e.run(tree, queries.Folds, func(caps iter.Seq[query.Capture]) {
		out = extract.Folds(caps, minSpan)
	})
	return out, err
}

// ExtractHighlights runs the highlight patterns over tree.
func (e *Engine) ExtractHighlights(tree *parser.Tree) ([]extract.Highlight, error) {
	classes := e.cfg.HighlightClasses
	var out []extract.Highlight
	err := e.run(tree, queries.Highlights, func(caps iter.Seq[query.Capture]) {
		out = extract.Highlights(caps, classes)
	})
	return out, err
}

// Outline parses source and extracts its symbols, consulting the cache.
func (e *Engine) Outline(l lang.Language, source []byte) ([]extract.Symbol, error) {
	return cached(e, l, queries.Outline, source, e.cfg.Rules(l), e.ExtractSymbols)
}

// Folds parses source and extracts its folding ranges, consulting the cache.
func (e *Engine) Folds(l lang.Language, source []byte) ([]extract.Fold, error) {
	return cached(e, l, queries.Folds, source, e.cfg.EffectiveMinLineSpan(), e.ExtractFolds)
}

// Highlights parses source and classifies its spans, consulting the cache.
func (e *Engine) Highlights(l lang.Language, source []byte) ([]extract.Highlight, error) {
	return cached(e, l, queries.Highlights, source, e.cfg.HighlightClasses, e.ExtractHighlights)
}

func cached[T any](e *Engine, l lang.Language, k queries.Kind, source []byte, params any, extractFn func(*parser.Tree) ([]T, error)) ([]T, error) {
	var key store.Key
	if e.cache != nil {
		q, release, err := e.Query(l, k)
		if err != nil {
			return nil, err
		}
		key, err = store.NewKey(l, string(k), source, q.Pattern(), params)
		release()
		if err != nil {
			return nil, err
		}
		var out []T
		ok, err := e.cache.Get(key, &out)
		if err != nil {
			slog.Warn("engine.cache.get", "lang", l, "kind", k, "err", err)
		} else if ok {
			return out, nil
		}
	}

	tree, err := e.Parse(l, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	out, err := extractFn(tree)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Put(key, out); err != nil {
			slog.Warn("engine.cache.put", "lang", l, "kind", k, "err", err)
		}
	}
	return out, nil
}
