// Package engine wires the grammar registry, parser pool, pattern store and
// result cache into the operations the binaries expose.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DeusData/syntaxcore/internal/config"
	"github.com/DeusData/syntaxcore/internal/edit"
	"github.com/DeusData/syntaxcore/internal/grammar"
	"github.com/DeusData/syntaxcore/internal/input"
	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/parser"
	"github.com/DeusData/syntaxcore/internal/queries"
	"github.com/DeusData/syntaxcore/internal/query"
	"github.com/DeusData/syntaxcore/internal/span"
	"github.com/DeusData/syntaxcore/internal/store"
)

// Options assembles an Engine. Zero fields get defaults: a registry of the
// built-in grammars, the embedded patterns and no result cache.
type Options struct {
	Config   *config.Config
	Registry *grammar.Registry
	Patterns queries.Store
	Cache    *store.Store
}

// Engine is safe for concurrent use.
type Engine struct {
	cfg      *config.Config
	registry *grammar.Registry
	pool     *parser.Pool
	patterns queries.Store
	cache    *store.Store

	mu       sync.Mutex
	compiled map[queries.Asset]*compiledQuery
}

// compiledQuery counts the executions using q. A retired query is closed
// once the count drops to zero.
type compiledQuery struct {
	q       *query.Query
	refs    int
	retired bool
}

// New creates an Engine from explicit parts.
func New(opts Options) *Engine {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Registry == nil {
		opts.Registry = grammar.NewRegistry()
	}
	if opts.Patterns == nil {
		opts.Patterns = queries.Embedded()
	}
	return &Engine{
		cfg:      opts.Config,
		registry: opts.Registry,
		pool: parser.NewPool(opts.Registry, parser.Options{
			Capacity:    opts.Config.EffectivePoolCapacity(),
			MaxInFlight: opts.Config.EffectiveMaxInFlight(),
		}),
		patterns: opts.Patterns,
		cache:    opts.Cache,
		compiled: make(map[queries.Asset]*compiledQuery),
	}
}

// Open builds an Engine from cfg for a project rooted at root: shared-library
// grammars are looked up under the project and cfg's grammar paths,
// configured pattern directories override the embedded ones, and results
// are cached at cfg's cache path. A cache that fails to open is skipped.
func Open(cfg *config.Config, root string) *Engine {
	paths := append(grammar.DefaultSearchPaths(root), cfg.GrammarPathList()...)
	registry := grammar.NewRegistry(grammar.WithDynamicLoader(grammar.NewDynamicLoader(paths)))

	var stores []queries.Store
	for _, dir := range cfg.QueryDirPaths() {
		stores = append(stores, queries.Dir(dir))
	}
	stores = append(stores, queries.Embedded())

	var cache *store.Store
	if p := cfg.CachePath(); p != "" {
		s, err := store.OpenPath(p)
		if err != nil {
			slog.Warn("engine.cache.open", "path", p, "err", err)
		} else {
			s.SetMaxEntries(cfg.EffectiveCacheMaxEntries())
			cache = s
		}
	}

	return New(Options{
		Config:   cfg,
		Registry: registry,
		Patterns: queries.Layered(stores...),
		Cache:    cache,
	})
}

// Close releases pooled parsers, compiled patterns and the cache.
func (e *Engine) Close() {
	e.pool.Close()
	e.mu.Lock()
	for _, c := range e.compiled {
		e.retire(c)
	}
	e.compiled = map[queries.Asset]*compiledQuery{}
	e.mu.Unlock()
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			slog.Warn("engine.cache.close", "err", err)
		}
	}
}

func (e *Engine) Config() *config.Config      { return e.cfg }
func (e *Engine) Registry() *grammar.Registry { return e.registry }
func (e *Engine) Pool() *parser.Pool          { return e.pool }
func (e *Engine) Patterns() queries.Store     { return e.patterns }
func (e *Engine) Cache() *store.Store         { return e.cache }

// Acquire leases a parser bound to l. The caller must Release it.
func (e *Engine) Acquire(l lang.Language) (*parser.Lease, error) {
	return e.pool.Acquire(l)
}

// Parse parses a contiguous buffer.
func (e *Engine) Parse(l lang.Language, source []byte) (*parser.Tree, error) {
	var tree *parser.Tree
	err := e.pool.Do(l, func(lease *parser.Lease) error {
		var err error
		tree, err = lease.Parse(source, nil)
		return err
	})
	return tree, err
}

// ParseChunked parses non-contiguous buffers as one document.
func (e *Engine) ParseChunked(l lang.Language, chunks [][]byte) (*parser.Tree, error) {
	var tree *parser.Tree
	err := e.pool.Do(l, func(lease *parser.Lease) error {
		var err error
		tree, err = lease.ParseChunked(chunks, nil)
		return err
	})
	return tree, err
}

// Edit reparses previous after d, given the post-edit text, and reports
// the ranges whose syntax changed. previous is left unchanged.
func (e *Engine) Edit(previous *parser.Tree, d edit.Descriptor, source input.Source) (*parser.Tree, []span.Range, error) {
	var (
		tree    *parser.Tree
		changed []span.Range
	)
	err := e.pool.Do(previous.Language(), func(lease *parser.Lease) error {
		var err error
		tree, changed, err = lease.Reparse(previous, d, source)
		return err
	})
	return tree, changed, err
}

// Compile compiles ad hoc pattern text. The caller owns the result.
func (e *Engine) Compile(l lang.Language, pattern string) (*query.Query, error) {
	return query.Compile(e.registry, l, pattern)
}

// Validate reports whether pattern compiles for l.
func (e *Engine) Validate(l lang.Language, pattern string) (bool, error) {
	return query.Validate(e.registry, l, pattern)
}

// Lint reports every failing top-level pattern in text.
func (e *Engine) Lint(l lang.Language, text string) ([]*query.Diagnostic, error) {
	return query.Lint(e.registry, l, text)
}

// Query returns the compiled pattern asset for l and kind and a release
// func the caller must call when done with it. A query replaced by Reload
// stays valid until its last user releases it.
func (e *Engine) Query(l lang.Language, k queries.Kind) (*query.Query, func(), error) {
	a := queries.Asset{Language: l, Kind: k}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.compiled[a]
	if !ok {
		text, err := e.patterns.Pattern(l, k)
		if err != nil {
			return nil, nil, err
		}
		q, err := query.Compile(e.registry, l, text)
		if err != nil {
			return nil, nil, err
		}
		c = &compiledQuery{q: q}
		e.compiled[a] = c
	}
	c.refs++
	var once sync.Once
	return c.q, func() { once.Do(func() { e.release(c) }) }, nil
}

func (e *Engine) release(c *compiledQuery) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c.refs--
	if c.retired && c.refs == 0 {
		c.q.Close()
	}
}

// retire must be called with e.mu held.
func (e *Engine) retire(c *compiledQuery) {
	c.retired = true
	if c.refs == 0 {
		c.q.Close()
	}
}

// Reload forgets compiled patterns and cached results for assets.
func (e *Engine) Reload(assets []queries.Asset) {
	e.mu.Lock()
	for _, a := range assets {
		if c, ok := e.compiled[a]; ok {
			delete(e.compiled, a)
			e.retire(c)
		}
	}
	e.mu.Unlock()
	if e.cache == nil {
		return
	}
	for _, a := range assets {
		if err := e.cache.Invalidate(a.Language, string(a.Kind)); err != nil {
			slog.Warn("engine.reload.invalidate", "asset", a.Path(), "err", err)
		}
	}
}

// WatchPatterns reloads edited pattern files until ctx is cancelled. It
// returns at once when hot reload is off or there is nothing to watch.
func (e *Engine) WatchPatterns(ctx context.Context) {
	dirs := e.cfg.QueryDirPaths()
	if !e.cfg.EffectiveWatchQueries() || len(dirs) == 0 {
		return
	}
	queries.Watch(ctx, dirs, e.Reload)
}

// AssetDiagnostics is the lint result for one pattern file.
type AssetDiagnostics struct {
	Asset       queries.Asset       `json:"asset"`
	Diagnostics []*query.Diagnostic `json:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// LintPatterns lints every pattern asset the engine can see. Only assets
// with problems are returned.
func (e *Engine) LintPatterns() ([]AssetDiagnostics, error) {
	assets, err := e.patterns.List()
	if err != nil {
		return nil, err
	}
	var out []AssetDiagnostics
	for _, a := range assets {
		text, err := e.patterns.Pattern(a.Language, a.Kind)
		if err != nil {
			out = append(out, AssetDiagnostics{Asset: a, Error: err.Error()})
			continue
		}
		diags, err := e.Lint(a.Language, text)
		if err != nil {
			out = append(out, AssetDiagnostics{Asset: a, Error: err.Error()})
			continue
		}
		if len(diags) > 0 {
			out = append(out, AssetDiagnostics{Asset: a, Diagnostics: diags})
		}
	}
	return out, nil
}
